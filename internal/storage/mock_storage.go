package storage

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockMediaStore is a testify mock of MediaStore for service and handler tests.
type MockMediaStore struct {
	mock.Mock
}

func (m *MockMediaStore) Upload(ctx context.Context, input UploadInput) (Asset, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(Asset), args.Error(1)
}

func (m *MockMediaStore) Delete(ctx context.Context, assetID string) error {
	args := m.Called(ctx, assetID)
	return args.Error(0)
}
