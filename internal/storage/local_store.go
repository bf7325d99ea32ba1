package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go-blog-api/internal/model"
)

// LocalStore keeps media on the local filesystem; the router serves the root
// directory under the public base URL.
type LocalStore struct {
	validator *PathValidator
	baseURL   string
}

func NewLocalStore(root string, publicBaseURL string) (*LocalStore, error) {
	validator, err := NewPathValidator(root)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(validator.RootAbs(), 0o755); err != nil {
		return nil, fmt.Errorf("create media root: %w", err)
	}

	return &LocalStore{validator: validator, baseURL: publicBaseURL}, nil
}

func (s *LocalStore) Root() string {
	return s.validator.RootAbs()
}

func (s *LocalStore) Upload(ctx context.Context, input UploadInput) (Asset, error) {
	if err := ctx.Err(); err != nil {
		return Asset{}, err
	}

	key := objectKey(input.Folder, input.Name, time.Now().UTC())
	resolved, err := s.validator.ResolveKey(key)
	if err != nil {
		return Asset{}, err
	}

	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return Asset{}, fmt.Errorf("create media directory: %w", err)
	}

	file, err := os.OpenFile(resolved, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return Asset{}, fmt.Errorf("create media file: %w", err)
	}

	_, copyErr := io.Copy(file, input.Body)
	closeErr := file.Close()
	if copyErr != nil || closeErr != nil {
		_ = os.Remove(resolved)
		return Asset{}, fmt.Errorf("write media file: %w", errors.Join(copyErr, closeErr))
	}

	return Asset{URL: joinURL(s.baseURL, key), AssetID: key}, nil
}

// Delete removes the object. Deleting a missing object is not an error.
func (s *LocalStore) Delete(ctx context.Context, assetID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(assetID) == "" {
		return model.ErrAssetNotFound
	}

	resolved, err := s.validator.ResolveKey(assetID)
	if err != nil {
		return err
	}

	if err := os.Remove(resolved); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete media file: %w", err)
	}

	return nil
}
