package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-blog-api/pkg/apierror"
)

func TestCategoryService(t *testing.T) {
	t.Parallel()

	svc := NewCategoryService(newMemCategories(), &recordingBus{})
	ctx := context.Background()

	_, err := svc.List(ctx)
	assert.True(t, apierror.HasCode(err, apierror.CodeNotFound), "empty catalogue")

	tech, err := svc.Create(ctx, "u-1", "  tECHNOLOGY ")
	require.NoError(t, err)
	assert.Equal(t, "Technology", tech.Name)
	assert.Equal(t, "technology", tech.Slug)

	_, err = svc.Create(ctx, "u-1", "technology")
	assert.True(t, apierror.HasCode(err, apierror.CodeConflict))

	_, err = svc.Create(ctx, "u-1", "   ")
	assert.True(t, apierror.HasCode(err, apierror.CodeValidation))

	_, err = svc.Create(ctx, "u-1", "art")
	require.NoError(t, err)

	categories, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Art", categories[0].Name)
	assert.Equal(t, "Technology", categories[1].Name)
}
