package service

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"go-blog-api/internal/event"
	"go-blog-api/internal/model"
	"go-blog-api/internal/util"
	"go-blog-api/pkg/apierror"
)

type CategoryService struct {
	categories CategoryStore
	bus        event.Bus
}

func NewCategoryService(categories CategoryStore, bus event.Bus) *CategoryService {
	if bus == nil {
		bus = event.Nop{}
	}
	return &CategoryService{categories: categories, bus: bus}
}

// Create stores a category under its capitalized name, e.g. "tECH" becomes "Tech".
func (s *CategoryService) Create(ctx context.Context, actorID string, name string) (model.Category, error) {
	normalized := util.Capitalize(name)
	if normalized == "" {
		return model.Category{}, validationError("categoryName is required", "")
	}

	exists, err := s.categories.ExistsByName(ctx, normalized)
	if err != nil {
		return model.Category{}, err
	}
	if exists {
		return model.Category{}, categoryConflict(normalized)
	}

	now := time.Now().UTC()
	category := model.Category{
		ID:        uuid.NewString(),
		Name:      normalized,
		Slug:      util.Slugify(normalized),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if category.Slug == "" {
		category.Slug = category.ID
	}

	if err := s.categories.Create(ctx, category); err != nil {
		if errors.Is(err, model.ErrCategoryAlreadyExists) {
			return model.Category{}, categoryConflict(normalized)
		}
		return model.Category{}, err
	}

	s.bus.Publish(event.Event{Type: event.TypeCategoryCreated, ActorID: actorID, Resource: "categories/" + category.ID})
	return category, nil
}

// List returns every category sorted by name; an empty catalogue is NOT_FOUND.
func (s *CategoryService) List(ctx context.Context) ([]model.Category, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(categories) == 0 {
		return nil, apierror.NotFound("no categories found", "")
	}
	return categories, nil
}

func categoryConflict(name string) *apierror.APIError {
	return apierror.New(apierror.CodeConflict, "category already exists", name, http.StatusConflict)
}
