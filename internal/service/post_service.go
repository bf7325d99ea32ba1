package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"go-blog-api/internal/event"
	"go-blog-api/internal/model"
	"go-blog-api/internal/storage"
	"go-blog-api/internal/util"
	"go-blog-api/pkg/apierror"
)

const maxSlugAttempts = 5

type CreatePostInput struct {
	Title         string
	Content       string
	CategoryID    string
	Tags          []string
	FeaturedImage *storage.UploadInput
}

type PostService struct {
	posts        PostStore
	categories   CategoryStore
	media        storage.MediaStore
	bus          event.Bus
	maxDimension int
}

func NewPostService(posts PostStore, categories CategoryStore, media storage.MediaStore, bus event.Bus, maxDimension int) *PostService {
	if bus == nil {
		bus = event.Nop{}
	}
	return &PostService{posts: posts, categories: categories, media: media, bus: bus, maxDimension: maxDimension}
}

func (s *PostService) Create(ctx context.Context, authorID string, in CreatePostInput) (model.Post, error) {
	title := strings.TrimSpace(in.Title)
	content := strings.TrimSpace(in.Content)
	if title == "" || content == "" {
		return model.Post{}, validationError("title and content are required", "")
	}

	categoryID := strings.TrimSpace(in.CategoryID)
	if categoryID != "" {
		if _, err := s.categories.FindByID(ctx, categoryID); err != nil {
			if errors.Is(err, model.ErrCategoryNotFound) {
				return model.Post{}, apierror.NotFound("category not found", categoryID)
			}
			return model.Post{}, err
		}
	}

	slug, err := s.uniqueSlug(ctx, title)
	if err != nil {
		return model.Post{}, err
	}

	now := time.Now().UTC()
	post := model.Post{
		ID:          uuid.NewString(),
		Title:       title,
		Slug:        slug,
		Content:     content,
		Tags:        normalizeTags(in.Tags),
		CategoryID:  categoryID,
		AuthorID:    authorID,
		IsPublic:    true,
		PublishedAt: &now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if in.FeaturedImage != nil && in.FeaturedImage.Body != nil {
		asset, err := uploadImage(ctx, s.media, *in.FeaturedImage, "posts", s.maxDimension)
		if err != nil {
			return model.Post{}, err
		}
		post.FeaturedImageURL = asset.URL
		post.FeaturedImageAssetID = asset.AssetID
	}

	err = s.posts.Create(ctx, post)
	if errors.Is(err, model.ErrSlugTaken) {
		// Lost a race for the slug; a random suffix cannot collide again in practice.
		post.Slug = slug + "-" + uuid.NewString()[:8]
		err = s.posts.Create(ctx, post)
	}
	if err != nil {
		discardAsset(ctx, s.media, post.FeaturedImageAssetID, "create post")
		return model.Post{}, err
	}

	s.bus.Publish(event.Event{Type: event.TypePostCreated, ActorID: authorID, Resource: "posts/" + post.ID})
	return post, nil
}

func (s *PostService) Edit(ctx context.Context, authorID string, postID string, content string, categoryID string) (model.Post, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return model.Post{}, validationError("content is required", "")
	}

	if _, err := s.owned(ctx, authorID, postID); err != nil {
		return model.Post{}, err
	}

	categoryID = strings.TrimSpace(categoryID)
	if categoryID != "" {
		if _, err := s.categories.FindByID(ctx, categoryID); err != nil {
			if errors.Is(err, model.ErrCategoryNotFound) {
				return model.Post{}, validationError("invalid category", categoryID)
			}
			return model.Post{}, err
		}
	}

	post, err := s.posts.UpdateContent(ctx, postID, content, categoryID)
	if err != nil {
		return model.Post{}, mapPostErr(err, postID)
	}

	s.bus.Publish(event.Event{Type: event.TypePostUpdated, ActorID: authorID, Resource: "posts/" + postID})
	return post, nil
}

func (s *PostService) ToggleVisibility(ctx context.Context, authorID string, postID string) (model.Post, error) {
	if _, err := s.owned(ctx, authorID, postID); err != nil {
		return model.Post{}, err
	}

	post, err := s.posts.ToggleVisibility(ctx, postID)
	if err != nil {
		return model.Post{}, mapPostErr(err, postID)
	}

	s.bus.Publish(event.Event{Type: event.TypePostVisibilityToggled, ActorID: authorID, Resource: "posts/" + postID})
	return post, nil
}

func (s *PostService) Delete(ctx context.Context, authorID string, postID string) error {
	post, err := s.owned(ctx, authorID, postID)
	if err != nil {
		return err
	}

	discardAsset(ctx, s.media, post.FeaturedImageAssetID, "delete post")

	if err := s.posts.Delete(ctx, postID); err != nil {
		return mapPostErr(err, postID)
	}

	s.bus.Publish(event.Event{Type: event.TypePostDeleted, ActorID: authorID, Resource: "posts/" + postID})
	return nil
}

// Get hides private posts from everyone but their author.
func (s *PostService) Get(ctx context.Context, viewerID string, postID string) (model.Post, error) {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return model.Post{}, mapPostErr(err, postID)
	}
	if !post.IsPublic && post.AuthorID != viewerID {
		return model.Post{}, apierror.NotFound("post not found", postID)
	}
	return post, nil
}

func (s *PostService) List(ctx context.Context, filter model.PostFilter, page model.Page) ([]model.Post, *model.Meta, error) {
	posts, total, err := s.posts.ListPublic(ctx, filter, page)
	if err != nil {
		return nil, nil, err
	}
	return posts, page.Meta(total), nil
}

func (s *PostService) owned(ctx context.Context, authorID string, postID string) (model.Post, error) {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return model.Post{}, mapPostErr(err, postID)
	}
	if post.AuthorID != authorID {
		return model.Post{}, fmt.Errorf("post %s owned by another user: %w", postID, model.ErrForbidden)
	}
	return post, nil
}

func (s *PostService) uniqueSlug(ctx context.Context, title string) (string, error) {
	base := util.Slugify(title)
	if base == "" {
		base = "post"
	}

	candidate := base
	for attempt := 2; attempt <= maxSlugAttempts+1; attempt++ {
		taken, err := s.posts.SlugExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, attempt)
	}

	return base + "-" + uuid.NewString()[:8], nil
}

func normalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, raw := range tags {
		for _, part := range strings.Split(raw, ",") {
			tag := strings.ToLower(strings.TrimSpace(part))
			if tag == "" {
				continue
			}
			if _, dup := seen[tag]; dup {
				continue
			}
			seen[tag] = struct{}{}
			out = append(out, tag)
		}
	}
	return out
}

func mapPostErr(err error, postID string) error {
	if errors.Is(err, model.ErrPostNotFound) {
		return apierror.NotFound("post not found", postID)
	}
	return err
}
