package service

import (
	"context"

	"go-blog-api/internal/model"
)

// UserStore is implemented by repository.UserRepository.
type UserStore interface {
	Create(ctx context.Context, u model.User) error
	FindByID(ctx context.Context, id string) (model.User, error)
	FindByIdentifier(ctx context.Context, identifier string) (model.User, error)
	FindByUsername(ctx context.Context, username string) (model.User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username string, email string) (bool, error)
	UpdatePassword(ctx context.Context, userID string, passwordHash string) error
	UpdateDetails(ctx context.Context, userID string, firstName string, lastName string, username string) (model.User, error)
	UpdateEmail(ctx context.Context, userID string, email string) (model.User, error)
	UpdateProfilePicture(ctx context.Context, userID string, url string, assetID string) error
	Delete(ctx context.Context, id string) error
}

// SessionStore is implemented by repository.TokenRepository.
type SessionStore interface {
	Store(ctx context.Context, userID string, token string) error
	Rotate(ctx context.Context, userID string, current string, next string) error
	Revoke(ctx context.Context, userID string) error
}

type FollowStore interface {
	Follow(ctx context.Context, followerID string, followingID string) error
	Unfollow(ctx context.Context, followerID string, followingID string) error
	PublicProfile(ctx context.Context, username string, viewerID string) (model.PublicProfile, error)
	Followers(ctx context.Context, userID string, page model.Page) ([]model.UserSummary, int, error)
	Followings(ctx context.Context, userID string, page model.Page) ([]model.UserSummary, int, error)
}

type CategoryStore interface {
	Create(ctx context.Context, c model.Category) error
	FindByID(ctx context.Context, id string) (model.Category, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	List(ctx context.Context) ([]model.Category, error)
}

type PostStore interface {
	Create(ctx context.Context, p model.Post) error
	FindByID(ctx context.Context, id string) (model.Post, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	UpdateContent(ctx context.Context, id string, content string, categoryID string) (model.Post, error)
	ToggleVisibility(ctx context.Context, id string) (model.Post, error)
	Delete(ctx context.Context, id string) error
	ListPublic(ctx context.Context, filter model.PostFilter, page model.Page) ([]model.Post, int, error)
}

type AuditStore interface {
	Insert(ctx context.Context, entry model.AuditEntry) error
	ListByActor(ctx context.Context, actorID string, page model.Page) ([]model.AuditEntry, int, error)
}
