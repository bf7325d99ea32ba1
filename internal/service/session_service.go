package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"go-blog-api/internal/event"
	"go-blog-api/internal/model"
	"go-blog-api/internal/storage"
	"go-blog-api/internal/util"
	"go-blog-api/pkg/apierror"
)

const minPasswordLength = 8

type SessionConfig struct {
	// RevokeOnPasswordChange ends the current session when the password changes.
	RevokeOnPasswordChange bool
	MaxImageDimension      int
}

type RegisterInput struct {
	FirstName      string
	LastName       string
	Username       string
	Email          string
	Password       string
	DateOfBirth    string
	ProfilePicture *storage.UploadInput
}

// SessionService owns registration and the token lifecycle: login, refresh
// rotation, logout and password changes.
type SessionService struct {
	users    UserStore
	sessions SessionStore
	tokens   *TokenIssuer
	hasher   *PasswordHasher
	media    storage.MediaStore
	bus      event.Bus
	cfg      SessionConfig
}

func NewSessionService(users UserStore, sessions SessionStore, tokens *TokenIssuer, hasher *PasswordHasher, media storage.MediaStore, bus event.Bus, cfg SessionConfig) *SessionService {
	if bus == nil {
		bus = event.Nop{}
	}
	return &SessionService{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
		hasher:   hasher,
		media:    media,
		bus:      bus,
		cfg:      cfg,
	}
}

func (s *SessionService) Register(ctx context.Context, in RegisterInput) (model.PublicUser, error) {
	user, err := s.normalizeRegistration(in)
	if err != nil {
		return model.PublicUser{}, err
	}

	exists, err := s.users.ExistsByUsernameOrEmail(ctx, user.Username, user.Email)
	if err != nil {
		return model.PublicUser{}, err
	}
	if exists {
		return model.PublicUser{}, duplicateUser(user.Username + " / " + user.Email)
	}

	if in.ProfilePicture == nil || in.ProfilePicture.Body == nil {
		return model.PublicUser{}, missingAsset("profilePicture")
	}

	user.PasswordHash, err = s.hasher.Hash(in.Password)
	if err != nil {
		return model.PublicUser{}, err
	}

	asset, err := uploadImage(ctx, s.media, *in.ProfilePicture, "profiles", s.cfg.MaxImageDimension)
	if err != nil {
		return model.PublicUser{}, err
	}
	user.ProfilePictureURL = asset.URL
	user.ProfilePictureAssetID = asset.AssetID

	if err := s.users.Create(ctx, user); err != nil {
		discardAsset(ctx, s.media, asset.AssetID, "register")
		if errors.Is(err, model.ErrUserAlreadyExists) {
			return model.PublicUser{}, duplicateUser(user.Username + " / " + user.Email)
		}
		return model.PublicUser{}, err
	}

	s.publish(event.TypeUserRegistered, user.ID, "users/"+user.ID)
	return user.Public(), nil
}

// normalizeRegistration trims and lower-cases identifiers and validates every
// field before anything is persisted.
func (s *SessionService) normalizeRegistration(in RegisterInput) (model.User, error) {
	user := model.User{
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Username:  util.NormalizeKey(in.Username),
		Email:     util.NormalizeKey(in.Email),
	}

	missing := make([]string, 0, 6)
	for _, field := range []struct{ name, value string }{
		{"firstName", user.FirstName},
		{"lastName", user.LastName},
		{"username", user.Username},
		{"email", user.Email},
		{"password", strings.TrimSpace(in.Password)},
		{"dateOfBirth", strings.TrimSpace(in.DateOfBirth)},
	} {
		if field.value == "" {
			missing = append(missing, field.name)
		}
	}
	if len(missing) > 0 {
		return model.User{}, validationError("all fields are required", strings.Join(missing, ","))
	}

	if len(in.Password) < minPasswordLength {
		return model.User{}, validationError("password is too short", fmt.Sprintf("min %d characters", minPasswordLength))
	}
	if !strings.Contains(user.Email, "@") {
		return model.User{}, validationError("email is invalid", user.Email)
	}

	dob, err := time.Parse(model.DateLayout, strings.TrimSpace(in.DateOfBirth))
	if err != nil {
		return model.User{}, validationError("dateOfBirth must be YYYY-MM-DD", in.DateOfBirth)
	}

	now := time.Now().UTC()
	if !dob.Before(now) {
		return model.User{}, validationError("dateOfBirth must be in the past", in.DateOfBirth)
	}

	user.ID = uuid.NewString()
	user.DateOfBirth = dob
	user.CreatedAt = now
	user.UpdatedAt = now
	return user, nil
}

func (s *SessionService) Login(ctx context.Context, identifier string, password string) (model.LoginResult, error) {
	if strings.TrimSpace(identifier) == "" || password == "" {
		return model.LoginResult{}, validationError("username or email and password are required", "")
	}

	user, err := s.users.FindByIdentifier(ctx, identifier)
	if errors.Is(err, model.ErrUserNotFound) {
		s.hasher.Burn(password)
		return model.LoginResult{}, invalidCredentials()
	}
	if err != nil {
		return model.LoginResult{}, err
	}

	if !s.hasher.Matches(user.PasswordHash, password) {
		return model.LoginResult{}, invalidCredentials()
	}

	pair, err := s.tokens.IssuePair(user.Identity())
	if err != nil {
		return model.LoginResult{}, err
	}

	if err := s.sessions.Store(ctx, user.ID, pair.RefreshToken); err != nil {
		return model.LoginResult{}, err
	}
	user.IsActive = true

	s.publish(event.TypeUserLoggedIn, user.ID, "users/"+user.ID)
	return model.LoginResult{TokenPair: pair, User: user.Public()}, nil
}

// Refresh accepts a refresh token exactly once and answers with a new pair.
func (s *SessionService) Refresh(ctx context.Context, refreshToken string) (model.TokenPair, error) {
	claims, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return model.TokenPair{}, err
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if errors.Is(err, model.ErrUserNotFound) {
		return model.TokenPair{}, invalidToken("user no longer exists")
	}
	if err != nil {
		return model.TokenPair{}, err
	}

	if user.RefreshToken == "" || user.RefreshToken != refreshToken {
		return model.TokenPair{}, tokenMismatch()
	}

	pair, err := s.tokens.IssuePair(user.Identity())
	if err != nil {
		return model.TokenPair{}, err
	}

	if err := s.sessions.Rotate(ctx, user.ID, refreshToken, pair.RefreshToken); err != nil {
		if errors.Is(err, model.ErrRefreshTokenMismatch) {
			return model.TokenPair{}, tokenMismatch()
		}
		return model.TokenPair{}, err
	}

	s.publish(event.TypeSessionRefreshed, user.ID, "users/"+user.ID)
	return pair, nil
}

// Logout clears the stored refresh token. Repeated calls succeed.
func (s *SessionService) Logout(ctx context.Context, userID string) error {
	if err := s.sessions.Revoke(ctx, userID); err != nil && !errors.Is(err, model.ErrUserNotFound) {
		return err
	}

	s.publish(event.TypeUserLoggedOut, userID, "users/"+userID)
	return nil
}

func (s *SessionService) ChangePassword(ctx context.Context, userID string, oldPassword string, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return validationError("oldPassword and newPassword are required", "")
	}
	if len(newPassword) < minPasswordLength {
		return validationError("password is too short", fmt.Sprintf("min %d characters", minPasswordLength))
	}

	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, model.ErrUserNotFound) {
		return apierror.Unauthenticated("user no longer exists")
	}
	if err != nil {
		return err
	}

	if !s.hasher.Matches(user.PasswordHash, oldPassword) {
		return invalidCredentials()
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		return err
	}

	if s.cfg.RevokeOnPasswordChange {
		if err := s.sessions.Revoke(ctx, userID); err != nil {
			return err
		}
	}

	s.publish(event.TypePasswordChanged, userID, "users/"+userID)
	return nil
}

func (s *SessionService) publish(eventType event.Type, actorID string, resource string) {
	s.bus.Publish(event.Event{Type: eventType, ActorID: actorID, Resource: resource})
}

// uploadImage normalizes and stores an image under folder.
func uploadImage(ctx context.Context, media storage.MediaStore, input storage.UploadInput, folder string, maxDimension int) (storage.Asset, error) {
	input.Folder = folder
	normalized, err := storage.NormalizeImage(input, maxDimension)
	if err != nil {
		return storage.Asset{}, err
	}

	asset, err := media.Upload(ctx, normalized)
	if err != nil {
		return storage.Asset{}, fmt.Errorf("upload image: %w", err)
	}
	return asset, nil
}

// discardAsset deletes an asset outside the request lifetime and only logs
// failures; nothing is retried.
func discardAsset(ctx context.Context, media storage.MediaStore, assetID string, operation string) {
	if assetID == "" {
		return
	}
	if err := media.Delete(context.WithoutCancel(ctx), assetID); err != nil {
		slog.Warn("media asset left orphaned", "operation", operation, "asset_id", assetID, "error", err)
	}
}
