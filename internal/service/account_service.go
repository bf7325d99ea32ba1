package service

import (
	"context"
	"errors"
	"strings"

	"go-blog-api/internal/event"
	"go-blog-api/internal/model"
	"go-blog-api/internal/storage"
	"go-blog-api/internal/util"
	"go-blog-api/pkg/apierror"
)

type AccountService struct {
	users        UserStore
	profiles     FollowStore
	media        storage.MediaStore
	bus          event.Bus
	maxDimension int
}

func NewAccountService(users UserStore, profiles FollowStore, media storage.MediaStore, bus event.Bus, maxDimension int) *AccountService {
	if bus == nil {
		bus = event.Nop{}
	}
	return &AccountService{users: users, profiles: profiles, media: media, bus: bus, maxDimension: maxDimension}
}

func (s *AccountService) CurrentUser(ctx context.Context, userID string) (model.PublicUser, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return model.PublicUser{}, mapUserErr(err)
	}
	return user.Public(), nil
}

func (s *AccountService) UpdateDetails(ctx context.Context, userID string, req model.UpdateAccountRequest) (model.PublicUser, error) {
	firstName := strings.TrimSpace(req.FirstName)
	lastName := strings.TrimSpace(req.LastName)
	username := util.NormalizeKey(req.Username)
	if firstName == "" && lastName == "" && username == "" {
		return model.PublicUser{}, validationError("at least one of firstName, lastName or username is required", "")
	}

	user, err := s.users.UpdateDetails(ctx, userID, firstName, lastName, username)
	if err != nil {
		return model.PublicUser{}, mapUserErr(err)
	}

	s.bus.Publish(event.Event{Type: event.TypeProfileUpdated, ActorID: userID, Resource: "users/" + userID})
	return user.Public(), nil
}

func (s *AccountService) UpdateEmail(ctx context.Context, userID string, email string) (model.PublicUser, error) {
	email = util.NormalizeKey(email)
	if email == "" {
		return model.PublicUser{}, validationError("email is required", "")
	}
	if !strings.Contains(email, "@") {
		return model.PublicUser{}, validationError("email is invalid", email)
	}

	user, err := s.users.UpdateEmail(ctx, userID, email)
	if err != nil {
		return model.PublicUser{}, mapUserErr(err)
	}

	s.bus.Publish(event.Event{Type: event.TypeProfileUpdated, ActorID: userID, Resource: "users/" + userID})
	return user.Public(), nil
}

// UpdateProfilePicture stores the new image first and removes the previous one
// only after the record points at the new asset.
func (s *AccountService) UpdateProfilePicture(ctx context.Context, userID string, upload *storage.UploadInput) (model.PublicUser, error) {
	if upload == nil || upload.Body == nil {
		return model.PublicUser{}, missingAsset("profilePicture")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return model.PublicUser{}, mapUserErr(err)
	}

	asset, err := uploadImage(ctx, s.media, *upload, "profiles", s.maxDimension)
	if err != nil {
		return model.PublicUser{}, err
	}

	if err := s.users.UpdateProfilePicture(ctx, userID, asset.URL, asset.AssetID); err != nil {
		discardAsset(ctx, s.media, asset.AssetID, "update profile picture")
		return model.PublicUser{}, mapUserErr(err)
	}

	discardAsset(ctx, s.media, user.ProfilePictureAssetID, "replace profile picture")

	user.ProfilePictureURL = asset.URL
	user.ProfilePictureAssetID = asset.AssetID
	s.bus.Publish(event.Event{Type: event.TypeProfileUpdated, ActorID: userID, Resource: "users/" + userID})
	return user.Public(), nil
}

// DeleteAccount removes the user (posts and follow edges cascade) and then the
// profile image.
func (s *AccountService) DeleteAccount(ctx context.Context, userID string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return mapUserErr(err)
	}

	if err := s.users.Delete(ctx, userID); err != nil {
		return mapUserErr(err)
	}

	discardAsset(ctx, s.media, user.ProfilePictureAssetID, "delete account")
	s.bus.Publish(event.Event{Type: event.TypeUserDeleted, ActorID: userID, Resource: "users/" + userID})
	return nil
}

func (s *AccountService) PublicProfile(ctx context.Context, viewerID string, username string) (model.PublicProfile, error) {
	if strings.TrimSpace(username) == "" {
		return model.PublicProfile{}, validationError("username is required", "")
	}

	profile, err := s.profiles.PublicProfile(ctx, username, viewerID)
	if err != nil {
		return model.PublicProfile{}, mapUserErr(err)
	}
	return profile, nil
}

func mapUserErr(err error) error {
	switch {
	case errors.Is(err, model.ErrUserNotFound):
		return apierror.NotFound("user not found", "")
	case errors.Is(err, model.ErrUserAlreadyExists):
		return duplicateUser("")
	default:
		return err
	}
}
