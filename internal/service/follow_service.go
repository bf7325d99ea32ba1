package service

import (
	"context"
	"strings"

	"go-blog-api/internal/event"
	"go-blog-api/internal/model"
)

type FollowService struct {
	users   UserStore
	follows FollowStore
	bus     event.Bus
}

func NewFollowService(users UserStore, follows FollowStore, bus event.Bus) *FollowService {
	if bus == nil {
		bus = event.Nop{}
	}
	return &FollowService{users: users, follows: follows, bus: bus}
}

func (s *FollowService) Follow(ctx context.Context, followerID string, username string) error {
	target, err := s.resolve(ctx, username)
	if err != nil {
		return err
	}
	if target.ID == followerID {
		return validationError("you cannot follow yourself", "")
	}

	if err := s.follows.Follow(ctx, followerID, target.ID); err != nil {
		return err
	}

	s.bus.Publish(event.Event{Type: event.TypeUserFollowed, ActorID: followerID, Resource: "users/" + target.ID})
	return nil
}

func (s *FollowService) Unfollow(ctx context.Context, followerID string, username string) error {
	target, err := s.resolve(ctx, username)
	if err != nil {
		return err
	}

	if err := s.follows.Unfollow(ctx, followerID, target.ID); err != nil {
		return err
	}

	s.bus.Publish(event.Event{Type: event.TypeUserUnfollowed, ActorID: followerID, Resource: "users/" + target.ID})
	return nil
}

func (s *FollowService) Followers(ctx context.Context, username string, page model.Page) ([]model.UserSummary, *model.Meta, error) {
	target, err := s.resolve(ctx, username)
	if err != nil {
		return nil, nil, err
	}

	users, total, err := s.follows.Followers(ctx, target.ID, page)
	if err != nil {
		return nil, nil, err
	}
	return users, page.Meta(total), nil
}

func (s *FollowService) Followings(ctx context.Context, username string, page model.Page) ([]model.UserSummary, *model.Meta, error) {
	target, err := s.resolve(ctx, username)
	if err != nil {
		return nil, nil, err
	}

	users, total, err := s.follows.Followings(ctx, target.ID, page)
	if err != nil {
		return nil, nil, err
	}
	return users, page.Meta(total), nil
}

func (s *FollowService) resolve(ctx context.Context, username string) (model.User, error) {
	if strings.TrimSpace(username) == "" {
		return model.User{}, validationError("username is required", "")
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return model.User{}, mapUserErr(err)
	}
	return user, nil
}
