package event

import "time"

type Type string

const (
	TypeUserRegistered        Type = "user.registered"
	TypeUserLoggedIn          Type = "user.logged_in"
	TypeUserLoggedOut         Type = "user.logged_out"
	TypeSessionRefreshed      Type = "session.refreshed"
	TypePasswordChanged       Type = "user.password_changed"
	TypeProfileUpdated        Type = "user.profile_updated"
	TypeUserDeleted           Type = "user.deleted"
	TypeUserFollowed          Type = "user.followed"
	TypeUserUnfollowed        Type = "user.unfollowed"
	TypeCategoryCreated       Type = "category.created"
	TypePostCreated           Type = "post.created"
	TypePostUpdated           Type = "post.updated"
	TypePostVisibilityToggled Type = "post.visibility_toggled"
	TypePostDeleted           Type = "post.deleted"
)

type Event struct {
	ID        string    `json:"id"`
	Type      Type      `json:"type"`
	ActorID   string    `json:"actorId,omitempty"` // Who triggered the event
	Resource  string    `json:"resource,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type Bus interface {
	Publish(e Event)
	Subscribe() (<-chan Event, func()) // Returns channel and unsubscribe function
}
