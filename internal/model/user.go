package model

import "time"

// User is the persisted credential record. It carries no behavior; hashing,
// normalization and token handling live in the service layer.
type User struct {
	ID                    string
	FirstName             string
	LastName              string
	Username              string
	Email                 string
	PasswordHash          string
	DateOfBirth           time.Time
	ProfilePictureURL     string
	ProfilePictureAssetID string
	IsActive              bool
	RefreshToken          string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// Sanitized returns a copy without the password hash and refresh token.
func (u User) Sanitized() User {
	u.PasswordHash = ""
	u.RefreshToken = ""
	return u
}

// Public converts the record into its API representation.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:                u.ID,
		FirstName:         u.FirstName,
		LastName:          u.LastName,
		Username:          u.Username,
		Email:             u.Email,
		DateOfBirth:       u.DateOfBirth.Format(DateLayout),
		ProfilePictureURL: u.ProfilePictureURL,
		IsActive:          u.IsActive,
		CreatedAt:         u.CreatedAt,
		UpdatedAt:         u.UpdatedAt,
	}
}

// Identity is the subset of a user embedded in access tokens.
type Identity struct {
	ID       string
	Username string
	Email    string
}

func (u User) Identity() Identity {
	return Identity{ID: u.ID, Username: u.Username, Email: u.Email}
}

const DateLayout = "2006-01-02"

type PublicUser struct {
	ID                string    `json:"id"`
	FirstName         string    `json:"firstName"`
	LastName          string    `json:"lastName"`
	Username          string    `json:"username"`
	Email             string    `json:"email"`
	DateOfBirth       string    `json:"dateOfBirth"`
	ProfilePictureURL string    `json:"profilePicture"`
	IsActive          bool      `json:"isActive"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

type UserSummary struct {
	ID                string `json:"id"`
	FirstName         string `json:"firstName"`
	LastName          string `json:"lastName"`
	Username          string `json:"username"`
	ProfilePictureURL string `json:"profilePicture"`
}

type PublicProfile struct {
	UserSummary
	FollowersCount  int  `json:"followersCount"`
	FollowingsCount int  `json:"followingsCount"`
	IsFollowing     bool `json:"isFollowing"`
}

type AccessClaims struct {
	UserID   string
	Username string
	Email    string
	TokenID  string
}

type RefreshClaims struct {
	UserID  string
	TokenID string
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type LoginResult struct {
	TokenPair
	User PublicUser `json:"user"`
}
