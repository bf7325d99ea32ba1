package model

import "errors"

var (
	// User related errors
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")

	// Session related errors
	ErrRefreshTokenMismatch = errors.New("refresh token mismatch")

	// Content related errors
	ErrPostNotFound          = errors.New("post not found")
	ErrSlugTaken             = errors.New("slug already taken")
	ErrCategoryNotFound      = errors.New("category not found")
	ErrCategoryAlreadyExists = errors.New("category already exists")

	// Access related errors
	ErrForbidden = errors.New("forbidden")

	// Media related errors
	ErrAssetNotFound = errors.New("asset not found")
)
