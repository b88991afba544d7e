package storage

import "errors"

var (
	// ErrUsernameTaken is returned when registering a username that already exists
	ErrUsernameTaken = errors.New("username already taken")

	// ErrInvalidCredentials is returned when no user matches both username and credential
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUserNotFound is returned when a user id doesn't exist in the store
	ErrUserNotFound = errors.New("user not found")

	// ErrPostNotFound is returned when a post id doesn't exist in the store
	ErrPostNotFound = errors.New("post not found")

	// ErrSelfFollow is returned when a user tries to follow itself
	ErrSelfFollow = errors.New("cannot follow yourself")
)
