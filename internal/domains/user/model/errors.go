package model

import "errors"

var (
	ErrUserNotFound = errors.New("user not found")

	// ErrUserExists covers both unique constraints on users; the response
	// deliberately does not reveal which field collided.
	ErrUserExists = errors.New("username or email already registered")

	ErrInvalidCredentials = errors.New("invalid username or password")
)
