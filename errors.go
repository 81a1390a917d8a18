package picshelf

import "errors"

var (
	// ErrNotFound is returned when a referenced image or user does not exist
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnauthorized is returned when credential verification fails
	ErrUnauthorized = errors.New("unauthorized")
	// ErrConflict is returned when a unique constraint is violated
	ErrConflict = errors.New("already exists")
)
