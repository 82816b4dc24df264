package repository

import "errors"

// ErrNotFound is returned by every repository when the requested row
// does not exist.
var ErrNotFound = errors.New("not found")

// Duplicate errors surface the database's unique constraints on users,
// so concurrent registrations lose cleanly instead of erroring.
var (
	ErrDuplicateEmail    = errors.New("email already exists")
	ErrDuplicateUsername = errors.New("username already exists")
)
