package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")

	// ErrBusy is surfaced when a draft transaction kept losing optimistic
	// conflicts and exhausted its retry budget. The caller may try again.
	ErrBusy = errors.New("operation aborted after repeated conflicts")
)
