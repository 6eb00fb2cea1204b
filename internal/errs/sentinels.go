// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

var (
	// ErrUnauthenticated indicates there is no valid caller identity.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrValidation indicates missing or malformed required input.
	ErrValidation = errors.New("validation failed")

	// ErrDuplicate indicates a uniqueness violation on (user, provider).
	ErrDuplicate = errors.New("duplicate configuration")

	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized indicates the record exists but is owned by another user.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrStorage wraps any other storage-layer failure; the underlying
	// message is preserved verbatim for diagnostics.
	ErrStorage = errors.New("storage error")

	// ErrSync indicates the registry sync failed after exhausting the
	// static fallback catalog.
	ErrSync = errors.New("registry sync failed")
)
