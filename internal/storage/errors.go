package storage

import "errors"

var (
	// ErrModelNotFound is returned when a model is not found
	ErrModelNotFound = errors.New("model not found")

	// ErrKeyConfigNotFound is returned when a key configuration is not found
	ErrKeyConfigNotFound = errors.New("key configuration not found")

	// ErrDuplicateKeyConfig is returned when a (user, provider) pair already
	// has a configuration
	ErrDuplicateKeyConfig = errors.New("key configuration already exists")

	// ErrUserNotFound is returned when a user is not found
	ErrUserNotFound = errors.New("user not found")

	// ErrDuplicateUser is returned when an email is already registered
	ErrDuplicateUser = errors.New("user already exists")
)
