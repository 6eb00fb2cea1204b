// Package auth handles account credentials and session tokens.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/modeldeck/modeldeck/internal/errs"
	"github.com/modeldeck/modeldeck/internal/models"
	"github.com/modeldeck/modeldeck/internal/storage"
)

// UserStore is the storage surface the service needs.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	TouchLastLogin(ctx context.Context, id uuid.UUID) error
}

// Session is an issued token and its expiry.
type Session struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}

// Service authenticates users and issues session tokens.
type Service struct {
	store  UserStore
	secret []byte
}

func NewService(store UserStore, secret []byte) *Service {
	return &Service{store: store, secret: secret}
}

// Login verifies the credentials and returns a session. Unknown emails,
// wrong passwords, and disabled accounts all fail identically.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, errs.ErrUnauthenticated
		}
		return nil, fmt.Errorf("%w: %v", errs.ErrStorage, err)
	}

	if !user.IsValid() || !VerifyPassword([]byte(password), user.PasswordSalt, user.PasswordHash) {
		return nil, errs.ErrUnauthenticated
	}

	token, expiresAt, err := GenerateJWT(user.ID, s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	if err := s.store.TouchLastLogin(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrStorage, err)
	}

	return &Session{Token: token, ExpiresAt: expiresAt}, nil
}

// Register creates a new enabled account with a freshly salted hash.
func (s *Service) Register(ctx context.Context, email, password string) (*models.User, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", errs.ErrValidation)
	}

	salt, err := NewSalt()
	if err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: HashPassword([]byte(password), salt),
		PasswordSalt: salt,
		Enabled:      true,
	}
	if err := s.store.Create(ctx, user); err != nil {
		if errors.Is(err, storage.ErrDuplicateUser) {
			return nil, fmt.Errorf("%w: email is already registered", errs.ErrDuplicate)
		}
		return nil, fmt.Errorf("%w: %v", errs.ErrStorage, err)
	}

	return user, nil
}
