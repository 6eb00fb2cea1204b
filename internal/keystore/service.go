// Package keystore manages per-user provider credentials: saving,
// deleting with an audit trail, and listing.
package keystore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/modeldeck/modeldeck/internal/errs"
	"github.com/modeldeck/modeldeck/internal/logging"
	"github.com/modeldeck/modeldeck/internal/models"
	"github.com/modeldeck/modeldeck/internal/storage"
)

// Store is the storage surface the service needs.
type Store interface {
	Create(ctx context.Context, cfg *models.KeyConfig) error
	Update(ctx context.Context, cfg *models.KeyConfig) error
	UpdateNotes(ctx context.Context, id uuid.UUID, notes *string) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.KeyConfig, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.KeyConfig, error)
	DeleteWithHistory(ctx context.Context, cfg *models.KeyConfig) error
	ListHistory(ctx context.Context, userID uuid.UUID) ([]*models.KeyHistory, error)
}

// Verifier runs a live connection test against a provider.
type Verifier interface {
	Verify(ctx context.Context, provider, apiKey string) error
}

// Service owns the key configuration rules: ownership, one config per
// provider per user, and history before deletion.
type Service struct {
	store    Store
	verifier Verifier // nil unless verify-on-save is enabled
	sink     logging.Sink
}

func NewService(store Store, verifier Verifier, sink logging.Sink) *Service {
	return &Service{store: store, verifier: verifier, sink: sink}
}

// SaveInput carries the fields a user may set on a configuration.
// A non-nil ID updates an existing configuration; nil creates one.
type SaveInput struct {
	ID        *uuid.UUID
	Provider  string
	ModelID   string
	ModelName string
	APIKey    string
	IsEnabled bool
	Notes     *string
}

func (in *SaveInput) validate() error {
	var missing []string
	if strings.TrimSpace(in.Provider) == "" {
		missing = append(missing, "provider")
	}
	if strings.TrimSpace(in.ModelID) == "" {
		missing = append(missing, "model_id")
	}
	if strings.TrimSpace(in.APIKey) == "" {
		missing = append(missing, "api_key")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required fields: %s", errs.ErrValidation, strings.Join(missing, ", "))
	}
	return nil
}

// Save creates or updates the caller's configuration. Every successful
// save stamps last_verified_at; when a verifier is wired in, the key must
// pass a live connection test first.
func (s *Service) Save(ctx context.Context, userID uuid.UUID, in SaveInput) (*models.KeyConfig, error) {
	if userID == uuid.Nil {
		return nil, errs.ErrUnauthenticated
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	if s.verifier != nil {
		if err := s.verifier.Verify(ctx, in.Provider, in.APIKey); err != nil {
			return nil, fmt.Errorf("%w: connection test failed: %v", errs.ErrValidation, err)
		}
	}

	now := time.Now().UTC()

	if in.ID != nil {
		return s.update(ctx, userID, *in.ID, in, now)
	}

	cfg := &models.KeyConfig{
		UserID:         userID,
		Provider:       in.Provider,
		ModelID:        in.ModelID,
		ModelName:      in.ModelName,
		APIKey:         in.APIKey,
		IsEnabled:      in.IsEnabled,
		LastVerifiedAt: &now,
		Notes:          in.Notes,
	}
	if err := s.store.Create(ctx, cfg); err != nil {
		return nil, s.mapError(err, in.Provider)
	}

	s.emit(ctx, "key configuration saved", userID, cfg.Provider)
	return cfg, nil
}

func (s *Service) update(ctx context.Context, userID, id uuid.UUID, in SaveInput, now time.Time) (*models.KeyConfig, error) {
	existing, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	existing.Provider = in.Provider
	existing.ModelID = in.ModelID
	existing.ModelName = in.ModelName
	existing.APIKey = in.APIKey
	existing.IsEnabled = in.IsEnabled
	existing.LastVerifiedAt = &now
	existing.Notes = in.Notes

	if err := s.store.Update(ctx, existing); err != nil {
		return nil, s.mapError(err, in.Provider)
	}

	s.emit(ctx, "key configuration saved", userID, existing.Provider)
	return existing, nil
}

// Delete removes the caller's configuration, writing the audit record
// first. If the audit write fails, the configuration is untouched.
func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if userID == uuid.Nil {
		return errs.ErrUnauthenticated
	}

	cfg, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := s.store.DeleteWithHistory(ctx, cfg); err != nil {
		return s.mapError(err, cfg.Provider)
	}

	s.emit(ctx, "key configuration deleted", userID, cfg.Provider)
	return nil
}

// UpdateNotes changes only the notes of the caller's configuration.
func (s *Service) UpdateNotes(ctx context.Context, userID, id uuid.UUID, notes *string) (*models.KeyConfig, error) {
	if userID == uuid.Nil {
		return nil, errs.ErrUnauthenticated
	}

	cfg, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if err := s.store.UpdateNotes(ctx, id, notes); err != nil {
		return nil, s.mapError(err, cfg.Provider)
	}

	cfg.Notes = notes
	return cfg, nil
}

// List returns the caller's configurations.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*models.KeyConfig, error) {
	if userID == uuid.Nil {
		return nil, errs.ErrUnauthenticated
	}

	configs, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, s.mapError(err, "")
	}
	return configs, nil
}

// History returns the caller's deletion audit records, newest first.
func (s *Service) History(ctx context.Context, userID uuid.UUID) ([]*models.KeyHistory, error) {
	if userID == uuid.Nil {
		return nil, errs.ErrUnauthenticated
	}

	history, err := s.store.ListHistory(ctx, userID)
	if err != nil {
		return nil, s.mapError(err, "")
	}
	return history, nil
}

// getOwned fetches a configuration and enforces ownership. A missing row
// and a row owned by someone else are distinct failures; handlers map
// them to different statuses.
func (s *Service) getOwned(ctx context.Context, userID, id uuid.UUID) (*models.KeyConfig, error) {
	cfg, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapError(err, "")
	}
	if !cfg.OwnedBy(userID) {
		return nil, errs.ErrUnauthorized
	}
	return cfg, nil
}

func (s *Service) mapError(err error, provider string) error {
	switch {
	case errors.Is(err, storage.ErrKeyConfigNotFound):
		return errs.ErrNotFound
	case errors.Is(err, storage.ErrDuplicateKeyConfig):
		return fmt.Errorf("%w: you already have a configuration for %s", errs.ErrDuplicate, provider)
	default:
		return fmt.Errorf("%w: %v", errs.ErrStorage, err)
	}
}

func (s *Service) emit(ctx context.Context, message string, userID uuid.UUID, provider string) {
	s.sink.Emit(ctx, &logging.Event{
		Time:    time.Now().UTC(),
		Level:   "info",
		Message: message,
		Meta:    map[string]any{"user_id": userID.String(), "provider": provider},
	})
}
