package models

import (
	"time"

	"github.com/google/uuid"
)

// KeyConfig represents one user's credential for one provider.
// At most one config may exist per (UserID, Provider); the constraint is
// enforced by the storage layer and surfaces as a conflict, never a silent
// overwrite of another row.
type KeyConfig struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	UserID         uuid.UUID  `db:"user_id" json:"user_id"`
	Provider       string     `db:"provider" json:"provider"`
	ModelID        string     `db:"model_id" json:"model_id"`
	ModelName      string     `db:"model_name" json:"model_name"`
	APIKey         string     `db:"api_key" json:"api_key"` // stored as given; masking is presentation
	IsEnabled      bool       `db:"is_enabled" json:"is_enabled"`
	LastVerifiedAt *time.Time `db:"last_verified_at" json:"last_verified_at,omitempty"`
	Notes          *string    `db:"notes" json:"notes,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

// OwnedBy reports whether the config belongs to the given user.
func (k *KeyConfig) OwnedBy(userID uuid.UUID) bool {
	return k.UserID == userID
}

// KeyHistory is an append-only audit record written before a KeyConfig is
// deleted. History rows are never mutated or removed.
type KeyHistory struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	Provider  string    `db:"provider" json:"provider"`
	Notes     *string   `db:"notes" json:"notes,omitempty"`
	DeletedAt time.Time `db:"deleted_at" json:"deleted_at"`
}
