package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Model represents one addressable AI model offered by a provider.
// ModelID is the reconciliation key for registry sync: upserting the same
// ModelID twice updates in place. Models are never hard-deleted; a sync
// that no longer sees a model flips IsAvailable to false so key configs
// referencing it stay resolvable.
type Model struct {
	ID           uuid.UUID    `db:"id" json:"id"`
	ModelID      string       `db:"model_id" json:"model_id"` // "provider:model"
	ModelName    string       `db:"model_name" json:"model_name"`
	Provider     string       `db:"provider" json:"provider"`
	IsAvailable  bool         `db:"is_available" json:"is_available"`
	Version      *string      `db:"version" json:"version,omitempty"`
	Capabilities Capabilities `db:"capabilities" json:"capabilities"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time    `db:"updated_at" json:"updated_at"`
}

// ProviderFromModelID extracts the provider segment of a "provider:model"
// identifier. Returns "" when the identifier has no provider prefix.
func ProviderFromModelID(modelID string) string {
	provider, _, found := strings.Cut(modelID, ":")
	if !found {
		return ""
	}
	return provider
}

// HasTask reports whether the model carries the given task tag.
func (m *Model) HasTask(tag string) bool {
	for _, t := range m.Capabilities.Tasks {
		if t == tag {
			return true
		}
	}
	return false
}
