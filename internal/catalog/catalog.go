// Package catalog provides sources of provider/model metadata for
// registry sync. The remote source is authoritative; the static source
// is the shipped last-resort snapshot.
package catalog

import (
	"context"

	"github.com/modeldeck/modeldeck/internal/models"
)

// Entry is one model as described by a catalog source, before
// normalization into a registry row.
type Entry struct {
	ModelID      string              `json:"id"`
	ModelName    string              `json:"name"`
	Provider     string              `json:"provider"`
	Version      *string             `json:"version,omitempty"`
	Capabilities models.Capabilities `json:"capabilities"`
}

// Source produces catalog entries.
type Source interface {
	Fetch(ctx context.Context) ([]Entry, error)
}
