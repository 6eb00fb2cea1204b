// Package registry keeps the model table in step with the provider
// catalog and serves grouped views of it.
package registry

import (
	"context"
	"fmt"
	"time"

	"github.com/modeldeck/modeldeck/internal/catalog"
	"github.com/modeldeck/modeldeck/internal/errs"
	"github.com/modeldeck/modeldeck/internal/logging"
	"github.com/modeldeck/modeldeck/internal/models"
)

// ModelStore is the storage surface sync needs.
type ModelStore interface {
	UpsertBatch(ctx context.Context, batch []*models.Model) (int, error)
	MarkUnavailableExcept(ctx context.Context, keep []string) (int, error)
	ListAvailable(ctx context.Context) ([]*models.Model, error)
	CountAvailable(ctx context.Context) (int, error)
}

// SyncResult summarizes one sync run.
type SyncResult struct {
	Synced  int `json:"synced"`
	Removed int `json:"removed"`
	Total   int `json:"total"`
}

// Service reconciles the model registry against a catalog source.
type Service struct {
	source catalog.Source
	store  ModelStore
	sink   logging.Sink
}

func NewService(source catalog.Source, store ModelStore, sink logging.Sink) *Service {
	return &Service{source: source, store: store, sink: sink}
}

// Sync fetches the catalog and reconciles the registry with it: every
// fetched model is upserted by model_id, and models the catalog no
// longer lists are marked unavailable. Running it twice with the same
// catalog is a no-op the second time. Every run emits a started event
// and either a completed or a failed one.
func (s *Service) Sync(ctx context.Context) (*SyncResult, error) {
	s.emit(ctx, "info", "registry sync started", nil)

	result, err := s.sync(ctx)
	if err != nil {
		s.emit(ctx, "error", "registry sync failed", map[string]any{"error": err.Error()})
		return nil, err
	}

	s.emit(ctx, "info", "registry sync completed", map[string]any{
		"synced": result.Synced, "removed": result.Removed, "total": result.Total,
	})
	return result, nil
}

func (s *Service) sync(ctx context.Context) (*SyncResult, error) {
	entries, err := s.source.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrSync, err)
	}

	batch := normalize(entries)
	if len(batch) == 0 {
		return nil, fmt.Errorf("%w: catalog produced no usable models", errs.ErrSync)
	}

	synced, err := s.store.UpsertBatch(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrStorage, err)
	}

	keep := make([]string, len(batch))
	for i, m := range batch {
		keep[i] = m.ModelID
	}
	removed, err := s.store.MarkUnavailableExcept(ctx, keep)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrStorage, err)
	}

	total, err := s.store.CountAvailable(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrStorage, err)
	}

	return &SyncResult{Synced: synced, Removed: removed, Total: total}, nil
}

func (s *Service) emit(ctx context.Context, level, message string, meta map[string]any) {
	s.sink.Emit(ctx, &logging.Event{
		Time:    time.Now().UTC(),
		Level:   level,
		Message: message,
		Meta:    meta,
	})
}

// ListModels returns every available model.
func (s *Service) ListModels(ctx context.Context) ([]*models.Model, error) {
	list, err := s.store.ListAvailable(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrStorage, err)
	}
	return list, nil
}

// ListByProvider returns available models grouped by provider.
func (s *Service) ListByProvider(ctx context.Context) ([]ProviderGroup, error) {
	list, err := s.ListModels(ctx)
	if err != nil {
		return nil, err
	}
	return GroupByProvider(list), nil
}

// ListByCapability returns available models grouped by task tag.
func (s *Service) ListByCapability(ctx context.Context) ([]CapabilityGroup, error) {
	list, err := s.ListModels(ctx)
	if err != nil {
		return nil, err
	}
	return GroupByCapability(list), nil
}

// normalize turns catalog entries into registry rows. Entries without a
// usable identity are dropped; duplicate model_ids keep the last entry;
// missing capability tags get the defaults so capability grouping never
// loses a model.
func normalize(entries []catalog.Entry) []*models.Model {
	index := make(map[string]int, len(entries))
	var batch []*models.Model

	for _, e := range entries {
		if e.ModelID == "" {
			continue
		}

		provider := e.Provider
		if provider == "" {
			provider = models.ProviderFromModelID(e.ModelID)
		}
		if provider == "" {
			continue
		}

		name := e.ModelName
		if name == "" {
			name = e.ModelID
		}

		caps := e.Capabilities
		if caps.IsZero() {
			caps = models.DefaultCapabilities()
		}

		m := &models.Model{
			ModelID:      e.ModelID,
			ModelName:    name,
			Provider:     provider,
			IsAvailable:  true,
			Version:      e.Version,
			Capabilities: caps,
		}

		if i, seen := index[e.ModelID]; seen {
			batch[i] = m
			continue
		}
		index[e.ModelID] = len(batch)
		batch = append(batch, m)
	}

	return batch
}
