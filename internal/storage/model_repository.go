package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/modeldeck/modeldeck/internal/models"
)

const modelColumns = `
	id, model_id, model_name, provider, is_available, version, capabilities,
	created_at, updated_at
`

const listAvailableCacheKey = "models:available"

// ModelRepository handles model database operations with caching
type ModelRepository struct {
	db    *DB
	cache *LRUCache
}

// NewModelRepository creates a new model repository
func NewModelRepository(db *DB) *ModelRepository {
	return &ModelRepository{
		db:    db,
		cache: db.GetModelCache(),
	}
}

// UpsertBatch writes a batch of models keyed by model_id: rows that exist
// are updated in place, new rows are inserted, and every touched row is
// marked available. Runs in a single transaction so a failed sync leaves
// the table untouched. Returns the number of rows written.
func (r *ModelRepository) UpsertBatch(ctx context.Context, batch []*models.Model) (int, error) {
	if len(batch) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO models (model_id, model_name, provider, is_available, version, capabilities)
		VALUES ($1, $2, $3, true, $4, $5)
		ON CONFLICT (model_id) DO UPDATE SET
			model_name   = EXCLUDED.model_name,
			provider     = EXCLUDED.provider,
			is_available = true,
			version      = EXCLUDED.version,
			capabilities = EXCLUDED.capabilities,
			updated_at   = now()
	`

	count := 0
	for _, m := range batch {
		if _, err := tx.ExecContext(ctx, query, m.ModelID, m.ModelName, m.Provider, m.Version, m.Capabilities); err != nil {
			return 0, fmt.Errorf("failed to upsert model %s: %w", m.ModelID, err)
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit upsert: %w", err)
	}

	r.cache.Clear()
	return count, nil
}

// MarkUnavailableExcept flips is_available off for every model whose
// model_id is absent from keep. Soft removal only; rows stay resolvable
// for key configurations that reference them.
func (r *ModelRepository) MarkUnavailableExcept(ctx context.Context, keep []string) (int, error) {
	query := `
		UPDATE models
		SET is_available = false, updated_at = now()
		WHERE is_available = true AND NOT (model_id = ANY($1))
	`

	result, err := r.db.conn.ExecContext(ctx, query, pq.StringArray(keep))
	if err != nil {
		return 0, fmt.Errorf("failed to mark models unavailable: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows > 0 {
		r.cache.Clear()
	}
	return int(rows), nil
}

// GetByModelID retrieves a model by its model_id identifier.
func (r *ModelRepository) GetByModelID(ctx context.Context, modelID string) (*models.Model, error) {
	var model models.Model
	query := fmt.Sprintf("SELECT %s FROM models WHERE model_id = $1", modelColumns)

	err := r.db.conn.GetContext(ctx, &model, query, modelID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrModelNotFound
		}
		return nil, fmt.Errorf("failed to get model: %w", err)
	}

	return &model, nil
}

// ListAvailable returns all available models ordered by model_id, served
// from cache when fresh.
func (r *ModelRepository) ListAvailable(ctx context.Context) ([]*models.Model, error) {
	if cached, found := r.cache.Get(listAvailableCacheKey); found {
		return cached.([]*models.Model), nil
	}

	query := fmt.Sprintf(`
		SELECT %s FROM models
		WHERE is_available = true
		ORDER BY model_id
	`, modelColumns)

	var modelsList []*models.Model
	if err := r.db.conn.SelectContext(ctx, &modelsList, query); err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}

	r.cache.Set(listAvailableCacheKey, modelsList)
	return modelsList, nil
}

// CountAvailable returns the number of available models.
func (r *ModelRepository) CountAvailable(ctx context.Context) (int, error) {
	var count int
	err := r.db.conn.GetContext(ctx, &count, "SELECT COUNT(*) FROM models WHERE is_available = true")
	if err != nil {
		return 0, fmt.Errorf("failed to count models: %w", err)
	}
	return count, nil
}

// InvalidateCache drops all cached model reads.
func (r *ModelRepository) InvalidateCache() {
	r.cache.Clear()
}
