package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/modeldeck/modeldeck/internal/models"
)

const keyConfigColumns = `
	id, user_id, provider, model_id, model_name, api_key, is_enabled,
	last_verified_at, notes, created_at, updated_at
`

// KeyConfigRepository handles key configuration database operations
type KeyConfigRepository struct {
	db *DB
}

// NewKeyConfigRepository creates a new key configuration repository
func NewKeyConfigRepository(db *DB) *KeyConfigRepository {
	return &KeyConfigRepository{db: db}
}

// isUniqueViolation reports whether err is a Postgres unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// Create inserts a new key configuration. A second configuration for the
// same (user, provider) pair fails with ErrDuplicateKeyConfig.
func (r *KeyConfigRepository) Create(ctx context.Context, cfg *models.KeyConfig) error {
	if cfg.ID == uuid.Nil {
		cfg.ID = uuid.New()
	}

	query := `
		INSERT INTO api_key_configs
			(id, user_id, provider, model_id, model_name, api_key, is_enabled, last_verified_at, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`

	err := r.db.conn.QueryRowxContext(ctx, query,
		cfg.ID, cfg.UserID, cfg.Provider, cfg.ModelID, cfg.ModelName,
		cfg.APIKey, cfg.IsEnabled, cfg.LastVerifiedAt, cfg.Notes,
	).Scan(&cfg.CreatedAt, &cfg.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateKeyConfig
		}
		return fmt.Errorf("failed to create key configuration: %w", err)
	}

	return nil
}

// Update rewrites an existing configuration's mutable fields.
func (r *KeyConfigRepository) Update(ctx context.Context, cfg *models.KeyConfig) error {
	query := `
		UPDATE api_key_configs SET
			provider         = $2,
			model_id         = $3,
			model_name       = $4,
			api_key          = $5,
			is_enabled       = $6,
			last_verified_at = $7,
			notes            = $8,
			updated_at       = now()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.conn.QueryRowxContext(ctx, query,
		cfg.ID, cfg.Provider, cfg.ModelID, cfg.ModelName,
		cfg.APIKey, cfg.IsEnabled, cfg.LastVerifiedAt, cfg.Notes,
	).Scan(&cfg.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrKeyConfigNotFound
		}
		if isUniqueViolation(err) {
			return ErrDuplicateKeyConfig
		}
		return fmt.Errorf("failed to update key configuration: %w", err)
	}

	return nil
}

// UpdateNotes changes only the notes field.
func (r *KeyConfigRepository) UpdateNotes(ctx context.Context, id uuid.UUID, notes *string) error {
	query := `
		UPDATE api_key_configs SET notes = $2, updated_at = now()
		WHERE id = $1
	`

	result, err := r.db.conn.ExecContext(ctx, query, id, notes)
	if err != nil {
		return fmt.Errorf("failed to update notes: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrKeyConfigNotFound
	}

	return nil
}

// GetByID retrieves a key configuration by ID.
func (r *KeyConfigRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.KeyConfig, error) {
	var cfg models.KeyConfig
	query := fmt.Sprintf("SELECT %s FROM api_key_configs WHERE id = $1", keyConfigColumns)

	err := r.db.conn.GetContext(ctx, &cfg, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrKeyConfigNotFound
		}
		return nil, fmt.Errorf("failed to get key configuration: %w", err)
	}

	return &cfg, nil
}

// GetByUserProvider retrieves the configuration a user holds for a provider.
func (r *KeyConfigRepository) GetByUserProvider(ctx context.Context, userID uuid.UUID, provider string) (*models.KeyConfig, error) {
	var cfg models.KeyConfig
	query := fmt.Sprintf("SELECT %s FROM api_key_configs WHERE user_id = $1 AND provider = $2", keyConfigColumns)

	err := r.db.conn.GetContext(ctx, &cfg, query, userID, provider)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrKeyConfigNotFound
		}
		return nil, fmt.Errorf("failed to get key configuration: %w", err)
	}

	return &cfg, nil
}

// ListByUser returns all configurations owned by a user, newest first.
func (r *KeyConfigRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.KeyConfig, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM api_key_configs
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, keyConfigColumns)

	var configs []*models.KeyConfig
	if err := r.db.conn.SelectContext(ctx, &configs, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list key configurations: %w", err)
	}

	return configs, nil
}

// DeleteWithHistory removes a configuration, recording an audit row first.
// Both writes run in one transaction: if the history insert fails, the
// configuration survives.
func (r *KeyConfigRepository) DeleteWithHistory(ctx context.Context, cfg *models.KeyConfig) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	historyQuery := `
		INSERT INTO api_key_history (id, user_id, provider, notes, deleted_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := tx.ExecContext(ctx, historyQuery, uuid.New(), cfg.UserID, cfg.Provider, cfg.Notes, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to record key history: %w", err)
	}

	result, err := tx.ExecContext(ctx, "DELETE FROM api_key_configs WHERE id = $1", cfg.ID)
	if err != nil {
		return fmt.Errorf("failed to delete key configuration: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrKeyConfigNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}

	return nil
}

// ListHistory returns a user's audit records, newest first.
func (r *KeyConfigRepository) ListHistory(ctx context.Context, userID uuid.UUID) ([]*models.KeyHistory, error) {
	query := `
		SELECT id, user_id, provider, notes, deleted_at
		FROM api_key_history
		WHERE user_id = $1
		ORDER BY deleted_at DESC
	`

	var history []*models.KeyHistory
	if err := r.db.conn.SelectContext(ctx, &history, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list key history: %w", err)
	}

	return history, nil
}
