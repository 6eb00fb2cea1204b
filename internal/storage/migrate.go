package storage

import (
	"context"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/modeldeck/modeldeck/migrations"
)

// Migrate applies all pending schema migrations.
func Migrate(ctx context.Context, db *DB) error {
	goose.SetBaseFS(migrations.FS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db.conn.DB, "."); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	return nil
}
