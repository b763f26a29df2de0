package db

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
)

//go:embed schema.sql
var schema string

// Migrate applies the catalog schema. Every statement is idempotent, so it is
// safe to run against an already migrated database.
func Migrate(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin migration: %w", err)
	}
	if _, err := tx.ExecContext(ctx, schema); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("could not apply schema: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("could not commit migration: %w", err)
	}
	return nil
}
