package database

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log"
)

//go:embed schema.sql
var schema string

// Migrate creates the tables the payment store needs. Every statement is
// idempotent, so it is safe to run on each start.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	log.Println("Database schema is up to date")
	return nil
}
