package database

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

// The schema ships inside the binary. Every statement is idempotent.
//
//go:embed schema.sql
var schemaSQL string

// Execer runs a statement without returning rows.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// EnsureSchema creates the tables and indexes if they are missing.
//
// Existing tables are left as they are; there is no versioning.
func EnsureSchema(ctx context.Context, db Execer, logger *zerolog.Logger) error {
	if _, err := db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensuring database schema: %w", err)
	}

	logger.Info().Msg("database schema ensured")
	return nil
}
