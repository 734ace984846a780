package db

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"remindbot/core/log"
)

//go:embed schema.sql
var schemaSQL string

// Migrate creates the tables used by the bot if they do not exist yet.
// Foreign keys are left out because sqlite cannot reference schema-qualified tables;
// dm_channel integrity is kept by creating the channel and user in one transaction.
func Migrate(ctx context.Context, db *sqlx.DB, schema string) error {
	log.Info("📋 Starting database migration", "schema", schema, "driver", db.DriverName())

	if db.DriverName() == DriverPostgres {
		if _, err := db.ExecContext(ctx, fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", schema)); err != nil {
			return fmt.Errorf("failed to create schema %s: %w", schema, err)
		}
	}

	statements := strings.Split(strings.ReplaceAll(schemaSQL, "{{schema}}", schema), ";")
	for _, statement := range statements {
		statement = strings.TrimSpace(statement)
		if statement == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, statement); err != nil {
			return fmt.Errorf("failed to apply migration statement: %w", err)
		}
	}

	log.Info("📋 Completed successfully - database schema is up to date", "schema", schema)
	return nil
}
