package testutils

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/require"

	"remindbot/config"
	"remindbot/db"
)

// LoadTestConfig loads the database settings for integration tests from the environment
func LoadTestConfig() (*config.DatabaseConfig, error) {
	_ = godotenv.Load("../.env.test")
	_ = godotenv.Load("../../.env.test")
	_ = godotenv.Load(".env.test")

	databaseURL := os.Getenv("DB_URL")
	if databaseURL == "" {
		return nil, fmt.Errorf("DB_URL is not set")
	}

	driver := os.Getenv("DB_DRIVER")
	if driver == "" {
		driver = db.DriverPostgres
	}

	return &config.DatabaseConfig{
		Driver: driver,
		URL:    databaseURL,
	}, nil
}

// NewSQLiteTestDB opens a migrated in-memory database private to the test
func NewSQLiteTestDB(t *testing.T) (*sqlx.DB, string) {
	t.Helper()

	conn, err := db.NewConnection(db.DriverSQLite, ":memory:")
	require.NoError(t, err, "Failed to open sqlite database")
	t.Cleanup(func() { _ = conn.Close() })

	schema := db.SchemaFor(db.DriverSQLite, "")
	require.NoError(t, db.Migrate(context.Background(), conn, schema), "Failed to migrate sqlite database")
	return conn, schema
}

// NewIntegrationTestDB connects to the database named by DB_URL and migrates a schema unique
// to the test, dropping it afterwards. The test is skipped when DB_URL is not set.
func NewIntegrationTestDB(t *testing.T) (*sqlx.DB, string) {
	t.Helper()

	cfg, err := LoadTestConfig()
	if err != nil {
		t.Skipf("Skipping integration test: %v", err)
	}

	conn, err := db.NewConnection(cfg.Driver, cfg.URL)
	require.NoError(t, err, "Failed to connect to test database")

	schema := db.SchemaFor(cfg.Driver, "test_"+strings.ReplaceAll(uuid.New().String()[:8], "-", ""))
	require.NoError(t, db.Migrate(context.Background(), conn, schema), "Failed to migrate test schema")

	t.Cleanup(func() {
		if cfg.Driver == db.DriverPostgres {
			_, _ = conn.Exec(fmt.Sprintf("DROP SCHEMA IF EXISTS %s CASCADE", schema))
		}
		_ = conn.Close()
	})
	return conn, schema
}

// NewExternalID returns a unique platform-style id for test records
func NewExternalID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:18]
}
