// Package testutil provides shared fixtures for package tests.
package testutil

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nerrad567/gray-logic-accounts/internal/infrastructure/database"
	_ "github.com/nerrad567/gray-logic-accounts/migrations" // registers the embedded schema
)

// OpenDB returns an in-memory SQLite database with every migration applied.
// It is closed when the test completes.
func OpenDB(tb testing.TB) *database.DB {
	tb.Helper()

	db, err := database.Open(database.Config{Path: ":memory:", BusyTimeout: 5})
	require.NoError(tb, err)
	tb.Cleanup(func() { db.Close() }) //nolint:errcheck // Test cleanup

	require.NoError(tb, db.Migrate(context.Background()))
	return db
}

// PostgresDSNEnv names the variable holding the DSN for the optional
// PostgreSQL integration tests.
const PostgresDSNEnv = "GRAYLOGIC_TEST_POSTGRES_DSN"

// OpenPostgres connects to the database named by PostgresDSNEnv, applies
// the migrations and empties every table. The test is skipped when the
// variable is unset. Tests sharing the database must not run in parallel.
func OpenPostgres(tb testing.TB) *database.DB {
	tb.Helper()

	dsn := os.Getenv(PostgresDSNEnv)
	if dsn == "" {
		tb.Skipf("%s not set; skipping PostgreSQL integration test", PostgresDSNEnv)
	}

	db, err := database.Open(database.Config{
		Driver:       string(database.DialectPostgres),
		DSN:          dsn,
		MaxOpenConns: 4,
	})
	require.NoError(tb, err)
	tb.Cleanup(func() { db.Close() }) //nolint:errcheck // Test cleanup

	require.NoError(tb, db.Migrate(context.Background()))
	ResetPostgres(tb, db)
	return db
}

// ResetPostgres removes every row written by a previous test.
func ResetPostgres(tb testing.TB, db *database.DB) {
	tb.Helper()
	_, err := db.ExecContext(context.Background(), "TRUNCATE users, audit_logs")
	require.NoError(tb, err)
}
