package database

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialect_Rebind(t *testing.T) {
	tests := []struct {
		name    string
		dialect Dialect
		query   string
		want    string
	}{
		{
			name:    "sqlite unchanged",
			dialect: DialectSQLite,
			query:   "SELECT id FROM users WHERE email = ? AND verified = ?",
			want:    "SELECT id FROM users WHERE email = ? AND verified = ?",
		},
		{
			name:    "postgres numbered",
			dialect: DialectPostgres,
			query:   "SELECT id FROM users WHERE email = ? AND verified = ? LIMIT ? OFFSET ?",
			want:    "SELECT id FROM users WHERE email = $1 AND verified = $2 LIMIT $3 OFFSET $4",
		},
		{
			name:    "postgres skips literals",
			dialect: DialectPostgres,
			query:   `SELECT '?' AS q, name FROM users WHERE name ILIKE ? ESCAPE '\'`,
			want:    `SELECT '?' AS q, name FROM users WHERE name ILIKE $1 ESCAPE '\'`,
		},
		{
			name:    "postgres without placeholders",
			dialect: DialectPostgres,
			query:   "SELECT 1",
			want:    "SELECT 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.dialect.Rebind(tt.query))
		})
	}
}

func TestDialect_Like(t *testing.T) {
	assert.Equal(t, "LIKE", DialectSQLite.Like())
	assert.Equal(t, "ILIKE", DialectPostgres.Like())
}

func TestDialect_IsUniqueViolation(t *testing.T) {
	t.Run("sqlite constraint", func(t *testing.T) {
		db := openTestDB(t)
		ctx := context.Background()

		_, err := db.ExecContext(ctx, "CREATE TABLE uniq (email TEXT NOT NULL UNIQUE)")
		require.NoError(t, err)
		_, err = db.ExecContext(ctx, "INSERT INTO uniq (email) VALUES (?)", "a@example.com")
		require.NoError(t, err)

		_, err = db.ExecContext(ctx, "INSERT INTO uniq (email) VALUES (?)", "a@example.com")
		require.Error(t, err)
		assert.True(t, db.Dialect().IsUniqueViolation(err))
	})

	t.Run("postgres sqlstate", func(t *testing.T) {
		err := fmt.Errorf("executing query: %w", &pgconn.PgError{Code: "23505"})
		assert.True(t, DialectPostgres.IsUniqueViolation(err))

		err = fmt.Errorf("executing query: %w", &pgconn.PgError{Code: "23503"})
		assert.False(t, DialectPostgres.IsUniqueViolation(err))
	})

	t.Run("unrelated errors", func(t *testing.T) {
		assert.False(t, DialectSQLite.IsUniqueViolation(nil))
		assert.False(t, DialectSQLite.IsUniqueViolation(errors.New("disk I/O error")))
	})
}
