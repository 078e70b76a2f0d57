package testutil

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"github.com/vytor/talentscout/internal/db"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied.
// A single connection is kept so every query sees the same in-memory schema.
func NewTestDB(t *testing.T) *sql.DB {
	sqlDB, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(context.Background(), sqlDB), "failed to apply migrations")
	return sqlDB
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}
