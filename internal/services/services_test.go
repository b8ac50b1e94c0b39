package services

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cashtrackr/cashtrackr-be/internal/database"
)

// newTestDB opens a migrated in-memory database. In-memory sqlite gives
// each connection its own database, so the pool is pinned to one.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.New(":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}
