package repository

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"attendance_backend/internal/config"
	"attendance_backend/internal/database"
)

// newTestStore opens a fresh sqlite store in a temp dir with the real
// schema, so repository tests exercise the same constraints production
// relies on.
func newTestStore(t *testing.T) *database.Store {
	t.Helper()
	cfg := config.Config{
		DBDriver:   "sqlite",
		SQLitePath: filepath.Join(t.TempDir(), "test.db"),
	}
	db, err := database.Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db, cfg.DBDriver))
	return database.NewStore(db)
}
