package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// NewTestDB creates a new in-memory SQLite database for testing
func NewTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(":memory:")
	require.NoError(t, err, "failed to create test database")

	err = db.RunMigrations()
	require.NoError(t, err, "failed to run migrations")

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// TestMigrations verifies that migrations run successfully
func TestMigrations(t *testing.T) {
	db := NewTestDB(t)

	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", "kv_entries").Scan(&count)
	require.NoError(t, err)
	require.Equal(t, 1, count, "table kv_entries not found")
}

// TestMigrationsIdempotent verifies migrations can run on an existing schema
func TestMigrationsIdempotent(t *testing.T) {
	db := NewTestDB(t)
	require.NoError(t, db.RunMigrations())
}

// TestFileDatabase verifies values survive reopening a file database
func TestFileDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "counts.db")

	db, err := New(path)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	_, err = db.Exec(`INSERT INTO kv_entries (key, value) VALUES (?, ?)`, "k", "v")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = New(path)
	require.NoError(t, err)
	defer db.Close()

	var value string
	require.NoError(t, db.QueryRow(`SELECT value FROM kv_entries WHERE key = ?`, "k").Scan(&value))
	require.Equal(t, "v", value)
}
