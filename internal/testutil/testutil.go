package testutil

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"academicRecords/internal/db"
)

// DBConfig returns a store configuration pointing at a fresh file inside the
// test's temporary directory, with migrations enabled.
func DBConfig(t *testing.T) db.Config {
	t.Helper()
	return db.Config{
		Path:        filepath.Join(t.TempDir(), "academic_system.db"),
		BusyTimeout: 5,
		AutoMigrate: true,
	}
}

// OpenTestDB opens a migrated on-disk SQLite database in a temporary directory.
// The DB is closed via t.Cleanup.
func OpenTestDB(t *testing.T) *sql.DB {
	t.Helper()
	d, err := db.Open(context.Background(), DBConfig(t))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d
}

// OpenInMemoryDB opens an in-memory SQLite database and applies migrations.
// The DB is closed via t.Cleanup.
func OpenInMemoryDB(t *testing.T, name string) *sql.DB {
	t.Helper()
	// Shared cache so every connection of the pool sees the same database.
	d, err := db.Open(context.Background(), db.Config{
		Path:        "file:" + name + "?mode=memory&cache=shared",
		AutoMigrate: true,
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d
}
