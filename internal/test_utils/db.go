package test_utils

import (
	"database/sql"
	"testing"

	"github.com/moneta-app/moneta/internal/database"
	_ "modernc.org/sqlite"
)

// SetupTestDB creates an isolated in-memory SQLite database with all
// migrations applied and foreign keys enabled. The pragma travels in the
// DSN so it reaches every connection, and the pool is capped at one
// connection because each in-memory connection is a separate database.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", "file::memory:?_pragma=foreign_keys(1)")
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() {
		db.Close()
	})

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to apply migrations: %v", err)
	}

	return db
}
