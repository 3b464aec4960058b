package test_utils

import (
	"database/sql"
	"testing"

	"github.com/scheinerik/schedule/internal/database"
)

// SetupTestDB creates a new in-memory sqlite database with all migrations applied.
// Each database is isolated from the others and closed when the test ends.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.OpenSqlite(":memory:")
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
	})

	if err := database.MigrateSqlite(db); err != nil {
		t.Fatalf("Failed to apply migrations: %v", err)
	}
	return db
}
