// Package dbtest opens migrated in-memory SQLite databases for tests.
package dbtest

import (
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/mintreplica/mintlite/internal/db"
)

const memoryDSN = ":memory:?_pragma=foreign_keys(1)"

// Open returns a fresh database with every migration applied. It is closed when the
// test ends.
func Open(t testing.TB) *sqlx.DB {
	t.Helper()

	database, err := db.Init("sqlite", memoryDSN)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close(database)
	})

	err = db.RunMigrations(database.DB, "sqlite")
	if err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	return database
}
