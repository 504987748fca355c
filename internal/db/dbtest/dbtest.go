// Package dbtest opens migrated in-memory SQLite databases for tests.
package dbtest

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/yatube/yatube/internal/db"
	"github.com/yatube/yatube/pkg/config"
)

var seq atomic.Int64

// New returns a fresh migrated database that is closed when the test ends
func New(tb testing.TB) *db.DB {
	tb.Helper()

	name := fmt.Sprintf("file:yatube_test_%d?mode=memory&cache=shared&_foreign_keys=on", seq.Add(1))
	database, err := db.New(&config.DatabaseConfig{Driver: "sqlite", URL: name}, "ERROR")
	if err != nil {
		tb.Fatalf("open test database: %v", err)
	}
	tb.Cleanup(func() { _ = database.Close() })

	if err := database.Migrate(context.Background()); err != nil {
		tb.Fatalf("migrate test database: %v", err)
	}
	return database
}
