package testutil

import (
	"testing"

	"gorm.io/gorm"

	"github.com/BuzzLyutic/taskmaster-api/internal/store"
)

// SetupSQLite opens a migrated in-memory SQLite store that lives for the test.
func SetupSQLite(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := store.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("Failed to open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}
