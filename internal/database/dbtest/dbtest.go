// Package dbtest provides throwaway sqlite databases for tests.
package dbtest

import (
	"path/filepath"
	"testing"

	"rental-backend/internal/database"

	"gorm.io/gorm"
)

// New returns a migrated sqlite database living in the test's temp dir.
func New(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}
