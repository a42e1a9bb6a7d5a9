// Package integration provides API-level tests for the trackplan backend.
// Tests run against an in-memory SQLite database with the full HTTP stack
// wired on top.
package integration

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/trackplan/backend/internal/domain/tracking"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// TestDB wraps an in-memory database with the schema migrated
type TestDB struct {
	DB *gorm.DB
}

// NewTestDB creates a fresh in-memory database for one test
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&tracking.Product{},
		&tracking.Page{},
		&tracking.Event{},
		&tracking.Property{},
		&tracking.SuggestedValue{},
		&tracking.PropertyValue{},
		&tracking.CommonProperty{},
		&tracking.EventHistory{},
	)
	require.NoError(t, err)

	return &TestDB{DB: db}
}
