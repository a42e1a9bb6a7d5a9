package persistence

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/trackplan/backend/internal/domain/tracking"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB opens an in-memory SQLite database with the full schema.
// The GORM tags on the domain entities are SQLite-compatible, so the
// production models can be migrated directly.
func setupTestDB(t *testing.T) *gorm.DB {
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

	return db
}

func mustCreateProduct(t *testing.T, db *gorm.DB, name string) *tracking.Product {
	t.Helper()
	product, err := tracking.NewProduct(name, "")
	require.NoError(t, err)
	require.NoError(t, db.Create(product).Error)
	return product
}

func mustCreatePage(t *testing.T, db *gorm.DB, product *tracking.Product, name string) *tracking.Page {
	t.Helper()
	page, err := tracking.NewPage(product.ID, name, "")
	require.NoError(t, err)
	require.NoError(t, db.Create(page).Error)
	return page
}

func mustCreateEvent(t *testing.T, db *gorm.DB, page *tracking.Page, name, properties string) *tracking.Event {
	t.Helper()
	event, err := tracking.NewEvent(page.ProductID, page.ID, name)
	require.NoError(t, err)
	if properties != "" {
		event.Properties = properties
	}
	require.NoError(t, db.Create(event).Error)
	return event
}
