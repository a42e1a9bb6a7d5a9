package tracking

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/trackplan/backend/internal/domain/tracking"
	"github.com/trackplan/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// testEnv is an in-memory SQLite database with the real repositories and
// unit of work wired on top, so service tests exercise the same
// transactional paths as production.
type testEnv struct {
	db    *gorm.DB
	repos *tracking.Repositories
	uow   tracking.UnitOfWork
	log   *zap.Logger
}

func setupTestEnv(t *testing.T) *testEnv {
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

	return &testEnv{
		db:    db,
		repos: persistence.NewRepositories(db),
		uow:   persistence.NewGormUnitOfWork(db),
		log:   zap.NewNop(),
	}
}

func (e *testEnv) createProduct(t *testing.T, name string) *tracking.Product {
	t.Helper()
	product, err := tracking.NewProduct(name, "")
	require.NoError(t, err)
	require.NoError(t, e.db.Create(product).Error)
	return product
}

func (e *testEnv) createPage(t *testing.T, productID uuid.UUID, name string) *tracking.Page {
	t.Helper()
	page, err := tracking.NewPage(productID, name, "")
	require.NoError(t, err)
	require.NoError(t, e.db.Create(page).Error)
	return page
}

func (e *testEnv) createEvent(t *testing.T, page *tracking.Page, name, properties string) *tracking.Event {
	t.Helper()
	event, err := tracking.NewEvent(page.ProductID, page.ID, name)
	require.NoError(t, err)
	if properties != "" {
		event.Properties = properties
	}
	require.NoError(t, e.db.Create(event).Error)
	return event
}

func (e *testEnv) createProperty(t *testing.T, productID uuid.UUID, name string) *tracking.Property {
	t.Helper()
	property, err := tracking.NewProperty(productID, name, tracking.PropertyTypeString, "")
	require.NoError(t, err)
	require.NoError(t, e.db.Create(property).Error)
	return property
}

func (e *testEnv) createValue(t *testing.T, productID uuid.UUID, text string) *tracking.SuggestedValue {
	t.Helper()
	value, err := tracking.NewSuggestedValue(productID, text)
	require.NoError(t, err)
	require.NoError(t, e.db.Create(value).Error)
	return value
}

func (e *testEnv) associate(t *testing.T, propertyID, valueID uuid.UUID) {
	t.Helper()
	require.NoError(t, e.db.Create(tracking.NewPropertyValue(propertyID, valueID)).Error)
}

func (e *testEnv) reloadEvent(t *testing.T, id uuid.UUID) *tracking.Event {
	t.Helper()
	var event tracking.Event
	require.NoError(t, e.db.First(&event, "id = ?", id).Error)
	return &event
}

func (e *testEnv) histories(t *testing.T, eventID uuid.UUID) []tracking.EventHistory {
	t.Helper()
	var rows []tracking.EventHistory
	require.NoError(t, e.db.Where("event_id = ?", eventID).Order("created_at ASC").Find(&rows).Error)
	return rows
}
