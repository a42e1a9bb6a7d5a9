package tracking

import (
	"context"

	"github.com/google/uuid"
	"github.com/trackplan/backend/internal/domain/shared"
)

// ProductRepository persists products
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// PageRepository persists pages
type PageRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Page, error)
	FindByIDForProduct(ctx context.Context, productID, id uuid.UUID) (*Page, error)
	FindAllForProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]Page, error)
	CountForProduct(ctx context.Context, productID uuid.UUID) (int64, error)
	Save(ctx context.Context, page *Page) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteForProduct(ctx context.Context, productID uuid.UUID) error
}

// EventRepository persists events. FindAllForProduct is the scan the
// rename/merge/impact paths iterate; it loads every event of a product.
type EventRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Event, error)
	FindByIDForProduct(ctx context.Context, productID, id uuid.UUID) (*Event, error)
	FindAllForPage(ctx context.Context, pageID uuid.UUID, filter shared.Filter) ([]Event, error)
	FindAllForProduct(ctx context.Context, productID uuid.UUID) ([]Event, error)
	CountForPage(ctx context.Context, pageID uuid.UUID) (int64, error)
	Save(ctx context.Context, event *Event) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteForPage(ctx context.Context, pageID uuid.UUID) error
	DeleteForProduct(ctx context.Context, productID uuid.UUID) error
}

// PropertyRepository persists catalog properties. FindOrCreate is the
// insert-or-get used by auto-discovery: a unique-constraint race with a
// concurrent writer is absorbed and the surviving row is returned.
type PropertyRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Property, error)
	FindByName(ctx context.Context, productID uuid.UUID, name string) (*Property, error)
	FindAllForProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]Property, error)
	FindOrCreate(ctx context.Context, property *Property) (*Property, error)
	Save(ctx context.Context, property *Property) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteForProduct(ctx context.Context, productID uuid.UUID) error
}

// SuggestedValueRepository persists catalog values, with the same
// insert-or-get contract as PropertyRepository.
type SuggestedValueRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*SuggestedValue, error)
	FindByValue(ctx context.Context, productID uuid.UUID, value string) (*SuggestedValue, error)
	FindAllForProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]SuggestedValue, error)
	FindOrCreate(ctx context.Context, value *SuggestedValue) (*SuggestedValue, error)
	Save(ctx context.Context, value *SuggestedValue) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteForProduct(ctx context.Context, productID uuid.UUID) error
}

// PropertyValueRepository persists property/value associations
type PropertyValueRepository interface {
	FindByPair(ctx context.Context, propertyID, suggestedValueID uuid.UUID) (*PropertyValue, error)
	FindAllForProperty(ctx context.Context, propertyID uuid.UUID) ([]PropertyValue, error)
	FindAllForSuggestedValue(ctx context.Context, suggestedValueID uuid.UUID) ([]PropertyValue, error)
	CreateIfAbsent(ctx context.Context, association *PropertyValue) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteForProperty(ctx context.Context, propertyID uuid.UUID) error
	DeleteForSuggestedValue(ctx context.Context, suggestedValueID uuid.UUID) error
}

// CommonPropertyRepository persists per-product property defaults
type CommonPropertyRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*CommonProperty, error)
	FindByProperty(ctx context.Context, propertyID uuid.UUID) (*CommonProperty, error)
	FindAllForProduct(ctx context.Context, productID uuid.UUID) ([]CommonProperty, error)
	Save(ctx context.Context, common *CommonProperty) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteForProperty(ctx context.Context, propertyID uuid.UUID) error
	DeleteForSuggestedValue(ctx context.Context, suggestedValueID uuid.UUID) error
	DeleteForProduct(ctx context.Context, productID uuid.UUID) error
}

// EventHistoryRepository persists audit rows
type EventHistoryRepository interface {
	Append(ctx context.Context, history *EventHistory) error
	FindAllForEvent(ctx context.Context, eventID uuid.UUID, filter shared.Filter) ([]EventHistory, error)
	DeleteForEvent(ctx context.Context, eventID uuid.UUID) error
}

// Repositories bundles every repository of the tracking context, all
// bound to the same data source (or, inside a unit of work, to the same
// transaction).
type Repositories struct {
	Products         ProductRepository
	Pages            PageRepository
	Events           EventRepository
	Properties       PropertyRepository
	SuggestedValues  SuggestedValueRepository
	PropertyValues   PropertyValueRepository
	CommonProperties CommonPropertyRepository
	Histories        EventHistoryRepository
}

// UnitOfWork executes a function with repositories bound to a single
// transaction. Catalog rows and event payloads are only ever mutated
// together through this, so a reader can never observe them diverging:
// the function's error rolls the whole transaction back.
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(ctx context.Context, repos *Repositories) error) error
}
