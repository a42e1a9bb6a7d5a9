package shared

import (
	"github.com/google/uuid"
)

// AggregateRoot is the base interface for all aggregate roots
type AggregateRoot interface {
	Entity
	GetVersion() int
	IncrementVersion()
}

// BaseAggregateRoot provides common fields for aggregate roots
type BaseAggregateRoot struct {
	BaseEntity
	Version int `gorm:"not null;default:1"`
}

// GetVersion returns the aggregate version for optimistic locking
func (a *BaseAggregateRoot) GetVersion() int {
	return a.Version
}

// IncrementVersion increments the version number
func (a *BaseAggregateRoot) IncrementVersion() {
	a.Version++
}

// NewBaseAggregateRoot creates a new base aggregate root
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity: NewBaseEntity(),
		Version:    1,
	}
}

// ProductScopedEntity extends BaseEntity for entities owned by a single product.
// Every catalog uniqueness rule in the system is scoped by ProductID.
type ProductScopedEntity struct {
	BaseEntity
	ProductID uuid.UUID `gorm:"type:uuid;not null;index"`
}

// NewProductScopedEntity creates a new entity bound to a product
func NewProductScopedEntity(productID uuid.UUID) ProductScopedEntity {
	return ProductScopedEntity{
		BaseEntity: NewBaseEntity(),
		ProductID:  productID,
	}
}

// GetProductID returns the owning product ID
func (e *ProductScopedEntity) GetProductID() uuid.UUID {
	return e.ProductID
}
