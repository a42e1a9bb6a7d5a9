package tracking

import (
	"time"

	"github.com/trackplan/backend/internal/domain/shared"
)

// Product is the scoping boundary of the system. Pages, events and the
// whole property/value catalog hang off a single product, and every
// catalog uniqueness rule is scoped to one.
type Product struct {
	shared.BaseAggregateRoot
	Name        string `gorm:"type:varchar(120);not null;uniqueIndex"`
	Description string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product
func NewProduct(name, description string) (*Product, error) {
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Description:       description,
	}, nil
}

// Update updates the product's basic information
func (p *Product) Update(name, description string) error {
	if err := validateProductName(name); err != nil {
		return err
	}
	p.Name = name
	p.Description = description
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

func validateProductName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 120 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 120 characters")
	}
	return nil
}
