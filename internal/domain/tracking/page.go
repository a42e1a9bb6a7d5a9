package tracking

import (
	"time"

	"github.com/google/uuid"
	"github.com/trackplan/backend/internal/domain/shared"
)

// Page groups the tracked events of a product, typically one page or
// screen of the instrumented application.
type Page struct {
	shared.ProductScopedEntity
	Name        string `gorm:"type:varchar(200);not null"`
	Description string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Page) TableName() string {
	return "pages"
}

// NewPage creates a new page within a product
func NewPage(productID uuid.UUID, name, description string) (*Page, error) {
	if err := validatePageName(name); err != nil {
		return nil, err
	}
	return &Page{
		ProductScopedEntity: shared.NewProductScopedEntity(productID),
		Name:                name,
		Description:         description,
	}, nil
}

// Update updates the page's basic information
func (p *Page) Update(name, description string) error {
	if err := validatePageName(name); err != nil {
		return err
	}
	p.Name = name
	p.Description = description
	p.UpdatedAt = time.Now()
	return nil
}

func validatePageName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Page name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Page name cannot exceed 200 characters")
	}
	return nil
}
