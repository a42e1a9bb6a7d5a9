package tracking

import (
	"time"

	"github.com/google/uuid"
	"github.com/trackplan/backend/internal/domain/shared"
)

// PropertyType represents the shape of the values a property carries
type PropertyType string

const (
	PropertyTypeString  PropertyType = "string"
	PropertyTypeNumber  PropertyType = "number"
	PropertyTypeBoolean PropertyType = "boolean"
	PropertyTypeArray   PropertyType = "array"
	PropertyTypeObject  PropertyType = "object"
)

// IsValid reports whether the type is one of the known values
func (t PropertyType) IsValid() bool {
	switch t {
	case PropertyTypeString, PropertyTypeNumber, PropertyTypeBoolean, PropertyTypeArray, PropertyTypeObject:
		return true
	}
	return false
}

// Property is a catalog entry naming an attribute that events of the
// product may carry. Names are unique per product, case-sensitive.
type Property struct {
	shared.ProductScopedEntity
	Name        string       `gorm:"type:varchar(200);not null;uniqueIndex:idx_property_product_name,priority:2"`
	Type        PropertyType `gorm:"type:varchar(20);not null;default:'string'"`
	Description string       `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Property) TableName() string {
	return "properties"
}

// NewProperty creates a new catalog property
func NewProperty(productID uuid.UUID, name string, propType PropertyType, description string) (*Property, error) {
	if err := validatePropertyName(name); err != nil {
		return nil, err
	}
	if !propType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TYPE", "Unknown property type: "+string(propType))
	}
	return &Property{
		ProductScopedEntity: shared.NewProductScopedEntity(productID),
		Name:                name,
		Type:                propType,
		Description:         description,
	}, nil
}

// NewDiscoveredProperty creates a property inferred from a payload value
// during auto-discovery, with a description noting its origin.
func NewDiscoveredProperty(productID uuid.UUID, name string, value any) (*Property, error) {
	return NewProperty(productID, name, InferPropertyType(value), "Auto-created from an event payload")
}

// Rename changes the property name. Payload propagation is the caller's
// concern; the entity only validates the new name.
func (p *Property) Rename(name string) error {
	if err := validatePropertyName(name); err != nil {
		return err
	}
	p.Name = name
	p.UpdatedAt = time.Now()
	return nil
}

// Update updates the property's type and description
func (p *Property) Update(propType PropertyType, description string) error {
	if !propType.IsValid() {
		return shared.NewDomainError("INVALID_TYPE", "Unknown property type: "+string(propType))
	}
	p.Type = propType
	p.Description = description
	p.UpdatedAt = time.Now()
	return nil
}

func validatePropertyName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Property name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Property name cannot exceed 200 characters")
	}
	return nil
}
