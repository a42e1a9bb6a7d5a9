package tracking

import (
	"github.com/google/uuid"
	"github.com/trackplan/backend/internal/domain/shared"
)

// PropertyValue records that a value has been seen, or is allowed, for a
// property. The (property, value) pair is unique.
type PropertyValue struct {
	shared.BaseEntity
	PropertyID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_property_value_pair,priority:1"`
	SuggestedValueID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_property_value_pair,priority:2;index"`
}

// TableName returns the table name for GORM
func (PropertyValue) TableName() string {
	return "property_values"
}

// NewPropertyValue creates a new property/value association
func NewPropertyValue(propertyID, suggestedValueID uuid.UUID) *PropertyValue {
	return &PropertyValue{
		BaseEntity:       shared.NewBaseEntity(),
		PropertyID:       propertyID,
		SuggestedValueID: suggestedValueID,
	}
}
