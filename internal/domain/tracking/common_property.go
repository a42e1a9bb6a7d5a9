package tracking

import (
	"time"

	"github.com/google/uuid"
	"github.com/trackplan/backend/internal/domain/shared"
)

// CommonProperty is a per-product default value for a property, used only
// to detect drift between event payloads and the agreed defaults. At most
// one default exists per property. Auto-discovery never touches these.
type CommonProperty struct {
	shared.ProductScopedEntity
	PropertyID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	SuggestedValueID uuid.UUID `gorm:"type:uuid;not null;index"`
}

// TableName returns the table name for GORM
func (CommonProperty) TableName() string {
	return "common_properties"
}

// NewCommonProperty creates a default value binding for a property
func NewCommonProperty(productID, propertyID, suggestedValueID uuid.UUID) *CommonProperty {
	return &CommonProperty{
		ProductScopedEntity: shared.NewProductScopedEntity(productID),
		PropertyID:          propertyID,
		SuggestedValueID:    suggestedValueID,
	}
}

// SetValue repoints the default at another suggested value
func (c *CommonProperty) SetValue(suggestedValueID uuid.UUID) {
	c.SuggestedValueID = suggestedValueID
	c.UpdatedAt = time.Now()
}
