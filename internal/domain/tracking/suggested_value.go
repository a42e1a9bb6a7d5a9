package tracking

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/trackplan/backend/internal/domain/shared"
)

// ContextualPrefix marks a value as contextual: a placeholder resolved at
// tracking time (e.g. "$page-name") rather than a literal value.
const ContextualPrefix = "$"

// IsContextualValue reports whether a value string is contextual by the
// prefix rule.
func IsContextualValue(value string) bool {
	return strings.HasPrefix(value, ContextualPrefix)
}

// SuggestedValue is a catalog entry for a reusable value, stored and
// compared in its string representation. Values are unique per product.
type SuggestedValue struct {
	shared.ProductScopedEntity
	Value        string `gorm:"type:text;not null;uniqueIndex:idx_suggested_value_product_value,priority:2"`
	IsContextual bool   `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (SuggestedValue) TableName() string {
	return "suggested_values"
}

// NewSuggestedValue creates a new suggested value, deriving the
// contextual flag from the prefix rule.
func NewSuggestedValue(productID uuid.UUID, value string) (*SuggestedValue, error) {
	if err := validateSuggestedValue(value); err != nil {
		return nil, err
	}
	return &SuggestedValue{
		ProductScopedEntity: shared.NewProductScopedEntity(productID),
		Value:               value,
		IsContextual:        IsContextualValue(value),
	}, nil
}

// SetValue replaces the stored text and re-derives the contextual flag.
// Payload propagation is the caller's concern.
func (v *SuggestedValue) SetValue(value string) error {
	if err := validateSuggestedValue(value); err != nil {
		return err
	}
	v.Value = value
	v.IsContextual = IsContextualValue(value)
	v.UpdatedAt = time.Now()
	return nil
}

// OverrideContextual sets the contextual flag manually. Manual overrides
// are permitted and are not re-validated against the prefix rule.
func (v *SuggestedValue) OverrideContextual(isContextual bool) {
	v.IsContextual = isContextual
	v.UpdatedAt = time.Now()
}

func validateSuggestedValue(value string) error {
	if value == "" {
		return shared.NewDomainError("INVALID_VALUE", "Suggested value cannot be empty")
	}
	return nil
}
