package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/trackplan/backend/internal/domain/shared"
	"github.com/trackplan/backend/internal/domain/tracking"
	"gorm.io/gorm"
)

// GormCommonPropertyRepository implements CommonPropertyRepository using GORM
type GormCommonPropertyRepository struct {
	db *gorm.DB
}

// NewGormCommonPropertyRepository creates a new GormCommonPropertyRepository
func NewGormCommonPropertyRepository(db *gorm.DB) *GormCommonPropertyRepository {
	return &GormCommonPropertyRepository{db: db}
}

// FindByID finds a common property by its ID
func (r *GormCommonPropertyRepository) FindByID(ctx context.Context, id uuid.UUID) (*tracking.CommonProperty, error) {
	var common tracking.CommonProperty
	if err := r.db.WithContext(ctx).First(&common, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &common, nil
}

// FindByProperty finds the default configured for a property, if any
func (r *GormCommonPropertyRepository) FindByProperty(ctx context.Context, propertyID uuid.UUID) (*tracking.CommonProperty, error) {
	var common tracking.CommonProperty
	if err := r.db.WithContext(ctx).
		Where("property_id = ?", propertyID).
		First(&common).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &common, nil
}

// FindAllForProduct finds every default configured for a product
func (r *GormCommonPropertyRepository) FindAllForProduct(ctx context.Context, productID uuid.UUID) ([]tracking.CommonProperty, error) {
	var commons []tracking.CommonProperty
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Find(&commons).Error; err != nil {
		return nil, err
	}
	return commons, nil
}

// Save creates or updates a common property
func (r *GormCommonPropertyRepository) Save(ctx context.Context, common *tracking.CommonProperty) error {
	return r.db.WithContext(ctx).Save(common).Error
}

// Delete deletes a common property
func (r *GormCommonPropertyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&tracking.CommonProperty{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteForProperty deletes the defaults pointing at a property
func (r *GormCommonPropertyRepository) DeleteForProperty(ctx context.Context, propertyID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&tracking.CommonProperty{}, "property_id = ?", propertyID).Error
}

// DeleteForSuggestedValue deletes the defaults pointing at a suggested value
func (r *GormCommonPropertyRepository) DeleteForSuggestedValue(ctx context.Context, suggestedValueID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&tracking.CommonProperty{}, "suggested_value_id = ?", suggestedValueID).Error
}

// DeleteForProduct deletes every default of a product
func (r *GormCommonPropertyRepository) DeleteForProduct(ctx context.Context, productID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&tracking.CommonProperty{}, "product_id = ?", productID).Error
}

// Ensure GormCommonPropertyRepository implements CommonPropertyRepository
var _ tracking.CommonPropertyRepository = (*GormCommonPropertyRepository)(nil)
