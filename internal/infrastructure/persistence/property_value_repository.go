package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/trackplan/backend/internal/domain/shared"
	"github.com/trackplan/backend/internal/domain/tracking"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPropertyValueRepository implements PropertyValueRepository using GORM
type GormPropertyValueRepository struct {
	db *gorm.DB
}

// NewGormPropertyValueRepository creates a new GormPropertyValueRepository
func NewGormPropertyValueRepository(db *gorm.DB) *GormPropertyValueRepository {
	return &GormPropertyValueRepository{db: db}
}

// FindByPair finds the association for a (property, value) pair
func (r *GormPropertyValueRepository) FindByPair(ctx context.Context, propertyID, suggestedValueID uuid.UUID) (*tracking.PropertyValue, error) {
	var association tracking.PropertyValue
	if err := r.db.WithContext(ctx).
		Where("property_id = ? AND suggested_value_id = ?", propertyID, suggestedValueID).
		First(&association).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &association, nil
}

// FindAllForProperty finds all associations of a property
func (r *GormPropertyValueRepository) FindAllForProperty(ctx context.Context, propertyID uuid.UUID) ([]tracking.PropertyValue, error) {
	var associations []tracking.PropertyValue
	if err := r.db.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Find(&associations).Error; err != nil {
		return nil, err
	}
	return associations, nil
}

// FindAllForSuggestedValue finds all associations of a suggested value
func (r *GormPropertyValueRepository) FindAllForSuggestedValue(ctx context.Context, suggestedValueID uuid.UUID) ([]tracking.PropertyValue, error) {
	var associations []tracking.PropertyValue
	if err := r.db.WithContext(ctx).
		Where("suggested_value_id = ?", suggestedValueID).
		Find(&associations).Error; err != nil {
		return nil, err
	}
	return associations, nil
}

// CreateIfAbsent inserts the association unless the pair already exists.
// The duplicate case is silent: during merges and discovery it is the
// expected outcome, not an error.
func (r *GormPropertyValueRepository) CreateIfAbsent(ctx context.Context, association *tracking.PropertyValue) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "property_id"}, {Name: "suggested_value_id"}},
			DoNothing: true,
		}).
		Create(association).Error
}

// Delete deletes an association
func (r *GormPropertyValueRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&tracking.PropertyValue{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteForProperty deletes every association of a property
func (r *GormPropertyValueRepository) DeleteForProperty(ctx context.Context, propertyID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&tracking.PropertyValue{}, "property_id = ?", propertyID).Error
}

// DeleteForSuggestedValue deletes every association of a suggested value
func (r *GormPropertyValueRepository) DeleteForSuggestedValue(ctx context.Context, suggestedValueID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&tracking.PropertyValue{}, "suggested_value_id = ?", suggestedValueID).Error
}

// Ensure GormPropertyValueRepository implements PropertyValueRepository
var _ tracking.PropertyValueRepository = (*GormPropertyValueRepository)(nil)
