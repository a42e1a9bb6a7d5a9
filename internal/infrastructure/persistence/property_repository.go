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

// GormPropertyRepository implements PropertyRepository using GORM
type GormPropertyRepository struct {
	db *gorm.DB
}

// NewGormPropertyRepository creates a new GormPropertyRepository
func NewGormPropertyRepository(db *gorm.DB) *GormPropertyRepository {
	return &GormPropertyRepository{db: db}
}

// FindByID finds a property by its ID
func (r *GormPropertyRepository) FindByID(ctx context.Context, id uuid.UUID) (*tracking.Property, error) {
	var property tracking.Property
	if err := r.db.WithContext(ctx).First(&property, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &property, nil
}

// FindByName finds a property by name within a product. Matching is
// case-sensitive exact equality.
func (r *GormPropertyRepository) FindByName(ctx context.Context, productID uuid.UUID, name string) (*tracking.Property, error) {
	var property tracking.Property
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND name = ?", productID, name).
		First(&property).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &property, nil
}

// FindAllForProduct finds all properties of a product
func (r *GormPropertyRepository) FindAllForProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]tracking.Property, error) {
	var properties []tracking.Property
	query := applyFilter(
		r.db.WithContext(ctx).Model(&tracking.Property{}).Where("product_id = ?", productID),
		filter, PropertySortFields, "name ASC",
	)
	if filter.Search != "" {
		query = query.Where("name LIKE ?", "%"+filter.Search+"%")
	}
	if err := query.Find(&properties).Error; err != nil {
		return nil, err
	}
	return properties, nil
}

// FindOrCreate inserts the property unless a row with the same
// (product, name) already exists, then returns the surviving row. The
// insert uses ON CONFLICT DO NOTHING so a concurrent writer winning the
// race is indistinguishable from the row having existed all along.
func (r *GormPropertyRepository) FindOrCreate(ctx context.Context, property *tracking.Property) (*tracking.Property, error) {
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "product_id"}, {Name: "name"}},
			DoNothing: true,
		}).
		Create(property).Error; err != nil {
		return nil, err
	}
	return r.FindByName(ctx, property.ProductID, property.Name)
}

// Save creates or updates a property
func (r *GormPropertyRepository) Save(ctx context.Context, property *tracking.Property) error {
	return r.db.WithContext(ctx).Save(property).Error
}

// Delete deletes a property
func (r *GormPropertyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&tracking.Property{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteForProduct deletes every property of a product
func (r *GormPropertyRepository) DeleteForProduct(ctx context.Context, productID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&tracking.Property{}, "product_id = ?", productID).Error
}

// Ensure GormPropertyRepository implements PropertyRepository
var _ tracking.PropertyRepository = (*GormPropertyRepository)(nil)
