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

// GormSuggestedValueRepository implements SuggestedValueRepository using GORM
type GormSuggestedValueRepository struct {
	db *gorm.DB
}

// NewGormSuggestedValueRepository creates a new GormSuggestedValueRepository
func NewGormSuggestedValueRepository(db *gorm.DB) *GormSuggestedValueRepository {
	return &GormSuggestedValueRepository{db: db}
}

// FindByID finds a suggested value by its ID
func (r *GormSuggestedValueRepository) FindByID(ctx context.Context, id uuid.UUID) (*tracking.SuggestedValue, error) {
	var value tracking.SuggestedValue
	if err := r.db.WithContext(ctx).First(&value, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &value, nil
}

// FindByValue finds a suggested value by its text within a product
func (r *GormSuggestedValueRepository) FindByValue(ctx context.Context, productID uuid.UUID, value string) (*tracking.SuggestedValue, error) {
	var row tracking.SuggestedValue
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND value = ?", productID, value).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

// FindAllForProduct finds all suggested values of a product
func (r *GormSuggestedValueRepository) FindAllForProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]tracking.SuggestedValue, error) {
	var values []tracking.SuggestedValue
	query := applyFilter(
		r.db.WithContext(ctx).Model(&tracking.SuggestedValue{}).Where("product_id = ?", productID),
		filter, SuggestedValueSortFields, "value ASC",
	)
	if filter.Search != "" {
		query = query.Where("value LIKE ?", "%"+filter.Search+"%")
	}
	if err := query.Find(&values).Error; err != nil {
		return nil, err
	}
	return values, nil
}

// FindOrCreate inserts the value unless a row with the same
// (product, value) exists, then returns the surviving row. Races with
// concurrent discoverers are absorbed by ON CONFLICT DO NOTHING.
func (r *GormSuggestedValueRepository) FindOrCreate(ctx context.Context, value *tracking.SuggestedValue) (*tracking.SuggestedValue, error) {
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "product_id"}, {Name: "value"}},
			DoNothing: true,
		}).
		Create(value).Error; err != nil {
		return nil, err
	}
	return r.FindByValue(ctx, value.ProductID, value.Value)
}

// Save creates or updates a suggested value
func (r *GormSuggestedValueRepository) Save(ctx context.Context, value *tracking.SuggestedValue) error {
	return r.db.WithContext(ctx).Save(value).Error
}

// Delete deletes a suggested value
func (r *GormSuggestedValueRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&tracking.SuggestedValue{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteForProduct deletes every suggested value of a product
func (r *GormSuggestedValueRepository) DeleteForProduct(ctx context.Context, productID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&tracking.SuggestedValue{}, "product_id = ?", productID).Error
}

// Ensure GormSuggestedValueRepository implements SuggestedValueRepository
var _ tracking.SuggestedValueRepository = (*GormSuggestedValueRepository)(nil)
