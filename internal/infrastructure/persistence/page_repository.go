package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/trackplan/backend/internal/domain/shared"
	"github.com/trackplan/backend/internal/domain/tracking"
	"gorm.io/gorm"
)

// GormPageRepository implements PageRepository using GORM
type GormPageRepository struct {
	db *gorm.DB
}

// NewGormPageRepository creates a new GormPageRepository
func NewGormPageRepository(db *gorm.DB) *GormPageRepository {
	return &GormPageRepository{db: db}
}

// FindByID finds a page by its ID
func (r *GormPageRepository) FindByID(ctx context.Context, id uuid.UUID) (*tracking.Page, error) {
	var page tracking.Page
	if err := r.db.WithContext(ctx).First(&page, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &page, nil
}

// FindByIDForProduct finds a page by ID within a product
func (r *GormPageRepository) FindByIDForProduct(ctx context.Context, productID, id uuid.UUID) (*tracking.Page, error) {
	var page tracking.Page
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND id = ?", productID, id).
		First(&page).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &page, nil
}

// FindAllForProduct finds all pages of a product
func (r *GormPageRepository) FindAllForProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]tracking.Page, error) {
	var pages []tracking.Page
	query := applyFilter(
		r.db.WithContext(ctx).Model(&tracking.Page{}).Where("product_id = ?", productID),
		filter, PageSortFields, "name ASC",
	)
	if filter.Search != "" {
		query = query.Where("name LIKE ?", "%"+filter.Search+"%")
	}
	if err := query.Find(&pages).Error; err != nil {
		return nil, err
	}
	return pages, nil
}

// CountForProduct counts pages of a product
func (r *GormPageRepository) CountForProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&tracking.Page{}).
		Where("product_id = ?", productID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a page
func (r *GormPageRepository) Save(ctx context.Context, page *tracking.Page) error {
	return r.db.WithContext(ctx).Save(page).Error
}

// Delete deletes a page
func (r *GormPageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&tracking.Page{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteForProduct deletes every page of a product
func (r *GormPageRepository) DeleteForProduct(ctx context.Context, productID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&tracking.Page{}, "product_id = ?", productID).Error
}

// Ensure GormPageRepository implements PageRepository
var _ tracking.PageRepository = (*GormPageRepository)(nil)
