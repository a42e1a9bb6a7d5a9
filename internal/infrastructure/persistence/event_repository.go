package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/trackplan/backend/internal/domain/shared"
	"github.com/trackplan/backend/internal/domain/tracking"
	"gorm.io/gorm"
)

// GormEventRepository implements EventRepository using GORM
type GormEventRepository struct {
	db *gorm.DB
}

// NewGormEventRepository creates a new GormEventRepository
func NewGormEventRepository(db *gorm.DB) *GormEventRepository {
	return &GormEventRepository{db: db}
}

// FindByID finds an event by its ID
func (r *GormEventRepository) FindByID(ctx context.Context, id uuid.UUID) (*tracking.Event, error) {
	var event tracking.Event
	if err := r.db.WithContext(ctx).First(&event, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &event, nil
}

// FindByIDForProduct finds an event by ID within a product
func (r *GormEventRepository) FindByIDForProduct(ctx context.Context, productID, id uuid.UUID) (*tracking.Event, error) {
	var event tracking.Event
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND id = ?", productID, id).
		First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &event, nil
}

// FindAllForPage finds all events of a page
func (r *GormEventRepository) FindAllForPage(ctx context.Context, pageID uuid.UUID, filter shared.Filter) ([]tracking.Event, error) {
	var events []tracking.Event
	query := applyFilter(
		r.db.WithContext(ctx).Model(&tracking.Event{}).Where("page_id = ?", pageID),
		filter, EventSortFields, "name ASC",
	)
	if filter.Search != "" {
		query = query.Where("name LIKE ?", "%"+filter.Search+"%")
	}
	if err := query.Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// FindAllForProduct loads every event of a product, the scan behind
// rename, merge and impact analysis. Unpaginated on purpose: correctness
// of those operations requires visiting every event.
func (r *GormEventRepository) FindAllForProduct(ctx context.Context, productID uuid.UUID) ([]tracking.Event, error) {
	var events []tracking.Event
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at ASC").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// CountForPage counts events of a page
func (r *GormEventRepository) CountForPage(ctx context.Context, pageID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&tracking.Event{}).
		Where("page_id = ?", pageID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates an event
func (r *GormEventRepository) Save(ctx context.Context, event *tracking.Event) error {
	return r.db.WithContext(ctx).Save(event).Error
}

// Delete deletes an event
func (r *GormEventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&tracking.Event{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteForPage deletes every event of a page
func (r *GormEventRepository) DeleteForPage(ctx context.Context, pageID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&tracking.Event{}, "page_id = ?", pageID).Error
}

// DeleteForProduct deletes every event of a product
func (r *GormEventRepository) DeleteForProduct(ctx context.Context, productID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&tracking.Event{}, "product_id = ?", productID).Error
}

// Ensure GormEventRepository implements EventRepository
var _ tracking.EventRepository = (*GormEventRepository)(nil)
