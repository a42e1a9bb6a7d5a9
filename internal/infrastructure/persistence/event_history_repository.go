package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/trackplan/backend/internal/domain/shared"
	"github.com/trackplan/backend/internal/domain/tracking"
	"gorm.io/gorm"
)

// GormEventHistoryRepository implements EventHistoryRepository using GORM
type GormEventHistoryRepository struct {
	db *gorm.DB
}

// NewGormEventHistoryRepository creates a new GormEventHistoryRepository
func NewGormEventHistoryRepository(db *gorm.DB) *GormEventHistoryRepository {
	return &GormEventHistoryRepository{db: db}
}

// Append inserts an audit row. History rows are never updated.
func (r *GormEventHistoryRepository) Append(ctx context.Context, history *tracking.EventHistory) error {
	return r.db.WithContext(ctx).Create(history).Error
}

// FindAllForEvent finds the audit rows of an event, newest first
func (r *GormEventHistoryRepository) FindAllForEvent(ctx context.Context, eventID uuid.UUID, filter shared.Filter) ([]tracking.EventHistory, error) {
	var histories []tracking.EventHistory
	query := applyFilter(
		r.db.WithContext(ctx).Model(&tracking.EventHistory{}).Where("event_id = ?", eventID),
		filter, EventHistorySortFields, "created_at DESC",
	)
	if err := query.Find(&histories).Error; err != nil {
		return nil, err
	}
	return histories, nil
}

// DeleteForEvent deletes the audit trail of an event, used when the
// event itself is removed
func (r *GormEventHistoryRepository) DeleteForEvent(ctx context.Context, eventID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&tracking.EventHistory{}, "event_id = ?", eventID).Error
}

// Ensure GormEventHistoryRepository implements EventHistoryRepository
var _ tracking.EventHistoryRepository = (*GormEventHistoryRepository)(nil)
