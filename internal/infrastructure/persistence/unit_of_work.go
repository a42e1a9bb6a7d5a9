package persistence

import (
	"context"

	"github.com/trackplan/backend/internal/domain/tracking"
	"gorm.io/gorm"
)

// NewRepositories builds the full repository set bound to one data source
func NewRepositories(db *gorm.DB) *tracking.Repositories {
	return &tracking.Repositories{
		Products:         NewGormProductRepository(db),
		Pages:            NewGormPageRepository(db),
		Events:           NewGormEventRepository(db),
		Properties:       NewGormPropertyRepository(db),
		SuggestedValues:  NewGormSuggestedValueRepository(db),
		PropertyValues:   NewGormPropertyValueRepository(db),
		CommonProperties: NewGormCommonPropertyRepository(db),
		Histories:        NewGormEventHistoryRepository(db),
	}
}

// GormUnitOfWork implements tracking.UnitOfWork on a GORM transaction.
// The callback receives repositories bound to the transaction; returning
// an error rolls everything back, so catalog rows and event payloads are
// committed together or not at all.
type GormUnitOfWork struct {
	db *gorm.DB
}

// NewGormUnitOfWork creates a new GormUnitOfWork
func NewGormUnitOfWork(db *gorm.DB) *GormUnitOfWork {
	return &GormUnitOfWork{db: db}
}

// Execute runs fn inside a single database transaction
func (u *GormUnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context, repos *tracking.Repositories) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, NewRepositories(tx))
	})
}

// Ensure GormUnitOfWork implements UnitOfWork
var _ tracking.UnitOfWork = (*GormUnitOfWork)(nil)
