package tracking

import (
	"context"

	"github.com/google/uuid"
	"github.com/trackplan/backend/internal/domain/tracking"
	"go.uber.org/zap"
)

// DiscoveryService keeps the catalog in sync with event payloads. Every
// key/value pair saved on an event is registered as a Property, a
// SuggestedValue and their association, so the catalog is always a
// superset of what the payloads reference. Re-discovering the same
// payload is a no-op.
type DiscoveryService struct {
	uow    tracking.UnitOfWork
	logger *zap.Logger
}

// NewDiscoveryService creates a discovery service
func NewDiscoveryService(uow tracking.UnitOfWork, logger *zap.Logger) *DiscoveryService {
	return &DiscoveryService{uow: uow, logger: logger}
}

// Discover registers every pair of the payload in its own transaction
func (s *DiscoveryService) Discover(ctx context.Context, productID uuid.UUID, payload *tracking.Payload) error {
	return s.uow.Execute(ctx, func(ctx context.Context, repos *tracking.Repositories) error {
		return s.DiscoverWithin(ctx, repos, productID, payload)
	})
}

// DiscoverWithin registers every pair of the payload using the caller's
// transaction-bound repositories. Event writes compose this so the
// payload and the catalog rows it references commit together.
func (s *DiscoveryService) DiscoverWithin(ctx context.Context, repos *tracking.Repositories, productID uuid.UUID, payload *tracking.Payload) error {
	for _, key := range payload.Keys() {
		value, _ := payload.Get(key)

		property, err := tracking.NewDiscoveredProperty(productID, key, value)
		if err != nil {
			s.logger.Warn("skipping undiscoverable payload key",
				zap.String("product_id", productID.String()),
				zap.String("key", key),
				zap.Error(err))
			continue
		}
		property, err = repos.Properties.FindOrCreate(ctx, property)
		if err != nil {
			return err
		}

		suggested, err := tracking.NewSuggestedValue(productID, tracking.ValueString(value))
		if err != nil {
			s.logger.Warn("skipping undiscoverable payload value",
				zap.String("product_id", productID.String()),
				zap.String("key", key),
				zap.Error(err))
			continue
		}
		suggested, err = repos.SuggestedValues.FindOrCreate(ctx, suggested)
		if err != nil {
			return err
		}

		if err := repos.PropertyValues.CreateIfAbsent(ctx, tracking.NewPropertyValue(property.ID, suggested.ID)); err != nil {
			return err
		}
	}
	return nil
}
