package tracking

import (
	"context"

	"github.com/google/uuid"
	"github.com/trackplan/backend/internal/domain/shared"
	"github.com/trackplan/backend/internal/domain/tracking"
	"go.uber.org/zap"
)

// ConflictService reports drift between an event's payload and the
// product's configured defaults. A payload that omits a defaulted key is
// not in conflict; only a present key carrying a different value is.
type ConflictService struct {
	repos  *tracking.Repositories
	logger *zap.Logger
}

// NewConflictService creates a conflict service
func NewConflictService(repos *tracking.Repositories, logger *zap.Logger) *ConflictService {
	return &ConflictService{repos: repos, logger: logger}
}

// DetectConflicts compares the event's payload against every default of
// its product and returns one finding per diverging key.
func (s *ConflictService) DetectConflicts(ctx context.Context, productID, eventID uuid.UUID) ([]PayloadConflict, error) {
	event, err := s.repos.Events.FindByIDForProduct(ctx, productID, eventID)
	if err != nil {
		return nil, err
	}
	payload, decErr := tracking.DecodePayload(event.Properties)
	if decErr != nil {
		s.logger.Warn("detecting conflicts on malformed payload",
			zap.String("event_id", event.ID.String()),
			zap.Error(decErr))
	}

	commons, err := s.repos.CommonProperties.FindAllForProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	conflicts := []PayloadConflict{}
	for i := range commons {
		common := &commons[i]
		property, err := s.repos.Properties.FindByID(ctx, common.PropertyID)
		if err != nil {
			if err == shared.ErrNotFound {
				continue
			}
			return nil, err
		}
		value, ok := payload.Get(property.Name)
		if !ok {
			continue
		}
		expected, err := s.repos.SuggestedValues.FindByID(ctx, common.SuggestedValueID)
		if err != nil {
			if err == shared.ErrNotFound {
				continue
			}
			return nil, err
		}
		current := tracking.ValueString(value)
		if current == expected.Value {
			continue
		}
		conflicts = append(conflicts, PayloadConflict{
			PropertyKey:      property.Name,
			CurrentValue:     current,
			ExpectedValue:    expected.Value,
			CommonPropertyID: common.ID,
		})
	}
	return conflicts, nil
}
