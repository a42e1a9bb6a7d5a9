package tracking

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/trackplan/backend/internal/domain/shared"
	"github.com/trackplan/backend/internal/domain/tracking"
	"go.uber.org/zap"
)

// ImpactService computes the blast radius of a prospective catalog
// deletion: which events would lose data if a property or suggested
// value were removed. It only reads, so it runs outside any unit of
// work.
type ImpactService struct {
	repos  *tracking.Repositories
	logger *zap.Logger
}

// NewImpactService creates an impact service
func NewImpactService(repos *tracking.Repositories, logger *zap.Logger) *ImpactService {
	return &ImpactService{repos: repos, logger: logger}
}

// PropertyImpact lists the events whose payload carries the property's
// key, with the value each would lose.
func (s *ImpactService) PropertyImpact(ctx context.Context, productID, propertyID uuid.UUID) (*ImpactResult, error) {
	property, err := s.repos.Properties.FindByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if property.ProductID != productID {
		return nil, shared.ErrNotFound
	}

	return s.scan(ctx, productID, func(payload *tracking.Payload) (string, bool) {
		value, ok := payload.Get(property.Name)
		if !ok {
			return "", false
		}
		return tracking.ValueString(value), true
	})
}

// SuggestedValueImpact lists the events whose payload references the
// value, exactly or as a substring of a string value.
func (s *ImpactService) SuggestedValueImpact(ctx context.Context, productID, valueID uuid.UUID) (*ImpactResult, error) {
	suggested, err := s.repos.SuggestedValues.FindByID(ctx, valueID)
	if err != nil {
		return nil, err
	}
	if suggested.ProductID != productID {
		return nil, shared.ErrNotFound
	}

	return s.scan(ctx, productID, func(payload *tracking.Payload) (string, bool) {
		for _, key := range payload.Keys() {
			value, _ := payload.Get(key)
			text := tracking.ValueString(value)
			if text == suggested.Value {
				return text, true
			}
			if str, ok := value.(string); ok && strings.Contains(str, suggested.Value) {
				return str, true
			}
		}
		return "", false
	})
}

// scan walks every event of the product and collects those the match
// function flags, resolving page names for display.
func (s *ImpactService) scan(ctx context.Context, productID uuid.UUID, match func(*tracking.Payload) (string, bool)) (*ImpactResult, error) {
	pages, err := s.repos.Pages.FindAllForProduct(ctx, productID, shared.Filter{})
	if err != nil {
		return nil, err
	}
	pageNames := make(map[uuid.UUID]string, len(pages))
	for _, page := range pages {
		pageNames[page.ID] = page.Name
	}

	events, err := s.repos.Events.FindAllForProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	result := &ImpactResult{Events: []ImpactedEvent{}}
	for i := range events {
		event := &events[i]
		payload, decErr := tracking.DecodePayload(event.Properties)
		if decErr != nil {
			s.logger.Warn("skipping event with malformed payload",
				zap.String("event_id", event.ID.String()),
				zap.Error(decErr))
			continue
		}
		current, ok := match(payload)
		if !ok {
			continue
		}
		result.Events = append(result.Events, ImpactedEvent{
			EventID:      event.ID,
			EventName:    event.Name,
			PageName:     pageNames[event.PageID],
			CurrentValue: current,
		})
	}
	result.Count = len(result.Events)
	return result, nil
}
