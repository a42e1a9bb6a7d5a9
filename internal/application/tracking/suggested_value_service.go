package tracking

import (
	"context"

	"github.com/google/uuid"
	"github.com/trackplan/backend/internal/domain/shared"
	"github.com/trackplan/backend/internal/domain/tracking"
	"go.uber.org/zap"
)

// SuggestedValueService manages catalog values. Deleting a value strips
// it from every payload that references it.
type SuggestedValueService struct {
	repos  *tracking.Repositories
	uow    tracking.UnitOfWork
	logger *zap.Logger
}

// NewSuggestedValueService creates a suggested value service
func NewSuggestedValueService(repos *tracking.Repositories, uow tracking.UnitOfWork, logger *zap.Logger) *SuggestedValueService {
	return &SuggestedValueService{repos: repos, uow: uow, logger: logger}
}

// Create creates a suggested value in the product's catalog. The
// contextual flag is derived from the "$" prefix unless the request
// overrides it.
func (s *SuggestedValueService) Create(ctx context.Context, productID uuid.UUID, req CreateSuggestedValueRequest) (*SuggestedValueResponse, error) {
	if _, err := s.repos.Products.FindByID(ctx, productID); err != nil {
		return nil, err
	}
	existing, err := s.repos.SuggestedValues.FindByValue(ctx, productID, req.Value)
	if err != nil && err != shared.ErrNotFound {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("VALUE_EXISTS", "A suggested value with this text already exists")
	}

	value, err := tracking.NewSuggestedValue(productID, req.Value)
	if err != nil {
		return nil, err
	}
	if req.IsContextual != nil {
		value.OverrideContextual(*req.IsContextual)
	}
	if err := s.repos.SuggestedValues.Save(ctx, value); err != nil {
		return nil, err
	}
	resp := ToSuggestedValueResponse(value)
	return &resp, nil
}

// Get returns a suggested value scoped to its product
func (s *SuggestedValueService) Get(ctx context.Context, productID, id uuid.UUID) (*SuggestedValueResponse, error) {
	value, err := s.repos.SuggestedValues.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if value.ProductID != productID {
		return nil, shared.ErrNotFound
	}
	resp := ToSuggestedValueResponse(value)
	return &resp, nil
}

// List returns the product's suggested values
func (s *SuggestedValueService) List(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]SuggestedValueResponse, error) {
	values, err := s.repos.SuggestedValues.FindAllForProduct(ctx, productID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]SuggestedValueResponse, 0, len(values))
	for i := range values {
		items = append(items, ToSuggestedValueResponse(&values[i]))
	}
	return items, nil
}

// SetContextual overrides the contextual flag manually
func (s *SuggestedValueService) SetContextual(ctx context.Context, productID, id uuid.UUID, isContextual bool) (*SuggestedValueResponse, error) {
	value, err := s.repos.SuggestedValues.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if value.ProductID != productID {
		return nil, shared.ErrNotFound
	}
	value.OverrideContextual(isContextual)
	if err := s.repos.SuggestedValues.Save(ctx, value); err != nil {
		return nil, err
	}
	resp := ToSuggestedValueResponse(value)
	return &resp, nil
}

// Delete removes a suggested value, its associations and any product
// default referencing it, and strips its text from every payload: an
// exact match drops the whole pair, a substring match inside a string
// value removes the occurrences. Each touched event gets an audit row.
func (s *SuggestedValueService) Delete(ctx context.Context, productID, id uuid.UUID, author string) (int, error) {
	affected := 0
	err := s.uow.Execute(ctx, func(ctx context.Context, repos *tracking.Repositories) error {
		value, err := repos.SuggestedValues.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if value.ProductID != productID {
			return shared.ErrNotFound
		}

		events, err := repos.Events.FindAllForProduct(ctx, productID)
		if err != nil {
			return err
		}
		for i := range events {
			event := &events[i]
			payload, decErr := tracking.DecodePayload(event.Properties)
			if decErr != nil {
				s.logger.Warn("skipping event with malformed payload",
					zap.String("event_id", event.ID.String()),
					zap.Error(decErr))
				continue
			}
			if payload.StripValue(value.Value) == 0 {
				continue
			}
			before := event.Properties
			if err := event.SetPayload(payload); err != nil {
				return err
			}
			if err := repos.Events.Save(ctx, event); err != nil {
				return err
			}
			if err := repos.Histories.Append(ctx, tracking.NewEventHistory(
				event.ID, "properties", before, event.Properties, author,
			)); err != nil {
				return err
			}
			affected++
		}

		if err := repos.PropertyValues.DeleteForSuggestedValue(ctx, value.ID); err != nil {
			return err
		}
		if err := repos.CommonProperties.DeleteForSuggestedValue(ctx, value.ID); err != nil {
			return err
		}
		return repos.SuggestedValues.Delete(ctx, value.ID)
	})
	return affected, err
}
