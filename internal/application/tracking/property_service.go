package tracking

import (
	"context"

	"github.com/google/uuid"
	"github.com/trackplan/backend/internal/domain/shared"
	"github.com/trackplan/backend/internal/domain/tracking"
	"go.uber.org/zap"
)

// PropertyService manages catalog properties. Deleting a property also
// strips its key from every payload, so the catalog and the payloads
// never disagree about which keys exist.
type PropertyService struct {
	repos  *tracking.Repositories
	uow    tracking.UnitOfWork
	logger *zap.Logger
}

// NewPropertyService creates a property service
func NewPropertyService(repos *tracking.Repositories, uow tracking.UnitOfWork, logger *zap.Logger) *PropertyService {
	return &PropertyService{repos: repos, uow: uow, logger: logger}
}

// Create creates a property in the product's catalog
func (s *PropertyService) Create(ctx context.Context, productID uuid.UUID, req CreatePropertyRequest) (*PropertyResponse, error) {
	if _, err := s.repos.Products.FindByID(ctx, productID); err != nil {
		return nil, err
	}
	existing, err := s.repos.Properties.FindByName(ctx, productID, req.Name)
	if err != nil && err != shared.ErrNotFound {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("PROPERTY_EXISTS", "A property with this name already exists")
	}

	property, err := tracking.NewProperty(productID, req.Name, tracking.PropertyType(req.Type), req.Description)
	if err != nil {
		return nil, err
	}
	if err := s.repos.Properties.Save(ctx, property); err != nil {
		return nil, err
	}
	resp := ToPropertyResponse(property)
	return &resp, nil
}

// Get returns a property scoped to its product
func (s *PropertyService) Get(ctx context.Context, productID, id uuid.UUID) (*PropertyResponse, error) {
	property, err := s.repos.Properties.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if property.ProductID != productID {
		return nil, shared.ErrNotFound
	}
	resp := ToPropertyResponse(property)
	return &resp, nil
}

// List returns the product's properties
func (s *PropertyService) List(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]PropertyResponse, error) {
	properties, err := s.repos.Properties.FindAllForProduct(ctx, productID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]PropertyResponse, 0, len(properties))
	for i := range properties {
		items = append(items, ToPropertyResponse(&properties[i]))
	}
	return items, nil
}

// Update changes a property's type and description. Name changes go
// through RenameService so payloads follow.
func (s *PropertyService) Update(ctx context.Context, productID, id uuid.UUID, req UpdatePropertyRequest) (*PropertyResponse, error) {
	property, err := s.repos.Properties.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if property.ProductID != productID {
		return nil, shared.ErrNotFound
	}
	if err := property.Update(tracking.PropertyType(req.Type), req.Description); err != nil {
		return nil, err
	}
	if err := s.repos.Properties.Save(ctx, property); err != nil {
		return nil, err
	}
	resp := ToPropertyResponse(property)
	return &resp, nil
}

// Values returns the suggested values associated with a property
func (s *PropertyService) Values(ctx context.Context, productID, id uuid.UUID) ([]SuggestedValueResponse, error) {
	property, err := s.repos.Properties.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if property.ProductID != productID {
		return nil, shared.ErrNotFound
	}

	associations, err := s.repos.PropertyValues.FindAllForProperty(ctx, property.ID)
	if err != nil {
		return nil, err
	}
	items := make([]SuggestedValueResponse, 0, len(associations))
	for _, association := range associations {
		value, err := s.repos.SuggestedValues.FindByID(ctx, association.SuggestedValueID)
		if err != nil {
			if err == shared.ErrNotFound {
				continue
			}
			return nil, err
		}
		items = append(items, ToSuggestedValueResponse(value))
	}
	return items, nil
}

// Delete removes a property, its associations and its product default,
// and strips its key from every payload of the product. Each stripped
// event gets an audit row attributed to the author. One transaction.
func (s *PropertyService) Delete(ctx context.Context, productID, id uuid.UUID, author string) (int, error) {
	affected := 0
	err := s.uow.Execute(ctx, func(ctx context.Context, repos *tracking.Repositories) error {
		property, err := repos.Properties.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if property.ProductID != productID {
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
			if !payload.Delete(property.Name) {
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

		if err := repos.PropertyValues.DeleteForProperty(ctx, property.ID); err != nil {
			return err
		}
		if err := repos.CommonProperties.DeleteForProperty(ctx, property.ID); err != nil {
			return err
		}
		return repos.Properties.Delete(ctx, property.ID)
	})
	return affected, err
}
