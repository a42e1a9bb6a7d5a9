package tracking

import (
	"context"

	"github.com/google/uuid"
	"github.com/trackplan/backend/internal/domain/shared"
	"github.com/trackplan/backend/internal/domain/tracking"
	"go.uber.org/zap"
)

// CommonPropertyService manages per-product defaults: the value every
// payload of the product is expected to carry for a given property.
type CommonPropertyService struct {
	repos  *tracking.Repositories
	logger *zap.Logger
}

// NewCommonPropertyService creates a common property service
func NewCommonPropertyService(repos *tracking.Repositories, logger *zap.Logger) *CommonPropertyService {
	return &CommonPropertyService{repos: repos, logger: logger}
}

// Set configures the default value for a property, creating or updating
// the row. A property has at most one default.
func (s *CommonPropertyService) Set(ctx context.Context, productID, propertyID, suggestedValueID uuid.UUID) (*CommonPropertyResponse, error) {
	property, err := s.repos.Properties.FindByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if property.ProductID != productID {
		return nil, shared.ErrNotFound
	}
	value, err := s.repos.SuggestedValues.FindByID(ctx, suggestedValueID)
	if err != nil {
		return nil, err
	}
	if value.ProductID != property.ProductID {
		return nil, shared.ErrCrossProduct
	}

	common, err := s.repos.CommonProperties.FindByProperty(ctx, property.ID)
	if err != nil && err != shared.ErrNotFound {
		return nil, err
	}
	if common == nil {
		common = tracking.NewCommonProperty(productID, property.ID, value.ID)
	} else {
		common.SetValue(value.ID)
	}
	if err := s.repos.CommonProperties.Save(ctx, common); err != nil {
		return nil, err
	}
	resp := ToCommonPropertyResponse(common)
	return &resp, nil
}

// List returns the product's defaults
func (s *CommonPropertyService) List(ctx context.Context, productID uuid.UUID) ([]CommonPropertyResponse, error) {
	commons, err := s.repos.CommonProperties.FindAllForProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	items := make([]CommonPropertyResponse, 0, len(commons))
	for i := range commons {
		items = append(items, ToCommonPropertyResponse(&commons[i]))
	}
	return items, nil
}

// Delete removes a default. Payloads are untouched: a default is an
// expectation, not data.
func (s *CommonPropertyService) Delete(ctx context.Context, productID, id uuid.UUID) error {
	common, err := s.repos.CommonProperties.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if common.ProductID != productID {
		return shared.ErrNotFound
	}
	return s.repos.CommonProperties.Delete(ctx, common.ID)
}
