package tracking

import (
	"context"

	"github.com/google/uuid"
	"github.com/trackplan/backend/internal/domain/shared"
	"github.com/trackplan/backend/internal/domain/tracking"
	"go.uber.org/zap"
)

// ProductService manages products, the scoping boundary for everything
// else in the catalog.
type ProductService struct {
	repos  *tracking.Repositories
	uow    tracking.UnitOfWork
	logger *zap.Logger
}

// NewProductService creates a product service
func NewProductService(repos *tracking.Repositories, uow tracking.UnitOfWork, logger *zap.Logger) *ProductService {
	return &ProductService{repos: repos, uow: uow, logger: logger}
}

// Create creates a product with a unique name
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	exists, err := s.repos.Products.ExistsByName(ctx, req.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("PRODUCT_EXISTS", "A product with this name already exists")
	}

	product, err := tracking.NewProduct(req.Name, req.Description)
	if err != nil {
		return nil, err
	}
	if err := s.repos.Products.Save(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("product created",
		zap.String("product_id", product.ID.String()),
		zap.String("name", product.Name))
	resp := ToProductResponse(product)
	return &resp, nil
}

// Get returns a product by ID
func (s *ProductService) Get(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.repos.Products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// List returns a page of products
func (s *ProductService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[ProductResponse], error) {
	products, err := s.repos.Products.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.repos.Products.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, ToProductResponse(&products[i]))
	}
	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Update changes a product's name and description
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.repos.Products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != product.Name {
		exists, err := s.repos.Products.ExistsByName(ctx, req.Name)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("PRODUCT_EXISTS", "A product with this name already exists")
		}
	}
	if err := product.Update(req.Name, req.Description); err != nil {
		return nil, err
	}
	if err := s.repos.Products.Save(ctx, product); err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// Delete removes a product and everything scoped to it: pages, events,
// audit rows, and the whole catalog. One transaction.
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.uow.Execute(ctx, func(ctx context.Context, repos *tracking.Repositories) error {
		if _, err := repos.Products.FindByID(ctx, id); err != nil {
			return err
		}

		events, err := repos.Events.FindAllForProduct(ctx, id)
		if err != nil {
			return err
		}
		for i := range events {
			if err := repos.Histories.DeleteForEvent(ctx, events[i].ID); err != nil {
				return err
			}
		}
		if err := repos.Events.DeleteForProduct(ctx, id); err != nil {
			return err
		}
		if err := repos.Pages.DeleteForProduct(ctx, id); err != nil {
			return err
		}

		properties, err := repos.Properties.FindAllForProduct(ctx, id, shared.Filter{})
		if err != nil {
			return err
		}
		for i := range properties {
			if err := repos.PropertyValues.DeleteForProperty(ctx, properties[i].ID); err != nil {
				return err
			}
		}
		if err := repos.CommonProperties.DeleteForProduct(ctx, id); err != nil {
			return err
		}
		if err := repos.Properties.DeleteForProduct(ctx, id); err != nil {
			return err
		}
		if err := repos.SuggestedValues.DeleteForProduct(ctx, id); err != nil {
			return err
		}

		return repos.Products.Delete(ctx, id)
	})
}
