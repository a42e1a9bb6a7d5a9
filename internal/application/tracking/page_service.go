package tracking

import (
	"context"

	"github.com/google/uuid"
	"github.com/trackplan/backend/internal/domain/shared"
	"github.com/trackplan/backend/internal/domain/tracking"
	"go.uber.org/zap"
)

// PageService manages the pages of a product
type PageService struct {
	repos  *tracking.Repositories
	uow    tracking.UnitOfWork
	logger *zap.Logger
}

// NewPageService creates a page service
func NewPageService(repos *tracking.Repositories, uow tracking.UnitOfWork, logger *zap.Logger) *PageService {
	return &PageService{repos: repos, uow: uow, logger: logger}
}

// Create creates a page under a product
func (s *PageService) Create(ctx context.Context, productID uuid.UUID, req CreatePageRequest) (*PageResponse, error) {
	if _, err := s.repos.Products.FindByID(ctx, productID); err != nil {
		return nil, err
	}
	page, err := tracking.NewPage(productID, req.Name, req.Description)
	if err != nil {
		return nil, err
	}
	if err := s.repos.Pages.Save(ctx, page); err != nil {
		return nil, err
	}
	resp := ToPageResponse(page)
	return &resp, nil
}

// Get returns a page scoped to its product
func (s *PageService) Get(ctx context.Context, productID, id uuid.UUID) (*PageResponse, error) {
	page, err := s.repos.Pages.FindByIDForProduct(ctx, productID, id)
	if err != nil {
		return nil, err
	}
	resp := ToPageResponse(page)
	return &resp, nil
}

// List returns a page of the product's pages
func (s *PageService) List(ctx context.Context, productID uuid.UUID, filter shared.Filter) (*shared.Paginated[PageResponse], error) {
	pages, err := s.repos.Pages.FindAllForProduct(ctx, productID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.repos.Pages.CountForProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	items := make([]PageResponse, 0, len(pages))
	for i := range pages {
		items = append(items, ToPageResponse(&pages[i]))
	}
	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Update changes a page's name and description
func (s *PageService) Update(ctx context.Context, productID, id uuid.UUID, req UpdatePageRequest) (*PageResponse, error) {
	page, err := s.repos.Pages.FindByIDForProduct(ctx, productID, id)
	if err != nil {
		return nil, err
	}
	if err := page.Update(req.Name, req.Description); err != nil {
		return nil, err
	}
	if err := s.repos.Pages.Save(ctx, page); err != nil {
		return nil, err
	}
	resp := ToPageResponse(page)
	return &resp, nil
}

// Delete removes a page, its events and their audit rows in one
// transaction. Catalog rows discovered through those events stay: the
// catalog is product-scoped, not page-scoped.
func (s *PageService) Delete(ctx context.Context, productID, id uuid.UUID) error {
	return s.uow.Execute(ctx, func(ctx context.Context, repos *tracking.Repositories) error {
		page, err := repos.Pages.FindByIDForProduct(ctx, productID, id)
		if err != nil {
			return err
		}
		events, err := repos.Events.FindAllForPage(ctx, page.ID, shared.Filter{})
		if err != nil {
			return err
		}
		for i := range events {
			if err := repos.Histories.DeleteForEvent(ctx, events[i].ID); err != nil {
				return err
			}
		}
		if err := repos.Events.DeleteForPage(ctx, page.ID); err != nil {
			return err
		}
		return repos.Pages.Delete(ctx, page.ID)
	})
}
