package tracking

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/trackplan/backend/internal/domain/shared"
	"github.com/trackplan/backend/internal/domain/tracking"
	"go.uber.org/zap"
)

// EventService manages events and their payloads. Every payload write
// runs auto-discovery in the same transaction, so an event can never
// commit referencing catalog rows that do not exist.
type EventService struct {
	repos     *tracking.Repositories
	uow       tracking.UnitOfWork
	discovery *DiscoveryService
	logger    *zap.Logger
}

// NewEventService creates an event service
func NewEventService(repos *tracking.Repositories, uow tracking.UnitOfWork, discovery *DiscoveryService, logger *zap.Logger) *EventService {
	return &EventService{repos: repos, uow: uow, discovery: discovery, logger: logger}
}

// Create creates an event under a page and registers its payload in the
// catalog.
func (s *EventService) Create(ctx context.Context, productID, pageID uuid.UUID, req CreateEventRequest) (*EventResponse, error) {
	var created *tracking.Event
	err := s.uow.Execute(ctx, func(ctx context.Context, repos *tracking.Repositories) error {
		page, err := repos.Pages.FindByIDForProduct(ctx, productID, pageID)
		if err != nil {
			return err
		}

		event, err := tracking.NewEvent(productID, page.ID, req.Name)
		if err != nil {
			return err
		}
		if req.Status != "" {
			if err := event.SetStatus(tracking.EventStatus(req.Status)); err != nil {
				return err
			}
		}
		event.SetTestDate(req.TestDate)

		payload, decErr := tracking.DecodePayload(string(req.Properties))
		if decErr != nil {
			return shared.NewDomainError("INVALID_PAYLOAD", "Event properties must be a JSON object")
		}
		if err := event.SetPayload(payload); err != nil {
			return err
		}
		if err := repos.Events.Save(ctx, event); err != nil {
			return err
		}
		if err := s.discovery.DiscoverWithin(ctx, repos, productID, payload); err != nil {
			return err
		}
		created = event
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("event created",
		zap.String("event_id", created.ID.String()),
		zap.String("name", created.Name))
	resp := ToEventResponse(created)
	return &resp, nil
}

// Get returns an event scoped to its product
func (s *EventService) Get(ctx context.Context, productID, id uuid.UUID) (*EventResponse, error) {
	event, err := s.repos.Events.FindByIDForProduct(ctx, productID, id)
	if err != nil {
		return nil, err
	}
	resp := ToEventResponse(event)
	return &resp, nil
}

// List returns a page of a page's events
func (s *EventService) List(ctx context.Context, pageID uuid.UUID, filter shared.Filter) (*shared.Paginated[EventResponse], error) {
	events, err := s.repos.Events.FindAllForPage(ctx, pageID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.repos.Events.CountForPage(ctx, pageID)
	if err != nil {
		return nil, err
	}

	items := make([]EventResponse, 0, len(events))
	for i := range events {
		items = append(items, ToEventResponse(&events[i]))
	}
	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Update applies the non-nil fields of the request. Each changed field
// is recorded as an audit row attributed to the request's author, and a
// payload change re-runs discovery in the same transaction.
func (s *EventService) Update(ctx context.Context, productID, id uuid.UUID, req UpdateEventRequest) (*EventResponse, error) {
	var updated *tracking.Event
	err := s.uow.Execute(ctx, func(ctx context.Context, repos *tracking.Repositories) error {
		event, err := repos.Events.FindByIDForProduct(ctx, productID, id)
		if err != nil {
			return err
		}

		record := func(field, oldValue, newValue string) error {
			return repos.Histories.Append(ctx, tracking.NewEventHistory(
				event.ID, field, oldValue, newValue, req.Author))
		}

		if req.Name != nil && *req.Name != event.Name {
			old := event.Name
			if err := event.Rename(*req.Name); err != nil {
				return err
			}
			if err := record("name", old, event.Name); err != nil {
				return err
			}
		}
		if req.Status != nil && *req.Status != string(event.Status) {
			old := string(event.Status)
			if err := event.SetStatus(tracking.EventStatus(*req.Status)); err != nil {
				return err
			}
			if err := record("status", old, string(event.Status)); err != nil {
				return err
			}
		}
		if req.TestDate != nil || req.ClearTest {
			old := formatTestDate(event.TestDate)
			event.SetTestDate(req.TestDate)
			if err := record("test_date", old, formatTestDate(event.TestDate)); err != nil {
				return err
			}
		}
		if req.Properties != nil {
			payload, decErr := tracking.DecodePayload(string(req.Properties))
			if decErr != nil {
				return shared.NewDomainError("INVALID_PAYLOAD", "Event properties must be a JSON object")
			}
			old := event.Properties
			if err := event.SetPayload(payload); err != nil {
				return err
			}
			if old != event.Properties {
				if err := record("properties", old, event.Properties); err != nil {
					return err
				}
				if err := s.discovery.DiscoverWithin(ctx, repos, productID, payload); err != nil {
					return err
				}
			}
		}

		if err := repos.Events.Save(ctx, event); err != nil {
			return err
		}
		updated = event
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp := ToEventResponse(updated)
	return &resp, nil
}

// Delete removes an event and its audit rows. Catalog rows discovered
// through the event stay.
func (s *EventService) Delete(ctx context.Context, productID, id uuid.UUID) error {
	return s.uow.Execute(ctx, func(ctx context.Context, repos *tracking.Repositories) error {
		event, err := repos.Events.FindByIDForProduct(ctx, productID, id)
		if err != nil {
			return err
		}
		if err := repos.Histories.DeleteForEvent(ctx, event.ID); err != nil {
			return err
		}
		return repos.Events.Delete(ctx, event.ID)
	})
}

// History returns the audit rows of an event, newest first
func (s *EventService) History(ctx context.Context, productID, id uuid.UUID, filter shared.Filter) ([]EventHistoryResponse, error) {
	event, err := s.repos.Events.FindByIDForProduct(ctx, productID, id)
	if err != nil {
		return nil, err
	}
	rows, err := s.repos.Histories.FindAllForEvent(ctx, event.ID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]EventHistoryResponse, 0, len(rows))
	for i := range rows {
		items = append(items, ToEventHistoryResponse(&rows[i]))
	}
	return items, nil
}

func formatTestDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
