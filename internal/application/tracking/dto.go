package tracking

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/trackplan/backend/internal/domain/tracking"
)

// CreateProductRequest is the application-level request to create a product
type CreateProductRequest struct {
	Name        string
	Description string
}

// UpdateProductRequest is the application-level request to update a product
type UpdateProductRequest struct {
	Name        string
	Description string
}

// ProductResponse is the application-level representation of a product
type ProductResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToProductResponse maps a product entity to its response
func ToProductResponse(p *tracking.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// CreatePageRequest is the application-level request to create a page
type CreatePageRequest struct {
	Name        string
	Description string
}

// UpdatePageRequest is the application-level request to update a page
type UpdatePageRequest struct {
	Name        string
	Description string
}

// PageResponse is the application-level representation of a page
type PageResponse struct {
	ID          uuid.UUID `json:"id"`
	ProductID   uuid.UUID `json:"product_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToPageResponse maps a page entity to its response
func ToPageResponse(p *tracking.Page) PageResponse {
	return PageResponse{
		ID:          p.ID,
		ProductID:   p.ProductID,
		Name:        p.Name,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// CreateEventRequest is the application-level request to create an event.
// Properties is the raw JSON object of the payload; Author identifies who
// made the change for the audit trail.
type CreateEventRequest struct {
	Name       string
	Status     string
	TestDate   *time.Time
	Properties json.RawMessage
	Author     string
}

// UpdateEventRequest is the application-level request to update an event.
// Nil fields are left untouched.
type UpdateEventRequest struct {
	Name       *string
	Status     *string
	TestDate   *time.Time
	ClearTest  bool
	Properties json.RawMessage
	Author     string
}

// EventResponse is the application-level representation of an event
type EventResponse struct {
	ID         uuid.UUID       `json:"id"`
	PageID     uuid.UUID       `json:"page_id"`
	ProductID  uuid.UUID       `json:"product_id"`
	Name       string          `json:"name"`
	Status     string          `json:"status"`
	TestDate   *time.Time      `json:"test_date,omitempty"`
	Properties json.RawMessage `json:"properties"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// ToEventResponse maps an event entity to its response. A payload that
// fails to decode is rendered as an empty object rather than failing the
// listing.
func ToEventResponse(e *tracking.Event) EventResponse {
	payload, err := tracking.DecodePayload(e.Properties)
	properties := json.RawMessage("{}")
	if err == nil {
		if encoded, encErr := payload.Encode(); encErr == nil {
			properties = json.RawMessage(encoded)
		}
	}
	return EventResponse{
		ID:         e.ID,
		PageID:     e.PageID,
		ProductID:  e.ProductID,
		Name:       e.Name,
		Status:     string(e.Status),
		TestDate:   e.TestDate,
		Properties: properties,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
}

// CreatePropertyRequest is the application-level request to create a property
type CreatePropertyRequest struct {
	Name        string
	Type        string
	Description string
}

// UpdatePropertyRequest is the application-level request to update a
// property's type and description. Name changes go through RenameService.
type UpdatePropertyRequest struct {
	Type        string
	Description string
}

// PropertyResponse is the application-level representation of a property
type PropertyResponse struct {
	ID          uuid.UUID `json:"id"`
	ProductID   uuid.UUID `json:"product_id"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToPropertyResponse maps a property entity to its response
func ToPropertyResponse(p *tracking.Property) PropertyResponse {
	return PropertyResponse{
		ID:          p.ID,
		ProductID:   p.ProductID,
		Name:        p.Name,
		Type:        string(p.Type),
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// CreateSuggestedValueRequest is the application-level request to create
// a suggested value. IsContextual overrides the prefix-derived flag when
// set; manual overrides are not re-validated.
type CreateSuggestedValueRequest struct {
	Value        string
	IsContextual *bool
}

// SuggestedValueResponse is the application-level representation of a
// suggested value
type SuggestedValueResponse struct {
	ID           uuid.UUID `json:"id"`
	ProductID    uuid.UUID `json:"product_id"`
	Value        string    `json:"value"`
	IsContextual bool      `json:"is_contextual"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ToSuggestedValueResponse maps a suggested value entity to its response
func ToSuggestedValueResponse(v *tracking.SuggestedValue) SuggestedValueResponse {
	return SuggestedValueResponse{
		ID:           v.ID,
		ProductID:    v.ProductID,
		Value:        v.Value,
		IsContextual: v.IsContextual,
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
	}
}

// CommonPropertyResponse is the application-level representation of a
// per-product property default
type CommonPropertyResponse struct {
	ID               uuid.UUID `json:"id"`
	ProductID        uuid.UUID `json:"product_id"`
	PropertyID       uuid.UUID `json:"property_id"`
	SuggestedValueID uuid.UUID `json:"suggested_value_id"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ToCommonPropertyResponse maps a common property entity to its response
func ToCommonPropertyResponse(c *tracking.CommonProperty) CommonPropertyResponse {
	return CommonPropertyResponse{
		ID:               c.ID,
		ProductID:        c.ProductID,
		PropertyID:       c.PropertyID,
		SuggestedValueID: c.SuggestedValueID,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}

// EventHistoryResponse is the application-level representation of an
// audit row
type EventHistoryResponse struct {
	ID        uuid.UUID `json:"id"`
	EventID   uuid.UUID `json:"event_id"`
	Field     string    `json:"field"`
	OldValue  string    `json:"old_value"`
	NewValue  string    `json:"new_value"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
}

// ToEventHistoryResponse maps an audit row to its response
func ToEventHistoryResponse(h *tracking.EventHistory) EventHistoryResponse {
	return EventHistoryResponse{
		ID:        h.ID,
		EventID:   h.EventID,
		Field:     h.Field,
		OldValue:  h.OldValue,
		NewValue:  h.NewValue,
		Author:    h.Author,
		CreatedAt: h.CreatedAt,
	}
}

// ValueRenameConflict reports that renaming a suggested value would
// collide with an existing row. The caller is expected to offer a merge:
// keep the pre-existing row, retire the one that was being edited.
type ValueRenameConflict struct {
	ExistingID    uuid.UUID `json:"existing_id"`
	ExistingValue string    `json:"existing_value"`
	KeepValueID   uuid.UUID `json:"keep_value_id"`
	RetireValueID uuid.UUID `json:"retire_value_id"`
}

// RenameValueResult is the outcome of a suggested-value rename. Exactly
// one of Conflict or the renamed state applies: when Conflict is set,
// nothing was modified.
type RenameValueResult struct {
	Conflict       *ValueRenameConflict    `json:"conflict,omitempty"`
	Value          *SuggestedValueResponse `json:"value,omitempty"`
	AffectedEvents int                     `json:"affected_events"`
}

// MergeResult summarizes a suggested-value merge for the caller
type MergeResult struct {
	TransferredProperties []string `json:"transferred_properties"`
	AffectedEvents        int      `json:"affected_events"`
}

// ImpactedEvent is one event referencing a catalog row
type ImpactedEvent struct {
	EventID      uuid.UUID `json:"event_id"`
	EventName    string    `json:"event_name"`
	PageName     string    `json:"page_name"`
	CurrentValue string    `json:"current_value"`
}

// ImpactResult is the blast radius of a prospective catalog deletion
type ImpactResult struct {
	Count  int             `json:"count"`
	Events []ImpactedEvent `json:"events"`
}

// PayloadConflict is one drift finding: an event carrying a value that
// differs from the product's configured default for that property
type PayloadConflict struct {
	PropertyKey      string    `json:"property_key"`
	CurrentValue     string    `json:"current_value"`
	ExpectedValue    string    `json:"expected_value"`
	CommonPropertyID uuid.UUID `json:"common_property_id"`
}
