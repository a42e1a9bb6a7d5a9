package handler

import (
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"
	trackingapp "github.com/trackplan/backend/internal/application/tracking"
)

// EventHandler handles event API endpoints
type EventHandler struct {
	BaseHandler
	events    *trackingapp.EventService
	conflicts *trackingapp.ConflictService
}

// NewEventHandler creates a new EventHandler
func NewEventHandler(events *trackingapp.EventService, conflicts *trackingapp.ConflictService) *EventHandler {
	return &EventHandler{events: events, conflicts: conflicts}
}

// CreateEventRequest represents a request to create an event
// @Description Request body for creating an event
type CreateEventRequest struct {
	Name       string          `json:"name" binding:"required,min=1,max=120" example:"purchase_completed"`
	Status     string          `json:"status" binding:"omitempty,oneof=to_implement to_test error validated"`
	TestDate   *time.Time      `json:"test_date"`
	Properties json.RawMessage `json:"properties" swaggertype:"object"`
}

// UpdateEventRequest represents a request to update an event.
// Omitted fields are left untouched.
type UpdateEventRequest struct {
	Name       *string         `json:"name" binding:"omitempty,min=1,max=120"`
	Status     *string         `json:"status" binding:"omitempty,oneof=to_implement to_test error validated"`
	TestDate   *time.Time      `json:"test_date"`
	ClearTest  bool            `json:"clear_test_date"`
	Properties json.RawMessage `json:"properties" swaggertype:"object"`
}

// Create godoc
// @Summary      Create an event under a page
// @Description  Creates the event and registers every payload pair in the catalog in one transaction
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        X-Author header string false "Audit author"
// @Param        id path string true "Product ID" format(uuid)
// @Param        pageId path string true "Page ID" format(uuid)
// @Param        request body CreateEventRequest true "Event creation request"
// @Success      201 {object} dto.Response{data=trackingapp.EventResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /products/{id}/pages/{pageId}/events [post]
func (h *EventHandler) Create(c *gin.Context) {
	productID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid product ID format")
		return
	}
	pageID, ok := parseUUIDParam(c, "pageId")
	if !ok {
		h.BadRequest(c, "Invalid page ID format")
		return
	}

	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	event, err := h.events.Create(c.Request.Context(), productID, pageID, trackingapp.CreateEventRequest{
		Name:       req.Name,
		Status:     req.Status,
		TestDate:   req.TestDate,
		Properties: req.Properties,
		Author:     getAuthor(c),
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, event)
}

// GetByID godoc
// @Summary      Get event by ID
// @Tags         events
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        eventId path string true "Event ID" format(uuid)
// @Success      200 {object} dto.Response{data=trackingapp.EventResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /products/{id}/events/{eventId} [get]
func (h *EventHandler) GetByID(c *gin.Context) {
	productID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid product ID format")
		return
	}
	eventID, ok := parseUUIDParam(c, "eventId")
	if !ok {
		h.BadRequest(c, "Invalid event ID format")
		return
	}

	event, err := h.events.Get(c.Request.Context(), productID, eventID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, event)
}

// List godoc
// @Summary      List events of a page
// @Tags         events
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        pageId path string true "Page ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]trackingapp.EventResponse}
// @Router       /products/{id}/pages/{pageId}/events [get]
func (h *EventHandler) List(c *gin.Context) {
	pageID, ok := parseUUIDParam(c, "pageId")
	if !ok {
		h.BadRequest(c, "Invalid page ID format")
		return
	}
	filter, err := bindFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.events.List(c.Request.Context(), pageID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Update godoc
// @Summary      Update an event
// @Description  Applies the provided fields, records an audit row per change, and re-runs payload discovery
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        X-Author header string false "Audit author"
// @Param        id path string true "Product ID" format(uuid)
// @Param        eventId path string true "Event ID" format(uuid)
// @Param        request body UpdateEventRequest true "Event update request"
// @Success      200 {object} dto.Response{data=trackingapp.EventResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /products/{id}/events/{eventId} [put]
func (h *EventHandler) Update(c *gin.Context) {
	productID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid product ID format")
		return
	}
	eventID, ok := parseUUIDParam(c, "eventId")
	if !ok {
		h.BadRequest(c, "Invalid event ID format")
		return
	}

	var req UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	event, err := h.events.Update(c.Request.Context(), productID, eventID, trackingapp.UpdateEventRequest{
		Name:       req.Name,
		Status:     req.Status,
		TestDate:   req.TestDate,
		ClearTest:  req.ClearTest,
		Properties: req.Properties,
		Author:     getAuthor(c),
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, event)
}

// Delete godoc
// @Summary      Delete an event and its audit rows
// @Tags         events
// @Param        id path string true "Product ID" format(uuid)
// @Param        eventId path string true "Event ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /products/{id}/events/{eventId} [delete]
func (h *EventHandler) Delete(c *gin.Context) {
	productID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid product ID format")
		return
	}
	eventID, ok := parseUUIDParam(c, "eventId")
	if !ok {
		h.BadRequest(c, "Invalid event ID format")
		return
	}

	if err := h.events.Delete(c.Request.Context(), productID, eventID); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// History godoc
// @Summary      List the audit trail of an event
// @Tags         events
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        eventId path string true "Event ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]trackingapp.EventHistoryResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /products/{id}/events/{eventId}/history [get]
func (h *EventHandler) History(c *gin.Context) {
	productID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid product ID format")
		return
	}
	eventID, ok := parseUUIDParam(c, "eventId")
	if !ok {
		h.BadRequest(c, "Invalid event ID format")
		return
	}
	filter, err := bindFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	history, err := h.events.History(c.Request.Context(), productID, eventID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, history)
}

// Conflicts godoc
// @Summary      Detect drift between an event's payload and the product defaults
// @Tags         events
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        eventId path string true "Event ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]trackingapp.PayloadConflict}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /products/{id}/events/{eventId}/conflicts [get]
func (h *EventHandler) Conflicts(c *gin.Context) {
	productID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid product ID format")
		return
	}
	eventID, ok := parseUUIDParam(c, "eventId")
	if !ok {
		h.BadRequest(c, "Invalid event ID format")
		return
	}

	conflicts, err := h.conflicts.DetectConflicts(c.Request.Context(), productID, eventID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, conflicts)
}
