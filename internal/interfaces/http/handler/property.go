package handler

import (
	"github.com/gin-gonic/gin"
	trackingapp "github.com/trackplan/backend/internal/application/tracking"
)

// PropertyHandler handles catalog property API endpoints
type PropertyHandler struct {
	BaseHandler
	properties *trackingapp.PropertyService
	rename     *trackingapp.RenameService
	impact     *trackingapp.ImpactService
}

// NewPropertyHandler creates a new PropertyHandler
func NewPropertyHandler(properties *trackingapp.PropertyService, rename *trackingapp.RenameService, impact *trackingapp.ImpactService) *PropertyHandler {
	return &PropertyHandler{properties: properties, rename: rename, impact: impact}
}

// CreatePropertyRequest represents a request to create a property
// @Description Request body for creating a property
type CreatePropertyRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=200" example:"cart-value"`
	Type        string `json:"type" binding:"required,oneof=string number boolean array object"`
	Description string `json:"description" binding:"max=2000"`
}

// UpdatePropertyRequest represents a request to update a property's
// type and description
type UpdatePropertyRequest struct {
	Type        string `json:"type" binding:"required,oneof=string number boolean array object"`
	Description string `json:"description" binding:"max=2000"`
}

// RenamePropertyRequest represents a request to rename a property
// across every payload of the product
type RenamePropertyRequest struct {
	Name string `json:"name" binding:"required,min=1,max=200"`
}

// RenamePropertyResponse reports how many events followed the rename
type RenamePropertyResponse struct {
	AffectedEvents int `json:"affected_events"`
}

// Create godoc
// @Summary      Create a property in the product catalog
// @Tags         properties
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        request body CreatePropertyRequest true "Property creation request"
// @Success      201 {object} dto.Response{data=trackingapp.PropertyResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /products/{id}/properties [post]
func (h *PropertyHandler) Create(c *gin.Context) {
	productID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	var req CreatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	property, err := h.properties.Create(c.Request.Context(), productID, trackingapp.CreatePropertyRequest{
		Name:        req.Name,
		Type:        req.Type,
		Description: req.Description,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, property)
}

// GetByID godoc
// @Summary      Get property by ID
// @Tags         properties
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        propertyId path string true "Property ID" format(uuid)
// @Success      200 {object} dto.Response{data=trackingapp.PropertyResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /products/{id}/properties/{propertyId} [get]
func (h *PropertyHandler) GetByID(c *gin.Context) {
	productID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid product ID format")
		return
	}
	propertyID, ok := parseUUIDParam(c, "propertyId")
	if !ok {
		h.BadRequest(c, "Invalid property ID format")
		return
	}

	property, err := h.properties.Get(c.Request.Context(), productID, propertyID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, property)
}

// List godoc
// @Summary      List properties of a product
// @Tags         properties
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]trackingapp.PropertyResponse}
// @Router       /products/{id}/properties [get]
func (h *PropertyHandler) List(c *gin.Context) {
	productID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid product ID format")
		return
	}
	filter, err := bindFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	properties, err := h.properties.List(c.Request.Context(), productID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, properties)
}

// Update godoc
// @Summary      Update a property's type and description
// @Tags         properties
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        propertyId path string true "Property ID" format(uuid)
// @Param        request body UpdatePropertyRequest true "Property update request"
// @Success      200 {object} dto.Response{data=trackingapp.PropertyResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /products/{id}/properties/{propertyId} [put]
func (h *PropertyHandler) Update(c *gin.Context) {
	productID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid product ID format")
		return
	}
	propertyID, ok := parseUUIDParam(c, "propertyId")
	if !ok {
		h.BadRequest(c, "Invalid property ID format")
		return
	}

	var req UpdatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	property, err := h.properties.Update(c.Request.Context(), productID, propertyID, trackingapp.UpdatePropertyRequest{
		Type:        req.Type,
		Description: req.Description,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, property)
}

// Rename godoc
// @Summary      Rename a property and rewrite every payload that carries it
// @Tags         properties
// @Accept       json
// @Produce      json
// @Param        X-Author header string false "Audit author"
// @Param        id path string true "Product ID" format(uuid)
// @Param        propertyId path string true "Property ID" format(uuid)
// @Param        request body RenamePropertyRequest true "New property name"
// @Success      200 {object} dto.Response{data=RenamePropertyResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /products/{id}/properties/{propertyId}/rename [post]
func (h *PropertyHandler) Rename(c *gin.Context) {
	productID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid product ID format")
		return
	}
	propertyID, ok := parseUUIDParam(c, "propertyId")
	if !ok {
		h.BadRequest(c, "Invalid property ID format")
		return
	}

	var req RenamePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	affected, err := h.rename.RenameProperty(c.Request.Context(), productID, propertyID, req.Name, getAuthor(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, RenamePropertyResponse{AffectedEvents: affected})
}

// Values godoc
// @Summary      List the suggested values associated with a property
// @Tags         properties
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        propertyId path string true "Property ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]trackingapp.SuggestedValueResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /products/{id}/properties/{propertyId}/values [get]
func (h *PropertyHandler) Values(c *gin.Context) {
	productID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid product ID format")
		return
	}
	propertyID, ok := parseUUIDParam(c, "propertyId")
	if !ok {
		h.BadRequest(c, "Invalid property ID format")
		return
	}

	values, err := h.properties.Values(c.Request.Context(), productID, propertyID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, values)
}

// Impact godoc
// @Summary      Preview which events would lose data if the property were deleted
// @Tags         properties
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        propertyId path string true "Property ID" format(uuid)
// @Success      200 {object} dto.Response{data=trackingapp.ImpactResult}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /products/{id}/properties/{propertyId}/impact [get]
func (h *PropertyHandler) Impact(c *gin.Context) {
	productID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid product ID format")
		return
	}
	propertyID, ok := parseUUIDParam(c, "propertyId")
	if !ok {
		h.BadRequest(c, "Invalid property ID format")
		return
	}

	result, err := h.impact.PropertyImpact(c.Request.Context(), productID, propertyID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}

// Delete godoc
// @Summary      Delete a property and strip its key from every payload
// @Tags         properties
// @Produce      json
// @Param        X-Author header string false "Audit author"
// @Param        id path string true "Product ID" format(uuid)
// @Param        propertyId path string true "Property ID" format(uuid)
// @Success      200 {object} dto.Response{data=RenamePropertyResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /products/{id}/properties/{propertyId} [delete]
func (h *PropertyHandler) Delete(c *gin.Context) {
	productID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid product ID format")
		return
	}
	propertyID, ok := parseUUIDParam(c, "propertyId")
	if !ok {
		h.BadRequest(c, "Invalid property ID format")
		return
	}

	affected, err := h.properties.Delete(c.Request.Context(), productID, propertyID, getAuthor(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, RenamePropertyResponse{AffectedEvents: affected})
}
