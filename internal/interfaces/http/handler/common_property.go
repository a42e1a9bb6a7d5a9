package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	trackingapp "github.com/trackplan/backend/internal/application/tracking"
)

// CommonPropertyHandler handles product default API endpoints
type CommonPropertyHandler struct {
	BaseHandler
	commons *trackingapp.CommonPropertyService
}

// NewCommonPropertyHandler creates a new CommonPropertyHandler
func NewCommonPropertyHandler(commons *trackingapp.CommonPropertyService) *CommonPropertyHandler {
	return &CommonPropertyHandler{commons: commons}
}

// SetCommonPropertyRequest represents a request to configure the
// default value of a property
type SetCommonPropertyRequest struct {
	PropertyID       string `json:"property_id" binding:"required,uuid"`
	SuggestedValueID string `json:"suggested_value_id" binding:"required,uuid"`
}

// Set godoc
// @Summary      Configure the default value for a property
// @Tags         common-properties
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        request body SetCommonPropertyRequest true "Default configuration"
// @Success      200 {object} dto.Response{data=trackingapp.CommonPropertyResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /products/{id}/common-properties [put]
func (h *CommonPropertyHandler) Set(c *gin.Context) {
	productID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	var req SetCommonPropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	propertyID, err := uuid.Parse(req.PropertyID)
	if err != nil {
		h.BadRequest(c, "Invalid property ID format")
		return
	}
	valueID, err := uuid.Parse(req.SuggestedValueID)
	if err != nil {
		h.BadRequest(c, "Invalid suggested value ID format")
		return
	}

	common, err := h.commons.Set(c.Request.Context(), productID, propertyID, valueID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, common)
}

// List godoc
// @Summary      List the product's defaults
// @Tags         common-properties
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]trackingapp.CommonPropertyResponse}
// @Router       /products/{id}/common-properties [get]
func (h *CommonPropertyHandler) List(c *gin.Context) {
	productID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	commons, err := h.commons.List(c.Request.Context(), productID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, commons)
}

// Delete godoc
// @Summary      Remove a default
// @Tags         common-properties
// @Param        id path string true "Product ID" format(uuid)
// @Param        commonId path string true "Common property ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /products/{id}/common-properties/{commonId} [delete]
func (h *CommonPropertyHandler) Delete(c *gin.Context) {
	productID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid product ID format")
		return
	}
	commonID, ok := parseUUIDParam(c, "commonId")
	if !ok {
		h.BadRequest(c, "Invalid common property ID format")
		return
	}

	if err := h.commons.Delete(c.Request.Context(), productID, commonID); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}
