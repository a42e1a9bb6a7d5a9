package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	trackingapp "github.com/trackplan/backend/internal/application/tracking"
	"github.com/trackplan/backend/internal/interfaces/http/dto"
)

// SuggestedValueHandler handles catalog value API endpoints
type SuggestedValueHandler struct {
	BaseHandler
	values *trackingapp.SuggestedValueService
	rename *trackingapp.RenameService
	merge  *trackingapp.MergeService
	impact *trackingapp.ImpactService
}

// NewSuggestedValueHandler creates a new SuggestedValueHandler
func NewSuggestedValueHandler(values *trackingapp.SuggestedValueService, rename *trackingapp.RenameService, merge *trackingapp.MergeService, impact *trackingapp.ImpactService) *SuggestedValueHandler {
	return &SuggestedValueHandler{values: values, rename: rename, merge: merge, impact: impact}
}

// CreateSuggestedValueRequest represents a request to create a
// suggested value
type CreateSuggestedValueRequest struct {
	Value        string `json:"value" binding:"required,min=1" example:"$page-name"`
	IsContextual *bool  `json:"is_contextual"`
}

// RenameSuggestedValueRequest represents a request to rename a
// suggested value across every payload of the product
type RenameSuggestedValueRequest struct {
	Value string `json:"value" binding:"required,min=1"`
}

// SetContextualRequest represents a manual contextual flag override
type SetContextualRequest struct {
	IsContextual bool `json:"is_contextual"`
}

// MergeSuggestedValueRequest represents a request to merge this value
// into another
type MergeSuggestedValueRequest struct {
	TargetID string `json:"target_id" binding:"required,uuid"`
}

// DeleteSuggestedValueResponse reports how many events were rewritten
type DeleteSuggestedValueResponse struct {
	AffectedEvents int `json:"affected_events"`
}

// Create godoc
// @Summary      Create a suggested value in the product catalog
// @Tags         suggested-values
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        request body CreateSuggestedValueRequest true "Value creation request"
// @Success      201 {object} dto.Response{data=trackingapp.SuggestedValueResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /products/{id}/suggested-values [post]
func (h *SuggestedValueHandler) Create(c *gin.Context) {
	productID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	var req CreateSuggestedValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	value, err := h.values.Create(c.Request.Context(), productID, trackingapp.CreateSuggestedValueRequest{
		Value:        req.Value,
		IsContextual: req.IsContextual,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, value)
}

// GetByID godoc
// @Summary      Get suggested value by ID
// @Tags         suggested-values
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        valueId path string true "Suggested value ID" format(uuid)
// @Success      200 {object} dto.Response{data=trackingapp.SuggestedValueResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /products/{id}/suggested-values/{valueId} [get]
func (h *SuggestedValueHandler) GetByID(c *gin.Context) {
	productID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid product ID format")
		return
	}
	valueID, ok := parseUUIDParam(c, "valueId")
	if !ok {
		h.BadRequest(c, "Invalid value ID format")
		return
	}

	value, err := h.values.Get(c.Request.Context(), productID, valueID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, value)
}

// List godoc
// @Summary      List suggested values of a product
// @Tags         suggested-values
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]trackingapp.SuggestedValueResponse}
// @Router       /products/{id}/suggested-values [get]
func (h *SuggestedValueHandler) List(c *gin.Context) {
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

	values, err := h.values.List(c.Request.Context(), productID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, values)
}

// Rename godoc
// @Summary      Rename a suggested value and rewrite every payload that references it
// @Description  When the new text collides with an existing value, nothing is modified and the response carries a conflict describing the merge the caller can run instead
// @Tags         suggested-values
// @Accept       json
// @Produce      json
// @Param        X-Author header string false "Audit author"
// @Param        id path string true "Product ID" format(uuid)
// @Param        valueId path string true "Suggested value ID" format(uuid)
// @Param        request body RenameSuggestedValueRequest true "New value text"
// @Success      200 {object} dto.Response{data=trackingapp.RenameValueResult}
// @Success      409 {object} dto.Response{data=trackingapp.RenameValueResult}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /products/{id}/suggested-values/{valueId}/rename [post]
func (h *SuggestedValueHandler) Rename(c *gin.Context) {
	productID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid product ID format")
		return
	}
	valueID, ok := parseUUIDParam(c, "valueId")
	if !ok {
		h.BadRequest(c, "Invalid value ID format")
		return
	}

	var req RenameSuggestedValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.rename.RenameSuggestedValue(c.Request.Context(), productID, valueID, req.Value, getAuthor(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	if result.Conflict != nil {
		// nothing was modified; the caller can run the suggested merge
		c.JSON(http.StatusConflict, dto.NewSuccessResponse(result))
		return
	}
	h.Success(c, result)
}

// Merge godoc
// @Summary      Merge this suggested value into another
// @Description  Transfers associations, rewrites payloads, repoints product defaults, then deletes this value
// @Tags         suggested-values
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        valueId path string true "Source suggested value ID" format(uuid)
// @Param        request body MergeSuggestedValueRequest true "Merge target"
// @Success      200 {object} dto.Response{data=trackingapp.MergeResult}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /products/{id}/suggested-values/{valueId}/merge [post]
func (h *SuggestedValueHandler) Merge(c *gin.Context) {
	productID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid product ID format")
		return
	}
	sourceID, ok := parseUUIDParam(c, "valueId")
	if !ok {
		h.BadRequest(c, "Invalid value ID format")
		return
	}

	var req MergeSuggestedValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	targetID, err := uuid.Parse(req.TargetID)
	if err != nil {
		h.BadRequest(c, "Invalid target ID format")
		return
	}

	result, err := h.merge.MergeSuggestedValues(c.Request.Context(), productID, sourceID, targetID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}

// SetContextual godoc
// @Summary      Override the contextual flag of a suggested value
// @Tags         suggested-values
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        valueId path string true "Suggested value ID" format(uuid)
// @Param        request body SetContextualRequest true "Contextual flag"
// @Success      200 {object} dto.Response{data=trackingapp.SuggestedValueResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /products/{id}/suggested-values/{valueId}/contextual [put]
func (h *SuggestedValueHandler) SetContextual(c *gin.Context) {
	productID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid product ID format")
		return
	}
	valueID, ok := parseUUIDParam(c, "valueId")
	if !ok {
		h.BadRequest(c, "Invalid value ID format")
		return
	}

	var req SetContextualRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	value, err := h.values.SetContextual(c.Request.Context(), productID, valueID, req.IsContextual)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, value)
}

// Impact godoc
// @Summary      Preview which events reference the suggested value
// @Tags         suggested-values
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        valueId path string true "Suggested value ID" format(uuid)
// @Success      200 {object} dto.Response{data=trackingapp.ImpactResult}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /products/{id}/suggested-values/{valueId}/impact [get]
func (h *SuggestedValueHandler) Impact(c *gin.Context) {
	productID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid product ID format")
		return
	}
	valueID, ok := parseUUIDParam(c, "valueId")
	if !ok {
		h.BadRequest(c, "Invalid value ID format")
		return
	}

	result, err := h.impact.SuggestedValueImpact(c.Request.Context(), productID, valueID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}

// Delete godoc
// @Summary      Delete a suggested value and strip it from every payload
// @Tags         suggested-values
// @Produce      json
// @Param        X-Author header string false "Audit author"
// @Param        id path string true "Product ID" format(uuid)
// @Param        valueId path string true "Suggested value ID" format(uuid)
// @Success      200 {object} dto.Response{data=DeleteSuggestedValueResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /products/{id}/suggested-values/{valueId} [delete]
func (h *SuggestedValueHandler) Delete(c *gin.Context) {
	productID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid product ID format")
		return
	}
	valueID, ok := parseUUIDParam(c, "valueId")
	if !ok {
		h.BadRequest(c, "Invalid value ID format")
		return
	}

	affected, err := h.values.Delete(c.Request.Context(), productID, valueID, getAuthor(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, DeleteSuggestedValueResponse{AffectedEvents: affected})
}
