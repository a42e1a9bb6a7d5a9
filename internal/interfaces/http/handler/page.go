package handler

import (
	"github.com/gin-gonic/gin"
	trackingapp "github.com/trackplan/backend/internal/application/tracking"
)

// PageHandler handles page API endpoints
type PageHandler struct {
	BaseHandler
	pages *trackingapp.PageService
}

// NewPageHandler creates a new PageHandler
func NewPageHandler(pages *trackingapp.PageService) *PageHandler {
	return &PageHandler{pages: pages}
}

// CreatePageRequest represents a request to create a page
// @Description Request body for creating a page
type CreatePageRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=120" example:"checkout"`
	Description string `json:"description" binding:"max=2000"`
}

// UpdatePageRequest represents a request to update a page
// @Description Request body for updating a page
type UpdatePageRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=120"`
	Description string `json:"description" binding:"max=2000"`
}

// Create godoc
// @Summary      Create a page under a product
// @Tags         pages
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        request body CreatePageRequest true "Page creation request"
// @Success      201 {object} dto.Response{data=trackingapp.PageResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /products/{id}/pages [post]
func (h *PageHandler) Create(c *gin.Context) {
	productID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	var req CreatePageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.pages.Create(c.Request.Context(), productID, trackingapp.CreatePageRequest{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, page)
}

// GetByID godoc
// @Summary      Get page by ID
// @Tags         pages
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        pageId path string true "Page ID" format(uuid)
// @Success      200 {object} dto.Response{data=trackingapp.PageResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /products/{id}/pages/{pageId} [get]
func (h *PageHandler) GetByID(c *gin.Context) {
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

	page, err := h.pages.Get(c.Request.Context(), productID, pageID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, page)
}

// List godoc
// @Summary      List pages of a product
// @Tags         pages
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]trackingapp.PageResponse}
// @Router       /products/{id}/pages [get]
func (h *PageHandler) List(c *gin.Context) {
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

	result, err := h.pages.List(c.Request.Context(), productID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Update godoc
// @Summary      Update a page
// @Tags         pages
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        pageId path string true "Page ID" format(uuid)
// @Param        request body UpdatePageRequest true "Page update request"
// @Success      200 {object} dto.Response{data=trackingapp.PageResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /products/{id}/pages/{pageId} [put]
func (h *PageHandler) Update(c *gin.Context) {
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

	var req UpdatePageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.pages.Update(c.Request.Context(), productID, pageID, trackingapp.UpdatePageRequest{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, page)
}

// Delete godoc
// @Summary      Delete a page and its events
// @Tags         pages
// @Param        id path string true "Product ID" format(uuid)
// @Param        pageId path string true "Page ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /products/{id}/pages/{pageId} [delete]
func (h *PageHandler) Delete(c *gin.Context) {
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

	if err := h.pages.Delete(c.Request.Context(), productID, pageID); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}
