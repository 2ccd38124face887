package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"osfr/internal/service"
)

// ResourceHandler handles resource endpoints.
type ResourceHandler struct {
	resourceService service.ResourceService
}

// NewResourceHandler creates a new resource handler.
func NewResourceHandler(resourceService service.ResourceService) *ResourceHandler {
	return &ResourceHandler{resourceService: resourceService}
}

// ResourceRequest represents a resource create or update request.
type ResourceRequest struct {
	Name       string `json:"name" validate:"required"`
	Service    string `json:"service"`
	URL        string `json:"url" validate:"required"`
	CategoryID uint   `json:"category_id" validate:"required"`
}

func (r ResourceRequest) input() service.ResourceInput {
	return service.ResourceInput{
		Name:       r.Name,
		Service:    r.Service,
		URL:        r.URL,
		CategoryID: r.CategoryID,
	}
}

func bindResource(c echo.Context) (ResourceRequest, error) {
	var req ResourceRequest
	if err := c.Bind(&req); err != nil {
		return req, echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return req, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return req, nil
}

// Get godoc
// @Summary Get a resource
// @Tags resources
// @Produce json
// @Security BearerAuth
// @Param id path int true "Resource ID"
// @Success 200 {object} model.Resource
// @Failure 404 {object} errors.ErrorResponse
// @Router /api/admin/resources/{id} [get]
func (h *ResourceHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	resource, err := h.resourceService.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resource)
}

// Create godoc
// @Summary Create a resource
// @Tags resources
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ResourceRequest true "Resource"
// @Success 201 {object} model.Resource
// @Failure 400 {object} errors.ErrorResponse
// @Router /api/admin/resources [post]
func (h *ResourceHandler) Create(c echo.Context) error {
	req, err := bindResource(c)
	if err != nil {
		return err
	}
	resource, err := h.resourceService.Create(c.Request().Context(), req.input())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, resource)
}

// Update godoc
// @Summary Update a resource
// @Tags resources
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Resource ID"
// @Param request body ResourceRequest true "Resource"
// @Success 200 {object} model.Resource
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /api/admin/resources/{id} [put]
func (h *ResourceHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	req, err := bindResource(c)
	if err != nil {
		return err
	}
	resource, err := h.resourceService.Update(c.Request().Context(), id, req.input())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resource)
}

// Delete godoc
// @Summary Delete a resource
// @Tags resources
// @Produce json
// @Security BearerAuth
// @Param id path int true "Resource ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /api/admin/resources/{id} [delete]
func (h *ResourceHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.resourceService.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "resource deleted"})
}
