package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"osfr/internal/service"
)

// CatalogHandler serves category and combined item listings.
type CatalogHandler struct {
	catalogService service.CatalogService
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// Categories godoc
// @Summary List categories
// @Tags catalog
// @Produce json
// @Success 200 {array} model.Category
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/categories [get]
func (h *CatalogHandler) Categories(c echo.Context) error {
	categories, err := h.catalogService.Categories(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, categories)
}

// Items godoc
// @Summary List resources, instructions and software
// @Tags catalog
// @Produce json
// @Param category query string false "Category name"
// @Success 200 {array} model.Item
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/items [get]
func (h *CatalogHandler) Items(c echo.Context) error {
	items, err := h.catalogService.Items(c.Request().Context(), c.QueryParam("category"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}
