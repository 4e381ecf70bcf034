package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/retailpos/backoffice/internal/core/domain"
	"github.com/retailpos/backoffice/internal/core/ports"
)

// ProductHandler serves the products page.
type ProductHandler struct {
	products   ports.ProductsAPI
	pageSize   int
	searchSize int
	navSize    int
}

func NewProductHandler(products ports.ProductsAPI, pageSize, searchSize, navSize int) *ProductHandler {
	return &ProductHandler{products: products, pageSize: pageSize, searchSize: searchSize, navSize: navSize}
}

// List returns one page of the catalog.
//
// @Summary      List products
// @Tags         products
// @Produce      json
// @Param        page  query     int  false  "0-based page index"
// @Success      200   {object}  map[string]any
// @Router       /api/products [get]
func (h *ProductHandler) List(c echo.Context) error {
	_, _, upstream, err := sessionContext(c)
	if err != nil {
		return err
	}

	page, err := h.products.List(c.Request().Context(), upstream, pageParam(c), h.pageSize)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newListResponse(page, h.navSize))
}

type productRequest struct {
	ID         string  `json:"id,omitempty"`
	Barcode    string  `json:"barcode"    validate:"required"`
	ClientName string  `json:"clientName" validate:"required"`
	Name       string  `json:"name"       validate:"required"`
	MRP        float64 `json:"mrp"        validate:"gte=0"`
	ImageURL   string  `json:"imageUrl"`
}

func (r productRequest) toDomain() *domain.Product {
	return &domain.Product{
		ID:         r.ID,
		Barcode:    r.Barcode,
		ClientName: r.ClientName,
		Name:       r.Name,
		MRP:        r.MRP,
		ImageURL:   r.ImageURL,
	}
}

// Add creates a catalog record.
func (h *ProductHandler) Add(c echo.Context) error {
	_, _, upstream, err := sessionContext(c)
	if err != nil {
		return err
	}

	var req productRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	created, err := h.products.Add(c.Request().Context(), upstream, req.toDomain())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

// Edit updates a catalog record.
func (h *ProductHandler) Edit(c echo.Context) error {
	_, _, upstream, err := sessionContext(c)
	if err != nil {
		return err
	}

	var req productRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	updated, err := h.products.Edit(c.Request().Context(), upstream, req.toDomain())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

// Search queries the catalog by barcode or name.
func (h *ProductHandler) Search(c echo.Context) error {
	_, _, upstream, err := sessionContext(c)
	if err != nil {
		return err
	}

	query := c.QueryParam("query")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query is required")
	}
	searchType := c.QueryParam("type")
	if searchType == "" {
		searchType = "name"
	}

	page, err := h.products.Search(c.Request().Context(), upstream, searchType, query, pageParam(c), h.searchSize)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newListResponse(page, h.navSize))
}
