package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/retailpos/backoffice/internal/api/metrics"
	"github.com/retailpos/backoffice/internal/core/domain"
	"github.com/retailpos/backoffice/internal/core/ports"
	"github.com/retailpos/backoffice/internal/tsv"
)

// UploadHandler handles the TSV bulk upload workflow: products, inventory,
// and downloading the rejected-rows file a failed upload comes back with.
type UploadHandler struct {
	products  ports.ProductsAPI
	inventory ports.InventoryAPI
}

func NewUploadHandler(products ports.ProductsAPI, inventory ports.InventoryAPI) *UploadHandler {
	return &UploadHandler{products: products, inventory: inventory}
}

type uploadRequest struct {
	Base64File string `json:"base64file" validate:"required"`
}

// Products accepts a base64 TSV of catalog rows, validates it locally,
// and forwards it to the backend.
//
// @Summary      Bulk upload products
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        body  body      uploadRequest  true  "Base64-encoded TSV"
// @Success      200   {object}  domain.BulkUploadResult
// @Failure      400   {object}  map[string]string
// @Router       /api/products/upload [post]
func (h *UploadHandler) Products(c echo.Context) error {
	_, _, upstream, err := sessionContext(c)
	if err != nil {
		return err
	}

	req, raw, err := bindUpload(c)
	if err != nil {
		return err
	}
	if _, err := tsv.ParseProducts(raw); err != nil {
		metrics.BulkUploadsTotal.WithLabelValues("products", "error").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.products.Upload(c.Request().Context(), upstream, req.Base64File)
	if err != nil {
		metrics.BulkUploadsTotal.WithLabelValues("products", "error").Inc()
		return err
	}
	metrics.BulkUploadsTotal.WithLabelValues("products", result.Status).Inc()
	return c.JSON(http.StatusOK, result)
}

// Inventory accepts a base64 TSV of stock adjustments.
//
// @Summary      Bulk update inventory
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body  body      uploadRequest  true  "Base64-encoded TSV"
// @Success      200   {object}  domain.BulkUploadResult
// @Failure      400   {object}  map[string]string
// @Router       /api/inventory/bulk-update [post]
func (h *UploadHandler) Inventory(c echo.Context) error {
	_, _, upstream, err := sessionContext(c)
	if err != nil {
		return err
	}

	req, raw, err := bindUpload(c)
	if err != nil {
		return err
	}
	if _, err := tsv.ParseInventory(raw); err != nil {
		metrics.BulkUploadsTotal.WithLabelValues("inventory", "error").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.inventory.BulkUpdate(c.Request().Context(), upstream, req.Base64File)
	if err != nil {
		metrics.BulkUploadsTotal.WithLabelValues("inventory", "error").Inc()
		return err
	}
	metrics.BulkUploadsTotal.WithLabelValues("inventory", result.Status).Inc()
	return c.JSON(http.StatusOK, result)
}

// ResultFile decodes the rejected-rows payload of an UNSUCCESSFUL upload
// and serves it as a TSV download so the user can fix and resubmit it.
func (h *UploadHandler) ResultFile(c echo.Context) error {
	if _, _, _, err := sessionContext(c); err != nil {
		return err
	}

	var req uploadRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	raw, err := tsv.Decode(req.Base64File)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="upload-errors.tsv"`)
	return c.Blob(http.StatusOK, "text/tab-separated-values", raw)
}

// bindUpload binds an upload request and decodes its base64 payload.
func bindUpload(c echo.Context) (uploadRequest, []byte, error) {
	var req uploadRequest
	if err := c.Bind(&req); err != nil {
		return req, nil, echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return req, nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	raw, err := tsv.Decode(req.Base64File)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidUpload) {
			return req, nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return req, nil, err
	}
	return req, raw, nil
}
