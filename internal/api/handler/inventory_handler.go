package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/retailpos/backoffice/internal/core/ports"
)

// InventoryHandler adjusts single-item stock levels. Bulk updates live in
// UploadHandler.
type InventoryHandler struct {
	inventory ports.InventoryAPI
}

func NewInventoryHandler(inventory ports.InventoryAPI) *InventoryHandler {
	return &InventoryHandler{inventory: inventory}
}

type inventoryUpdateRequest struct {
	Quantity int `json:"quantity" validate:"gte=0"`
}

// Update sets the stock level of one barcode.
//
// @Summary      Update stock for a barcode
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        barcode  path      string                  true  "Product barcode"
// @Param        body     body      inventoryUpdateRequest  true  "New quantity"
// @Success      200      {object}  map[string]string
// @Failure      400      {object}  map[string]string
// @Router       /api/inventory/update/{barcode} [put]
func (h *InventoryHandler) Update(c echo.Context) error {
	_, _, upstream, err := sessionContext(c)
	if err != nil {
		return err
	}

	barcode := c.Param("barcode")
	if barcode == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "barcode is required")
	}

	var req inventoryUpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.inventory.Update(c.Request().Context(), upstream, barcode, req.Quantity); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "updated"})
}
