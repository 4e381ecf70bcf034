package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/retailpos/backoffice/internal/core/domain"
	"github.com/retailpos/backoffice/internal/core/ports"
)

const dateLayout = "2006-01-02"

// SalesHandler serves the sales reports.
type SalesHandler struct {
	sales    ports.SalesAPI
	pageSize int
	navSize  int
}

func NewSalesHandler(sales ports.SalesAPI, pageSize, navSize int) *SalesHandler {
	return &SalesHandler{sales: sales, pageSize: pageSize, navSize: navSize}
}

// List returns one page of the sales ledger.
//
// @Summary      List sales
// @Tags         sales
// @Produce      json
// @Param        page  query     int  false  "0-based page index"
// @Success      200   {object}  map[string]any
// @Router       /api/sales [get]
func (h *SalesHandler) List(c echo.Context) error {
	_, _, upstream, err := sessionContext(c)
	if err != nil {
		return err
	}

	page, err := h.sales.List(c.Request().Context(), upstream, pageParam(c), h.pageSize)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newListResponse(page, h.navSize))
}

// Daily returns the aggregated sales summary for a date range.
func (h *SalesHandler) Daily(c echo.Context) error {
	_, _, upstream, err := sessionContext(c)
	if err != nil {
		return err
	}

	startDate, endDate, err := dateRangeParams(c)
	if err != nil {
		return err
	}

	summary, err := h.sales.Daily(c.Request().Context(), upstream, startDate, endDate)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, summary)
}

// ClientSales returns per-client sales for a date range.
func (h *SalesHandler) ClientSales(c echo.Context) error {
	_, _, upstream, err := sessionContext(c)
	if err != nil {
		return err
	}

	clientName := c.QueryParam("clientName")
	if clientName == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "clientName is required")
	}
	startDate, endDate, err := dateRangeParams(c)
	if err != nil {
		return err
	}

	rows, err := h.sales.ClientSales(c.Request().Context(), upstream, clientName, startDate, endDate)
	if err != nil {
		return err
	}
	if rows == nil {
		rows = []domain.SaleRow{}
	}
	return c.JSON(http.StatusOK, map[string]any{"sales": rows})
}

// dateRangeParams reads and validates the startDate/endDate query pair.
func dateRangeParams(c echo.Context) (string, string, error) {
	startDate := c.QueryParam("startDate")
	endDate := c.QueryParam("endDate")
	if startDate == "" || endDate == "" {
		return "", "", echo.NewHTTPError(http.StatusBadRequest, "startDate and endDate are required")
	}

	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return "", "", echo.NewHTTPError(http.StatusBadRequest, "startDate must be YYYY-MM-DD")
	}
	end, err := time.Parse(dateLayout, endDate)
	if err != nil {
		return "", "", echo.NewHTTPError(http.StatusBadRequest, "endDate must be YYYY-MM-DD")
	}
	if end.Before(start) {
		return "", "", echo.NewHTTPError(http.StatusBadRequest, "endDate is before startDate")
	}
	return startDate, endDate, nil
}
