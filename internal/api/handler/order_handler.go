package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/retailpos/backoffice/internal/core/domain"
	"github.com/retailpos/backoffice/internal/core/ports"
)

// OrderHandler serves the orders page and the draft editing workflow.
type OrderHandler struct {
	orders   ports.OrdersAPI
	drafts   ports.DraftService
	pageSize int
	navSize  int
}

func NewOrderHandler(orders ports.OrdersAPI, drafts ports.DraftService, pageSize, navSize int) *OrderHandler {
	return &OrderHandler{orders: orders, drafts: drafts, pageSize: pageSize, navSize: navSize}
}

// List returns one page of orders.
//
// @Summary      List orders
// @Tags         orders
// @Produce      json
// @Param        page  query     int  false  "0-based page index"
// @Success      200   {object}  map[string]any
// @Router       /api/orders [get]
func (h *OrderHandler) List(c echo.Context) error {
	_, _, upstream, err := sessionContext(c)
	if err != nil {
		return err
	}

	page, err := h.orders.List(c.Request().Context(), upstream, pageParam(c), h.pageSize)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newListResponse(page, h.navSize))
}

// Filter narrows the order list by status and date range.
func (h *OrderHandler) Filter(c echo.Context) error {
	_, _, upstream, err := sessionContext(c)
	if err != nil {
		return err
	}

	filter := domain.OrderFilter{
		Status:    c.QueryParam("status"),
		StartDate: c.QueryParam("startDate"),
		EndDate:   c.QueryParam("endDate"),
		Page:      pageParam(c),
		Size:      h.pageSize,
	}
	if filter.Status == "" && filter.StartDate == "" && filter.EndDate == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "at least one filter is required")
	}

	page, err := h.orders.Filter(c.Request().Context(), upstream, filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newListResponse(page, h.navSize))
}

// SearchByID fetches a single order.
func (h *OrderHandler) SearchByID(c echo.Context) error {
	_, _, upstream, err := sessionContext(c)
	if err != nil {
		return err
	}

	orderID := c.Param("id")
	if orderID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "order id is required")
	}

	order, err := h.orders.SearchByID(c.Request().Context(), upstream, orderID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}

// Cancel voids an order.
func (h *OrderHandler) Cancel(c echo.Context) error {
	_, _, upstream, err := sessionContext(c)
	if err != nil {
		return err
	}

	orderID := c.Param("id")
	if orderID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "order id is required")
	}

	if err := h.orders.Cancel(c.Request().Context(), upstream, orderID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "cancelled"})
}

// Invoice streams the order invoice as a PDF download.
func (h *OrderHandler) Invoice(c echo.Context) error {
	_, _, upstream, err := sessionContext(c)
	if err != nil {
		return err
	}

	orderID := c.Param("id")
	if orderID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "order id is required")
	}

	pdf, err := h.orders.Invoice(c.Request().Context(), upstream, orderID)
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="invoice-%s.pdf"`, orderID))
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}

type createDraftRequest struct {
	OrderID string `json:"orderId,omitempty"`
}

// CreateDraft opens a draft, blank for a new order or seeded from an
// existing order when orderId is given.
//
// @Summary      Open an order draft
// @Tags         drafts
// @Accept       json
// @Produce      json
// @Success      201  {object}  ports.DraftView
// @Router       /api/orders/drafts [post]
func (h *OrderHandler) CreateDraft(c echo.Context) error {
	sid, _, upstream, err := sessionContext(c)
	if err != nil {
		return err
	}

	var req createDraftRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	var seed *domain.Order
	if req.OrderID != "" {
		seed, err = h.orders.SearchByID(c.Request().Context(), upstream, req.OrderID)
		if err != nil {
			return err
		}
	}

	view, err := h.drafts.Create(c.Request().Context(), sid, seed)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, view)
}

// GetDraft returns the current draft snapshot.
func (h *OrderHandler) GetDraft(c echo.Context) error {
	sid, _, _, err := sessionContext(c)
	if err != nil {
		return err
	}

	view, err := h.drafts.Get(c.Request().Context(), sid, c.Param("draftId"))
	if err != nil {
		return draftError(err)
	}
	return c.JSON(http.StatusOK, view)
}

// AddDraftItem appends an empty line to the draft.
func (h *OrderHandler) AddDraftItem(c echo.Context) error {
	sid, _, _, err := sessionContext(c)
	if err != nil {
		return err
	}

	view, err := h.drafts.AddItem(c.Request().Context(), sid, c.Param("draftId"))
	if err != nil {
		return draftError(err)
	}
	return c.JSON(http.StatusOK, view)
}

// RemoveDraftItem deletes one line from the draft.
func (h *OrderHandler) RemoveDraftItem(c echo.Context) error {
	sid, _, _, err := sessionContext(c)
	if err != nil {
		return err
	}

	index, err := draftIndexParam(c)
	if err != nil {
		return err
	}

	view, err := h.drafts.RemoveItem(c.Request().Context(), sid, c.Param("draftId"), index)
	if err != nil {
		return draftError(err)
	}
	return c.JSON(http.StatusOK, view)
}

type updateFieldRequest struct {
	Field string `json:"field" validate:"required,oneof=barcode orderedQuantity sellingPrice"`
	Value string `json:"value"`
}

// UpdateDraftField writes one field of one line. A barcode write arms
// the debounced autocomplete for that line.
func (h *OrderHandler) UpdateDraftField(c echo.Context) error {
	sid, _, _, err := sessionContext(c)
	if err != nil {
		return err
	}

	index, err := draftIndexParam(c)
	if err != nil {
		return err
	}

	var req updateFieldRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.drafts.UpdateField(c.Request().Context(), sid, c.Param("draftId"), index, req.Field, req.Value); err != nil {
		return draftError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// DraftSuggestions returns the autocomplete matches for one line.
func (h *OrderHandler) DraftSuggestions(c echo.Context) error {
	sid, _, _, err := sessionContext(c)
	if err != nil {
		return err
	}

	index, err := draftIndexParam(c)
	if err != nil {
		return err
	}

	suggestions, err := h.drafts.Suggestions(c.Request().Context(), sid, c.Param("draftId"), index)
	if err != nil {
		return draftError(err)
	}
	if suggestions == nil {
		suggestions = []domain.Product{}
	}
	return c.JSON(http.StatusOK, map[string]any{"suggestions": suggestions})
}

type selectSuggestionRequest struct {
	Barcode string `json:"barcode" validate:"required"`
}

// SelectDraftSuggestion commits one autocomplete match into the line.
func (h *OrderHandler) SelectDraftSuggestion(c echo.Context) error {
	sid, _, _, err := sessionContext(c)
	if err != nil {
		return err
	}

	index, err := draftIndexParam(c)
	if err != nil {
		return err
	}

	var req selectSuggestionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.drafts.Select(c.Request().Context(), sid, c.Param("draftId"), index, req.Barcode); err != nil {
		return draftError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// SubmitDraft pushes the draft upstream. A fully accepted draft answers
// with the new order id; a rejected one keeps the draft and returns
// per-line errors.
func (h *OrderHandler) SubmitDraft(c echo.Context) error {
	sid, _, _, err := sessionContext(c)
	if err != nil {
		return err
	}

	res, err := h.drafts.Submit(c.Request().Context(), sid, c.Param("draftId"))
	if err != nil {
		if errors.Is(err, domain.ErrEmptyDraft) {
			return echo.NewHTTPError(http.StatusBadRequest, domain.ErrEmptyDraft.Error())
		}
		return draftError(err)
	}
	return c.JSON(http.StatusOK, res)
}

// DiscardDraft throws the draft away.
func (h *OrderHandler) DiscardDraft(c echo.Context) error {
	sid, _, _, err := sessionContext(c)
	if err != nil {
		return err
	}

	if err := h.drafts.Discard(c.Request().Context(), sid, c.Param("draftId")); err != nil {
		return draftError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func draftIndexParam(c echo.Context) (int, error) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid item index")
	}
	return index, nil
}

func draftError(err error) error {
	switch {
	case errors.Is(err, domain.ErrDraftNotFound):
		return echo.NewHTTPError(http.StatusNotFound, domain.ErrDraftNotFound.Error())
	case errors.Is(err, domain.ErrItemNotFound):
		return echo.NewHTTPError(http.StatusNotFound, domain.ErrItemNotFound.Error())
	default:
		return err
	}
}
