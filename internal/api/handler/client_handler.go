package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/retailpos/backoffice/internal/core/domain"
	"github.com/retailpos/backoffice/internal/core/ports"
)

// ClientHandler serves the clients page.
type ClientHandler struct {
	clients  ports.ClientsAPI
	pageSize int
	navSize  int
}

func NewClientHandler(clients ports.ClientsAPI, pageSize, navSize int) *ClientHandler {
	return &ClientHandler{clients: clients, pageSize: pageSize, navSize: navSize}
}

// List returns one page of clients.
//
// @Summary      List clients
// @Tags         clients
// @Produce      json
// @Param        page  query     int  false  "0-based page index"
// @Success      200   {object}  map[string]any
// @Router       /api/clients [get]
func (h *ClientHandler) List(c echo.Context) error {
	_, _, upstream, err := sessionContext(c)
	if err != nil {
		return err
	}

	page, err := h.clients.List(c.Request().Context(), upstream, pageParam(c), h.pageSize)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newListResponse(page, h.navSize))
}

type clientRequest struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"  validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Location    string `json:"location"`
	PhoneNumber string `json:"phoneNumber"`
}

func (r clientRequest) toDomain() *domain.Client {
	return &domain.Client{
		ID:          r.ID,
		Name:        r.Name,
		Email:       r.Email,
		Location:    r.Location,
		PhoneNumber: r.PhoneNumber,
	}
}

// Add creates a client.
func (h *ClientHandler) Add(c echo.Context) error {
	_, _, upstream, err := sessionContext(c)
	if err != nil {
		return err
	}

	var req clientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	created, err := h.clients.Add(c.Request().Context(), upstream, req.toDomain())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

// Update edits an existing client.
func (h *ClientHandler) Update(c echo.Context) error {
	_, _, upstream, err := sessionContext(c)
	if err != nil {
		return err
	}

	var req clientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	updated, err := h.clients.Update(c.Request().Context(), upstream, req.toDomain())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

// Search looks clients up by name fragment.
func (h *ClientHandler) Search(c echo.Context) error {
	_, _, upstream, err := sessionContext(c)
	if err != nil {
		return err
	}

	query := c.QueryParam("query")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query is required")
	}

	page, err := h.clients.Search(c.Request().Context(), upstream, query, pageParam(c), h.pageSize)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newListResponse(page, h.navSize))
}
