package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/retailpos/backoffice/internal/core/domain"
	"github.com/retailpos/backoffice/internal/pagination"
)

// listResponse is the envelope every list view renders: the upstream page
// plus the computed navigation window so the client does no page math.
type listResponse[T any] struct {
	Content    []T            `json:"content"`
	Number     int            `json:"number"`
	TotalPages int            `json:"totalPages"`
	Nav        pagination.Nav `json:"nav"`
}

func newListResponse[T any](p *domain.Page[T], navWindow int) listResponse[T] {
	content := p.Content
	if content == nil {
		content = []T{}
	}
	return listResponse[T]{
		Content:    content,
		Number:     p.Number,
		TotalPages: p.TotalPages,
		Nav:        pagination.Navigate(p.Number, p.TotalPages, navWindow),
	}
}

// pageParam reads the 0-based ?page= query parameter, defaulting to 0.
func pageParam(c echo.Context) int {
	page, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil || page < 0 {
		return 0
	}
	return page
}
