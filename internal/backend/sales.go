package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/retailpos/backoffice/internal/core/domain"
)

// Sales exposes the sales reports.
type Sales struct {
	c *Client
}

func NewSales(c *Client) *Sales {
	return &Sales{c: c}
}

func (r *Sales) List(ctx context.Context, upstream string, page, size int) (*domain.Page[domain.SaleRow], error) {
	var out domain.Page[domain.SaleRow]
	req := domain.PageRequest{Page: page, Size: size}
	if err := r.c.do(ctx, "sales", http.MethodPost, "/api/sales/get-all-paginated", upstream, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Sales) Daily(ctx context.Context, upstream, startDate, endDate string) (*domain.DailySalesSummary, error) {
	q := url.Values{}
	q.Set("startDate", startDate)
	q.Set("endDate", endDate)

	var out domain.DailySalesSummary
	if err := r.c.do(ctx, "sales", http.MethodGet, "/api/sales/get-daily-sales?"+q.Encode(), upstream, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Sales) ClientSales(ctx context.Context, upstream, clientName, startDate, endDate string) ([]domain.SaleRow, error) {
	q := url.Values{}
	q.Set("clientName", clientName)
	q.Set("startDate", startDate)
	q.Set("endDate", endDate)

	var out []domain.SaleRow
	if err := r.c.do(ctx, "sales", http.MethodGet, "/api/sales/get-client-sales?"+q.Encode(), upstream, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
