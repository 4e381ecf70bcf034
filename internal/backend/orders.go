package backend

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/retailpos/backoffice/internal/core/domain"
)

// Orders manages orders and invoices.
type Orders struct {
	c *Client
}

func NewOrders(c *Client) *Orders {
	return &Orders{c: c}
}

func (r *Orders) List(ctx context.Context, upstream string, page, size int) (*domain.Page[domain.Order], error) {
	var out domain.Page[domain.Order]
	req := domain.PageRequest{Page: page, Size: size}
	if err := r.c.do(ctx, "orders", http.MethodPost, "/api/orders/get-all-paginated", upstream, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Orders) Filter(ctx context.Context, upstream string, f domain.OrderFilter) (*domain.Page[domain.Order], error) {
	q := url.Values{}
	if f.Status != "" {
		q.Set("status", f.Status)
	}
	if f.StartDate != "" {
		q.Set("startDate", f.StartDate)
	}
	if f.EndDate != "" {
		q.Set("endDate", f.EndDate)
	}
	q.Set("page", strconv.Itoa(f.Page))
	q.Set("size", strconv.Itoa(f.Size))

	var out domain.Page[domain.Order]
	if err := r.c.do(ctx, "orders", http.MethodGet, "/api/orders/filter-orders?"+q.Encode(), upstream, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type orderSearchRequest struct {
	OrderID string `json:"orderId"`
}

func (r *Orders) SearchByID(ctx context.Context, upstream, orderID string) (*domain.Order, error) {
	var out domain.Order
	req := orderSearchRequest{OrderID: orderID}
	if err := r.c.do(ctx, "orders", http.MethodPost, "/api/orders/search-by-id", upstream, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Orders) Create(ctx context.Context, upstream string, items []domain.OrderItem) (*domain.OrderResult, error) {
	var out domain.OrderResult
	req := domain.OrderSubmission{OrderItems: items}
	if err := r.c.do(ctx, "orders", http.MethodPost, "/api/orders/create", upstream, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Orders) Edit(ctx context.Context, upstream, orderID string, items []domain.OrderItem) (*domain.OrderResult, error) {
	var out domain.OrderResult
	req := domain.OrderSubmission{OrderItems: items}
	path := "/api/orders/edit/" + url.PathEscape(orderID)
	if err := r.c.do(ctx, "orders", http.MethodPost, path, upstream, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Orders) Cancel(ctx context.Context, upstream, orderID string) error {
	path := "/api/orders/cancel/" + url.PathEscape(orderID)
	return r.c.do(ctx, "orders", http.MethodPut, path, upstream, nil, nil)
}

type invoiceResponse struct {
	Base64File string `json:"base64file"`
}

// Invoice fetches the order's invoice PDF. The backend serves either raw
// PDF bytes or a JSON envelope with a base64 file; both come back as
// decoded bytes.
func (r *Orders) Invoice(ctx context.Context, upstream, orderID string) ([]byte, error) {
	path := "/api/orders/" + url.PathEscape(orderID) + "/invoice"
	raw, header, err := r.c.roundTrip(ctx, "orders", http.MethodGet, path, upstream, nil)
	if err != nil {
		return nil, err
	}

	if !strings.Contains(header.Get("Content-Type"), "application/json") {
		return raw, nil
	}

	var res invoiceResponse
	if err := decodeJSON(raw, &res); err != nil {
		return nil, err
	}
	pdf, err := base64.StdEncoding.DecodeString(res.Base64File)
	if err != nil {
		return nil, fmt.Errorf("decode invoice: %w", err)
	}
	return pdf, nil
}
