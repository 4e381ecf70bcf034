package backend

import (
	"context"
	"net/http"

	"github.com/retailpos/backoffice/internal/core/domain"
)

// Clients manages wholesale client records.
type Clients struct {
	c *Client
}

func NewClients(c *Client) *Clients {
	return &Clients{c: c}
}

func (r *Clients) List(ctx context.Context, upstream string, page, size int) (*domain.Page[domain.Client], error) {
	var out domain.Page[domain.Client]
	req := domain.PageRequest{Page: page, Size: size}
	if err := r.c.do(ctx, "clients", http.MethodPost, "/api/clients/get-all-paginated", upstream, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Clients) Add(ctx context.Context, upstream string, client *domain.Client) (*domain.Client, error) {
	var out domain.Client
	if err := r.c.do(ctx, "clients", http.MethodPost, "/api/clients/add", upstream, client, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Clients) Update(ctx context.Context, upstream string, client *domain.Client) (*domain.Client, error) {
	var out domain.Client
	if err := r.c.do(ctx, "clients", http.MethodPut, "/api/clients/update", upstream, client, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type clientSearchRequest struct {
	Query string `json:"query"`
	Page  int    `json:"page"`
	Size  int    `json:"size"`
}

func (r *Clients) Search(ctx context.Context, upstream, query string, page, size int) (*domain.Page[domain.Client], error) {
	var out domain.Page[domain.Client]
	req := clientSearchRequest{Query: query, Page: page, Size: size}
	if err := r.c.do(ctx, "clients", http.MethodPost, "/api/clients/search", upstream, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
