package backend

import (
	"context"
	"net/http"

	"github.com/retailpos/backoffice/internal/core/domain"
)

// Products manages the catalog.
type Products struct {
	c *Client
}

func NewProducts(c *Client) *Products {
	return &Products{c: c}
}

func (r *Products) List(ctx context.Context, upstream string, page, size int) (*domain.Page[domain.Product], error) {
	var out domain.Page[domain.Product]
	req := domain.PageRequest{Page: page, Size: size}
	if err := r.c.do(ctx, "products", http.MethodPost, "/api/products/get-all-paginated", upstream, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Products) Add(ctx context.Context, upstream string, product *domain.Product) (*domain.Product, error) {
	var out domain.Product
	if err := r.c.do(ctx, "products", http.MethodPost, "/api/products/add", upstream, product, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Products) Edit(ctx context.Context, upstream string, product *domain.Product) (*domain.Product, error) {
	var out domain.Product
	if err := r.c.do(ctx, "products", http.MethodPost, "/api/products/edit", upstream, product, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type productSearchRequest struct {
	Type  string `json:"type"`
	Query string `json:"query"`
	Page  int    `json:"page"`
	Size  int    `json:"size"`
}

// Search queries the catalog; searchType selects the matched field
// ("barcode" for autocomplete, "name" for the products page).
func (r *Products) Search(ctx context.Context, upstream, searchType, query string, page, size int) (*domain.Page[domain.Product], error) {
	var out domain.Page[domain.Product]
	req := productSearchRequest{Type: searchType, Query: query, Page: page, Size: size}
	if err := r.c.do(ctx, "products", http.MethodPost, "/api/products/search", upstream, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type bulkUploadRequest struct {
	Base64File string `json:"base64file"`
}

// Upload submits a base64-encoded TSV of products. Business-level row
// failures come back inside the result, not as an error.
func (r *Products) Upload(ctx context.Context, upstream, base64File string) (*domain.BulkUploadResult, error) {
	var out domain.BulkUploadResult
	req := bulkUploadRequest{Base64File: base64File}
	if err := r.c.do(ctx, "products", http.MethodPost, "/api/products/upload", upstream, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
