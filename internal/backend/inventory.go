package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/retailpos/backoffice/internal/core/domain"
)

// Inventory adjusts stock levels.
type Inventory struct {
	c *Client
}

func NewInventory(c *Client) *Inventory {
	return &Inventory{c: c}
}

type inventoryUpdateRequest struct {
	Quantity int `json:"quantity"`
}

func (r *Inventory) Update(ctx context.Context, upstream, barcode string, quantity int) error {
	path := "/api/inventory/update/" + url.PathEscape(barcode)
	return r.c.do(ctx, "inventory", http.MethodPut, path, upstream, inventoryUpdateRequest{Quantity: quantity}, nil)
}

// BulkUpdate submits a base64-encoded TSV of inventory adjustments.
func (r *Inventory) BulkUpdate(ctx context.Context, upstream, base64File string) (*domain.BulkUploadResult, error) {
	var out domain.BulkUploadResult
	req := bulkUploadRequest{Base64File: base64File}
	if err := r.c.do(ctx, "inventory", http.MethodPost, "/api/inventory/bulk-update", upstream, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
