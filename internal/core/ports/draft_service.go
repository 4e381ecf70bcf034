package ports

import (
	"context"

	"github.com/retailpos/backoffice/internal/core/domain"
)

// Draft item fields addressable by UpdateField.
const (
	FieldBarcode         = "barcode"
	FieldOrderedQuantity = "orderedQuantity"
	FieldSellingPrice    = "sellingPrice"
)

// DraftItemView is one editable order line as shown to the user. Quantity
// and price stay raw strings until submission so partial input survives
// round trips.
type DraftItemView struct {
	OrderItemID     string           `json:"orderItemId,omitempty"`
	Barcode         string           `json:"barcode"`
	OrderedQuantity string           `json:"orderedQuantity"`
	SellingPrice    string           `json:"sellingPrice"`
	Error           string           `json:"error,omitempty"`
	Suggestions     []domain.Product `json:"suggestions,omitempty"`
}

// DraftView is a snapshot of an order draft.
type DraftView struct {
	ID      string          `json:"id"`
	OrderID string          `json:"orderId,omitempty"`
	Items   []DraftItemView `json:"items"`
}

// DraftSubmitResult reports a submission outcome. Accepted means every
// line passed; otherwise Items carries per-line errors and the draft is
// kept for correction.
type DraftSubmitResult struct {
	OrderID  string          `json:"orderId,omitempty"`
	Accepted bool            `json:"accepted"`
	Items    []DraftItemView `json:"items"`
}

// DraftService is the order line-item editing workflow: an ordered list
// of independently editable draft lines with debounced per-row barcode
// autocomplete and submit-with-inline-errors semantics.
type DraftService interface {
	Create(ctx context.Context, sid string, seed *domain.Order) (*DraftView, error)
	Get(ctx context.Context, sid, draftID string) (*DraftView, error)
	AddItem(ctx context.Context, sid, draftID string) (*DraftView, error)
	RemoveItem(ctx context.Context, sid, draftID string, index int) (*DraftView, error)
	UpdateField(ctx context.Context, sid, draftID string, index int, field, value string) error
	Suggestions(ctx context.Context, sid, draftID string, index int) ([]domain.Product, error)
	Select(ctx context.Context, sid, draftID string, index int, barcode string) error
	Submit(ctx context.Context, sid, draftID string) (*DraftSubmitResult, error)
	Discard(ctx context.Context, sid, draftID string) error
}
