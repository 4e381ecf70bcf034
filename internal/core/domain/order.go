package domain

import "time"

// OrderStatus represents the lifecycle state of an order as reported by
// the upstream backend.
type OrderStatus string

const (
	OrderPlaced        OrderStatus = "PLACED"
	OrderFulfillable   OrderStatus = "FULFILLABLE"
	OrderUnfulfillable OrderStatus = "UNFULFILLABLE"
	OrderCancelled     OrderStatus = "CANCELLED"
)

// Per-line-item statuses returned by order create/edit. Anything outside
// the accepted set carries a human-readable rejection message.
const (
	ItemStatusValid         = "VALID"
	ItemStatusFulfillable   = "FULFILLABLE"
	ItemStatusUnfulfillable = "UNFULFILLABLE"
)

// OrderItem is one line of an order. On submission responses Status and
// Message describe the backend's verdict for the line.
type OrderItem struct {
	OrderItemID     string  `json:"orderItemId,omitempty"`
	Barcode         string  `json:"barcode"`
	OrderedQuantity int     `json:"orderedQuantity"`
	SellingPrice    float64 `json:"sellingPrice"`
	Status          string  `json:"status,omitempty"`
	Message         string  `json:"message,omitempty"`
}

// Accepted reports whether the backend accepted this line.
func (i OrderItem) Accepted() bool {
	return i.Status == ItemStatusValid || i.Status == ItemStatusFulfillable
}

// Order is the server-owned aggregate; the gateway only renders it and
// forwards edits.
type Order struct {
	ID          string      `json:"id"`
	OrderTime   time.Time   `json:"orderTime"`
	OrderStatus OrderStatus `json:"orderStatus"`
	OrderItems  []OrderItem `json:"orderItems"`
}

// OrderSubmission is the payload sent to order create/edit.
type OrderSubmission struct {
	OrderItems []OrderItem `json:"orderItems"`
}

// OrderResult is the backend's answer to create/edit: the order id plus a
// per-line verdict, index-aligned with the submitted items.
type OrderResult struct {
	OrderID    string      `json:"orderId"`
	OrderItems []OrderItem `json:"orderItems"`
}

// OrderFilter narrows the order list view. Dates are yyyy-mm-dd; empty
// fields are ignored upstream.
type OrderFilter struct {
	Status    string `json:"status,omitempty"`
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
	Page      int    `json:"page"`
	Size      int    `json:"size"`
}
