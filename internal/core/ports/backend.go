package ports

import (
	"context"

	"github.com/retailpos/backoffice/internal/core/domain"
)

// The interfaces below are the gateway's view of the remote POS backend,
// one per resource. Every method is a single fire-once HTTP call; the
// upstream session cookie captured at login is passed explicitly.

// AuthAPI covers identity and operator administration.
type AuthAPI interface {
	// Login exchanges credentials for the authenticated user and the
	// upstream session cookie to attach to subsequent calls.
	Login(ctx context.Context, email, password string) (*domain.SessionUser, string, error)
	Me(ctx context.Context, upstream string) (*domain.SessionUser, error)
	Logout(ctx context.Context, upstream string) error
	CreateOperator(ctx context.Context, upstream, username, password string) (*domain.Operator, error)
	Operators(ctx context.Context, upstream string, page, size int) (*domain.Page[domain.Operator], error)
}

// ClientsAPI manages wholesale clients.
type ClientsAPI interface {
	List(ctx context.Context, upstream string, page, size int) (*domain.Page[domain.Client], error)
	Add(ctx context.Context, upstream string, client *domain.Client) (*domain.Client, error)
	Update(ctx context.Context, upstream string, client *domain.Client) (*domain.Client, error)
	Search(ctx context.Context, upstream, query string, page, size int) (*domain.Page[domain.Client], error)
}

// ProductsAPI manages the catalog.
type ProductsAPI interface {
	List(ctx context.Context, upstream string, page, size int) (*domain.Page[domain.Product], error)
	Add(ctx context.Context, upstream string, product *domain.Product) (*domain.Product, error)
	Edit(ctx context.Context, upstream string, product *domain.Product) (*domain.Product, error)
	Search(ctx context.Context, upstream, searchType, query string, page, size int) (*domain.Page[domain.Product], error)
	Upload(ctx context.Context, upstream, base64File string) (*domain.BulkUploadResult, error)
}

// OrdersAPI manages orders and invoices.
type OrdersAPI interface {
	List(ctx context.Context, upstream string, page, size int) (*domain.Page[domain.Order], error)
	Filter(ctx context.Context, upstream string, f domain.OrderFilter) (*domain.Page[domain.Order], error)
	SearchByID(ctx context.Context, upstream, orderID string) (*domain.Order, error)
	Create(ctx context.Context, upstream string, items []domain.OrderItem) (*domain.OrderResult, error)
	Edit(ctx context.Context, upstream, orderID string, items []domain.OrderItem) (*domain.OrderResult, error)
	Cancel(ctx context.Context, upstream, orderID string) error
	// Invoice returns the decoded PDF bytes for a fulfilled order.
	Invoice(ctx context.Context, upstream, orderID string) ([]byte, error)
}

// InventoryAPI adjusts stock levels.
type InventoryAPI interface {
	Update(ctx context.Context, upstream, barcode string, quantity int) error
	BulkUpdate(ctx context.Context, upstream, base64File string) (*domain.BulkUploadResult, error)
}

// SalesAPI exposes the sales reports.
type SalesAPI interface {
	List(ctx context.Context, upstream string, page, size int) (*domain.Page[domain.SaleRow], error)
	Daily(ctx context.Context, upstream, startDate, endDate string) (*domain.DailySalesSummary, error)
	ClientSales(ctx context.Context, upstream, clientName, startDate, endDate string) ([]domain.SaleRow, error)
}
