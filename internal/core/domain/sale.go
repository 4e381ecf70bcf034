package domain

// SaleRow is one invoiced line as listed on the sales report page.
type SaleRow struct {
	InvoiceID    string  `json:"invoiceId,omitempty"`
	OrderID      string  `json:"orderId,omitempty"`
	ClientName   string  `json:"clientName"`
	Barcode      string  `json:"barcode"`
	Quantity     int     `json:"quantity"`
	SellingPrice float64 `json:"sellingPrice"`
	Revenue      float64 `json:"revenue"`
	Date         string  `json:"date,omitempty"`
}

// DailySalesSummary aggregates invoiced activity over a date range.
type DailySalesSummary struct {
	InvoicedOrders int       `json:"invoicedOrdersCount"`
	InvoicedItems  int       `json:"invoicedItemsCount"`
	TotalRevenue   float64   `json:"totalRevenue"`
	Clients        []SaleRow `json:"clients,omitempty"`
}
