package domain

// Product is a catalog record owned by the upstream backend.
type Product struct {
	ID         string  `json:"id"`
	Barcode    string  `json:"barcode"`
	ClientName string  `json:"clientName"`
	Name       string  `json:"name"`
	MRP        float64 `json:"mrp"`
	ImageURL   string  `json:"imageUrl,omitempty"`
	Quantity   int     `json:"quantity"`
}

// Bulk upload outcomes reported by the backend. UNSUCCESSFUL responses
// carry a base64 TSV result file with per-row errors.
const (
	BulkUploadSuccess      = "SUCCESS"
	BulkUploadUnsuccessful = "UNSUCCESSFUL"
)

// BulkUploadResult is the backend's answer to a TSV bulk upload.
type BulkUploadResult struct {
	Status     string `json:"status"`
	Base64File string `json:"base64file,omitempty"`
}
