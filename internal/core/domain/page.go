package domain

// Page is the envelope every upstream list endpoint returns.
// Invariant: 0 <= Number < TotalPages whenever TotalPages > 0.
type Page[T any] struct {
	Content    []T `json:"content"`
	Number     int `json:"number"`
	TotalPages int `json:"totalPages"`
}

// PageRequest is the uniform POST body for paginated list endpoints.
type PageRequest struct {
	Page int `json:"page"`
	Size int `json:"size"`
}
