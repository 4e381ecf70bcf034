package domain

import "errors"

var (
	ErrUnauthenticated    = errors.New("not authenticated")
	ErrSessionExpired     = errors.New("session expired")
	ErrForbidden          = errors.New("access forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmptyDraft         = errors.New("order draft has no items")
	ErrDraftNotFound      = errors.New("order draft not found")
	ErrItemNotFound       = errors.New("order draft item not found")
	ErrInvalidUpload      = errors.New("invalid bulk upload file")
)
