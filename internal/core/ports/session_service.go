package ports

import (
	"context"

	"github.com/retailpos/backoffice/internal/core/domain"
)

// SessionService owns the gateway-side session lifecycle: login mints a
// signed session cookie, Resolve answers "who is this" from the identity
// cache with a single upstream fallback, logout tears everything down.
type SessionService interface {
	Login(ctx context.Context, email, password string) (string, *domain.SessionUser, error)
	Logout(ctx context.Context, sid string) error

	// Resolve returns the session's user and upstream cookie. A cache hit
	// skips the backend entirely; a miss triggers exactly one /auth/me
	// probe. An unusable session yields domain.ErrSessionExpired.
	Resolve(ctx context.Context, sid string) (*domain.SessionUser, string, error)

	IssueToken(sid string) (string, error)
	ParseToken(token string) (string, error)
}
