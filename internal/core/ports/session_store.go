package ports

import (
	"context"

	"github.com/retailpos/backoffice/internal/core/domain"
)

// SessionStore is the TTL key-value store behind the session layer.
//
// Identity entries are a short-lived cache of the upstream "who am I"
// answer; Upstream entries hold the backend session cookie for the whole
// session lifetime. A miss (expired, absent, or unreadable entry) is
// reported as a nil/empty value with a nil error, never as a failure.
type SessionStore interface {
	SaveIdentity(ctx context.Context, sid string, user *domain.SessionUser) error
	Identity(ctx context.Context, sid string) (*domain.SessionUser, error)

	SaveUpstream(ctx context.Context, sid, cookie string) error
	Upstream(ctx context.Context, sid string) (string, error)

	// Clear removes both the identity and upstream entries for sid.
	Clear(ctx context.Context, sid string) error
}
