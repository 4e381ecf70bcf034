// Package memstore provides an in-memory session store for single-node
// development and tests. Same contract as the Redis store: reads never
// fail, they miss.
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/retailpos/backoffice/internal/core/domain"
)

type entry struct {
	user      *domain.SessionUser
	cookie    string
	expiresAt time.Time
}

// SessionStore keeps identity and upstream entries in TTL-stamped maps.
type SessionStore struct {
	mu          sync.RWMutex
	identities  map[string]entry
	upstreams   map[string]entry
	identityTTL time.Duration
	sessionTTL  time.Duration

	// now is injectable so tests can move time instead of sleeping.
	now func() time.Time
}

func NewSessionStore(identityTTL, sessionTTL time.Duration) *SessionStore {
	if identityTTL <= 0 {
		identityTTL = 5 * time.Minute
	}
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	return &SessionStore{
		identities:  make(map[string]entry),
		upstreams:   make(map[string]entry),
		identityTTL: identityTTL,
		sessionTTL:  sessionTTL,
		now:         time.Now,
	}
}

// SetClock replaces the time source. Tests only.
func (s *SessionStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *SessionStore) SaveIdentity(_ context.Context, sid string, user *domain.SessionUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := *user
	s.identities[sid] = entry{user: &u, expiresAt: s.now().Add(s.identityTTL)}
	return nil
}

func (s *SessionStore) Identity(_ context.Context, sid string) (*domain.SessionUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.identities[sid]
	if !ok || s.now().After(e.expiresAt) {
		return nil, nil
	}
	u := *e.user
	return &u, nil
}

func (s *SessionStore) SaveUpstream(_ context.Context, sid, cookie string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upstreams[sid] = entry{cookie: cookie, expiresAt: s.now().Add(s.sessionTTL)}
	return nil
}

func (s *SessionStore) Upstream(_ context.Context, sid string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.upstreams[sid]
	if !ok || s.now().After(e.expiresAt) {
		return "", nil
	}
	return e.cookie, nil
}

func (s *SessionStore) Clear(_ context.Context, sid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.identities, sid)
	delete(s.upstreams, sid)
	return nil
}
