package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/retailpos/backoffice/internal/core/domain"
)

// SessionStore is the Redis-backed session store.
// Key format: session:identity:<sid> and session:upstream:<sid>.
//
// Reads degrade to a cache miss on any failure (absent key, expired key,
// corrupt payload, transport error): staleness here only costs one extra
// /auth/me probe, never a hard failure.
type SessionStore struct {
	client      *redis.Client
	identityTTL time.Duration
	sessionTTL  time.Duration
	log         zerolog.Logger
}

// NewSessionStore wraps the given Redis client. identityTTL bounds how
// long a cached identity is trusted; sessionTTL bounds the session itself.
func NewSessionStore(client *redis.Client, identityTTL, sessionTTL time.Duration, log zerolog.Logger) *SessionStore {
	if identityTTL <= 0 {
		identityTTL = 5 * time.Minute
	}
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	return &SessionStore{client: client, identityTTL: identityTTL, sessionTTL: sessionTTL, log: log}
}

func (s *SessionStore) SaveIdentity(ctx context.Context, sid string, user *domain.SessionUser) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, identityKey(sid), raw, s.identityTTL).Err()
}

func (s *SessionStore) Identity(ctx context.Context, sid string) (*domain.SessionUser, error) {
	raw, err := s.client.Get(ctx, identityKey(sid)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.Warn().Err(err).Msg("identity lookup failed, treating as miss")
		}
		return nil, nil
	}

	var user domain.SessionUser
	if err := json.Unmarshal(raw, &user); err != nil {
		s.log.Warn().Err(err).Msg("corrupt identity entry, treating as miss")
		return nil, nil
	}
	return &user, nil
}

func (s *SessionStore) SaveUpstream(ctx context.Context, sid, cookie string) error {
	return s.client.Set(ctx, upstreamKey(sid), cookie, s.sessionTTL).Err()
}

func (s *SessionStore) Upstream(ctx context.Context, sid string) (string, error) {
	cookie, err := s.client.Get(ctx, upstreamKey(sid)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.Warn().Err(err).Msg("upstream cookie lookup failed, treating as miss")
		}
		return "", nil
	}
	return cookie, nil
}

// Clear removes both entries for sid.
func (s *SessionStore) Clear(ctx context.Context, sid string) error {
	return s.client.Del(ctx, identityKey(sid), upstreamKey(sid)).Err()
}

func identityKey(sid string) string { return "session:identity:" + sid }
func upstreamKey(sid string) string { return "session:upstream:" + sid }
