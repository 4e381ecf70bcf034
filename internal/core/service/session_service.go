package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/retailpos/backoffice/internal/api/metrics"
	"github.com/retailpos/backoffice/internal/core/domain"
	"github.com/retailpos/backoffice/internal/core/ports"
)

// SessionService implements the gateway session lifecycle. Credentials are
// verified by the remote backend; the gateway only keeps the resulting
// upstream cookie plus a short-lived identity cache, and hands the browser
// a signed session cookie carrying the session id.
type SessionService struct {
	auth     ports.AuthAPI
	store    ports.SessionStore
	secret   string
	lifetime time.Duration
	log      zerolog.Logger
}

func NewSessionService(auth ports.AuthAPI, store ports.SessionStore, secret string, lifetime time.Duration, log zerolog.Logger) *SessionService {
	if lifetime <= 0 {
		lifetime = 24 * time.Hour
	}
	return &SessionService{auth: auth, store: store, secret: secret, lifetime: lifetime, log: log}
}

// Login authenticates against the backend and establishes a session.
func (s *SessionService) Login(ctx context.Context, email, password string) (string, *domain.SessionUser, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, upstream, err := s.auth.Login(ctx, email, password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failed").Inc()
		return "", nil, err
	}

	sid := uuid.NewString()
	if err := s.store.SaveUpstream(ctx, sid, upstream); err != nil {
		return "", nil, err
	}
	if err := s.store.SaveIdentity(ctx, sid, user); err != nil {
		s.log.Warn().Err(err).Msg("identity cache write failed after login")
	}

	token, err := s.IssueToken(sid)
	if err != nil {
		return "", nil, err
	}

	metrics.LoginsTotal.WithLabelValues("ok").Inc()
	s.log.Info().Str("user_id", user.UserID).Str("role", user.Role).Msg("session established")
	return token, user, nil
}

// Logout tears the session down. The upstream logout is best effort:
// local state is cleared even when the backend call fails.
func (s *SessionService) Logout(ctx context.Context, sid string) error {
	upstream, _ := s.store.Upstream(ctx, sid)
	if upstream != "" {
		if err := s.auth.Logout(ctx, upstream); err != nil {
			s.log.Warn().Err(err).Msg("upstream logout failed")
		}
	}
	return s.store.Clear(ctx, sid)
}

// Resolve returns the session's user and upstream cookie. The identity
// cache answers when fresh; otherwise a single /auth/me probe decides.
func (s *SessionService) Resolve(ctx context.Context, sid string) (*domain.SessionUser, string, error) {
	upstream, _ := s.store.Upstream(ctx, sid)
	if upstream == "" {
		return nil, "", domain.ErrSessionExpired
	}

	if user, _ := s.store.Identity(ctx, sid); user != nil {
		metrics.SessionCacheTotal.WithLabelValues("hit").Inc()
		return user, upstream, nil
	}
	metrics.SessionCacheTotal.WithLabelValues("miss").Inc()

	user, err := s.auth.Me(ctx, upstream)
	if err != nil {
		if clearErr := s.store.Clear(ctx, sid); clearErr != nil {
			s.log.Warn().Err(clearErr).Msg("session clear failed")
		}
		return nil, "", domain.ErrSessionExpired
	}

	if err := s.store.SaveIdentity(ctx, sid, user); err != nil {
		s.log.Warn().Err(err).Msg("identity cache write failed")
	}
	return user, upstream, nil
}

// IssueToken signs a session cookie value for sid.
func (s *SessionService) IssueToken(sid string) (string, error) {
	claims := jwt.MapClaims{
		"sid": sid,
		"exp": time.Now().Add(s.lifetime).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.secret))
}

// ParseToken validates a session cookie value and extracts the session id.
func (s *SessionService) ParseToken(token string) (string, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.secret), nil
	})
	if err != nil || !tkn.Valid {
		return "", domain.ErrUnauthenticated
	}
	sid, _ := claims["sid"].(string)
	if sid == "" {
		return "", domain.ErrUnauthenticated
	}
	return sid, nil
}
