package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/retailpos/backoffice/internal/core/domain"
)

// ---------------------------------------------------------------------------
// Stub session service
// ---------------------------------------------------------------------------

type stubSessions struct {
	user       *domain.SessionUser
	upstream   string
	resolveErr error
	parseErr   error
}

func (s *stubSessions) Login(_ context.Context, _, _ string) (string, *domain.SessionUser, error) {
	return "", nil, errors.New("not implemented")
}

func (s *stubSessions) Logout(_ context.Context, _ string) error { return nil }

func (s *stubSessions) Resolve(_ context.Context, sid string) (*domain.SessionUser, string, error) {
	if s.resolveErr != nil {
		return nil, "", s.resolveErr
	}
	_ = sid
	return s.user, s.upstream, nil
}

func (s *stubSessions) IssueToken(sid string) (string, error) { return "token-" + sid, nil }

func (s *stubSessions) ParseToken(token string) (string, error) {
	if s.parseErr != nil {
		return "", s.parseErr
	}
	return "sid-1", nil
}

func guardedRequest(t *testing.T, sessions *stubSessions, roles []string, cookie, accept string) (*httptest.ResponseRecorder, bool, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: cookie})
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := SessionGuard(sessions, roles...)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, called, c
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestSessionGuard_AdmitsAndInjectsContext(t *testing.T) {
	sessions := &stubSessions{
		user:     &domain.SessionUser{UserID: "u1", Role: domain.RoleOperator},
		upstream: "POS_SESSION=abc",
	}

	rec, called, c := guardedRequest(t, sessions, []string{domain.RoleOperator, domain.RoleSupervisor}, "valid-token", "")
	if !called {
		t.Fatalf("handler not reached: %d %s", rec.Code, rec.Body.String())
	}

	if sid, _ := c.Get(CtxSessionID).(string); sid != "sid-1" {
		t.Fatalf("session id not injected: %q", sid)
	}
	user, _ := c.Get(CtxUser).(*domain.SessionUser)
	if user == nil || user.UserID != "u1" {
		t.Fatalf("user not injected: %+v", user)
	}
	if upstream, _ := c.Get(CtxUpstream).(string); upstream != "POS_SESSION=abc" {
		t.Fatalf("upstream cookie not injected: %q", upstream)
	}
}

func TestSessionGuard_MissingCookie(t *testing.T) {
	sessions := &stubSessions{}

	rec, called, _ := guardedRequest(t, sessions, nil, "", "")
	if called {
		t.Fatalf("handler reached without a session")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for API clients, got %d", rec.Code)
	}
}

func TestSessionGuard_MissingCookieRedirectsBrowsers(t *testing.T) {
	sessions := &stubSessions{}

	rec, called, _ := guardedRequest(t, sessions, nil, "", "text/html,application/xhtml+xml")
	if called {
		t.Fatalf("handler reached without a session")
	}
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303 for browsers, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Fatalf("expected redirect to /login, got %q", loc)
	}
}

func TestSessionGuard_BadToken(t *testing.T) {
	sessions := &stubSessions{parseErr: domain.ErrUnauthenticated}

	rec, called, _ := guardedRequest(t, sessions, nil, "forged", "")
	if called {
		t.Fatalf("handler reached with a forged token")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestSessionGuard_ExpiredSessionClearsCookie(t *testing.T) {
	sessions := &stubSessions{resolveErr: domain.ErrSessionExpired}

	rec, called, _ := guardedRequest(t, sessions, nil, "stale-token", "")
	if called {
		t.Fatalf("handler reached with an expired session")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	cleared := false
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == SessionCookie && cookie.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatalf("expired session should expire the browser cookie")
	}
}

func TestSessionGuard_RoleDenied(t *testing.T) {
	sessions := &stubSessions{
		user:     &domain.SessionUser{UserID: "u1", Role: domain.RoleOperator},
		upstream: "POS_SESSION=abc",
	}

	rec, called, _ := guardedRequest(t, sessions, []string{domain.RoleSupervisor}, "valid-token", "")
	if called {
		t.Fatalf("operator reached a supervisor-only route")
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for API clients, got %d", rec.Code)
	}
}

func TestSessionGuard_RoleDeniedRedirectsBrowsersToLanding(t *testing.T) {
	sessions := &stubSessions{
		user:     &domain.SessionUser{UserID: "u1", Role: domain.RoleOperator},
		upstream: "POS_SESSION=abc",
	}

	rec, called, _ := guardedRequest(t, sessions, []string{domain.RoleSupervisor}, "valid-token", "text/html")
	if called {
		t.Fatalf("operator reached a supervisor-only route")
	}
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303 for browsers, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != LandingRoute {
		t.Fatalf("expected redirect to %q, got %q", LandingRoute, loc)
	}
}

func TestSessionGuard_EmptyRoleListAdmitsAnyAuthenticatedUser(t *testing.T) {
	sessions := &stubSessions{
		user:     &domain.SessionUser{UserID: "u1", Role: domain.RoleOperator},
		upstream: "POS_SESSION=abc",
	}

	_, called, _ := guardedRequest(t, sessions, nil, "valid-token", "")
	if !called {
		t.Fatalf("authenticated user should pass an unrestricted guard")
	}
}
