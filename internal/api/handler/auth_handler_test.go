package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailpos/backoffice/internal/api/middleware"
	"github.com/retailpos/backoffice/internal/core/domain"
)

// ---------------------------------------------------------------------------
// Stub session service
// ---------------------------------------------------------------------------

type stubSessionService struct {
	user        *domain.SessionUser
	loginErr    error
	logoutCalls int
	parseErr    error
}

func (s *stubSessionService) Login(_ context.Context, email, password string) (string, *domain.SessionUser, error) {
	if s.loginErr != nil {
		return "", nil, s.loginErr
	}
	return "signed-token", s.user, nil
}

func (s *stubSessionService) Logout(_ context.Context, _ string) error {
	s.logoutCalls++
	return nil
}

func (s *stubSessionService) Resolve(_ context.Context, _ string) (*domain.SessionUser, string, error) {
	return s.user, "POS_SESSION=abc", nil
}

func (s *stubSessionService) IssueToken(sid string) (string, error) { return "token-" + sid, nil }

func (s *stubSessionService) ParseToken(_ string) (string, error) {
	if s.parseErr != nil {
		return "", s.parseErr
	}
	return "sid-1", nil
}

func authRequest(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestAuthHandler_LoginSetsSessionCookie(t *testing.T) {
	sessions := &stubSessionService{user: &domain.SessionUser{UserID: "u1", Role: domain.RoleSupervisor}}
	h := NewAuthHandler(sessions, nil, time.Hour, 6, 5)

	c, rec := authRequest(t, http.MethodPost, "/auth/login", `{"email":"boss@example.com","password":"secret"}`)
	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var set bool
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == middleware.SessionCookie {
			set = true
			assert.Equal(t, "signed-token", cookie.Value)
			assert.True(t, cookie.HttpOnly, "session cookie must be HttpOnly")
		}
	}
	require.True(t, set, "session cookie not set")

	var body userResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "u1", body.User.UserID)
}

func TestAuthHandler_LoginValidatesPayload(t *testing.T) {
	h := NewAuthHandler(&stubSessionService{}, nil, time.Hour, 6, 5)

	cases := []struct {
		name string
		body string
	}{
		{"missing email", `{"password":"secret"}`},
		{"not an email", `{"email":"nope","password":"secret"}`},
		{"missing password", `{"email":"boss@example.com"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := authRequest(t, http.MethodPost, "/auth/login", tc.body)
			err := h.Login(c)
			var he *echo.HTTPError
			require.ErrorAs(t, err, &he)
			assert.Equal(t, http.StatusBadRequest, he.Code)
		})
	}
}

func TestAuthHandler_LoginPassesUpstreamRejectionThrough(t *testing.T) {
	boom := errors.New("bad credentials")
	h := NewAuthHandler(&stubSessionService{loginErr: boom}, nil, time.Hour, 6, 5)

	c, rec := authRequest(t, http.MethodPost, "/auth/login", `{"email":"boss@example.com","password":"wrong"}`)
	err := h.Login(c)
	require.ErrorIs(t, err, boom)

	for _, cookie := range rec.Result().Cookies() {
		assert.NotEqual(t, middleware.SessionCookie, cookie.Name, "failed login must not set a session cookie")
	}
}

func TestAuthHandler_LogoutAlwaysSucceeds(t *testing.T) {
	sessions := &stubSessionService{}
	h := NewAuthHandler(sessions, nil, time.Hour, 6, 5)

	// Without any cookie: still 200, cookie expired in the browser.
	c, rec := authRequest(t, http.MethodPost, "/auth/logout", "")
	require.NoError(t, h.Logout(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, sessions.logoutCalls)

	// With a valid cookie: the session is torn down.
	c, rec = authRequest(t, http.MethodPost, "/auth/logout", "")
	c.Request().AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: "token"})
	require.NoError(t, h.Logout(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, sessions.logoutCalls)

	expired := false
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == middleware.SessionCookie && cookie.MaxAge < 0 {
			expired = true
		}
	}
	assert.True(t, expired, "logout should expire the browser cookie")
}

func TestAuthHandler_LogoutToleratesForgedCookie(t *testing.T) {
	sessions := &stubSessionService{parseErr: domain.ErrUnauthenticated}
	h := NewAuthHandler(sessions, nil, time.Hour, 6, 5)

	c, rec := authRequest(t, http.MethodPost, "/auth/logout", "")
	c.Request().AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: "forged"})
	require.NoError(t, h.Logout(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, sessions.logoutCalls, "a forged cookie must not reach the backend")
}

func TestAuthHandler_MeRequiresGuardContext(t *testing.T) {
	h := NewAuthHandler(&stubSessionService{}, nil, time.Hour, 6, 5)

	c, _ := authRequest(t, http.MethodGet, "/auth/me", "")
	err := h.Me(c)
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestAuthHandler_MeReturnsInjectedUser(t *testing.T) {
	h := NewAuthHandler(&stubSessionService{}, nil, time.Hour, 6, 5)

	c, rec := authRequest(t, http.MethodGet, "/auth/me", "")
	c.Set(middleware.CtxSessionID, "sid-1")
	c.Set(middleware.CtxUser, &domain.SessionUser{UserID: "u1", Role: domain.RoleOperator})
	c.Set(middleware.CtxUpstream, "POS_SESSION=abc")

	require.NoError(t, h.Me(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var user domain.SessionUser
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	assert.Equal(t, domain.RoleOperator, user.Role)
}
