package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/retailpos/backoffice/internal/core/domain"
	"github.com/retailpos/backoffice/internal/core/ports"
)

// SessionCookie is the gateway's signed session cookie.
const SessionCookie = "bo_session"

// Context keys populated by SessionGuard.
const (
	CtxSessionID = "sid"
	CtxUser      = "user"
	CtxUpstream  = "upstream"
)

// LandingRoute is where role-denied users are sent; every role may see
// the orders page.
const LandingRoute = "/orders"

// SessionGuard gates a route behind an allowed-roles list. An empty list
// admits any authenticated user.
//
// The decision is terminal per request: a cached identity (or a single
// /auth/me probe on cache miss, done inside SessionService.Resolve)
// either admits the request or redirects it. No retries.
func SessionGuard(sessions ports.SessionService, allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				return denyUnauthenticated(c)
			}

			sid, err := sessions.ParseToken(cookie.Value)
			if err != nil {
				ExpireSessionCookie(c)
				return denyUnauthenticated(c)
			}

			user, upstream, err := sessions.Resolve(c.Request().Context(), sid)
			if err != nil {
				ExpireSessionCookie(c)
				return denyUnauthenticated(c)
			}

			if len(allowed) > 0 {
				if _, ok := allowed[user.Role]; !ok {
					return denyRole(c)
				}
			}

			c.Set(CtxSessionID, sid)
			c.Set(CtxUser, user)
			c.Set(CtxUpstream, upstream)
			return next(c)
		}
	}
}

func denyUnauthenticated(c echo.Context) error {
	if wantsHTML(c) {
		return c.Redirect(http.StatusSeeOther, "/login")
	}
	return echo.NewHTTPError(http.StatusUnauthorized, domain.ErrUnauthenticated.Error())
}

func denyRole(c echo.Context) error {
	if wantsHTML(c) {
		return c.Redirect(http.StatusSeeOther, LandingRoute)
	}
	return echo.NewHTTPError(http.StatusForbidden, domain.ErrForbidden.Error())
}

// wantsHTML distinguishes browser navigation (redirect) from API calls
// (JSON error).
func wantsHTML(c echo.Context) bool {
	return strings.Contains(c.Request().Header.Get("Accept"), "text/html")
}

// SetSessionCookie installs the signed session cookie.
func SetSessionCookie(c echo.Context, token string, lifetime time.Duration) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(lifetime),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ExpireSessionCookie removes the session cookie from the browser.
func ExpireSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
