package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/retailpos/backoffice/internal/api/middleware"
	"github.com/retailpos/backoffice/internal/core/domain"
)

// sessionContext extracts what SessionGuard injected and fast-fails when
// a handler is reached without it: a non-nil user proves the guard ran,
// and every upstream call needs the backend cookie.
func sessionContext(c echo.Context) (sid string, user *domain.SessionUser, upstream string, err error) {
	user, _ = c.Get(middleware.CtxUser).(*domain.SessionUser)
	if user == nil {
		return "", nil, "", echo.NewHTTPError(http.StatusUnauthorized, "missing session context")
	}

	sid, _ = c.Get(middleware.CtxSessionID).(string)
	upstream, _ = c.Get(middleware.CtxUpstream).(string)
	if sid == "" || upstream == "" {
		return "", nil, "", echo.NewHTTPError(http.StatusUnauthorized, "session missing backend identity")
	}

	return sid, user, upstream, nil
}
