package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/retailpos/backoffice/internal/api/middleware"
	"github.com/retailpos/backoffice/internal/core/domain"
	"github.com/retailpos/backoffice/internal/core/ports"
)

// AuthHandler handles login, logout, identity echo, and operator
// administration.
type AuthHandler struct {
	sessions ports.SessionService
	auth     ports.AuthAPI
	lifetime time.Duration
	pageSize int
	navSize  int
}

func NewAuthHandler(sessions ports.SessionService, auth ports.AuthAPI, lifetime time.Duration, pageSize, navSize int) *AuthHandler {
	return &AuthHandler{sessions: sessions, auth: auth, lifetime: lifetime, pageSize: pageSize, navSize: navSize}
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	User *domain.SessionUser `json:"user"`
}

// Login authenticates against the backend and establishes a session.
//
// @Summary      Log in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, user, err := h.sessions.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	middleware.SetSessionCookie(c, token, h.lifetime)
	return c.JSON(http.StatusOK, userResponse{User: user})
}

// Logout tears down the session. It succeeds even when the session is
// already gone so a stale tab can always log out.
//
// @Summary      Log out
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(middleware.SessionCookie); err == nil && cookie.Value != "" {
		if sid, err := h.sessions.ParseToken(cookie.Value); err == nil {
			_ = h.sessions.Logout(c.Request().Context(), sid)
		}
	}
	middleware.ExpireSessionCookie(c)
	return c.JSON(http.StatusOK, map[string]string{"status": "logged out"})
}

// Me returns the authenticated user, straight from the guard.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  domain.SessionUser
// @Failure      401  {object}  map[string]string
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	_, user, _, err := sessionContext(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

type createOperatorRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

// CreateOperator provisions an operator account. Supervisor only.
//
// @Summary      Create an operator
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body      createOperatorRequest  true  "Operator details"
// @Success      201   {object}  domain.Operator
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /auth/create-operator [post]
func (h *AuthHandler) CreateOperator(c echo.Context) error {
	_, _, upstream, err := sessionContext(c)
	if err != nil {
		return err
	}

	var req createOperatorRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	op, err := h.auth.CreateOperator(c.Request().Context(), upstream, req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, op)
}

// Operators lists operator accounts, paginated.
//
// @Summary      List operators
// @Tags         admin
// @Produce      json
// @Param        page  query     int  false  "0-based page index"
// @Success      200   {object}  map[string]any
// @Failure      403   {object}  map[string]string
// @Router       /auth/get-all-operators [get]
func (h *AuthHandler) Operators(c echo.Context) error {
	_, _, upstream, err := sessionContext(c)
	if err != nil {
		return err
	}

	page, err := h.auth.Operators(c.Request().Context(), upstream, pageParam(c), h.pageSize)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newListResponse(page, h.navSize))
}
