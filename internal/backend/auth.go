package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/retailpos/backoffice/internal/api/metrics"
	"github.com/retailpos/backoffice/internal/core/domain"
)

// Auth talks to the backend's identity endpoints.
type Auth struct {
	c *Client
}

func NewAuth(c *Client) *Auth {
	return &Auth{c: c}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates against the backend and captures the session
// cookie it sets, returned as a ready-to-send Cookie header value.
// The cookie capture is why this call bypasses Client.do.
func (a *Auth) Login(ctx context.Context, email, password string) (*domain.SessionUser, string, error) {
	buf, err := json.Marshal(loginRequest{Email: email, Password: password})
	if err != nil {
		return nil, "", fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.c.baseURL+"/auth/login", bytes.NewReader(buf))
	if err != nil {
		return nil, "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := a.c.http.Do(req)
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues("auth", "transport_error").Inc()
		a.c.log.Error().Err(err).Msg("backend unreachable during login")
		return nil, "", &Error{Status: 0, Message: "backend unreachable"}
	}
	defer res.Body.Close()

	raw, _ := io.ReadAll(res.Body)
	if res.StatusCode < 200 || res.StatusCode > 299 {
		metrics.UpstreamRequestsTotal.WithLabelValues("auth", "rejected").Inc()
		return nil, "", unwrapError(res.StatusCode, raw)
	}
	metrics.UpstreamRequestsTotal.WithLabelValues("auth", "ok").Inc()

	var user domain.SessionUser
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, "", &Error{Status: http.StatusBadGateway, Message: fallbackMessage}
	}

	cookies := make([]string, 0, len(res.Cookies()))
	for _, c := range res.Cookies() {
		cookies = append(cookies, c.Name+"="+c.Value)
	}
	if len(cookies) == 0 {
		return nil, "", &Error{Status: http.StatusBadGateway, Message: "backend did not establish a session"}
	}

	return &user, strings.Join(cookies, "; "), nil
}

// Me asks the backend who the session belongs to.
func (a *Auth) Me(ctx context.Context, upstream string) (*domain.SessionUser, error) {
	var user domain.SessionUser
	if err := a.c.do(ctx, "auth", http.MethodGet, "/auth/me", upstream, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Logout invalidates the backend session.
func (a *Auth) Logout(ctx context.Context, upstream string) error {
	return a.c.do(ctx, "auth", http.MethodPost, "/auth/logout", upstream, nil, nil)
}

type createOperatorRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CreateOperator provisions a new operator account (supervisor only).
func (a *Auth) CreateOperator(ctx context.Context, upstream, username, password string) (*domain.Operator, error) {
	var op domain.Operator
	req := createOperatorRequest{Username: username, Password: password}
	if err := a.c.do(ctx, "auth", http.MethodPost, "/auth/create-operator", upstream, req, &op); err != nil {
		return nil, err
	}
	return &op, nil
}

// Operators lists operator accounts, paginated.
func (a *Auth) Operators(ctx context.Context, upstream string, page, size int) (*domain.Page[domain.Operator], error) {
	var out domain.Page[domain.Operator]
	req := domain.PageRequest{Page: page, Size: size}
	if err := a.c.do(ctx, "auth", http.MethodPost, "/auth/get-all-operators", upstream, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
