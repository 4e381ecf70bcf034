// Package backend holds the gateway's HTTP clients for the remote POS
// backend, one per resource. Every call is fire-once: no retries, no
// backoff. Failures are normalised into *Error so callers never see a raw
// transport error.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/retailpos/backoffice/internal/api/metrics"
)

const fallbackMessage = "something went wrong"

// Error is the normalised upstream failure: an HTTP status (0 for
// transport failures) and a human-readable message resolved from the
// response body.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return e.Message
	}
	return fmt.Sprintf("backend: %s (status %d)", e.Message, e.Status)
}

// Client is the shared transport under all resource clients.
type Client struct {
	http    *http.Client
	baseURL string
	log     zerolog.Logger
}

// New creates a Client for the backend at baseURL.
func New(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		http:    &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     log,
	}
}

// do issues one request and decodes the JSON response into out (when
// non-nil). upstream, when set, is attached as the Cookie header so the
// backend sees the original session.
func (c *Client) do(ctx context.Context, resource, method, path string, upstream string, body, out any) error {
	raw, _, err := c.roundTrip(ctx, resource, method, path, upstream, body)
	if err != nil {
		return err
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		c.log.Error().Err(err).Str("resource", resource).Str("path", path).Msg("malformed backend response")
		return &Error{Status: http.StatusBadGateway, Message: fallbackMessage}
	}
	return nil
}

// roundTrip performs the call and returns the raw body and response
// headers of a successful response. Non-2xx responses become *Error via
// the uniform unwrapping convention.
func (c *Client) roundTrip(ctx context.Context, resource, method, path, upstream string, body any) ([]byte, http.Header, error) {
	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, nil, fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if upstream != "" {
		req.Header.Set("Cookie", upstream)
	}

	start := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(resource, "transport_error").Inc()
		c.log.Error().Err(err).Str("resource", resource).Str("path", path).Msg("backend unreachable")
		return nil, nil, &Error{Status: 0, Message: "backend unreachable"}
	}
	defer res.Body.Close()

	metrics.UpstreamRequestDuration.WithLabelValues(resource).Observe(time.Since(start).Seconds())

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(resource, "transport_error").Inc()
		return nil, nil, &Error{Status: 0, Message: "backend unreachable"}
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		metrics.UpstreamRequestsTotal.WithLabelValues(resource, "rejected").Inc()
		return nil, nil, unwrapError(res.StatusCode, raw)
	}

	metrics.UpstreamRequestsTotal.WithLabelValues(resource, "ok").Inc()
	return raw, res.Header, nil
}

func decodeJSON(raw []byte, out any) error {
	if err := json.Unmarshal(raw, out); err != nil {
		return &Error{Status: http.StatusBadGateway, Message: fallbackMessage}
	}
	return nil
}

// unwrapError resolves the most useful message available: the JSON
// "message" field, then "error". A JSON body without either gets the
// generic fallback; raw text is used only when the body is not JSON.
func unwrapError(status int, raw []byte) *Error {
	var envelope struct {
		Message string `json:"message"`
		Err     string `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil {
		if envelope.Message != "" {
			return &Error{Status: status, Message: envelope.Message}
		}
		if envelope.Err != "" {
			return &Error{Status: status, Message: envelope.Err}
		}
		return &Error{Status: status, Message: fallbackMessage}
	}
	if text := strings.TrimSpace(string(raw)); text != "" {
		return &Error{Status: status, Message: text}
	}
	return &Error{Status: status, Message: fallbackMessage}
}
