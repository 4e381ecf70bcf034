package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

const healthProbeTimeout = 3 * time.Second

// HealthHandler answers the liveness probe.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Liveness reports that the process is up.
//
// @Summary      Liveness probe
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// HealthDependenciesHandler answers the readiness probe by checking the
// session store and the remote backend.
type HealthDependenciesHandler struct {
	rdb        *redis.Client
	http       *http.Client
	backendURL string
}

func NewHealthDependenciesHandler(rdb *redis.Client, backendURL string) *HealthDependenciesHandler {
	return &HealthDependenciesHandler{
		rdb:        rdb,
		http:       &http.Client{Timeout: healthProbeTimeout},
		backendURL: backendURL,
	}
}

// Readiness reports whether Redis and the backend are reachable. The
// backend check only asks for reachability: any HTTP answer counts.
//
// @Summary      Readiness probe
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /health/ready [get]
func (h *HealthDependenciesHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), healthProbeTimeout)
	defer cancel()

	checks := map[string]string{"redis": "ok", "backend": "ok"}
	healthy := true

	if err := h.rdb.Ping(ctx).Err(); err != nil {
		checks["redis"] = err.Error()
		healthy = false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, h.backendURL, nil)
	if err == nil {
		res, reqErr := h.http.Do(req)
		if reqErr != nil {
			checks["backend"] = "unreachable"
			healthy = false
		} else {
			res.Body.Close()
		}
	}

	if !healthy {
		return c.JSON(http.StatusServiceUnavailable, checks)
	}
	return c.JSON(http.StatusOK, checks)
}
