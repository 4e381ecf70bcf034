package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port          string `env:"PORT,           default=8080"`
	Env           string `env:"ENV,            default=development"`
	SessionSecret string `env:"SESSION_SECRET"`
	LogLevel      string `env:"LOG_LEVEL,      default=info"`

	Backend  BackendConfig
	Redis    RedisConfig
	Session  SessionConfig
	PageSize PageSizeConfig
}

// BackendConfig locates the remote POS backend every API call is proxied to.
type BackendConfig struct {
	BaseURL string        `env:"BACKEND_BASE_URL, default=http://localhost:9080"`
	Timeout time.Duration `env:"BACKEND_TIMEOUT,  default=15s"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// SessionConfig controls how long a session lives and how long a cached
// identity may be trusted before the backend is asked again.
type SessionConfig struct {
	Lifetime    time.Duration `env:"SESSION_LIFETIME,     default=24h"`
	IdentityTTL time.Duration `env:"SESSION_IDENTITY_TTL, default=5m"`
}

// PageSizeConfig pins the per-view page sizes that were scattered through
// the dashboard as magic numbers.
type PageSizeConfig struct {
	Orders    int `env:"PAGE_SIZE_ORDERS,    default=5"`
	Operators int `env:"PAGE_SIZE_OPERATORS, default=6"`
	Products  int `env:"PAGE_SIZE_PRODUCTS,  default=8"`
	Sales     int `env:"PAGE_SIZE_SALES,     default=9"`
	Clients   int `env:"PAGE_SIZE_CLIENTS,   default=10"`
	NavWindow int `env:"PAGE_NAV_WINDOW,     default=5"`
	Search    int `env:"PAGE_SIZE_SEARCH,    default=8"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}
