package server

import (
	"strings"
	"time"

	"github.com/omega-realm/mangos-admin/internal/env"
)

const (
	RateLimitMemory = "memory"
	RateLimitRedis  = "redis"
)

// Config holds the HTTP-facing settings
type Config struct {
	Port             int
	Environment      string
	CORSOrigin       string
	TrustProxy       bool
	RateLimitMax     int
	RateLimitWindow  time.Duration
	RateLimitBackend string
	ReferenceSource  string
	StatsInterval    time.Duration
	ShutdownTimeout  time.Duration
}

// LoadConfigFromEnv loads server configuration from environment variables
func LoadConfigFromEnv() *Config {
	return &Config{
		Port:             env.Int("PORT", 3000),
		Environment:      env.String("APP_ENV", env.String("NODE_ENV", "")),
		CORSOrigin:       env.String("CORS_ORIGIN", "*"),
		TrustProxy:       env.Bool("TRUST_PROXY", false),
		RateLimitMax:     env.Int("RATE_LIMIT_MAX", 100),
		RateLimitWindow:  env.Duration("RATE_LIMIT_WINDOW", 15*time.Minute),
		RateLimitBackend: strings.ToLower(env.String("RATE_LIMIT_BACKEND", RateLimitMemory)),
		ReferenceSource:  strings.ToLower(env.String("REFERENCE_SOURCE", "static")),
		StatsInterval:    env.Duration("STATS_INTERVAL", 5*time.Second),
		ShutdownTimeout:  env.Duration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

// Development reports whether error causes may be returned to clients.
func (c *Config) Development() bool {
	return strings.EqualFold(c.Environment, "development")
}
