package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigFromEnv(t *testing.T) {
	tests := []struct {
		name  string
		env   map[string]string
		check func(t *testing.T, cfg *Config)
	}{
		{
			name: "defaults",
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 3000, cfg.Port)
				assert.Equal(t, "*", cfg.CORSOrigin)
				assert.Equal(t, 100, cfg.RateLimitMax)
				assert.Equal(t, 15*time.Minute, cfg.RateLimitWindow)
				assert.Equal(t, RateLimitMemory, cfg.RateLimitBackend)
				assert.Equal(t, "static", cfg.ReferenceSource)
				assert.Equal(t, 5*time.Second, cfg.StatsInterval)
				assert.False(t, cfg.Development())
			},
		},
		{
			name: "overrides",
			env: map[string]string{
				"PORT":               "8080",
				"RATE_LIMIT_MAX":     "5",
				"RATE_LIMIT_WINDOW":  "1m",
				"RATE_LIMIT_BACKEND": "Redis",
				"TRUST_PROXY":        "true",
				"APP_ENV":            "development",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 8080, cfg.Port)
				assert.Equal(t, 5, cfg.RateLimitMax)
				assert.Equal(t, time.Minute, cfg.RateLimitWindow)
				assert.Equal(t, RateLimitRedis, cfg.RateLimitBackend)
				assert.True(t, cfg.TrustProxy)
				assert.True(t, cfg.Development())
			},
		},
		{
			name: "node env fallback",
			env:  map[string]string{"NODE_ENV": "Development"},
			check: func(t *testing.T, cfg *Config) {
				assert.True(t, cfg.Development())
			},
		},
		{
			name: "malformed values fall back",
			env:  map[string]string{"PORT": "http", "STATS_INTERVAL": "soon"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 3000, cfg.Port)
				assert.Equal(t, 5*time.Second, cfg.StatsInterval)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range []string{"PORT", "APP_ENV", "NODE_ENV", "CORS_ORIGIN", "TRUST_PROXY",
				"RATE_LIMIT_MAX", "RATE_LIMIT_WINDOW", "RATE_LIMIT_BACKEND", "REFERENCE_SOURCE", "STATS_INTERVAL"} {
				t.Setenv(key, "")
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			tt.check(t, LoadConfigFromEnv())
		})
	}
}
