package redis

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/omega-realm/mangos-admin/internal/env"
	"github.com/omega-realm/mangos-admin/internal/log"
)

// Client wraps the Redis client
type Client struct {
	*redis.Client
}

// Config holds Redis configuration
type Config struct {
	Host        string
	Port        string
	Password    string
	DB          int
	PoolSize    int
	DialTimeout time.Duration
}

// LoadConfigFromEnv loads Redis configuration from environment variables
func LoadConfigFromEnv() *Config {
	return &Config{
		Host:        env.String("REDIS_HOST", "localhost"),
		Port:        env.String("REDIS_PORT", "6379"),
		Password:    env.String("REDIS_PASSWORD", ""),
		DB:          env.Int("REDIS_DB", 0),
		PoolSize:    env.Int("REDIS_POOL_SIZE", 10),
		DialTimeout: env.Duration("REDIS_DIAL_TIMEOUT", 10*time.Second),
	}
}

func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// NewClient creates a new Redis client with the provided configuration
func NewClient(ctx context.Context, config *Config) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         config.Addr(),
		Password:     config.Password,
		DB:           config.DB,
		PoolSize:     config.PoolSize,
		DialTimeout:  config.DialTimeout,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolTimeout:  4 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Info("[Redis] Connected to %s (DB: %d)", config.Addr(), config.DB)
	log.Debug("[Redis] Pool config: PoolSize=%d", config.PoolSize)

	return &Client{rdb}, nil
}
