package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/omega-realm/mangos-admin/internal/models"
)

const statsKey = "mangos-admin:stats"

// SetStats stores the dashboard snapshot so other API replicas can serve it
// until ttl elapses.
func (c *Client) SetStats(ctx context.Context, stats *models.ServerStats, ttl time.Duration) error {
	statsJSON, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal stats: %w", err)
	}
	if err := c.Set(ctx, statsKey, statsJSON, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set stats: %w", err)
	}
	return nil
}

// GetStats returns the cached snapshot, or nil when none is cached.
func (c *Client) GetStats(ctx context.Context) (*models.ServerStats, error) {
	statsJSON, err := c.Get(ctx, statsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}

	var stats models.ServerStats
	if err := json.Unmarshal(statsJSON, &stats); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stats: %w", err)
	}
	return &stats, nil
}
