package redis

import (
	"context"
	"fmt"
	"time"
)

// Increment implements a fixed-window counter: the first hit of a window sets
// the key's expiry, later hits only increment it.
func (c *Client) Increment(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	count, err := c.Incr(ctx, key).Result()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to increment %s: %w", key, err)
	}

	ttl, err := c.PTTL(ctx, key).Result()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read ttl of %s: %w", key, err)
	}
	// A negative ttl means the expiry was never set, either because this is
	// the first hit or because an earlier PEXPIRE was lost.
	if count == 1 || ttl < 0 {
		if err := c.PExpire(ctx, key, window).Err(); err != nil {
			return 0, 0, fmt.Errorf("failed to set expiry of %s: %w", key, err)
		}
		ttl = window
	}
	return count, ttl, nil
}
