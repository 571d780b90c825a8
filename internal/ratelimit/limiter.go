// Package ratelimit implements a fixed-window request limiter keyed by client.
package ratelimit

import (
	"context"
	"time"
)

// Counter increments the hit count of key inside a fixed window that starts
// with the first hit. It returns the count including this hit and the time
// until the window resets.
type Counter interface {
	Increment(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetIn   time.Duration
}

type Limiter struct {
	counter Counter
	max     int
	window  time.Duration
}

// New returns a limiter admitting max requests per key per window.
func New(counter Counter, max int, window time.Duration) *Limiter {
	return &Limiter{counter: counter, max: max, window: window}
}

func (l *Limiter) Allow(ctx context.Context, key string) (Decision, error) {
	count, resetIn, err := l.counter.Increment(ctx, "ratelimit:"+key, l.window)
	if err != nil {
		return Decision{Allowed: true, Limit: l.max, Remaining: l.max}, err
	}
	remaining := l.max - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return Decision{
		Allowed:   count <= int64(l.max),
		Limit:     l.max,
		Remaining: remaining,
		ResetIn:   resetIn,
	}, nil
}
