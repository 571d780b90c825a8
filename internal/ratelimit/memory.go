package ratelimit

import (
	"context"
	"sync"
	"time"
)

type window struct {
	start time.Time
	count int64
}

// MemoryCounter keeps windows in process memory. Expired windows are swept
// lazily at most once per window length.
type MemoryCounter struct {
	mu        sync.Mutex
	windows   map[string]*window
	nextSweep time.Time
	now       func() time.Time
}

func NewMemoryCounter() *MemoryCounter {
	return &MemoryCounter{windows: make(map[string]*window), now: time.Now}
}

func (m *MemoryCounter) Increment(_ context.Context, key string, length time.Duration) (int64, time.Duration, error) {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	if now.After(m.nextSweep) {
		for k, w := range m.windows {
			if now.Sub(w.start) >= length {
				delete(m.windows, k)
			}
		}
		m.nextSweep = now.Add(length)
	}

	w := m.windows[key]
	if w == nil || now.Sub(w.start) >= length {
		w = &window{start: now}
		m.windows[key] = w
	}
	w.count++
	return w.count, length - now.Sub(w.start), nil
}

// Len reports the number of tracked windows.
func (m *MemoryCounter) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.windows)
}
