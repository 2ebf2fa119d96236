// Package ratelimit counts attempts per key inside fixed windows. It backs
// the client login throttle.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter decides whether another attempt for key is allowed.
type Limiter interface {
	// Allow records an attempt and reports whether it is within the limit.
	// retryAfter is the time left in the current window.
	Allow(ctx context.Context, key string) (allowed bool, retryAfter time.Duration, err error)
}

// window tracks attempts for one key.
type window struct {
	count int
	ends  time.Time
}

// MemoryLimiter is a process-local fixed window limiter.
type MemoryLimiter struct {
	limit   int
	period  time.Duration
	now     func() time.Time
	mu      sync.Mutex
	windows map[string]*window
	calls   int
}

// purgeEvery is the number of Allow calls between sweeps of expired windows.
const purgeEvery = 1024

// NewMemoryLimiter allows limit attempts per key in each period.
func NewMemoryLimiter(limit int, period time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		limit:   limit,
		period:  period,
		now:     time.Now,
		windows: map[string]*window{},
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, time.Duration, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.calls++
	if l.calls%purgeEvery == 0 {
		for k, w := range l.windows {
			if !now.Before(w.ends) {
				delete(l.windows, k)
			}
		}
	}

	w, ok := l.windows[key]
	if !ok || !now.Before(w.ends) {
		w = &window{ends: now.Add(l.period)}
		l.windows[key] = w
	}
	w.count++
	return w.count <= l.limit, w.ends.Sub(now), nil
}
