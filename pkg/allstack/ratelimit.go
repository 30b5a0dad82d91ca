// ratelimit.go provides the shared admission gate that caps capture volume
// per rolling time window.

package allstack

import (
	"sync"
	"time"
)

// rateLimitKey names the shared budget every capture draws from. Exception
// and request captures consume the same counter.
const rateLimitKey = "allstack-api"

// rateLimitWindow is the rolling window length.
const rateLimitWindow = time.Minute

// RateLimiter is a concurrency-safe admission gate over named counters.
// One instance is shared by all capture calls in the process.
type RateLimiter struct {
	mu     sync.Mutex
	window time.Duration
	hits   map[string][]time.Time
	now    func() time.Time // injectable for tests
}

// NewRateLimiter creates a limiter with a one-minute rolling window.
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		window: rateLimitWindow,
		hits:   make(map[string][]time.Time),
		now:    time.Now,
	}
}

// Allow reports whether key has budget left in the current window and, if
// so, consumes one slot. With a ceiling of N, the (N+1)-th call inside one
// rolling window is rejected; calls are admitted again once earlier hits
// age out of the window.
func (l *RateLimiter) Allow(key string, maxPerWindow int) bool {
	if maxPerWindow <= 0 {
		return false
	}

	now := l.now()
	cutoff := now.Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	kept := l.hits[key][:0]
	for _, hit := range l.hits[key] {
		if hit.After(cutoff) {
			kept = append(kept, hit)
		}
	}

	if len(kept) >= maxPerWindow {
		l.hits[key] = kept
		return false
	}
	l.hits[key] = append(kept, now)
	return true
}
