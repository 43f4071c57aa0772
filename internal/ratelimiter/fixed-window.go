package ratelimiter

import (
	"sync"
	"time"
)

type Config struct {
	RequestsPerTimeFrame int
	TimeFrame            time.Duration
	Enabled              bool
}

// Limiter is satisfied by FixedWindowRateLimiter.
type Limiter interface {
	Allow(key string) (bool, time.Duration)
}

type window struct {
	count int
	start time.Time
}

// FixedWindowRateLimiter allows limit requests per key in each window.
// Windows start at the first request seen for a key.
type FixedWindowRateLimiter struct {
	sync.Mutex
	clients map[string]*window
	limit   int
	window  time.Duration
	now     func() time.Time
}

func NewFixedWindowLimiter(limit int, w time.Duration) *FixedWindowRateLimiter {
	return &FixedWindowRateLimiter{
		clients: make(map[string]*window),
		limit:   limit,
		window:  w,
		now:     time.Now,
	}
}

// Allow reports whether key may proceed; when it may not, the second value
// is how long until its window resets.
func (rl *FixedWindowRateLimiter) Allow(key string) (bool, time.Duration) {
	rl.Lock()
	defer rl.Unlock()

	now := rl.now()
	w, ok := rl.clients[key]
	if !ok || now.Sub(w.start) >= rl.window {
		rl.clients[key] = &window{count: 1, start: now}
		return true, 0
	}

	if w.count < rl.limit {
		w.count++
		return true, 0
	}

	return false, w.start.Add(rl.window).Sub(now)
}

// Sweep drops expired windows. Run it periodically to bound memory.
func (rl *FixedWindowRateLimiter) Sweep() int {
	rl.Lock()
	defer rl.Unlock()

	now := rl.now()
	removed := 0
	for k, w := range rl.clients {
		if now.Sub(w.start) >= rl.window {
			delete(rl.clients, k)
			removed++
		}
	}
	return removed
}
