package telegram

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// rateLimiter keeps one token bucket per sender. A zero rate disables it.
type rateLimiter struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	limiters map[int64]*rate.Limiter
}

func newRateLimiter(perMinute, burst int) *rateLimiter {
	if perMinute <= 0 {
		return &rateLimiter{}
	}
	if burst < 1 {
		burst = 1
	}
	return &rateLimiter{
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    burst,
		limiters: make(map[int64]*rate.Limiter),
	}
}

func (r *rateLimiter) Allow(senderID int64) bool {
	if r.limiters == nil {
		return true
	}

	r.mu.Lock()
	l, ok := r.limiters[senderID]
	if !ok {
		l = rate.NewLimiter(r.limit, r.burst)
		r.limiters[senderID] = l
	}
	r.mu.Unlock()

	return l.Allow()
}
