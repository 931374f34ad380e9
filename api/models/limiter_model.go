package models

import (
	"sync"
	"time"

	ttlworker "github.com/FloatTech/ttl"
	"golang.org/x/time/rate"
)

const limiterTTL = 10 * time.Minute

// Limiters hands out one token bucket per key.
type Limiters struct {
	mu      sync.Mutex
	perMin  int
	buckets *ttlworker.Cache[string, *rate.Limiter]
}

// NewLimiters allows perMinute events per key with a burst of the same size.
func NewLimiters(perMinute int) *Limiters {
	return &Limiters{
		perMin:  perMinute,
		buckets: ttlworker.NewCache[string, *rate.Limiter](limiterTTL),
	}
}

// Allow reports whether key may proceed now. A zero rate disables limiting.
func (l *Limiters) Allow(key string) bool {
	if l == nil || l.perMin <= 0 {
		return true
	}
	l.mu.Lock()
	lim := l.buckets.Get(key)
	if lim == nil {
		lim = rate.NewLimiter(rate.Every(time.Minute/time.Duration(l.perMin)), l.perMin)
	}
	l.buckets.Set(key, lim)
	l.mu.Unlock()
	return lim.Allow()
}
