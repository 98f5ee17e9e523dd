package httpapi

import (
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// rateLimiter keeps one token bucket per client. A bucket holds limit
// tokens and refills completely over window.
type rateLimiter struct {
	clients   map[string]*rateClient
	now       func() time.Time
	lastSweep time.Time
	window    time.Duration
	limit     int
	mu        sync.Mutex
}

type rateClient struct {
	lim  *rate.Limiter
	seen time.Time
}

// rateDecision is the outcome of a single request against a bucket.
type rateDecision struct {
	reset      time.Duration // Until the bucket is full again
	retryAfter time.Duration // Until the next token, when rejected
	remaining  int
	allowed    bool
}

func newRateLimiter(limit int, window time.Duration, now func() time.Time) *rateLimiter {
	return &rateLimiter{
		clients: make(map[string]*rateClient),
		now:     now,
		window:  window,
		limit:   limit,
	}
}

func (l *rateLimiter) enabled() bool {
	return l.limit > 0 && l.window > 0
}

// perSecond is the refill rate.
func (l *rateLimiter) perSecond() float64 {
	return float64(l.limit) / l.window.Seconds()
}

// allow takes one token from key's bucket if one is available.
func (l *rateLimiter) allow(key string) rateDecision {
	if !l.enabled() {
		return rateDecision{allowed: true}
	}

	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	l.sweep(now)
	c, ok := l.clients[key]
	if !ok {
		c = &rateClient{lim: rate.NewLimiter(rate.Limit(l.perSecond()), l.limit)}
		l.clients[key] = c
	}
	c.seen = now

	allowed := c.lim.AllowN(now, 1)
	tokens := c.lim.TokensAt(now)
	d := rateDecision{
		allowed:   allowed,
		remaining: max(0, int(math.Floor(tokens))),
		reset:     l.secondsFor(float64(l.limit) - tokens),
	}
	if !allowed {
		d.retryAfter = l.secondsFor(1 - tokens)
	}
	return d
}

// secondsFor returns how long the bucket takes to refill n tokens.
func (l *rateLimiter) secondsFor(n float64) time.Duration {
	if n <= 0 {
		return 0
	}
	return time.Duration(n / l.perSecond() * float64(time.Second))
}

// sweep drops clients idle for a full window; their buckets would be full anyway.
// Callers must hold l.mu.
func (l *rateLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.window {
		return
	}
	l.lastSweep = now
	for key, c := range l.clients {
		if now.Sub(c.seen) >= l.window {
			delete(l.clients, key)
		}
	}
}

func (d rateDecision) resetSeconds() int {
	return int(math.Ceil(d.reset.Seconds()))
}

func (d rateDecision) retryAfterSeconds() int {
	return max(1, int(math.Ceil(d.retryAfter.Seconds())))
}
