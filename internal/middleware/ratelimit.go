package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// RateLimiterConfig tunes the per-key token bucket.
type RateLimiterConfig struct {
	// RequestsPerSecond is the token refill rate.
	RequestsPerSecond float64

	// BurstSize caps how many requests a key can fire back to back.
	BurstSize int

	// CleanupInterval controls how often idle buckets are dropped.
	CleanupInterval time.Duration

	// KeyFunc derives the bucket key from the request. Defaults to the
	// client IP.
	KeyFunc func(r *http.Request) string
}

// DefaultRateLimiterConfig covers general browsing traffic.
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		RequestsPerSecond: 10,
		BurstSize:         20,
		CleanupInterval:   time.Minute,
		KeyFunc:           GetClientIP,
	}
}

// StrictRateLimiterConfig is applied to login and signup posts, where a
// tight limit blunts credential stuffing without bothering real users.
func StrictRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		RequestsPerSecond: 1,
		BurstSize:         5,
		CleanupInterval:   time.Minute,
		KeyFunc:           GetClientIP,
	}
}

type bucket struct {
	mu         sync.Mutex
	tokens     float64
	lastRefill time.Time
}

// take refills the bucket for elapsed time and consumes one token if one is
// available.
func (b *bucket) take(rate float64, burst int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	b.tokens += now.Sub(b.lastRefill).Seconds() * rate
	if b.tokens > float64(burst) {
		b.tokens = float64(burst)
	}
	b.lastRefill = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// idle reports whether the bucket is full and untouched for the given window.
func (b *bucket) idle(burst int, window time.Duration) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.tokens >= float64(burst) && time.Since(b.lastRefill) > window
}

// RateLimiter keeps one token bucket per key, in memory. State is per
// process; a multi-instance deployment rate limits per instance.
type RateLimiter struct {
	config  RateLimiterConfig
	mu      sync.RWMutex
	buckets map[string]*bucket
	stop    chan struct{}
}

// NewRateLimiter creates a limiter and starts its cleanup loop.
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	if config.KeyFunc == nil {
		config.KeyFunc = GetClientIP
	}

	rl := &RateLimiter{
		config:  config,
		buckets: make(map[string]*bucket),
		stop:    make(chan struct{}),
	}
	go rl.cleanupLoop()
	return rl
}

// Allow reports whether the key may proceed, consuming a token when it can.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	b, ok := rl.buckets[key]
	if !ok {
		b = &bucket{
			tokens:     float64(rl.config.BurstSize),
			lastRefill: time.Now(),
		}
		rl.buckets[key] = b
	}
	rl.mu.Unlock()

	return b.take(rl.config.RequestsPerSecond, rl.config.BurstSize)
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.mu.Lock()
			for key, b := range rl.buckets {
				if b.idle(rl.config.BurstSize, rl.config.CleanupInterval) {
					delete(rl.buckets, key)
				}
			}
			rl.mu.Unlock()
		case <-rl.stop:
			return
		}
	}
}

// Stop terminates the cleanup loop.
func (rl *RateLimiter) Stop() {
	close(rl.stop)
}

// Middleware rejects over-limit requests with 429.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.Allow(rl.config.KeyFunc(r)) {
			w.Header().Set("Retry-After", "1")
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RateLimit builds a route-level rate limiting middleware with its own
// limiter. The limiter's cleanup goroutine lives for the process lifetime.
func RateLimit(config RateLimiterConfig) func(http.Handler) http.Handler {
	return NewRateLimiter(config).Middleware
}

// GetClientIP resolves the client address, preferring proxy headers so
// limits key on the real client rather than the load balancer.
func GetClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
