// Package ratelimit provides per-client rate limiting using the token bucket algorithm.
package ratelimit

import (
	"sync"
	"time"
)

// TokenBucket allows a number of requests per window, refilling at a steady rate.
type TokenBucket struct {
	capacity   int        // Maximum tokens (burst capacity)
	refillRate float64    // Tokens per second
	tokens     float64    // Current tokens available
	lastRefill time.Time  // Last time tokens were refilled
	mu         sync.Mutex // Mutex for thread safety
}

// newTokenBucket creates a full token bucket.
func newTokenBucket(capacity int, refillRate float64, now time.Time) *TokenBucket {
	return &TokenBucket{
		capacity:   capacity,
		refillRate: refillRate,
		tokens:     float64(capacity),
		lastRefill: now,
	}
}

// refill must be called with tb.mu held.
func (tb *TokenBucket) refill(now time.Time) {
	elapsed := now.Sub(tb.lastRefill)
	if elapsed > 0 {
		tb.tokens = min(float64(tb.capacity), tb.tokens+elapsed.Seconds()*tb.refillRate)
		tb.lastRefill = now
	}
}

// take consumes a token if one is available and reports the bucket state afterwards.
func (tb *TokenBucket) take(now time.Time) (allowed bool, remaining int, resetTime time.Time) {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refill(now)
	if tb.tokens >= 1.0 {
		tb.tokens -= 1.0
		allowed = true
	}

	remaining = int(tb.tokens)
	resetTime = now
	if tb.tokens < float64(tb.capacity) && tb.refillRate > 0 {
		secondsUntilFull := (float64(tb.capacity) - tb.tokens) / tb.refillRate
		resetTime = now.Add(time.Duration(secondsUntilFull * float64(time.Second)))
	}
	return allowed, remaining, resetTime
}

// Info contains information about rate limit status.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	BucketTTL       time.Duration // Idle buckets older than this are dropped
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// Limiter manages rate limiting for multiple clients using token buckets.
type Limiter struct {
	mu          sync.Mutex
	buckets     map[string]*TokenBucket
	lastAccess  map[string]time.Time
	config      *Config
	now         func() time.Time
	cleanupStop chan struct{}
	stopOnce    sync.Once
}

// NewLimiter creates a new rate limiter with the given configuration.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = &Config{
			Enabled:         true,
			DefaultLimit:    600,
			DefaultWindow:   time.Minute,
			CleanupInterval: 5 * time.Minute,
		}
	}
	if config.BucketTTL <= 0 {
		config.BucketTTL = time.Hour
	}

	l := &Limiter{
		buckets:    make(map[string]*TokenBucket),
		lastAccess: make(map[string]time.Time),
		config:     config,
		now:        time.Now,
	}

	if config.Enabled && config.CleanupInterval > 0 {
		l.cleanupStop = make(chan struct{})
		go l.cleanup(config.CleanupInterval)
	}

	return l
}

// Allow checks if a request from the given client is allowed for the specified endpoint.
// Requests whose path matches the same configured prefix share one bucket.
func (l *Limiter) Allow(clientID string, path string, method string) (bool, Info) {
	if !l.config.Enabled || l.config.Whitelist[clientID] {
		return true, Info{Allowed: true}
	}
	if l.config.Blacklist[clientID] {
		return false, Info{Allowed: false}
	}

	endpoint := MatchEndpoint(path, method, l.config.EndpointConfigs)
	if endpoint == nil {
		endpoint = &EndpointConfig{
			Path:   path,
			Method: method,
			Limit:  l.config.DefaultLimit,
			Window: l.config.DefaultWindow,
		}
	}

	if endpoint.Limit <= 0 {
		return true, Info{Allowed: true}
	}

	now := l.now()
	bucket := l.getBucket(clientID+":"+method+":"+endpoint.Path, *endpoint, now)
	allowed, remaining, resetTime := bucket.take(now)

	var retryAfter time.Duration
	if !allowed {
		retryAfter = max(resetTime.Sub(now), 0)
	}

	return allowed, Info{
		Allowed:    allowed,
		Limit:      endpoint.Limit,
		Remaining:  remaining,
		ResetTime:  resetTime,
		RetryAfter: retryAfter,
	}
}

// getBucket gets or creates the bucket for key and records the access.
func (l *Limiter) getBucket(key string, endpoint EndpointConfig, now time.Time) *TokenBucket {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.lastAccess[key] = now
	if bucket, ok := l.buckets[key]; ok {
		return bucket
	}

	capacity := endpoint.Burst
	if capacity <= 0 {
		capacity = endpoint.Limit
	}
	refillRate := 0.0
	if endpoint.Window > 0 {
		refillRate = float64(endpoint.Limit) / endpoint.Window.Seconds()
	}

	bucket := newTokenBucket(capacity, refillRate, now)
	l.buckets[key] = bucket
	return bucket
}

// Len returns the number of live buckets.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

func (l *Limiter) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.cleanupBuckets()
		case <-l.cleanupStop:
			return
		}
	}
}

// cleanupBuckets removes buckets that have been idle longer than the bucket TTL.
func (l *Limiter) cleanupBuckets() {
	cutoff := l.now().Add(-l.config.BucketTTL)

	l.mu.Lock()
	defer l.mu.Unlock()

	for key, last := range l.lastAccess {
		if last.Before(cutoff) {
			delete(l.buckets, key)
			delete(l.lastAccess, key)
		}
	}
}

// Stop stops the cleanup goroutine. It is safe to call more than once.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() {
		if l.cleanupStop != nil {
			close(l.cleanupStop)
		}
	})
}
