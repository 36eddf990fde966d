package ratelimit

import (
	"sync"
	"time"
)

// Limiter paces outgoing downloads
type Limiter interface {
	// Allow takes a token if one is available
	Allow() bool
	// Wait blocks until a token is available and reports how long it waited
	Wait() time.Duration
}

// TokenBucket implements a token bucket that refills continuously at a
// fixed rate up to its capacity
type TokenBucket struct {
	capacity   float64
	tokens     float64
	perToken   time.Duration // time to earn one token
	lastRefill time.Time
	mu         sync.Mutex

	now   func() time.Time
	sleep func(time.Duration)
}

// NewTokenBucket creates a bucket holding up to capacity tokens and earning
// one token every perToken
func NewTokenBucket(capacity int, perToken time.Duration) *TokenBucket {
	if capacity < 1 {
		capacity = 1
	}
	return &TokenBucket{
		capacity:   float64(capacity),
		tokens:     float64(capacity),
		perToken:   perToken,
		lastRefill: time.Now(),
		now:        time.Now,
		sleep:      time.Sleep,
	}
}

// PerMinute returns a limiter allowing requestsPerMinute downloads evenly
// spread over a minute, or nil when requestsPerMinute is not positive.
func PerMinute(requestsPerMinute int) Limiter {
	if requestsPerMinute <= 0 {
		return nil
	}
	return NewTokenBucket(1, time.Minute/time.Duration(requestsPerMinute))
}

// Allow checks if a request can proceed
func (tb *TokenBucket) Allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refill()

	if tb.tokens >= 1 {
		tb.tokens--
		return true
	}
	return false
}

// Wait blocks until a token is available
func (tb *TokenBucket) Wait() time.Duration {
	var waited time.Duration
	for !tb.Allow() {
		tb.mu.Lock()
		missing := 1 - tb.tokens
		delay := time.Duration(missing * float64(tb.perToken))
		tb.mu.Unlock()

		if delay <= 0 {
			delay = time.Millisecond
		}
		tb.sleep(delay)
		waited += delay
	}
	return waited
}

// refill adds the tokens earned since the last refill
func (tb *TokenBucket) refill() {
	now := tb.now()
	elapsed := now.Sub(tb.lastRefill)
	if elapsed <= 0 {
		return
	}
	tb.lastRefill = now

	if tb.perToken <= 0 {
		tb.tokens = tb.capacity
		return
	}
	tb.tokens += float64(elapsed) / float64(tb.perToken)
	if tb.tokens > tb.capacity {
		tb.tokens = tb.capacity
	}
}
