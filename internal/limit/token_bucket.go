// Package limit provides admission-control rate limiters for inbound request
// streams: a token bucket with a lock-free rejection path, an exact sliding
// window, a three-tier priority composition, and a pluggable keyed backend.
//
// Rejection is the expected outcome under overload, so every limiter reports
// it as a boolean, never an error, and the token bucket in particular is
// engineered so the rejection path stays nearly free.
package limit

import (
	"sync"
	"sync/atomic"
	"time"
)

// refillThrottle bounds how often the lock-free path recomputes the
// elapsed-time refill. Under sustained overload the rejection path then
// reduces to a couple of atomic loads.
const refillThrottle = 100 * time.Millisecond

// TokenBucket is a refillable token pool.
//
// TryAcquire is safe for concurrent use. Successful acquisitions serialize on
// a mutex for an authoritative refill-and-consume; rejections under overload
// never touch that mutex.
type TokenBucket struct {
	maxTokens  int64
	refillRate float64 // tokens per second

	tokens     atomic.Int64
	lastRefill atomic.Int64 // unix nanoseconds

	mu sync.Mutex

	// nowFn is the clock source, swappable for deterministic tests.
	nowFn func() int64
}

// NewTokenBucket creates a full bucket. maxTokens must be >= 1 and refillRate
// > 0; out-of-range values are clamped.
func NewTokenBucket(maxTokens int64, refillRate float64) *TokenBucket {
	if maxTokens < 1 {
		maxTokens = 1
	}
	if refillRate <= 0 {
		refillRate = 1
	}
	b := &TokenBucket{
		maxTokens:  maxTokens,
		refillRate: refillRate,
		nowFn:      func() int64 { return time.Now().UnixNano() },
	}
	b.tokens.Store(maxTokens)
	b.lastRefill.Store(b.nowFn())
	return b
}

// TryAcquire attempts to take n tokens and reports whether it succeeded.
//
// The fast path is optimistic: if the current count already covers the
// request, it goes straight to the authoritative consume. Otherwise it
// performs at most one throttled refill and re-checks; if tokens are still
// short the call returns false without taking the primary lock at all, which
// keeps rejection, the common case under overload, nearly free.
func (b *TokenBucket) TryAcquire(n int64) bool {
	if n <= 0 || n > b.maxTokens {
		return false
	}

	if b.tokens.Load() < n {
		now := b.nowFn()
		if now-b.lastRefill.Load() > refillThrottle.Nanoseconds() {
			b.refill(now)
		}
		if b.tokens.Load() < n {
			return false
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.refill(b.nowFn())
	if b.tokens.Load() < n {
		return false
	}
	b.tokens.Add(-n)
	return true
}

// refill credits floor(elapsedMs * rate / 1000) tokens, capped at capacity.
//
// The CAS on lastRefill makes one caller the refiller per elapsed interval;
// losers simply observe the winner's credit. lastRefill only advances when
// whole tokens were credited, so fractional accrual at low rates is never
// discarded.
func (b *TokenBucket) refill(now int64) {
	last := b.lastRefill.Load()
	elapsedMs := (now - last) / int64(time.Millisecond)
	if elapsedMs <= 0 {
		return
	}
	credit := int64(float64(elapsedMs) * b.refillRate / 1000.0)
	if credit <= 0 {
		return
	}
	if !b.lastRefill.CompareAndSwap(last, now) {
		return
	}
	for {
		cur := b.tokens.Load()
		next := cur + credit
		if next > b.maxTokens {
			next = b.maxTokens
		}
		if next <= cur {
			return
		}
		if b.tokens.CompareAndSwap(cur, next) {
			return
		}
	}
}

// Tokens returns the current token count. Purely observational; the value
// may be stale by the time the caller looks at it.
func (b *TokenBucket) Tokens() int64 {
	return b.tokens.Load()
}

// MaxTokens returns the bucket capacity.
func (b *TokenBucket) MaxTokens() int64 {
	return b.maxTokens
}

// Reset refills the bucket to capacity and restarts the refill clock. Meant
// for tests and administrative override.
func (b *TokenBucket) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tokens.Store(b.maxTokens)
	b.lastRefill.Store(b.nowFn())
}
