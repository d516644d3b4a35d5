package limit

import "sync"

// Backend abstracts where per-key admission state lives, so callers that
// limit by key (account, session, venue) do not care whether the state is
// in-process or shared across processes.
//
// LocalBackend is the in-process implementation. A network-backed variant
// (e.g. Redis- or database-backed, coordinating limits across engine
// instances) is an explicit extension point: implement this interface, do
// not approximate it by stretching the local one.
type Backend interface {
	// TryAcquire takes n tokens for key, creating state for unseen keys.
	TryAcquire(key string, n int64) bool

	// Reset refills the state for key. Unknown keys are a no-op.
	Reset(key string)
}

// LocalBackend keeps one token bucket per key in process memory. Every key
// gets the same capacity and refill rate.
type LocalBackend struct {
	maxTokens  int64
	refillRate float64

	mu      sync.RWMutex
	buckets map[string]*TokenBucket
}

var _ Backend = (*LocalBackend)(nil)

// NewLocalBackend creates an empty keyed store; buckets materialize on first
// acquire per key, starting full.
func NewLocalBackend(maxTokens int64, refillRate float64) *LocalBackend {
	return &LocalBackend{
		maxTokens:  maxTokens,
		refillRate: refillRate,
		buckets:    make(map[string]*TokenBucket),
	}
}

// TryAcquire takes n tokens from key's bucket.
func (l *LocalBackend) TryAcquire(key string, n int64) bool {
	return l.bucket(key).TryAcquire(n)
}

// Reset refills key's bucket if it exists.
func (l *LocalBackend) Reset(key string) {
	l.mu.RLock()
	b := l.buckets[key]
	l.mu.RUnlock()
	if b != nil {
		b.Reset()
	}
}

// Len returns the number of keys with materialized state.
func (l *LocalBackend) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.buckets)
}

func (l *LocalBackend) bucket(key string) *TokenBucket {
	l.mu.RLock()
	b := l.buckets[key]
	l.mu.RUnlock()
	if b != nil {
		return b
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if b = l.buckets[key]; b != nil {
		return b
	}
	b = NewTokenBucket(l.maxTokens, l.refillRate)
	l.buckets[key] = b
	return b
}
