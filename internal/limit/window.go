package limit

import (
	"sync"
	"time"
)

// SlidingWindow admits at most maxRequests within any trailing window.
//
// The backing array of admission timestamps is sized exactly to maxRequests
// and the limiter rejects rather than overwrite a live entry, so
// newest-oldest never exceeds maxRequests by construction. All operations
// serialize under one mutex: the eviction scan must be exact, and precision
// is prioritized over raw throughput here.
type SlidingWindow struct {
	mu sync.Mutex

	window      time.Duration
	maxRequests int

	// stamps is a circular log of admission times in unix nanoseconds.
	// oldest and newest are monotonically increasing logical indexes;
	// storage position is index mod maxRequests.
	stamps []int64
	oldest uint64
	newest uint64

	nowFn func() int64
}

// NewSlidingWindow creates a limiter admitting maxRequests per window.
// maxRequests < 1 is clamped to 1 and window <= 0 to one second.
func NewSlidingWindow(maxRequests int, window time.Duration) *SlidingWindow {
	if maxRequests < 1 {
		maxRequests = 1
	}
	if window <= 0 {
		window = time.Second
	}
	return &SlidingWindow{
		window:      window,
		maxRequests: maxRequests,
		stamps:      make([]int64, maxRequests),
		nowFn:       func() int64 { return time.Now().UnixNano() },
	}
}

// TryAcquire evicts expired admissions, then admits the caller if capacity
// remains. Returns false when the window is full.
func (w *SlidingWindow) TryAcquire() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.nowFn()
	w.evict(now)

	if w.newest-w.oldest >= uint64(w.maxRequests) {
		return false
	}
	w.stamps[w.newest%uint64(w.maxRequests)] = now
	w.newest++
	return true
}

// CurrentRate returns the number of live (non-expired) admissions.
func (w *SlidingWindow) CurrentRate() int {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.evict(w.nowFn())
	return int(w.newest - w.oldest)
}

// Reset forgets all admissions.
func (w *SlidingWindow) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.oldest = w.newest
}

// evict advances oldest past every stamp older than now - window.
// Caller holds w.mu.
func (w *SlidingWindow) evict(now int64) {
	cutoff := now - w.window.Nanoseconds()
	for w.oldest < w.newest && w.stamps[w.oldest%uint64(w.maxRequests)] < cutoff {
		w.oldest++
	}
}
