// Package metrics provides hot-path latency recording for trading-engine
// instrumentation.
//
// The central type is SampleRecorder, a fixed-capacity concurrent ring buffer
// of nanosecond samples with on-demand statistics. Recorders are grouped and
// looked up by name through a Registry.
package metrics

import (
	"sort"
	"sync/atomic"
)

// Capacity is the fixed number of samples each recorder retains. Once full,
// new samples overwrite the logically oldest slot in insertion order.
const Capacity = 10000

// SampleRecorder is a fixed-capacity ring buffer of latency samples.
//
// Record is lock-free and allocation-free and safe for unbounded concurrent
// callers. Statistics are computed on demand from a best-effort snapshot:
// a query racing with writers may observe a mix of old and in-flight values.
// That relaxed contract is deliberate — these are monitoring aids, not
// transactional reads, and a lock here would put contention back on the very
// path being measured.
//
// An empty recorder returns 0 for every statistic; callers should check
// Count before trusting results.
type SampleRecorder struct {
	samples [Capacity]atomic.Uint64

	// cursor only ever increases; the write slot is cursor mod Capacity.
	cursor atomic.Uint64

	// count saturates at Capacity.
	count atomic.Uint64
}

// NewSampleRecorder returns an empty recorder.
func NewSampleRecorder() *SampleRecorder {
	return &SampleRecorder{}
}

// Record stores a duration in nanoseconds. It never blocks and never
// allocates.
func (r *SampleRecorder) Record(durationNs uint64) {
	slot := (r.cursor.Add(1) - 1) % Capacity
	r.samples[slot].Store(durationNs)

	for {
		c := r.count.Load()
		if c >= Capacity {
			return
		}
		if r.count.CompareAndSwap(c, c+1) {
			return
		}
	}
}

// Count returns the number of live samples, at most Capacity.
func (r *SampleRecorder) Count() uint64 {
	return r.count.Load()
}

// Reset restores the recorder to empty. Writers racing with Reset may have
// their sample silently dropped; the buffer is never corrupted.
func (r *SampleRecorder) Reset() {
	r.count.Store(0)
	r.cursor.Store(0)
	for i := range r.samples {
		r.samples[i].Store(0)
	}
}

// Snapshot copies the live samples. The copy is best-effort with respect to
// concurrent writers.
func (r *SampleRecorder) Snapshot() []uint64 {
	n := r.count.Load()
	if n > Capacity {
		n = Capacity
	}
	out := make([]uint64, n)
	for i := uint64(0); i < n; i++ {
		out[i] = r.samples[i].Load()
	}
	return out
}

// Stats holds every statistic the recorder computes, from a single snapshot.
type Stats struct {
	Count  uint64
	Mean   float64
	Median uint64
	P95    uint64
	P99    uint64
	Min    uint64
	Max    uint64
}

// Stats computes all statistics from one snapshot, sorting once.
func (r *SampleRecorder) Stats() Stats {
	s := r.Snapshot()
	if len(s) == 0 {
		return Stats{}
	}

	var sum uint64
	for _, v := range s {
		sum += v
	}
	sort.Slice(s, func(i, j int) bool { return s[i] < s[j] })

	return Stats{
		Count:  uint64(len(s)),
		Mean:   float64(sum) / float64(len(s)),
		Median: s[percentileIndex(50, len(s))],
		P95:    s[percentileIndex(95, len(s))],
		P99:    s[percentileIndex(99, len(s))],
		Min:    s[0],
		Max:    s[len(s)-1],
	}
}

// Mean returns the arithmetic mean of the live samples, or 0 when empty.
func (r *SampleRecorder) Mean() float64 {
	s := r.Snapshot()
	if len(s) == 0 {
		return 0
	}
	var sum uint64
	for _, v := range s {
		sum += v
	}
	return float64(sum) / float64(len(s))
}

// Median returns the 50th percentile.
func (r *SampleRecorder) Median() uint64 {
	return r.Percentile(50)
}

// P95 returns the 95th percentile.
func (r *SampleRecorder) P95() uint64 {
	return r.Percentile(95)
}

// P99 returns the 99th percentile.
func (r *SampleRecorder) P99() uint64 {
	return r.Percentile(99)
}

// Percentile returns the k-th percentile of the live samples.
//
// For N samples the index is floor(k*N/100), clamped to N-1; ties resolve by
// ascending sort order. An empty recorder returns 0.
func (r *SampleRecorder) Percentile(k int) uint64 {
	s := r.Snapshot()
	if len(s) == 0 {
		return 0
	}
	sort.Slice(s, func(i, j int) bool { return s[i] < s[j] })
	return s[percentileIndex(k, len(s))]
}

// Min returns the smallest live sample, or 0 when empty.
func (r *SampleRecorder) Min() uint64 {
	s := r.Snapshot()
	if len(s) == 0 {
		return 0
	}
	min := s[0]
	for _, v := range s[1:] {
		if v < min {
			min = v
		}
	}
	return min
}

// Max returns the largest live sample, or 0 when empty.
func (r *SampleRecorder) Max() uint64 {
	s := r.Snapshot()
	if len(s) == 0 {
		return 0
	}
	max := s[0]
	for _, v := range s[1:] {
		if v > max {
			max = v
		}
	}
	return max
}

func percentileIndex(k, n int) int {
	idx := k * n / 100
	if idx >= n {
		idx = n - 1
	}
	return idx
}
