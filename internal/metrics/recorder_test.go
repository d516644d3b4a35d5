package metrics

import (
	"math"
	"sync"
	"testing"
)

func TestSampleRecorder_Empty(t *testing.T) {
	rec := NewSampleRecorder()

	if rec.Count() != 0 {
		t.Errorf("Count() = %d, want 0", rec.Count())
	}

	stats := rec.Stats()
	if stats != (Stats{}) {
		t.Errorf("Stats() on empty recorder = %+v, want all zeros", stats)
	}
	if rec.Mean() != 0 || rec.Median() != 0 || rec.P95() != 0 || rec.P99() != 0 ||
		rec.Min() != 0 || rec.Max() != 0 {
		t.Error("individual statistics on empty recorder should all be 0")
	}
}

func TestSampleRecorder_BasicStats(t *testing.T) {
	rec := NewSampleRecorder()
	values := []uint64{120, 45, 300, 45, 990, 7}
	for _, v := range values {
		rec.Record(v)
	}

	if rec.Count() != uint64(len(values)) {
		t.Errorf("Count() = %d, want %d", rec.Count(), len(values))
	}
	if got := rec.Min(); got != 7 {
		t.Errorf("Min() = %d, want 7", got)
	}
	if got := rec.Max(); got != 990 {
		t.Errorf("Max() = %d, want 990", got)
	}

	var sum uint64
	for _, v := range values {
		sum += v
	}
	want := float64(sum) / float64(len(values))
	if got := rec.Mean(); math.Abs(got-want) > 1e-9 {
		t.Errorf("Mean() = %v, want %v", got, want)
	}
}

func TestSampleRecorder_Percentiles(t *testing.T) {
	rec := NewSampleRecorder()
	// 0..99 in scrambled insertion order, to exercise the sort.
	for i := 0; i < 100; i++ {
		rec.Record(uint64((i * 37) % 100))
	}

	tests := []struct {
		name string
		got  uint64
		lo   uint64
		hi   uint64
	}{
		{"median", rec.Median(), 49, 50},
		{"p95", rec.P95(), 94, 95},
		{"p99", rec.P99(), 98, 99},
	}
	for _, tt := range tests {
		if tt.got < tt.lo || tt.got > tt.hi {
			t.Errorf("%s = %d, want in [%d, %d]", tt.name, tt.got, tt.lo, tt.hi)
		}
	}
}

func TestSampleRecorder_PercentileClamps(t *testing.T) {
	rec := NewSampleRecorder()
	rec.Record(42)

	if got := rec.Percentile(100); got != 42 {
		t.Errorf("Percentile(100) with one sample = %d, want 42 (index clamped)", got)
	}
	if got := rec.Percentile(0); got != 42 {
		t.Errorf("Percentile(0) with one sample = %d, want 42", got)
	}
}

func TestSampleRecorder_WrapsAtCapacity(t *testing.T) {
	rec := NewSampleRecorder()

	// One extreme value that will be overwritten, then Capacity+K moderate ones.
	rec.Record(1_000_000)
	const k = 50
	for i := 0; i < Capacity+k-1; i++ {
		rec.Record(uint64(100 + i%10))
	}

	if rec.Count() != Capacity {
		t.Fatalf("Count() = %d, want %d", rec.Count(), Capacity)
	}
	if got := rec.Max(); got == 1_000_000 {
		t.Errorf("Max() = %d; overwritten extreme should no longer influence statistics", got)
	}
	if got := rec.Min(); got < 100 || got > 109 {
		t.Errorf("Min() = %d, want within the retained range [100, 109]", got)
	}
}

func TestSampleRecorder_Reset(t *testing.T) {
	rec := NewSampleRecorder()
	for i := 0; i < 500; i++ {
		rec.Record(uint64(i))
	}

	rec.Reset()

	if rec.Count() != 0 {
		t.Errorf("Count() after Reset = %d, want 0", rec.Count())
	}
	if stats := rec.Stats(); stats != (Stats{}) {
		t.Errorf("Stats() after Reset = %+v, want all zeros", stats)
	}
}

func TestSampleRecorder_RecordAfterReset(t *testing.T) {
	rec := NewSampleRecorder()
	for i := 0; i < Capacity+10; i++ {
		rec.Record(1)
	}
	rec.Reset()

	rec.Record(77)

	if rec.Count() != 1 {
		t.Errorf("Count() = %d, want 1", rec.Count())
	}
	if got := rec.Max(); got != 77 {
		t.Errorf("Max() = %d, want 77", got)
	}
}

func TestSampleRecorder_ConcurrentRecord(t *testing.T) {
	const (
		goroutines = 8
		perG       = 2000
	)
	rec := NewSampleRecorder()

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(seed uint64) {
			defer wg.Done()
			for i := 0; i < perG; i++ {
				rec.Record(seed*1000 + uint64(i))
			}
		}(uint64(g))
	}
	wg.Wait()

	want := uint64(goroutines * perG)
	if want > Capacity {
		want = Capacity
	}
	if got := rec.Count(); got != want {
		t.Errorf("Count() after concurrent writes = %d, want %d", got, want)
	}
}

func TestSampleRecorder_ConcurrentRecordPastCapacity(t *testing.T) {
	const (
		goroutines = 4
		perG       = Capacity // 4x overfill in total
	)
	rec := NewSampleRecorder()

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perG; i++ {
				rec.Record(uint64(i + 1))
			}
		}()
	}
	wg.Wait()

	if got := rec.Count(); got != Capacity {
		t.Errorf("Count() = %d, want saturated at %d", got, Capacity)
	}
	// Every retained slot must hold a value some goroutine actually wrote.
	for i, v := range rec.Snapshot() {
		if v < 1 || v > perG {
			t.Fatalf("slot %d holds %d, outside any written range", i, v)
		}
	}
}

func TestSampleRecorder_StatsQueryDuringWrites(t *testing.T) {
	rec := NewSampleRecorder()
	done := make(chan struct{})

	go func() {
		defer close(done)
		for i := 0; i < 50000; i++ {
			rec.Record(uint64(i%1000 + 1))
		}
	}()

	// Best-effort snapshots must never crash or return out-of-range values.
	for i := 0; i < 100; i++ {
		stats := rec.Stats()
		if stats.Count > Capacity {
			t.Fatalf("Count = %d exceeds capacity", stats.Count)
		}
		if stats.Count > 0 && stats.Max > 1000 {
			t.Fatalf("Max = %d, outside written range", stats.Max)
		}
	}
	<-done
}
