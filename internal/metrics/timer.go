package metrics

import (
	"time"

	"github.com/wesleyorama2/hotpath/internal/clock"
)

// Span is an in-flight timing measurement started by Begin. The start
// timestamp lives in the Span itself, so any number of spans against the same
// recorder can be open concurrently.
type Span struct {
	rec         *SampleRecorder
	clk         *clock.CycleTimer
	startCycles uint64
	startWall   time.Time
}

// Begin starts a manual timing measurement against the recorder.
//
// When clk is non-nil and calibrated, the span reads the hardware cycle
// counter; otherwise it uses the monotonic wall clock.
func (r *SampleRecorder) Begin(clk *clock.CycleTimer) Span {
	if clk != nil && clk.Calibrated() {
		return Span{rec: r, clk: clk, startCycles: clk.Cycles()}
	}
	return Span{rec: r, startWall: time.Now()}
}

// End computes the elapsed time and records it. Safe to call on the zero
// Span, which records nothing.
func (s Span) End() {
	if s.rec == nil {
		return
	}
	if s.clk != nil {
		s.rec.Record(s.clk.Since(s.startCycles))
		return
	}
	s.rec.Record(uint64(time.Since(s.startWall)))
}

// Time returns a function that records the elapsed time when called, for the
// scoped pattern:
//
//	defer rec.Time(clk)()
//
// Because the closure runs in a defer it fires on every exit path, including
// panic unwinding, so no timing is lost on abnormal control flow.
func (r *SampleRecorder) Time(clk *clock.CycleTimer) func() {
	span := r.Begin(clk)
	return span.End
}
