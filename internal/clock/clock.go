// Package clock provides a hardware-cycle-counter timer for nanosecond-scale
// instrumentation.
//
// On amd64 the timer reads the TSC directly and converts cycles to
// nanoseconds using a ratio measured once at construction. On other
// architectures it falls back transparently to the monotonic wall clock, so
// callers never branch on platform.
//
// # Calibration caveats
//
// The cycles-to-nanoseconds ratio is a best-effort estimate taken over a
// short sampling window. CPU frequency scaling or clock drift invalidates it
// silently; callers that care should invoke Calibrate again. A zero ratio
// means "uncalibrated" and NowNs falls back to the wall clock.
package clock

import (
	"math"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// CalibrationWindow is how long Calibrate correlates the cycle counter
// against the wall clock.
const CalibrationWindow = 100 * time.Millisecond

// maxPlausibleNsPerCycle rejects calibration results that would imply a CPU
// slower than ~1 MHz. Anything above this is a measurement artifact.
const maxPlausibleNsPerCycle = 1000.0

// CycleTimer converts hardware cycle counts to nanoseconds.
//
// All methods are safe for concurrent use. Reads are lock-free.
type CycleTimer struct {
	// nsPerCycle is stored as math.Float64bits so it can be swapped
	// atomically while readers convert cycles on the hot path.
	nsPerCycle atomic.Uint64

	logger *zap.Logger
}

// New creates a timer and runs an initial calibration.
//
// The logger may be nil; calibration warnings are then dropped.
func New(logger *zap.Logger) *CycleTimer {
	if logger == nil {
		logger = zap.NewNop()
	}
	t := &CycleTimer{logger: logger}
	t.Calibrate()
	return t
}

// Calibrate measures elapsed wall-clock time against the elapsed cycle count
// over CalibrationWindow and derives the nanoseconds-per-cycle ratio.
//
// If the measurement is degenerate (zero cycles elapsed, or an implausible
// ratio) the previous ratio is kept and a warning is logged. On platforms
// without a cycle counter the ratio is exactly 1.0, since the fallback
// counter already counts nanoseconds.
func (t *CycleTimer) Calibrate() {
	if !hasCycleCounter {
		t.setNsPerCycle(1.0)
		return
	}

	startWall := time.Now()
	startCycles := cycles()
	time.Sleep(CalibrationWindow)
	elapsedCycles := cycles() - startCycles
	elapsedNs := time.Since(startWall).Nanoseconds()

	if elapsedCycles == 0 {
		t.logger.Warn("cycle counter did not advance during calibration, keeping previous ratio",
			zap.Float64("ns_per_cycle", t.NsPerCycle()))
		return
	}

	ratio := float64(elapsedNs) / float64(elapsedCycles)
	if ratio <= 0 || ratio > maxPlausibleNsPerCycle {
		t.logger.Warn("implausible calibration ratio, keeping previous ratio",
			zap.Float64("measured", ratio),
			zap.Float64("ns_per_cycle", t.NsPerCycle()))
		return
	}

	t.setNsPerCycle(ratio)
}

// NsPerCycle returns the current calibration ratio. Zero means uncalibrated.
func (t *CycleTimer) NsPerCycle() float64 {
	return math.Float64frombits(t.nsPerCycle.Load())
}

func (t *CycleTimer) setNsPerCycle(r float64) {
	t.nsPerCycle.Store(math.Float64bits(r))
}

// Calibrated reports whether a usable ratio is available.
func (t *CycleTimer) Calibrated() bool {
	return t.NsPerCycle() > 0
}

// Frequency returns the estimated counter frequency in Hz, or 0 when
// uncalibrated.
func (t *CycleTimer) Frequency() float64 {
	r := t.NsPerCycle()
	if r <= 0 {
		return 0
	}
	return 1e9 / r
}

// Cycles reads the hardware cycle counter (or the monotonic fallback).
func (t *CycleTimer) Cycles() uint64 {
	return cycles()
}

// CyclesSerialized reads the cycle counter with a serializing variant that
// waits for prior instructions to retire, at slightly higher cost. On
// fallback platforms it is identical to Cycles.
func (t *CycleTimer) CyclesSerialized() uint64 {
	return cyclesSerialized()
}

// NowNs returns the current time in nanoseconds on the counter's own epoch.
// Only differences between two NowNs readings are meaningful.
//
// When uncalibrated this falls back to the monotonic wall clock.
func (t *CycleTimer) NowNs() uint64 {
	r := t.NsPerCycle()
	if r <= 0 {
		return monotonicNs()
	}
	return uint64(float64(cycles()) * r)
}

// Since returns the nanoseconds elapsed since a Cycles reading.
func (t *CycleTimer) Since(startCycles uint64) uint64 {
	r := t.NsPerCycle()
	if r <= 0 {
		return 0
	}
	return uint64(float64(cycles()-startCycles) * r)
}

// BusyWait spins reading the counter until d has elapsed. It intentionally
// burns CPU rather than yielding, for sub-microsecond delays where scheduler
// wakeup latency would dominate the requested duration.
func (t *CycleTimer) BusyWait(d time.Duration) {
	if d <= 0 {
		return
	}
	r := t.NsPerCycle()
	if r <= 0 {
		deadline := time.Now().Add(d)
		for time.Now().Before(deadline) {
		}
		return
	}
	target := float64(d.Nanoseconds())
	start := cycles()
	for float64(cycles()-start)*r < target {
	}
}

// monotonicNs returns nanoseconds on the process-local monotonic clock.
func monotonicNs() uint64 {
	return uint64(time.Since(processStart))
}

var processStart = time.Now()
