//go:build !amd64

package clock

// Portable fallback: the "cycle counter" is the monotonic wall clock, so one
// cycle is exactly one nanosecond and calibration is a no-op (ratio 1.0).
const hasCycleCounter = false

func cycles() uint64 {
	return monotonicNs()
}

func cyclesSerialized() uint64 {
	return monotonicNs()
}
