//go:build amd64

package clock

// hasCycleCounter selects the TSC implementation at build time; other
// architectures compile the wall-clock fallback instead.
const hasCycleCounter = true

// cycles reads the time-stamp counter (RDTSC). Non-serializing: the read may
// be reordered around neighboring instructions.
func cycles() uint64

// cyclesSerialized reads the time-stamp counter with RDTSCP, which waits for
// all prior instructions to retire before sampling.
func cyclesSerialized() uint64
