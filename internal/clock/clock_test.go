package clock

import (
	"testing"
	"time"
)

func TestNew_Calibrates(t *testing.T) {
	timer := New(nil)

	if !timer.Calibrated() {
		t.Fatal("New() should leave the timer calibrated")
	}
	if timer.NsPerCycle() <= 0 {
		t.Errorf("NsPerCycle() = %v, want > 0", timer.NsPerCycle())
	}
	if timer.NsPerCycle() > maxPlausibleNsPerCycle {
		t.Errorf("NsPerCycle() = %v, want <= %v", timer.NsPerCycle(), maxPlausibleNsPerCycle)
	}
}

func TestCycles_Monotonic(t *testing.T) {
	timer := New(nil)

	prev := timer.Cycles()
	for i := 0; i < 1000; i++ {
		cur := timer.Cycles()
		if cur < prev {
			t.Fatalf("Cycles() went backwards: %d -> %d", prev, cur)
		}
		prev = cur
	}
}

func TestCyclesSerialized_Advances(t *testing.T) {
	timer := New(nil)

	start := timer.CyclesSerialized()
	time.Sleep(time.Millisecond)
	end := timer.CyclesSerialized()

	if end <= start {
		t.Errorf("CyclesSerialized() did not advance across a 1ms sleep: %d -> %d", start, end)
	}
}

func TestSince_ApproximatesWallClock(t *testing.T) {
	timer := New(nil)

	start := timer.Cycles()
	wallStart := time.Now()
	time.Sleep(20 * time.Millisecond)
	elapsed := time.Duration(timer.Since(start))
	wallElapsed := time.Since(wallStart)

	// The two clocks should agree within a generous tolerance.
	diff := elapsed - wallElapsed
	if diff < 0 {
		diff = -diff
	}
	if diff > 10*time.Millisecond {
		t.Errorf("Since() = %v, wall clock = %v, diff %v too large", elapsed, wallElapsed, diff)
	}
}

func TestNowNs_Advances(t *testing.T) {
	timer := New(nil)

	start := timer.NowNs()
	time.Sleep(5 * time.Millisecond)
	end := timer.NowNs()

	if end <= start {
		t.Errorf("NowNs() did not advance: %d -> %d", start, end)
	}
}

func TestNowNs_UncalibratedFallsBackToWallClock(t *testing.T) {
	timer := &CycleTimer{} // never calibrated, ratio is zero

	start := timer.NowNs()
	time.Sleep(5 * time.Millisecond)
	end := timer.NowNs()

	if end <= start {
		t.Errorf("uncalibrated NowNs() did not advance: %d -> %d", start, end)
	}
}

func TestBusyWait_WaitsAtLeast(t *testing.T) {
	timer := New(nil)

	want := 2 * time.Millisecond
	start := time.Now()
	timer.BusyWait(want)
	elapsed := time.Since(start)

	if elapsed < want {
		t.Errorf("BusyWait(%v) returned after %v", want, elapsed)
	}
}

func TestBusyWait_ZeroReturnsImmediately(t *testing.T) {
	timer := New(nil)

	start := time.Now()
	timer.BusyWait(0)
	timer.BusyWait(-time.Second)

	if elapsed := time.Since(start); elapsed > 10*time.Millisecond {
		t.Errorf("BusyWait(<=0) took %v, want immediate return", elapsed)
	}
}

func TestFrequency(t *testing.T) {
	timer := New(nil)

	if f := timer.Frequency(); f <= 0 {
		t.Errorf("Frequency() = %v, want > 0 after calibration", f)
	}

	uncal := &CycleTimer{}
	if f := uncal.Frequency(); f != 0 {
		t.Errorf("Frequency() = %v on uncalibrated timer, want 0", f)
	}
}
