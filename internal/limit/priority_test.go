package limit

import "testing"

func newTestPriorityLimiter() *PriorityLimiter {
	return NewPriorityLimiter(
		TierConfig{MaxTokens: 100, RefillRate: 100},
		TierConfig{MaxTokens: 50, RefillRate: 50},
		TierConfig{MaxTokens: 10, RefillRate: 10},
	)
}

func TestPriorityLimiter_TierIsolation(t *testing.T) {
	p := newTestPriorityLimiter()

	// Exhaust the low tier entirely.
	for i := 0; i < 10; i++ {
		if !p.TryAcquire(PriorityLow, 1) {
			t.Fatalf("low tier acquire #%d = false, want true", i+1)
		}
	}
	if p.TryAcquire(PriorityLow, 1) {
		t.Error("low tier should be exhausted")
	}

	// High and medium tiers must be untouched.
	if !p.TryAcquire(PriorityHigh, 1) {
		t.Error("TryAcquire(high) = false after exhausting low, want true")
	}
	if !p.TryAcquire(PriorityMedium, 1) {
		t.Error("TryAcquire(medium) = false after exhausting low, want true")
	}
}

func TestPriorityLimiter_NoBorrowing(t *testing.T) {
	p := newTestPriorityLimiter()

	for i := 0; i < 10; i++ {
		p.TryAcquire(PriorityLow, 1)
	}

	// Low stays rejected no matter how full the higher pools are.
	if p.TryAcquire(PriorityLow, 1) {
		t.Error("low tier borrowed from a higher tier's pool")
	}
	if got := p.Tokens(PriorityHigh); got != 100 {
		t.Errorf("high tier Tokens() = %d, want untouched 100", got)
	}
}

func TestPriorityLimiter_InvalidPriority(t *testing.T) {
	p := newTestPriorityLimiter()

	tests := []struct {
		name string
		pr   Priority
	}{
		{"negative", Priority(-1)},
		{"past last tier", priorityCount},
		{"way out of range", Priority(42)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if p.TryAcquire(tt.pr, 1) {
				t.Errorf("TryAcquire(%d) = true, want false for invalid priority", tt.pr)
			}
		})
	}
}

func TestPriorityLimiter_Reset(t *testing.T) {
	p := newTestPriorityLimiter()
	for i := 0; i < 10; i++ {
		p.TryAcquire(PriorityLow, 1)
	}

	p.Reset()

	if got := p.Tokens(PriorityLow); got != 10 {
		t.Errorf("low tier Tokens() after Reset = %d, want 10", got)
	}
}

func TestPriority_String(t *testing.T) {
	tests := []struct {
		pr   Priority
		want string
	}{
		{PriorityHigh, "high"},
		{PriorityMedium, "medium"},
		{PriorityLow, "low"},
		{Priority(9), "invalid"},
	}
	for _, tt := range tests {
		if got := tt.pr.String(); got != tt.want {
			t.Errorf("Priority(%d).String() = %q, want %q", tt.pr, got, tt.want)
		}
	}
}
