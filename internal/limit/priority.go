package limit

// Priority selects a tier of a PriorityLimiter.
type Priority int

const (
	PriorityHigh Priority = iota
	PriorityMedium
	PriorityLow

	priorityCount
)

// String returns the tier name.
func (p Priority) String() string {
	switch p {
	case PriorityHigh:
		return "high"
	case PriorityMedium:
		return "medium"
	case PriorityLow:
		return "low"
	default:
		return "invalid"
	}
}

// TierConfig sizes one priority tier's token bucket.
type TierConfig struct {
	MaxTokens  int64
	RefillRate float64
}

// PriorityLimiter composes three independent token buckets, one per tier.
//
// Tiers share nothing: exhausting low never affects high, and no tier can
// borrow from another's pool. There is deliberately no fairness guarantee
// between tiers.
type PriorityLimiter struct {
	tiers [priorityCount]*TokenBucket
}

// NewPriorityLimiter builds a limiter from per-tier bucket configs.
func NewPriorityLimiter(high, medium, low TierConfig) *PriorityLimiter {
	return &PriorityLimiter{
		tiers: [priorityCount]*TokenBucket{
			NewTokenBucket(high.MaxTokens, high.RefillRate),
			NewTokenBucket(medium.MaxTokens, medium.RefillRate),
			NewTokenBucket(low.MaxTokens, low.RefillRate),
		},
	}
}

// TryAcquire delegates to the bucket for the given tier only. An
// out-of-range priority is rejected outright, never mapped to a default
// tier.
func (p *PriorityLimiter) TryAcquire(pr Priority, n int64) bool {
	if pr < 0 || pr >= priorityCount {
		return false
	}
	return p.tiers[pr].TryAcquire(n)
}

// Tokens returns the current token count for a tier, or 0 for an invalid
// priority.
func (p *PriorityLimiter) Tokens(pr Priority) int64 {
	if pr < 0 || pr >= priorityCount {
		return 0
	}
	return p.tiers[pr].Tokens()
}

// Reset refills every tier to capacity.
func (p *PriorityLimiter) Reset() {
	for _, b := range p.tiers {
		b.Reset()
	}
}
