package config

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/wesleyorama2/hotpath/internal/limit"
	"github.com/wesleyorama2/hotpath/internal/metrics"
)

// Limiters holds the limiter instances built from a configuration, keyed by
// configured name.
type Limiters struct {
	TokenBuckets   map[string]*limit.TokenBucket
	SlidingWindows map[string]*limit.SlidingWindow
	Priorities     map[string]*limit.PriorityLimiter
}

// BuildRegistry constructs a tracker registry from the configuration,
// creating every declared tracker and installing its threshold.
func BuildRegistry(cfg *Config, logger *zap.Logger) (*metrics.Registry, error) {
	reg := metrics.NewRegistry(logger)
	for _, tr := range cfg.Trackers {
		reg.Create(tr.Name)
		ns, err := tr.ThresholdNs()
		if err != nil {
			return nil, fmt.Errorf("tracker %s: %w", tr.Name, err)
		}
		if ns > 0 {
			reg.SetThreshold(tr.Name, ns)
		}
	}
	return reg, nil
}

// BuildLimiters constructs every declared limiter.
func BuildLimiters(cfg *Config) (*Limiters, error) {
	out := &Limiters{
		TokenBuckets:   make(map[string]*limit.TokenBucket),
		SlidingWindows: make(map[string]*limit.SlidingWindow),
		Priorities:     make(map[string]*limit.PriorityLimiter),
	}

	for _, lc := range cfg.Limiters {
		switch lc.Type {
		case TypeTokenBucket:
			out.TokenBuckets[lc.Name] = limit.NewTokenBucket(lc.MaxTokens, lc.RefillRate)
		case TypeSlidingWindow:
			window, err := lc.WindowDuration()
			if err != nil {
				return nil, fmt.Errorf("limiter %s: %w", lc.Name, err)
			}
			out.SlidingWindows[lc.Name] = limit.NewSlidingWindow(lc.MaxRequests, window)
		case TypePriority:
			out.Priorities[lc.Name] = limit.NewPriorityLimiter(
				tierConfig(lc.Tiers["high"]),
				tierConfig(lc.Tiers["medium"]),
				tierConfig(lc.Tiers["low"]),
			)
		default:
			return nil, fmt.Errorf("limiter %s: unknown type %q", lc.Name, lc.Type)
		}
	}
	return out, nil
}

func tierConfig(tc TierConfig) limit.TierConfig {
	return limit.TierConfig{MaxTokens: tc.MaxTokens, RefillRate: tc.RefillRate}
}
