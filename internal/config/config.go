// Package config provides parsing and validation for the limits
// configuration file, which declares latency trackers (with optional alert
// thresholds) and admission-control limiters.
package config

import (
	"time"
)

// Config is the root of a limits configuration.
//
// Example YAML:
//
//	trackers:
//	  - name: order.place
//	    threshold: 50us
//	  - name: md.decode
//	limiters:
//	  - name: orders
//	    type: token_bucket
//	    maxTokens: 1000
//	    refillRate: 500
//	  - name: quotes
//	    type: sliding_window
//	    maxRequests: 200
//	    window: 1s
//	  - name: inbound
//	    type: priority
//	    tiers:
//	      high:   {maxTokens: 1000, refillRate: 1000}
//	      medium: {maxTokens: 500, refillRate: 250}
//	      low:    {maxTokens: 100, refillRate: 50}
type Config struct {
	Trackers []TrackerConfig `json:"trackers,omitempty" yaml:"trackers,omitempty"`
	Limiters []LimiterConfig `json:"limiters,omitempty" yaml:"limiters,omitempty"`

	// values is the canonical JSON form kept for named-value lookups.
	values Values
}

// TrackerConfig declares one named latency tracker.
type TrackerConfig struct {
	Name string `json:"name" yaml:"name"`

	// Threshold is an optional p99 alert threshold ("50us", "2ms", or a
	// bare integer meaning nanoseconds). Empty means no alerting.
	Threshold string `json:"threshold,omitempty" yaml:"threshold,omitempty"`
}

// ThresholdNs returns the parsed threshold in nanoseconds, or 0 when unset.
func (t TrackerConfig) ThresholdNs() (uint64, error) {
	if t.Threshold == "" {
		return 0, nil
	}
	d, err := parseDuration(t.Threshold)
	if err != nil {
		return 0, err
	}
	return uint64(d), nil
}

// Limiter type names accepted in LimiterConfig.Type.
const (
	TypeTokenBucket   = "token_bucket"
	TypeSlidingWindow = "sliding_window"
	TypePriority      = "priority"
)

// LimiterConfig declares one named limiter. Which fields apply depends on
// Type.
type LimiterConfig struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`

	// token_bucket
	MaxTokens  int64   `json:"maxTokens,omitempty" yaml:"maxTokens,omitempty"`
	RefillRate float64 `json:"refillRate,omitempty" yaml:"refillRate,omitempty"`

	// sliding_window
	MaxRequests int    `json:"maxRequests,omitempty" yaml:"maxRequests,omitempty"`
	Window      string `json:"window,omitempty" yaml:"window,omitempty"`

	// priority: tier name (high/medium/low) to bucket sizing
	Tiers map[string]TierConfig `json:"tiers,omitempty" yaml:"tiers,omitempty"`
}

// TierConfig sizes one priority tier.
type TierConfig struct {
	MaxTokens  int64   `json:"maxTokens" yaml:"maxTokens"`
	RefillRate float64 `json:"refillRate" yaml:"refillRate"`
}

// WindowDuration returns the parsed sliding-window size.
func (l LimiterConfig) WindowDuration() (time.Duration, error) {
	return parseDuration(l.Window)
}

// Values returns the named-value accessor over the loaded document.
func (c *Config) Values() Values {
	return c.values
}
