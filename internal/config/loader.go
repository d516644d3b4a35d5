package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Load reads and parses a limits configuration file.
//
// The format is determined by extension: .yaml/.yml -> YAML, .json -> JSON,
// anything else defaults to YAML. The document is schema-validated before
// the typed form is returned.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data, path)
}

// Parse parses configuration data. The path argument is used only for format
// detection and may be empty.
func Parse(data []byte, path string) (*Config, error) {
	canonical, err := toJSON(data, path)
	if err != nil {
		return nil, err
	}

	if err := validateSchema(canonical); err != nil {
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(canonical, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.values = Values{raw: canonical}

	if err := cfg.check(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// toJSON converts the raw document to canonical JSON for schema validation
// and gjson lookups.
func toJSON(data []byte, path string) ([]byte, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".json" {
		if !json.Valid(data) {
			return nil, fmt.Errorf("invalid JSON in %s", path)
		}
		return data, nil
	}

	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to canonicalize config: %w", err)
	}
	return out, nil
}

// check applies the semantic validation the schema cannot express.
func (c *Config) check() error {
	seen := make(map[string]bool)
	for i, tr := range c.Trackers {
		if tr.Name == "" {
			return fmt.Errorf("trackers[%d]: name is required", i)
		}
		if seen[tr.Name] {
			return fmt.Errorf("trackers[%d]: duplicate name %q", i, tr.Name)
		}
		seen[tr.Name] = true
		if _, err := tr.ThresholdNs(); err != nil {
			return fmt.Errorf("trackers[%d] (%s): invalid threshold: %w", i, tr.Name, err)
		}
	}

	seen = make(map[string]bool)
	for i, lim := range c.Limiters {
		if lim.Name == "" {
			return fmt.Errorf("limiters[%d]: name is required", i)
		}
		if seen[lim.Name] {
			return fmt.Errorf("limiters[%d]: duplicate name %q", i, lim.Name)
		}
		seen[lim.Name] = true

		switch lim.Type {
		case TypeTokenBucket:
			if lim.MaxTokens < 1 {
				return fmt.Errorf("limiters[%d] (%s): maxTokens must be >= 1", i, lim.Name)
			}
			if lim.RefillRate <= 0 {
				return fmt.Errorf("limiters[%d] (%s): refillRate must be > 0", i, lim.Name)
			}
		case TypeSlidingWindow:
			if lim.MaxRequests < 1 {
				return fmt.Errorf("limiters[%d] (%s): maxRequests must be >= 1", i, lim.Name)
			}
			if _, err := lim.WindowDuration(); err != nil {
				return fmt.Errorf("limiters[%d] (%s): invalid window: %w", i, lim.Name, err)
			}
		case TypePriority:
			for _, tier := range []string{"high", "medium", "low"} {
				tc, ok := lim.Tiers[tier]
				if !ok {
					return fmt.Errorf("limiters[%d] (%s): missing tier %q", i, lim.Name, tier)
				}
				if tc.MaxTokens < 1 || tc.RefillRate <= 0 {
					return fmt.Errorf("limiters[%d] (%s): tier %q must have maxTokens >= 1 and refillRate > 0", i, lim.Name, tier)
				}
			}
		default:
			return fmt.Errorf("limiters[%d] (%s): unknown type %q", i, lim.Name, lim.Type)
		}
	}
	return nil
}

// parseDuration parses a duration string, accepting standard Go duration
// syntax plus a bare integer meaning nanoseconds.
func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	if ns, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Duration(ns), nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	return d, nil
}
