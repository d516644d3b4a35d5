package metrics

import (
	"sort"
	"sync"

	"go.uber.org/zap"
)

// Registry maps tracker names to exclusively-owned SampleRecorders, with an
// optional per-name alert threshold.
//
// There is intentionally no process-wide default registry: the composition
// root constructs one and hands it to whatever needs it, and tests construct
// isolated instances.
//
// Create and Remove take the write lock; Get runs concurrently with other
// readers. Neither path does I/O, so the lock is held for map work only.
type Registry struct {
	mu         sync.RWMutex
	trackers   map[string]*SampleRecorder
	thresholds map[string]uint64

	logger *zap.Logger
}

// NewRegistry returns an empty registry. The logger may be nil; threshold
// warnings are then dropped.
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		trackers:   make(map[string]*SampleRecorder),
		thresholds: make(map[string]uint64),
		logger:     logger,
	}
}

// Create inserts a recorder under name and returns it. If the name already
// exists the existing recorder is returned unchanged; callers are expected
// to create each tracker once at startup.
func (g *Registry) Create(name string) *SampleRecorder {
	g.mu.Lock()
	defer g.mu.Unlock()

	if rec, ok := g.trackers[name]; ok {
		return rec
	}
	rec := NewSampleRecorder()
	g.trackers[name] = rec
	return rec
}

// Get returns the recorder for name, or nil when absent. Hot-path callers
// must tolerate nil rather than assume the tracker exists.
func (g *Registry) Get(name string) *SampleRecorder {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.trackers[name]
}

// Remove deletes a tracker and its threshold.
func (g *Registry) Remove(name string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.trackers, name)
	delete(g.thresholds, name)
}

// Names returns all tracker names, sorted.
func (g *Registry) Names() []string {
	g.mu.RLock()
	names := make([]string, 0, len(g.trackers))
	for name := range g.trackers {
		names = append(names, name)
	}
	g.mu.RUnlock()

	sort.Strings(names)
	return names
}

// TrackerReport is one row of a registry report.
type TrackerReport struct {
	Name  string
	Mean  float64
	P95   uint64
	P99   uint64
	Max   uint64
	Count uint64
}

// Report snapshots statistics for every tracker, sorted by name.
//
// The read lock is held only while the tracker map is copied; statistics are
// then computed without registry synchronization, with the same best-effort
// contract as the recorders themselves.
func (g *Registry) Report() []TrackerReport {
	g.mu.RLock()
	recs := make(map[string]*SampleRecorder, len(g.trackers))
	for name, rec := range g.trackers {
		recs[name] = rec
	}
	g.mu.RUnlock()

	out := make([]TrackerReport, 0, len(recs))
	for name, rec := range recs {
		stats := rec.Stats()
		out = append(out, TrackerReport{
			Name:  name,
			Mean:  stats.Mean,
			P95:   stats.P95,
			P99:   stats.P99,
			Max:   stats.Max,
			Count: stats.Count,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// SetThreshold sets an alert threshold in nanoseconds for a tracker. A
// threshold of 0 clears it.
func (g *Registry) SetThreshold(name string, ns uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if ns == 0 {
		delete(g.thresholds, name)
		return
	}
	g.thresholds[name] = ns
}

// Threshold returns the alert threshold for a tracker, or 0 when none is set.
func (g *Registry) Threshold(name string) uint64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.thresholds[name]
}

// ThresholdBreach reports one tracker whose p99 exceeded its threshold.
type ThresholdBreach struct {
	Name        string
	ThresholdNs uint64
	ObservedNs  uint64
}

// CheckThresholds compares each tracker's p99 against its configured
// threshold. Breaches are logged as warnings and returned; observability
// never interrupts trading logic, so nothing here is an error.
//
// A breach is detected, not latched: once latencies recover, subsequent
// checks report clean.
func (g *Registry) CheckThresholds() []ThresholdBreach {
	g.mu.RLock()
	checks := make([]struct {
		name string
		rec  *SampleRecorder
		ns   uint64
	}, 0, len(g.thresholds))
	for name, ns := range g.thresholds {
		if rec, ok := g.trackers[name]; ok {
			checks = append(checks, struct {
				name string
				rec  *SampleRecorder
				ns   uint64
			}{name, rec, ns})
		}
	}
	g.mu.RUnlock()

	var breaches []ThresholdBreach
	for _, c := range checks {
		observed := c.rec.P99()
		if observed > c.ns {
			breaches = append(breaches, ThresholdBreach{
				Name:        c.name,
				ThresholdNs: c.ns,
				ObservedNs:  observed,
			})
			g.logger.Warn("latency threshold breached",
				zap.String("tracker", c.name),
				zap.Uint64("threshold_ns", c.ns),
				zap.Uint64("p99_ns", observed))
		}
	}
	sort.Slice(breaches, func(i, j int) bool { return breaches[i].Name < breaches[j].Name })
	return breaches
}
