package cli

import (
	"fmt"
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/spf13/cobra"

	"github.com/wesleyorama2/hotpath/internal/clock"
	"github.com/wesleyorama2/hotpath/internal/limit"
	"github.com/wesleyorama2/hotpath/internal/metrics"
	"github.com/wesleyorama2/hotpath/internal/output"
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Self-benchmark the recorder and limiter hot paths",
	Long: `Bench drives the sample recorder and the limiter family from concurrent
goroutines, timing every operation with the cycle-counter timer. It prints
the ring-recorder statistics next to HDR-histogram percentiles of the same
samples as an independent cross-check.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		goroutines, _ := cmd.Flags().GetInt("goroutines")
		iterations, _ := cmd.Flags().GetInt("iterations")
		return runBench(cmd, goroutines, iterations)
	},
}

func init() {
	benchCmd.Flags().Int("goroutines", 4, "concurrent workers per workload")
	benchCmd.Flags().Int("iterations", 100000, "operations per worker")
}

// benchWorkload is one timed hot-path operation.
type benchWorkload struct {
	name string
	op   func()
}

// hdr histogram bounds: 1ns to 1s at 3 significant figures.
const (
	histMin     = 1
	histMax     = int64(time.Second)
	histSigFigs = 3
)

func runBench(cmd *cobra.Command, goroutines, iterations int) error {
	if goroutines < 1 || iterations < 1 {
		return fmt.Errorf("goroutines and iterations must be >= 1")
	}

	logger := newLogger()
	defer logger.Sync()

	timer := clock.New(logger)
	registry := metrics.NewRegistry(logger)

	scratch := metrics.NewSampleRecorder()
	bucket := limit.NewTokenBucket(int64(goroutines*iterations/2), float64(goroutines*iterations))
	window := limit.NewSlidingWindow(goroutines*iterations/2, time.Second)
	priority := limit.NewPriorityLimiter(
		limit.TierConfig{MaxTokens: int64(goroutines * iterations), RefillRate: 1},
		limit.TierConfig{MaxTokens: 1, RefillRate: 1},
		limit.TierConfig{MaxTokens: 1, RefillRate: 1},
	)

	workloads := []benchWorkload{
		{"recorder.record", func() { scratch.Record(1) }},
		{"token_bucket.try_acquire", func() { bucket.TryAcquire(1) }},
		{"window.try_acquire", func() { window.TryAcquire() }},
		{"priority.try_acquire", func() { priority.TryAcquire(limit.PriorityHigh, 1) }},
	}

	hists := make(map[string]*hdrhistogram.Histogram, len(workloads))
	var histMu sync.Mutex

	for _, w := range workloads {
		rec := registry.Create(w.name)
		hist := hdrhistogram.New(histMin, histMax, histSigFigs)
		hists[w.name] = hist

		var wg sync.WaitGroup
		for g := 0; g < goroutines; g++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < iterations; i++ {
					start := timer.Cycles()
					w.op()
					elapsed := timer.Since(start)

					rec.Record(elapsed)
					histMu.Lock()
					hist.RecordValue(clampHist(elapsed))
					histMu.Unlock()
				}
			}()
		}
		wg.Wait()
	}

	out := cmd.OutOrStdout()
	noColor := flagNoColor || !output.ShouldColor()
	formatter := output.NewFormatter(noColor)

	fmt.Fprintf(out, "bench: %d goroutines x %d iterations per workload\n\n", goroutines, iterations)
	fmt.Fprint(out, formatter.FormatReport(registry.Report(), nil))

	fmt.Fprintf(out, "\nHDR cross-check (p50/p95/p99 in ns):\n")
	for _, w := range workloads {
		h := hists[w.name]
		fmt.Fprintf(out, "  %-28s %8d %8d %8d\n",
			w.name,
			h.ValueAtQuantile(50),
			h.ValueAtQuantile(95),
			h.ValueAtQuantile(99))
	}
	return nil
}

// clampHist keeps a sample inside the histogram's recordable range.
func clampHist(ns uint64) int64 {
	if ns < histMin {
		return histMin
	}
	if ns > uint64(histMax) {
		return histMax
	}
	return int64(ns)
}
