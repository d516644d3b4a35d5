// Package output renders latency reports for the terminal.
package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/wesleyorama2/hotpath/internal/metrics"
)

// Formatter renders registry reports as aligned text tables.
type Formatter struct {
	scheme  *ColorScheme
	noColor bool
}

// NewFormatter creates a formatter. With noColor set, all styling is
// stripped.
func NewFormatter(noColor bool) *Formatter {
	scheme := DefaultColorScheme()
	if noColor {
		scheme = NoColorScheme()
	}
	return &Formatter{scheme: scheme, noColor: noColor}
}

// FormatReport renders one row per tracker: name, mean, p95, p99, max,
// count. Rows whose p99 exceeds the threshold in breached are marked.
//
// The layout is a human convenience for the terminal, not a stable contract.
func (f *Formatter) FormatReport(report []metrics.TrackerReport, breached map[string]bool) string {
	var sb strings.Builder

	sb.WriteString(f.scheme.Header.Sprintf("%-28s %12s %12s %12s %12s %10s",
		"TRACKER", "MEAN", "P95", "P99", "MAX", "COUNT"))
	sb.WriteString("\n")

	if len(report) == 0 {
		sb.WriteString(f.scheme.Muted.Sprint("(no trackers)"))
		sb.WriteString("\n")
		return sb.String()
	}

	for _, row := range report {
		line := fmt.Sprintf("%-28s %12s %12s %12s %12s %10d",
			row.Name,
			formatNs(row.Mean),
			formatNs(float64(row.P95)),
			formatNs(float64(row.P99)),
			formatNs(float64(row.Max)),
			row.Count)

		if breached[row.Name] {
			sb.WriteString(f.scheme.Breach.Sprint(line))
			sb.WriteString(" ")
			sb.WriteString(WarnIcon(f.noColor))
		} else if row.Count == 0 {
			sb.WriteString(f.scheme.Muted.Sprint(line))
		} else {
			sb.WriteString(f.scheme.Value.Sprint(line))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// FormatBreaches renders threshold breaches as warning lines.
func (f *Formatter) FormatBreaches(breaches []metrics.ThresholdBreach) string {
	if len(breaches) == 0 {
		return f.scheme.Good.Sprint("all trackers within thresholds") + "\n"
	}

	var sb strings.Builder
	for _, b := range breaches {
		sb.WriteString(WarnIcon(f.noColor))
		sb.WriteString(" ")
		sb.WriteString(f.scheme.Breach.Sprintf("%s: p99 %s over threshold %s",
			b.Name,
			formatNs(float64(b.ObservedNs)),
			formatNs(float64(b.ThresholdNs))))
		sb.WriteString("\n")
	}
	return sb.String()
}

// formatNs renders a nanosecond quantity with a human unit, keeping
// sub-microsecond values in whole nanoseconds.
func formatNs(ns float64) string {
	switch {
	case ns <= 0:
		return "0"
	case ns < float64(time.Microsecond):
		return fmt.Sprintf("%.0fns", ns)
	case ns < float64(time.Millisecond):
		return fmt.Sprintf("%.2fµs", ns/float64(time.Microsecond))
	case ns < float64(time.Second):
		return fmt.Sprintf("%.2fms", ns/float64(time.Millisecond))
	default:
		return fmt.Sprintf("%.2fs", ns/float64(time.Second))
	}
}
