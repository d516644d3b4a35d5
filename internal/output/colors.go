package output

import (
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// ColorScheme defines the colors used for report elements.
type ColorScheme struct {
	Header  *color.Color
	Tracker *color.Color
	Value   *color.Color
	Good    *color.Color
	Breach  *color.Color
	Muted   *color.Color
}

// DefaultColorScheme returns the default color scheme.
func DefaultColorScheme() *ColorScheme {
	return &ColorScheme{
		Header:  color.New(color.FgCyan, color.Bold),
		Tracker: color.New(color.FgBlue),
		Value:   color.New(color.FgWhite),
		Good:    color.New(color.FgGreen),
		Breach:  color.New(color.FgRed, color.Bold),
		Muted:   color.New(color.FgHiBlack),
	}
}

// NoColorScheme returns a scheme with all colors disabled.
func NoColorScheme() *ColorScheme {
	scheme := DefaultColorScheme()
	scheme.Header.DisableColor()
	scheme.Tracker.DisableColor()
	scheme.Value.DisableColor()
	scheme.Good.DisableColor()
	scheme.Breach.DisableColor()
	scheme.Muted.DisableColor()
	return scheme
}

// ShouldColor reports whether output to stdout should be colored: a real
// terminal, and NO_COLOR unset.
func ShouldColor() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// WarnIcon returns a warning marker for breached thresholds.
func WarnIcon(noColor bool) string {
	if noColor {
		return "⚠"
	}
	return color.New(color.FgYellow).Sprint("⚠")
}
