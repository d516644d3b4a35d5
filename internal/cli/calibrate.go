package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/hotpath/internal/clock"
)

var calibrateCmd = &cobra.Command{
	Use:   "calibrate",
	Short: "Calibrate the cycle-counter timer and print the result",
	Long: `Calibrate correlates the hardware cycle counter against the wall clock over
a short sampling window and prints the derived nanoseconds-per-cycle ratio.

The ratio is a best-effort estimate: CPU frequency scaling or clock drift
invalidates it silently, so rerun calibration when in doubt.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCalibrate(cmd)
	},
}

func runCalibrate(cmd *cobra.Command) error {
	logger := newLogger()
	defer logger.Sync()

	timer := clock.New(logger)
	if !timer.Calibrated() {
		return fmt.Errorf("calibration failed, timer would fall back to the wall clock")
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "ns per cycle:      %.6f\n", timer.NsPerCycle())
	fmt.Fprintf(out, "counter frequency: %.3f GHz\n", timer.Frequency()/1e9)

	if timer.NsPerCycle() == 1.0 {
		fmt.Fprintln(out, "note: no hardware cycle counter on this platform, using the monotonic wall clock")
	}
	return nil
}
