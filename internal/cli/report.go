package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/hotpath/internal/config"
	"github.com/wesleyorama2/hotpath/internal/output"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Load a limits config and print the tracker/limiter layout",
	Long: `Report loads a limits configuration file, builds the declared trackers and
limiters exactly as the engine's composition root would, and prints the
resulting registry report and limiter layout. Useful for validating a config
before deploying it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		if path == "" {
			return fmt.Errorf("--config is required")
		}
		return runReport(cmd, path)
	},
}

func init() {
	reportCmd.Flags().StringP("config", "c", "", "limits configuration file (YAML or JSON)")
}

func runReport(cmd *cobra.Command, path string) error {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	registry, err := config.BuildRegistry(cfg, logger)
	if err != nil {
		return err
	}
	limiters, err := config.BuildLimiters(cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	noColor := flagNoColor || !output.ShouldColor()
	formatter := output.NewFormatter(noColor)

	fmt.Fprint(out, formatter.FormatReport(registry.Report(), nil))

	fmt.Fprintf(out, "\nlimiters:\n")
	for name, tb := range limiters.TokenBuckets {
		fmt.Fprintf(out, "  %-20s token_bucket   capacity=%d\n", name, tb.MaxTokens())
	}
	for name, sw := range limiters.SlidingWindows {
		fmt.Fprintf(out, "  %-20s sliding_window live=%d\n", name, sw.CurrentRate())
	}
	for name := range limiters.Priorities {
		fmt.Fprintf(out, "  %-20s priority       tiers=high,medium,low\n", name)
	}

	for _, tr := range cfg.Trackers {
		if ns := registry.Threshold(tr.Name); ns > 0 {
			fmt.Fprintf(out, "\nthreshold: %s alerts above %dns (p99)\n", tr.Name, ns)
		}
	}
	return nil
}
