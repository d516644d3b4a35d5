// Package cli implements the hotpath command-line interface.
package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var version = "0.1.0"

var (
	flagNoColor bool
	flagVerbose bool
)

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:     "hotpath",
	Short:   "Latency instrumentation and admission control toolkit",
	Version: version,
	Long: `Hotpath is the latency-instrumentation and admission-control toolkit for
low-latency services: nanosecond-precision tracking of hot-path operations,
named tracker registries with threshold alerting, a cycle-counter timer, and
a family of rate limiters for admission control.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute runs the root command. It returns an error instead of exiting so
// main owns the process exit code.
func Execute() error {
	return RootCmd.Execute()
}

func init() {
	RootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable colored output")
	RootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "verbose logging")

	RootCmd.AddCommand(benchCmd)
	RootCmd.AddCommand(calibrateCmd)
	RootCmd.AddCommand(reportCmd)
}

// newLogger builds the CLI logger: human-readable, warnings only unless
// --verbose.
func newLogger() *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	if !flagVerbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
