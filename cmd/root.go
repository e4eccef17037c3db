// Package cmd implements the CLI for kthreads.
package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"kthreads/logging"
)

// Version information set at build time.
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// Global flags mirroring Pintos's `-mlfqs` boot option and the
// scheduler's timer tunable.
var (
	globalMLFQS     bool
	globalTimerFreq int
	globalLogFormat string
	globalDebug     bool
)

// rootCmd is the base command for kthreads.
var rootCmd = &cobra.Command{
	Use:   "kthreads",
	Short: "Single-CPU preemptive kernel thread scheduler simulator",
	Long: `kthreads simulates a Pintos-style preemptive kernel thread scheduler.

It supports two alternative scheduling policies selectable at boot: strict
priority round-robin with priority donation through locks, and a 4.4BSD
multi-level feedback queue (MLFQS). Subcommands run scenario demos that
drive the scheduler end to end and print its thread statistics.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogging()
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// GetContext returns a context that cancels on SIGINT/SIGTERM.
func GetContext() context.Context {
	ctx, _ := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	return ctx
}

// MLFQS reports whether the -mlfqs boot flag was passed.
func MLFQS() bool { return globalMLFQS }

// TimerFreq returns the configured timer frequency in ticks per second.
func TimerFreq() int { return globalTimerFreq }

func init() {
	rootCmd.PersistentFlags().BoolVar(&globalMLFQS, "mlfqs", false, "record the 4.4BSD MLFQS boot option (reported by MLFQS(); each demo selects its own scheduling policy and does not read it)")
	rootCmd.PersistentFlags().IntVar(&globalTimerFreq, "timer-freq", 100, "simulated timer interrupt frequency in ticks per second")
	rootCmd.PersistentFlags().StringVar(&globalLogFormat, "log-format", "text", "set the format for log output (text or json)")
	rootCmd.PersistentFlags().BoolVar(&globalDebug, "debug", false, "enable debug logging")
}

func setupLogging() {
	logLevel := slog.LevelInfo
	if globalDebug {
		logLevel = slog.LevelDebug
	}

	logger := logging.NewLogger(logging.Config{
		Level:  logLevel,
		Format: globalLogFormat,
		Output: os.Stderr,
	})
	logging.SetDefault(logger)
}
