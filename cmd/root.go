// Package cmd wires the gosummary command line.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/olehluchkiv/gosummary/internal/logging"
)

var Version = "dev"

var rootFlags struct {
	logFile  string
	logLevel string
	envFile  string
}

// logger is set by the root PersistentPreRunE before any subcommand runs.
var (
	logger  = logging.Discard()
	cleanup = func() {}
)

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	c := &cobra.Command{
		Use:           "gosummary",
		Short:         "Summarize YouTube videos and websites, chat about them, and draw mindmaps.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := logging.ParseLevel(rootFlags.logLevel)
			if err != nil {
				return err
			}
			l, done, err := logging.Setup(rootFlags.logFile, level)
			if err != nil {
				return fmt.Errorf("setting up logging: %w", err)
			}
			logger, cleanup = l, done
			return nil
		},
	}
	c.CompletionOptions.DisableDefaultCmd = true
	c.SetHelpCommand(&cobra.Command{Hidden: true})

	c.PersistentFlags().StringVar(&rootFlags.logFile, "log-file", "logs/gosummary.log", "log file path")
	c.PersistentFlags().StringVar(&rootFlags.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	c.PersistentFlags().StringVar(&rootFlags.envFile, "env-file", ".env", "optional dotenv file read before the environment")

	c.AddCommand(newServeCmd(), newMindmapCmd())
	return c
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		logger.Error("command failed", "error", err)
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	cleanup()
	if err != nil {
		stop()
		os.Exit(1)
	}
}
