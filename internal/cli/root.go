// Package cli wires the pipeline stages into a cobra command tree.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"sales-dwh/internal/config"
)

var (
	version = "dev"
	commit  = "none"
)

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "dwh",
		Short:         "Sales data warehouse pipeline",
		Long:          "Extract a SQLite transactional store into parquet snapshots and rebuild a DuckDB star schema from them.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newSeedCmd())
	rootCmd.AddCommand(newExtractCmd())
	rootCmd.AddCommand(newTransformCmd())
	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newBenchCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(os.Stdout, "dwh version %s (commit: %s)\n", version, commit)
			return err
		},
	}
}

// loadConfig resolves configuration for a command run: .env file, then the
// environment, then defaults. The returned logger honours LOG_LEVEL.
func loadConfig() (*config.Config, *slog.Logger, error) {
	if err := config.LoadDotEnv(".env"); err != nil {
		return nil, nil, err
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)
	for _, w := range cfg.Warnings {
		logger.Warn(w)
	}
	return cfg, logger, nil
}
