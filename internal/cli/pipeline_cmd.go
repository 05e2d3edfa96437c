package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"sales-dwh/internal/config"
	"sales-dwh/internal/domain"
	"sales-dwh/internal/lake"
	"sales-dwh/internal/warehouse"
)

func newExtractCmd() *cobra.Command {
	var workers int

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Snapshot every source table into the parquet lake",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			if workers > 0 {
				cfg.ExtractWorkers = workers
			}
			snapshots, err := runExtract(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			for _, snap := range snapshots {
				fmt.Printf("%s: %d rows -> %s\n", snap.Table, snap.Rows, snap.Path)
			}
			return nil
		},
	}

	addWorkersFlag(cmd.Flags(), &workers)
	return cmd
}

func addWorkersFlag(flags *pflag.FlagSet, workers *int) {
	flags.IntVar(workers, "workers", 0, "Parallel table extractions (overrides EXTRACT_WORKERS)")
}

func newTransformCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "transform",
		Short: "Rebuild the warehouse star schema from the latest snapshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			result, err := runTransform(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			printBuildResult(result)
			return nil
		},
	}
}

func newRunCmd() *cobra.Command {
	var workers int

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full pipeline: extract, then transform",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			if workers > 0 {
				cfg.ExtractWorkers = workers
			}
			if _, err := runExtract(cmd.Context(), cfg, logger); err != nil {
				return err
			}
			result, err := runTransform(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			printBuildResult(result)
			return nil
		},
	}

	addWorkersFlag(cmd.Flags(), &workers)
	return cmd
}

func runExtract(ctx context.Context, cfg *config.Config, logger *slog.Logger) ([]*lake.Snapshot, error) {
	extractor := lake.NewExtractor(cfg.OLTPDBPath, cfg.LakePath, cfg.ExtractWorkers, logger)
	return extractor.ExtractAll(ctx)
}

func runTransform(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*domain.BuildResult, error) {
	assembler := warehouse.NewAssembler(cfg.LakePath, cfg.WarehouseDBPath, logger)
	return assembler.Rebuild(ctx)
}

func printBuildResult(result *domain.BuildResult) {
	fmt.Printf("Rebuild %s finished in %s\n", result.RunID, result.Duration)
	for _, tc := range result.TableRows {
		fmt.Printf("  %s: %d rows\n", tc.Table, tc.Rows)
	}
}
