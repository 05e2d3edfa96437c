package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"sales-dwh/internal/bench"
)

func newBenchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bench",
		Short: "Time the category revenue query on SQLite versus the warehouse",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}
			result, err := bench.Run(cmd.Context(), cfg.OLTPDBPath, cfg.WarehouseDBPath)
			if err != nil {
				return err
			}

			fmt.Printf("SQLite (row store):    %s\n", result.SQLiteDuration)
			fmt.Printf("DuckDB (star schema):  %s\n", result.WarehouseDuration)
			fmt.Printf("Speedup:               %.2fx\n", result.Speedup())
			fmt.Println()
			fmt.Println("Revenue by category:")
			for _, row := range result.WarehouseRows {
				fmt.Printf("  %-20s %12.2f\n", row.Category, row.Revenue)
			}
			return nil
		},
	}
}
