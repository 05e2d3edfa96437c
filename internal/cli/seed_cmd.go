package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"sales-dwh/internal/db"
	"sales-dwh/internal/oltp"
)

func newSeedCmd() *cobra.Command {
	opts := oltp.DefaultOptions()

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Populate the transactional store with synthetic sales data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}

			store, err := db.OpenSQLite(cfg.OLTPDBPath, "write", 1)
			if err != nil {
				return err
			}
			defer store.Close() //nolint:errcheck

			if err := db.RunMigrations(store); err != nil {
				return err
			}
			if err := oltp.NewSeeder(store, logger).Run(cmd.Context(), opts); err != nil {
				return err
			}
			fmt.Printf("Seeded %s: %d customers, %d products, %d orders\n",
				cfg.OLTPDBPath, opts.Customers, opts.Products, opts.Orders)
			return nil
		},
	}

	cmd.Flags().IntVar(&opts.Customers, "customers", opts.Customers, "Number of customers to generate")
	cmd.Flags().IntVar(&opts.Products, "products", opts.Products, "Number of products to generate")
	cmd.Flags().IntVar(&opts.Orders, "orders", opts.Orders, "Number of orders to generate")
	cmd.Flags().Int64Var(&opts.Seed, "seed", opts.Seed, "Random seed (same seed, same data)")

	return cmd
}
