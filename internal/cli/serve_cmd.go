package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"sales-dwh/internal/api"
	"sales-dwh/internal/lake"
	"sales-dwh/internal/warehouse"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard API over the warehouse",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.ListenAddr = addr
			}

			server, err := api.NewServer(cfg.WarehouseDBPath, logger)
			if err != nil {
				return err
			}
			defer server.Close() //nolint:errcheck

			if cfg.RefreshCron != "" {
				extractor := lake.NewExtractor(cfg.OLTPDBPath, cfg.LakePath, cfg.ExtractWorkers, logger)
				assembler := warehouse.NewAssembler(cfg.LakePath, cfg.WarehouseDBPath, logger)
				refresher, err := api.NewRefresher(cfg.RefreshCron, extractor, assembler, server, logger)
				if err != nil {
					return err
				}
				refresher.Start()
				defer refresher.Stop()
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := &http.Server{
				Addr:              cfg.ListenAddr,
				Handler:           server.Router(cfg.CORSAllowedOrigins),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("dashboard listening", "addr", cfg.ListenAddr)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			logger.Info("dashboard stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides LISTEN_ADDR)")
	return cmd
}
