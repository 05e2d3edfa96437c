package api

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"

	"sales-dwh/internal/lake"
	"sales-dwh/internal/warehouse"
)

// Refresher periodically re-runs extract and transform, then tells the server
// to pick up the replaced warehouse file.
type Refresher struct {
	cron      *cron.Cron
	extractor *lake.Extractor
	assembler *warehouse.Assembler
	server    *Server
	logger    *slog.Logger
}

// NewRefresher schedules a full pipeline run on the given cron expression.
func NewRefresher(schedule string, extractor *lake.Extractor, assembler *warehouse.Assembler, server *Server, logger *slog.Logger) (*Refresher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Refresher{
		cron:      cron.New(),
		extractor: extractor,
		assembler: assembler,
		server:    server,
		logger:    logger.With("component", "refresher"),
	}
	if _, err := r.cron.AddFunc(schedule, func() {
		if err := r.Refresh(context.Background()); err != nil {
			r.logger.Warn("scheduled refresh failed", "error", err)
		}
	}); err != nil {
		return nil, fmt.Errorf("invalid refresh schedule %q: %w", schedule, err)
	}
	return r, nil
}

// Refresh runs extract and transform once, then reopens the server's
// warehouse connection. A failed run leaves the previous warehouse serving.
func (r *Refresher) Refresh(ctx context.Context) error {
	if _, err := r.extractor.ExtractAll(ctx); err != nil {
		return fmt.Errorf("refresh extract: %w", err)
	}
	result, err := r.assembler.Rebuild(ctx)
	if err != nil {
		return fmt.Errorf("refresh transform: %w", err)
	}
	if err := r.server.Reopen(); err != nil {
		return err
	}
	r.logger.Info("warehouse refreshed", "run_id", result.RunID, "duration", result.Duration)
	return nil
}

// Start begins the cron schedule.
func (r *Refresher) Start() {
	r.cron.Start()
	r.logger.Info("refresh scheduler started")
}

// Stop halts the schedule, waiting for an in-flight run to finish.
func (r *Refresher) Stop() {
	<-r.cron.Stop().Done()
	r.logger.Info("refresh scheduler stopped")
}
