// Package lake extracts tables from the transactional store into immutable
// parquet snapshots, one file per table.
package lake

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"sales-dwh/internal/db"
	"sales-dwh/internal/ddl"
	"sales-dwh/internal/domain"
)

// attachAlias is the catalog alias the transactional store is attached under.
const attachAlias = "oltp"

// Snapshot describes one extracted parquet file.
type Snapshot struct {
	Table string
	Path  string
	Rows  int64
}

// Extractor reads source tables through DuckDB's sqlite extension and writes
// them as parquet snapshots under the lake root. A snapshot is written to a
// temporary file and atomically renamed into place, so a failed extraction
// never disturbs the prior snapshot.
type Extractor struct {
	sourcePath string
	lakePath   string
	workers    int
	logger     *slog.Logger
}

// NewExtractor creates an Extractor. workers bounds parallel table extraction
// in ExtractAll; 1 keeps extraction strictly sequential.
func NewExtractor(sourcePath, lakePath string, workers int, logger *slog.Logger) *Extractor {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{
		sourcePath: sourcePath,
		lakePath:   lakePath,
		workers:    workers,
		logger:     logger.With("component", "extractor"),
	}
}

// SnapshotPath returns the deterministic snapshot path for a table.
func (e *Extractor) SnapshotPath(table string) string {
	return filepath.Join(e.lakePath, table+".parquet")
}

// Extract copies a full source table into a parquet snapshot, overwriting any
// prior snapshot for that table.
func (e *Extractor) Extract(ctx context.Context, table string) (*Snapshot, error) {
	if err := ddl.ValidateIdentifier(table); err != nil {
		return nil, domain.ErrTableNotFound("table %q: %v", table, err)
	}
	if err := os.MkdirAll(e.lakePath, 0o750); err != nil {
		return nil, fmt.Errorf("create lake directory: %w", err)
	}

	conn, err := e.attachSource(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close() //nolint:errcheck

	exists, err := e.tableExists(ctx, conn, table)
	if err != nil {
		return nil, fmt.Errorf("probe source table %q: %w", table, err)
	}
	if !exists {
		return nil, domain.ErrTableNotFound("table %q does not exist in the transactional store", table)
	}

	// COPY into a temp file, count, then atomically move into place.
	tmpPath := e.SnapshotPath(table) + ".tmp-" + uuid.New().String()
	copySQL, err := ddl.CopyTableToParquet(attachAlias, table, tmpPath)
	if err != nil {
		return nil, err
	}
	if _, err := conn.ExecContext(ctx, copySQL); err != nil {
		_ = os.Remove(tmpPath)
		return nil, fmt.Errorf("copy %q to parquet: %w", table, err)
	}

	var rows int64
	countSQL := "SELECT count(*) FROM read_parquet(" + ddl.QuoteLiteral(tmpPath) + ")"
	if err := conn.QueryRowContext(ctx, countSQL).Scan(&rows); err != nil {
		_ = os.Remove(tmpPath)
		return nil, fmt.Errorf("count snapshot rows for %q: %w", table, err)
	}

	// Release the source catalog before installing the snapshot.
	detachSQL, err := ddl.Detach(attachAlias)
	if err != nil {
		_ = os.Remove(tmpPath)
		return nil, err
	}
	if _, err := conn.ExecContext(ctx, detachSQL); err != nil {
		_ = os.Remove(tmpPath)
		return nil, fmt.Errorf("detach transactional store: %w", err)
	}

	finalPath := e.SnapshotPath(table)
	if err := os.Rename(tmpPath, finalPath); err != nil {
		_ = os.Remove(tmpPath)
		return nil, fmt.Errorf("install snapshot for %q: %w", table, err)
	}

	e.logger.Info("snapshot written", "table", table, "rows", rows, "path", finalPath)
	return &Snapshot{Table: table, Path: finalPath, Rows: rows}, nil
}

// ExtractAll extracts every source table. Tables are independent, so up to
// the configured worker count run concurrently; results keep the stable
// source-table order.
func (e *Extractor) ExtractAll(ctx context.Context) ([]*Snapshot, error) {
	tables := domain.SourceTables()
	snapshots := make([]*Snapshot, len(tables))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, table := range tables {
		g.Go(func() error {
			snap, err := e.Extract(gctx, table)
			if err != nil {
				return err
			}
			snapshots[i] = snap
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snapshots, nil
}

// attachSource opens a throwaway in-memory DuckDB instance and attaches the
// transactional store read-only. The caller owns the returned handle.
func (e *Extractor) attachSource(ctx context.Context) (*sql.DB, error) {
	if _, err := os.Stat(e.sourcePath); err != nil {
		return nil, domain.ErrSourceUnavailable("transactional store %s: %v", e.sourcePath, err)
	}

	conn, err := db.OpenDuckDB("")
	if err != nil {
		return nil, fmt.Errorf("open extraction engine: %w", err)
	}
	if err := db.InstallSQLiteExtension(ctx, conn); err != nil {
		_ = conn.Close()
		return nil, err
	}

	attachSQL, err := ddl.AttachSQLite(e.sourcePath, attachAlias)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	if _, err := conn.ExecContext(ctx, attachSQL); err != nil {
		_ = conn.Close()
		return nil, domain.ErrSourceUnavailable("attach transactional store %s: %v", e.sourcePath, err)
	}
	return conn, nil
}

// tableExists probes the attached store's catalog for the named table.
func (e *Extractor) tableExists(ctx context.Context, conn *sql.DB, table string) (bool, error) {
	var name string
	err := conn.QueryRowContext(ctx,
		"SELECT name FROM oltp.sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
