package warehouse

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"sales-dwh/internal/db"
	"sales-dwh/internal/domain"
	"sales-dwh/internal/stage"
)

// Assembler orchestrates a destructive full rebuild of the analytical store.
// The warehouse is built into a side file and atomically renamed over the
// previous one, so a failed rebuild never corrupts a good warehouse.
type Assembler struct {
	lakePath string
	destPath string
	logger   *slog.Logger
}

// NewAssembler creates an Assembler reading snapshots from lakePath and
// writing the warehouse to destPath.
func NewAssembler(lakePath, destPath string, logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assembler{
		lakePath: lakePath,
		destPath: destPath,
		logger:   logger.With("component", "assembler"),
	}
}

// Rebuild runs the full transform: staged views, dimensions, calendar, fact.
// Extraction is an upstream step; Rebuild only consumes snapshots. The
// context is checked between stages, so cancellation is coarse-grained: a
// statement that has started runs to completion.
func (a *Assembler) Rebuild(ctx context.Context) (*domain.BuildResult, error) {
	start := time.Now()
	result := &domain.BuildResult{
		RunID:     uuid.New().String(),
		StartedAt: start,
	}
	logger := a.logger.With("run_id", result.RunID)

	buildPath := a.destPath + ".building"
	if err := removeStore(buildPath); err != nil {
		return nil, domain.ErrDestinationWrite("clear stale build file: %v", err)
	}

	dest, err := db.OpenDuckDB(buildPath)
	if err != nil {
		return nil, domain.ErrDestinationWrite("create destination store: %v", err)
	}
	// Closed explicitly before the rename; the defer only covers error paths.
	defer dest.Close() //nolint:errcheck

	// Stage the three source snapshots.
	stager := stage.NewStager(dest, a.lakePath)
	views := make(map[string]*stage.View, 3)
	for _, table := range domain.SourceTables() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		view, err := stager.View(ctx, table)
		if err != nil {
			return nil, err
		}
		views[table] = view
	}
	logger.Info("staged views created", "tables", len(views))

	// Dimensions: customer and product have no mutual dependency.
	dims := NewDimensionBuilder(dest)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err := dims.BuildCustomerDimension(ctx, views[domain.TableCustomers])
	if err != nil {
		return nil, err
	}
	result.TableRows = append(result.TableRows, domain.TableCount{Table: domain.TableDimCustomer, Rows: rows})

	rows, err = dims.BuildProductDimension(ctx, views[domain.TableProducts])
	if err != nil {
		return nil, err
	}
	result.TableRows = append(result.TableRows, domain.TableCount{Table: domain.TableDimProduct, Rows: rows})

	// Calendar dimension, from the orders view only.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err = NewTimeDimensionDeriver(dest).BuildTimeDimension(ctx, views[domain.TableOrders])
	if err != nil {
		return nil, err
	}
	result.TableRows = append(result.TableRows, domain.TableCount{Table: domain.TableDimTime, Rows: rows})

	// Fact table last; referential correctness follows from key equality.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err = NewFactBuilder(dest).BuildSalesFact(ctx, views[domain.TableOrders])
	if err != nil {
		return nil, err
	}
	result.TableRows = append(result.TableRows, domain.TableCount{Table: domain.TableFactSales, Rows: rows})

	// Checkpoint and swap the finished warehouse into place.
	if err := dest.Close(); err != nil {
		return nil, domain.ErrDestinationWrite("close destination store: %v", err)
	}
	if err := os.Rename(buildPath, a.destPath); err != nil {
		return nil, domain.ErrDestinationWrite("install warehouse: %v", err)
	}
	// A write-ahead log from the replaced warehouse must not outlive it.
	if err := os.Remove(a.destPath + ".wal"); err != nil && !os.IsNotExist(err) {
		return nil, domain.ErrDestinationWrite("clear stale warehouse wal: %v", err)
	}

	result.Duration = time.Since(start)
	logger.Info("warehouse rebuilt",
		"path", a.destPath,
		"duration", result.Duration,
		"fact_rows", result.Rows(domain.TableFactSales))
	return result, nil
}

// removeStore deletes a DuckDB database file and its write-ahead log.
func removeStore(path string) error {
	for _, p := range []string{path, path + ".wal"} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove %s: %w", p, err)
		}
	}
	return nil
}
