// Package stage exposes parquet snapshots as schema-typed DuckDB views.
package stage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"sales-dwh/internal/ddl"
	"sales-dwh/internal/domain"
)

// Column describes one column of a staged view, as reported by DESCRIBE.
type Column struct {
	Name string
	Type string
}

// View is a read-only, schema-typed projection over a parquet snapshot.
// Views never mutate the underlying snapshot.
type View struct {
	Name    string // view name in the destination store, e.g. "stg_orders"
	Table   string // source table the snapshot was extracted from
	Columns []Column
}

// HasColumn reports whether the view exposes a column with the given name.
func (v *View) HasColumn(name string) bool {
	for _, c := range v.Columns {
		if c.Name == name {
			return true
		}
	}
	return false
}

// Stager creates staged views over snapshot files in a destination store.
type Stager struct {
	db       *sql.DB
	lakePath string
}

// NewStager creates a Stager bound to a destination DuckDB handle and a lake
// root directory.
func NewStager(db *sql.DB, lakePath string) *Stager {
	return &Stager{db: db, lakePath: lakePath}
}

// View creates (or replaces) the staged view for a source table and returns
// its typed schema. The snapshot is read lazily by DuckDB; no rows are copied.
func (s *Stager) View(ctx context.Context, table string) (*View, error) {
	if err := ddl.ValidateIdentifier(table); err != nil {
		return nil, fmt.Errorf("invalid table name: %w", err)
	}

	snapshotPath := filepath.Join(s.lakePath, table+".parquet")
	if _, err := os.Stat(snapshotPath); err != nil {
		return nil, domain.ErrSnapshotMissing("no snapshot for table %q at %s, run extraction first", table, snapshotPath)
	}

	// Absolute path: the view must stay valid however the store is reopened.
	absPath, err := filepath.Abs(snapshotPath)
	if err != nil {
		return nil, fmt.Errorf("resolve snapshot path: %w", err)
	}

	viewName := "stg_" + table
	createSQL, err := ddl.CreateStagingView(viewName, absPath)
	if err != nil {
		return nil, err
	}
	if _, err := s.db.ExecContext(ctx, createSQL); err != nil {
		return nil, fmt.Errorf("create staged view %q: %w", viewName, err)
	}

	columns, err := s.describe(ctx, viewName)
	if err != nil {
		return nil, err
	}

	return &View{Name: viewName, Table: table, Columns: columns}, nil
}

// describe reads a view's column names and types in declaration order.
func (s *Stager) describe(ctx context.Context, view string) ([]Column, error) {
	describeSQL, err := ddl.DescribeView(view)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, describeSQL)
	if err != nil {
		return nil, fmt.Errorf("describe %q: %w", view, err)
	}
	defer rows.Close() //nolint:errcheck

	var columns []Column
	for rows.Next() {
		var (
			col  Column
			null sql.NullString
			key  sql.NullString
			dflt sql.NullString
			xtra sql.NullString
		)
		if err := rows.Scan(&col.Name, &col.Type, &null, &key, &dflt, &xtra); err != nil {
			return nil, fmt.Errorf("scan describe row: %w", err)
		}
		columns = append(columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("describe %q: %w", view, err)
	}
	return columns, nil
}
