package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/duckdb/duckdb-go/v2" // registers the "duckdb" driver
)

// OpenDuckDB opens a DuckDB database at the given path. An empty path opens
// an in-memory database.
func OpenDuckDB(path string) (*sql.DB, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping duckdb: %w", err)
	}
	return db, nil
}

// OpenDuckDBReadOnly opens an existing DuckDB database without write access.
// Used by the dashboard and the benchmark, which only query the warehouse.
func OpenDuckDBReadOnly(path string) (*sql.DB, error) {
	db, err := sql.Open("duckdb", path+"?access_mode=read_only")
	if err != nil {
		return nil, fmt.Errorf("open duckdb read-only: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping duckdb read-only: %w", err)
	}
	return db, nil
}

// InstallSQLiteExtension installs and loads the DuckDB sqlite extension so a
// SQLite store can be attached as a read-only catalog.
func InstallSQLiteExtension(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, "INSTALL sqlite; LOAD sqlite;"); err != nil {
		return fmt.Errorf("extension setup (sqlite): %w", err)
	}
	return nil
}
