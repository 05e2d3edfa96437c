// Package ddl builds DuckDB statements for attaching stores, writing parquet
// snapshots, and materializing warehouse tables. Every identifier is validated
// and quoted before it reaches query text.
package ddl

import "fmt"

// AttachSQLite returns a DuckDB statement attaching a SQLite file as a
// read-only catalog under the given alias.
func AttachSQLite(path, alias string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("sqlite path is required")
	}
	if err := ValidateIdentifier(alias); err != nil {
		return "", fmt.Errorf("invalid attach alias: %w", err)
	}
	return fmt.Sprintf("ATTACH %s AS %s (TYPE sqlite, READ_ONLY)",
		QuoteLiteral(path), QuoteIdentifier(alias)), nil
}

// Detach returns a DuckDB statement detaching a previously attached catalog.
func Detach(alias string) (string, error) {
	if err := ValidateIdentifier(alias); err != nil {
		return "", fmt.Errorf("invalid attach alias: %w", err)
	}
	return "DETACH " + QuoteIdentifier(alias), nil
}

// CopyTableToParquet returns a DuckDB statement copying a full table from an
// attached catalog into a parquet file.
func CopyTableToParquet(alias, table, destPath string) (string, error) {
	if err := ValidateIdentifier(alias); err != nil {
		return "", fmt.Errorf("invalid attach alias: %w", err)
	}
	if err := ValidateIdentifier(table); err != nil {
		return "", fmt.Errorf("invalid table name: %w", err)
	}
	if destPath == "" {
		return "", fmt.Errorf("destination path is required")
	}
	return fmt.Sprintf("COPY (SELECT * FROM %s.%s) TO %s (FORMAT parquet)",
		QuoteIdentifier(alias), QuoteIdentifier(table), QuoteLiteral(destPath)), nil
}

// CreateStagingView returns a DuckDB statement exposing a parquet snapshot as
// a view. The view is a pure projection; the snapshot is never copied.
func CreateStagingView(view, parquetPath string) (string, error) {
	if err := ValidateIdentifier(view); err != nil {
		return "", fmt.Errorf("invalid view name: %w", err)
	}
	if parquetPath == "" {
		return "", fmt.Errorf("parquet path is required")
	}
	return fmt.Sprintf("CREATE OR REPLACE VIEW %s AS SELECT * FROM read_parquet(%s)",
		QuoteIdentifier(view), QuoteLiteral(parquetPath)), nil
}

// CreateTableAs returns a DuckDB CTAS statement. selectSQL must be built from
// validated fragments by the caller; it is never user input.
func CreateTableAs(table, selectSQL string) (string, error) {
	if err := ValidateIdentifier(table); err != nil {
		return "", fmt.Errorf("invalid table name: %w", err)
	}
	if selectSQL == "" {
		return "", fmt.Errorf("select statement is required")
	}
	return fmt.Sprintf("CREATE TABLE %s AS %s", QuoteIdentifier(table), selectSQL), nil
}

// CountRows returns a statement counting the rows of a table or view.
func CountRows(relation string) (string, error) {
	if err := ValidateIdentifier(relation); err != nil {
		return "", fmt.Errorf("invalid relation name: %w", err)
	}
	return "SELECT count(*) FROM " + QuoteIdentifier(relation), nil
}

// DescribeView returns a statement listing the columns of a view in order.
func DescribeView(view string) (string, error) {
	if err := ValidateIdentifier(view); err != nil {
		return "", fmt.Errorf("invalid view name: %w", err)
	}
	return "DESCRIBE " + QuoteIdentifier(view), nil
}
