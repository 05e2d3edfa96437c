// Package warehouse derives the star-schema tables from staged views and
// orchestrates full warehouse rebuilds.
package warehouse

import (
	"context"
	"database/sql"
	"fmt"

	"sales-dwh/internal/ddl"
	"sales-dwh/internal/domain"
	"sales-dwh/internal/stage"
)

// Staged columns each builder requires. A missing column means the lake has
// drifted from the source contract and the run must abort.
var (
	customerColumns = []string{"id", "name", "email", "city"}
	productColumns  = []string{"id", "name", "category", "price"}
	orderColumns    = []string{"id", "customer_id", "product_id", "date", "quantity", "total"}
)

// requireColumns checks a staged view against an expected column set.
func requireColumns(view *stage.View, expected []string) error {
	for _, col := range expected {
		if !view.HasColumn(col) {
			return domain.ErrSchemaMismatch("staged view %q is missing column %q", view.Name, col)
		}
	}
	return nil
}

// materialize runs a CTAS against the destination and returns the row count
// of the new table.
func materialize(ctx context.Context, db *sql.DB, table, selectSQL string) (int64, error) {
	createSQL, err := ddl.CreateTableAs(table, selectSQL)
	if err != nil {
		return 0, err
	}
	if _, err := db.ExecContext(ctx, createSQL); err != nil {
		return 0, fmt.Errorf("materialize %s: %w", table, err)
	}

	countSQL, err := ddl.CountRows(table)
	if err != nil {
		return 0, err
	}
	var rows int64
	if err := db.QueryRowContext(ctx, countSQL).Scan(&rows); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return rows, nil
}

// DimensionBuilder projects staged entity tables into dimension tables.
// Surrogate keys equal the source primary keys; there is no SCD versioning.
type DimensionBuilder struct {
	db *sql.DB
}

// NewDimensionBuilder creates a DimensionBuilder bound to the destination store.
func NewDimensionBuilder(db *sql.DB) *DimensionBuilder {
	return &DimensionBuilder{db: db}
}

// BuildCustomerDimension materializes dim_customer from the staged customers
// view. Pure 1:1 field mapping; source ids are unique by contract.
func (b *DimensionBuilder) BuildCustomerDimension(ctx context.Context, view *stage.View) (int64, error) {
	if err := requireColumns(view, customerColumns); err != nil {
		return 0, err
	}
	selectSQL := fmt.Sprintf(
		"SELECT id AS customer_key, name, city, email FROM %s",
		ddl.QuoteIdentifier(view.Name))
	return materialize(ctx, b.db, domain.TableDimCustomer, selectSQL)
}

// BuildProductDimension materializes dim_product from the staged products
// view. current_price is the catalog price at extraction time, deliberately
// distinct from the transaction-time amount carried by the fact table.
func (b *DimensionBuilder) BuildProductDimension(ctx context.Context, view *stage.View) (int64, error) {
	if err := requireColumns(view, productColumns); err != nil {
		return 0, err
	}
	selectSQL := fmt.Sprintf(
		"SELECT id AS product_key, name, category, price AS current_price FROM %s",
		ddl.QuoteIdentifier(view.Name))
	return materialize(ctx, b.db, domain.TableDimProduct, selectSQL)
}
