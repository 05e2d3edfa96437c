// Package bench times the same analytical query against the row-oriented
// transactional store and the columnar warehouse.
package bench

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"sales-dwh/internal/db"
)

// Analytical queries: revenue per product category, highest first. The two
// statements are equivalent; one reads the normalized source, the other the
// star schema.
const (
	sqliteQuery = `
		SELECT p.category, SUM(o.total) AS revenue
		FROM orders o
		JOIN products p ON o.product_id = p.id
		GROUP BY p.category
		ORDER BY revenue DESC`

	warehouseQuery = `
		SELECT p.category, SUM(f.amount) AS revenue
		FROM fact_sales f
		JOIN dim_product p ON f.product_key = p.product_key
		GROUP BY p.category
		ORDER BY revenue DESC`
)

// CategoryRevenue is one row of the benchmark query.
type CategoryRevenue struct {
	Category string
	Revenue  float64
}

// Result holds the timings and the query output from both engines.
type Result struct {
	SQLiteDuration    time.Duration
	WarehouseDuration time.Duration
	SQLiteRows        []CategoryRevenue
	WarehouseRows     []CategoryRevenue
}

// Speedup reports how much faster the warehouse answered, as a ratio.
func (r *Result) Speedup() float64 {
	if r.WarehouseDuration <= 0 {
		return 0
	}
	return float64(r.SQLiteDuration) / float64(r.WarehouseDuration)
}

// Run executes the benchmark against both stores. Both are opened read-only;
// the benchmark never writes.
func Run(ctx context.Context, oltpPath, warehousePath string) (*Result, error) {
	oltp, err := db.OpenSQLite(oltpPath, "read", 1)
	if err != nil {
		return nil, fmt.Errorf("open transactional store: %w", err)
	}
	defer oltp.Close() //nolint:errcheck

	warehouse, err := db.OpenDuckDBReadOnly(warehousePath)
	if err != nil {
		return nil, fmt.Errorf("open warehouse: %w", err)
	}
	defer warehouse.Close() //nolint:errcheck

	result := &Result{}

	start := time.Now()
	result.SQLiteRows, err = runQuery(ctx, oltp, sqliteQuery)
	if err != nil {
		return nil, fmt.Errorf("sqlite query: %w", err)
	}
	result.SQLiteDuration = time.Since(start)

	start = time.Now()
	result.WarehouseRows, err = runQuery(ctx, warehouse, warehouseQuery)
	if err != nil {
		return nil, fmt.Errorf("warehouse query: %w", err)
	}
	result.WarehouseDuration = time.Since(start)

	return result, nil
}

func runQuery(ctx context.Context, conn *sql.DB, query string) ([]CategoryRevenue, error) {
	rows, err := conn.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var out []CategoryRevenue
	for rows.Next() {
		var cr CategoryRevenue
		if err := rows.Scan(&cr.Category, &cr.Revenue); err != nil {
			return nil, err
		}
		out = append(out, cr)
	}
	return out, rows.Err()
}
