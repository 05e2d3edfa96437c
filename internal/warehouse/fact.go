package warehouse

import (
	"context"
	"database/sql"
	"fmt"

	"sales-dwh/internal/ddl"
	"sales-dwh/internal/domain"
	"sales-dwh/internal/stage"
)

// FactBuilder projects the staged orders view into the sales fact table.
type FactBuilder struct {
	db *sql.DB
}

// NewFactBuilder creates a FactBuilder bound to the destination store.
func NewFactBuilder(db *sql.DB) *FactBuilder {
	return &FactBuilder{db: db}
}

// BuildSalesFact materializes fact_sales, one row per source order. No join
// is needed: dimension keys equal the source foreign keys by construction.
func (b *FactBuilder) BuildSalesFact(ctx context.Context, view *stage.View) (int64, error) {
	if err := requireColumns(view, orderColumns); err != nil {
		return 0, err
	}
	selectSQL := fmt.Sprintf(`SELECT
	id AS transaction_id,
	customer_id AS customer_key,
	product_id AS product_key,
	CAST("date" AS DATE) AS "date",
	quantity,
	total AS amount
FROM %s`,
		ddl.QuoteIdentifier(view.Name))
	return materialize(ctx, b.db, domain.TableFactSales, selectSQL)
}
