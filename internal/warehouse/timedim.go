package warehouse

import (
	"context"
	"database/sql"
	"fmt"

	"sales-dwh/internal/ddl"
	"sales-dwh/internal/domain"
	"sales-dwh/internal/stage"
)

// TimeDimensionDeriver derives the calendar dimension from the distinct order
// dates observed in the staged orders view.
type TimeDimensionDeriver struct {
	db *sql.DB
}

// NewTimeDimensionDeriver creates a TimeDimensionDeriver bound to the
// destination store.
func NewTimeDimensionDeriver(db *sql.DB) *TimeDimensionDeriver {
	return &TimeDimensionDeriver{db: db}
}

// BuildTimeDimension materializes dim_time: one row per distinct order date,
// with year/month/day and a weekend flag (ISO weekday 6 or 7). An empty
// staged orders view yields an empty dimension, not an error.
func (d *TimeDimensionDeriver) BuildTimeDimension(ctx context.Context, view *stage.View) (int64, error) {
	if err := requireColumns(view, []string{"date"}); err != nil {
		return 0, err
	}
	selectSQL := fmt.Sprintf(`SELECT
	d AS "date",
	CAST(year(d) AS INTEGER) AS "year",
	CAST(month(d) AS INTEGER) AS "month",
	CAST(day(d) AS INTEGER) AS "day",
	isodow(d) >= 6 AS is_weekend
FROM (SELECT DISTINCT CAST("date" AS DATE) AS d FROM %s)`,
		ddl.QuoteIdentifier(view.Name))
	return materialize(ctx, d.db, domain.TableDimTime, selectSQL)
}
