package domain

import "time"

// Warehouse table names in the analytical store.
const (
	TableDimCustomer = "dim_customer"
	TableDimProduct  = "dim_product"
	TableDimTime     = "dim_time"
	TableFactSales   = "fact_sales"
)

// DimCustomer is a row in the customer dimension. CustomerKey equals the
// source customers.id (surrogate = natural key, no SCD versioning).
type DimCustomer struct {
	CustomerKey int64
	Name        string
	City        string
	Email       string
}

// DimProduct is a row in the product dimension. CurrentPrice is the catalog
// price observed at extraction time.
type DimProduct struct {
	ProductKey   int64
	Name         string
	Category     string
	CurrentPrice float64
}

// DimTime is a row in the calendar dimension, one per distinct order date.
type DimTime struct {
	Date      time.Time
	Year      int32
	Month     int32
	Day       int32
	IsWeekend bool
}

// FactSale is a row in the sales fact table, one per source order.
type FactSale struct {
	TransactionID int64
	CustomerKey   int64
	ProductKey    int64
	Date          time.Time
	Quantity      int64
	Amount        float64
}

// TableCount pairs a warehouse table with the number of rows written to it.
type TableCount struct {
	Table string `json:"table"`
	Rows  int64  `json:"rows"`
}

// BuildResult summarizes one warehouse rebuild.
type BuildResult struct {
	RunID     string        `json:"run_id"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	TableRows []TableCount  `json:"table_rows"`
}

// Rows returns the row count recorded for a table, or -1 if the table was not
// written during this build.
func (r *BuildResult) Rows(table string) int64 {
	for _, tc := range r.TableRows {
		if tc.Table == table {
			return tc.Rows
		}
	}
	return -1
}
