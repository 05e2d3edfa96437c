package domain

import "time"

// Source table names in the transactional store. The extractor only accepts
// these; anything else is a TableNotFound error.
const (
	TableCustomers = "customers"
	TableProducts  = "products"
	TableOrders    = "orders"
)

// SourceTables returns the full set of extractable tables in a stable order.
func SourceTables() []string {
	return []string{TableCustomers, TableProducts, TableOrders}
}

// Customer is a row in the transactional customers table.
type Customer struct {
	ID    int64
	Name  string
	Email string
	City  string
}

// Product is a row in the transactional products table. Price is the catalog
// price at extraction time, not the transaction-time price.
type Product struct {
	ID       int64
	Name     string
	Category string
	Price    float64
}

// Order is a row in the transactional orders table. Total is a precomputed
// monetary amount; the pipeline never recomputes it.
type Order struct {
	ID         int64
	CustomerID int64
	ProductID  int64
	Date       time.Time
	Quantity   int64
	Total      float64
}
