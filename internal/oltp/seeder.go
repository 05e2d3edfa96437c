// Package oltp seeds the transactional store with synthetic sales data.
// It is an upstream collaborator of the pipeline: the extractor only ever
// reads what this package writes.
package oltp

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"time"

	"sales-dwh/internal/domain"
)

// Options controls the size and determinism of a seeding run.
type Options struct {
	Customers int
	Products  int
	Orders    int
	Seed      int64 // same seed, same data
}

// DefaultOptions mirrors the scale of the reference dataset.
func DefaultOptions() Options {
	return Options{
		Customers: 1000,
		Products:  50,
		Orders:    100000,
		Seed:      1,
	}
}

// insertBatchSize bounds the rows per transaction when seeding orders.
const insertBatchSize = 10000

var (
	firstNames = []string{
		"Ana", "Bruno", "Carla", "Diego", "Elena", "Fabio", "Gabriela",
		"Hugo", "Ines", "Joao", "Karin", "Lucas", "Marina", "Nuno",
		"Olivia", "Paulo", "Rita", "Sergio", "Tania", "Vitor",
	}
	lastNames = []string{
		"Almeida", "Barbosa", "Cardoso", "Dias", "Esteves", "Ferreira",
		"Gomes", "Henriques", "Lima", "Martins", "Nogueira", "Oliveira",
		"Pereira", "Ramos", "Silva", "Teixeira",
	}
	cities = []string{
		"Lisbon", "Porto", "Braga", "Coimbra", "Faro", "Aveiro",
		"Setubal", "Evora", "Viseu", "Funchal",
	}
	categories = []string{"Electronics", "Clothing", "Home", "Books", "Sports"}

	productAdjectives = []string{
		"Compact", "Deluxe", "Classic", "Modern", "Portable", "Premium",
		"Essential", "Durable", "Smart", "Basic",
	}
	productNouns = []string{
		"Lamp", "Backpack", "Notebook", "Speaker", "Bottle", "Chair",
		"Headset", "Jacket", "Blender", "Monitor", "Racket", "Kettle",
	}
)

// Seeder writes synthetic customers, products, and orders.
type Seeder struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSeeder creates a Seeder over a migrated transactional store.
func NewSeeder(db *sql.DB, logger *slog.Logger) *Seeder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{db: db, logger: logger.With("component", "seeder")}
}

// Run populates the store. Existing rows are removed first so a reseed is
// equivalent to a fresh seed.
func (s *Seeder) Run(ctx context.Context, opts Options) error {
	if opts.Customers < 1 || opts.Products < 1 || opts.Orders < 0 {
		return fmt.Errorf("invalid seed options: need at least 1 customer and 1 product")
	}
	rng := rand.New(rand.NewSource(opts.Seed)) //nolint:gosec // synthetic data, determinism wanted

	if err := s.clear(ctx); err != nil {
		return err
	}

	customers := generateCustomers(rng, opts.Customers)
	if err := s.insertCustomers(ctx, customers); err != nil {
		return err
	}
	s.logger.Info("customers seeded", "count", len(customers))

	products := generateProducts(rng, opts.Products)
	if err := s.insertProducts(ctx, products); err != nil {
		return err
	}
	s.logger.Info("products seeded", "count", len(products))

	orders := generateOrders(rng, opts, products)
	if err := s.insertOrders(ctx, orders); err != nil {
		return err
	}
	s.logger.Info("orders seeded", "count", len(orders))

	return nil
}

func (s *Seeder) clear(ctx context.Context) error {
	for _, stmt := range []string{
		"DELETE FROM orders",
		"DELETE FROM products",
		"DELETE FROM customers",
	} {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("clear store: %w", err)
		}
	}
	return nil
}

func generateCustomers(rng *rand.Rand, n int) []domain.Customer {
	customers := make([]domain.Customer, 0, n)
	for i := 1; i <= n; i++ {
		first := firstNames[rng.Intn(len(firstNames))]
		last := lastNames[rng.Intn(len(lastNames))]
		customers = append(customers, domain.Customer{
			ID:    int64(i),
			Name:  first + " " + last,
			Email: fmt.Sprintf("%s.%s.%d@example.com", strings.ToLower(first), strings.ToLower(last), i),
			City:  cities[rng.Intn(len(cities))],
		})
	}
	return customers
}

func generateProducts(rng *rand.Rand, n int) []domain.Product {
	products := make([]domain.Product, 0, n)
	for i := 1; i <= n; i++ {
		products = append(products, domain.Product{
			ID: int64(i),
			Name: productAdjectives[rng.Intn(len(productAdjectives))] + " " +
				productNouns[rng.Intn(len(productNouns))],
			Category: categories[rng.Intn(len(categories))],
			Price:    round2(10 + rng.Float64()*490),
		})
	}
	return products
}

// generateOrders derives each order's total from the referenced product's
// catalog price, so totals stay consistent without re-reading the store.
func generateOrders(rng *rand.Rand, opts Options, products []domain.Product) []domain.Order {
	today := time.Now().UTC().Truncate(24 * time.Hour)

	orders := make([]domain.Order, 0, opts.Orders)
	for i := 1; i <= opts.Orders; i++ {
		product := products[rng.Intn(len(products))]
		quantity := int64(1 + rng.Intn(5))
		orders = append(orders, domain.Order{
			ID:         int64(i),
			CustomerID: int64(1 + rng.Intn(opts.Customers)),
			ProductID:  product.ID,
			Date:       today.AddDate(0, 0, -rng.Intn(365)),
			Quantity:   quantity,
			Total:      round2(float64(quantity) * product.Price),
		})
	}
	return orders
}

func (s *Seeder) insertCustomers(ctx context.Context, customers []domain.Customer) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin customers tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO customers (id, name, email, city) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare customers insert: %w", err)
	}
	defer stmt.Close() //nolint:errcheck

	for _, c := range customers {
		if _, err := stmt.ExecContext(ctx, c.ID, c.Name, c.Email, c.City); err != nil {
			return fmt.Errorf("insert customer %d: %w", c.ID, err)
		}
	}
	return tx.Commit()
}

func (s *Seeder) insertProducts(ctx context.Context, products []domain.Product) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin products tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO products (id, name, category, price) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare products insert: %w", err)
	}
	defer stmt.Close() //nolint:errcheck

	for _, p := range products {
		if _, err := stmt.ExecContext(ctx, p.ID, p.Name, p.Category, p.Price); err != nil {
			return fmt.Errorf("insert product %d: %w", p.ID, err)
		}
	}
	return tx.Commit()
}

func (s *Seeder) insertOrders(ctx context.Context, orders []domain.Order) error {
	for start := 0; start < len(orders); start += insertBatchSize {
		end := start + insertBatchSize
		if end > len(orders) {
			end = len(orders)
		}

		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin orders tx: %w", err)
		}
		stmt, err := tx.PrepareContext(ctx,
			"INSERT INTO orders (id, customer_id, product_id, date, quantity, total) VALUES (?, ?, ?, ?, ?, ?)")
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("prepare orders insert: %w", err)
		}

		for _, o := range orders[start:end] {
			date := o.Date.Format("2006-01-02")
			if _, err := stmt.ExecContext(ctx, o.ID, o.CustomerID, o.ProductID, date, o.Quantity, o.Total); err != nil {
				_ = stmt.Close()
				_ = tx.Rollback()
				return fmt.Errorf("insert order %d: %w", o.ID, err)
			}
		}
		_ = stmt.Close()
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit orders batch: %w", err)
		}
	}
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
