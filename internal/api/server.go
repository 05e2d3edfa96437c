// Package api serves the analytics dashboard: a small JSON API over the
// warehouse star schema.
package api

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"sales-dwh/internal/db"
)

// Server answers dashboard queries against a read-only warehouse connection.
// The connection is swapped after each rebuild because the warehouse file is
// replaced wholesale by the transform stage.
type Server struct {
	warehousePath string
	logger        *slog.Logger

	mu        sync.RWMutex
	warehouse *sql.DB
}

// NewServer opens the warehouse read-only. The warehouse file must already
// exist; run the transform stage first.
func NewServer(warehousePath string, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	conn, err := db.OpenDuckDBReadOnly(warehousePath)
	if err != nil {
		return nil, fmt.Errorf("open warehouse: %w", err)
	}
	return &Server{
		warehousePath: warehousePath,
		logger:        logger.With("component", "api"),
		warehouse:     conn,
	}, nil
}

// Reopen swaps the read-only connection for a fresh one. Called after a
// rebuild replaces the warehouse file underneath us.
func (s *Server) Reopen() error {
	conn, err := db.OpenDuckDBReadOnly(s.warehousePath)
	if err != nil {
		return fmt.Errorf("reopen warehouse: %w", err)
	}

	s.mu.Lock()
	old := s.warehouse
	s.warehouse = conn
	s.mu.Unlock()

	if old != nil {
		if err := old.Close(); err != nil {
			s.logger.Warn("closing stale warehouse connection", "error", err)
		}
	}
	return nil
}

// Close releases the warehouse connection.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.warehouse == nil {
		return nil
	}
	err := s.warehouse.Close()
	s.warehouse = nil
	return err
}

func (s *Server) conn() *sql.DB {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.warehouse
}

// Router builds the chi router for the dashboard endpoints.
func (s *Server) Router(allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.handleHealthz)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/sales/by-category", s.handleSalesByCategory)
		r.Get("/sales/monthly", s.handleMonthlySales)
		r.Get("/customers/top", s.handleTopCustomers)
	})
	return r
}
