package api

import (
	"encoding/json"
	"net/http"
	"strconv"
)

const (
	defaultTopN = 10
	maxTopN     = 100
)

// CategorySales is revenue and units sold for one product category.
type CategorySales struct {
	Category string  `json:"category"`
	Revenue  float64 `json:"revenue"`
	Units    int64   `json:"units"`
}

// TopCustomer is one row of the top-customers ranking.
type TopCustomer struct {
	Name    string  `json:"name"`
	City    string  `json:"city"`
	Orders  int64   `json:"orders"`
	Revenue float64 `json:"revenue"`
}

// MonthlySales is aggregated revenue for one calendar month.
type MonthlySales struct {
	Year    int     `json:"year"`
	Month   int     `json:"month"`
	Revenue float64 `json:"revenue"`
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if err := s.conn().PingContext(r.Context()); err != nil {
		s.writeError(w, http.StatusServiceUnavailable, "warehouse unavailable")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSalesByCategory(w http.ResponseWriter, r *http.Request) {
	rows, err := s.conn().QueryContext(r.Context(), `
		SELECT p.category, SUM(f.amount) AS revenue, CAST(SUM(f.quantity) AS BIGINT) AS units
		FROM fact_sales f
		JOIN dim_product p ON f.product_key = p.product_key
		GROUP BY p.category
		ORDER BY revenue DESC`)
	if err != nil {
		s.queryError(w, "sales by category", err)
		return
	}
	defer rows.Close() //nolint:errcheck

	out := []CategorySales{}
	for rows.Next() {
		var cs CategorySales
		if err := rows.Scan(&cs.Category, &cs.Revenue, &cs.Units); err != nil {
			s.queryError(w, "sales by category", err)
			return
		}
		out = append(out, cs)
	}
	if err := rows.Err(); err != nil {
		s.queryError(w, "sales by category", err)
		return
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleTopCustomers(w http.ResponseWriter, r *http.Request) {
	n := defaultTopN
	if raw := r.URL.Query().Get("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxTopN {
			s.writeError(w, http.StatusBadRequest, "n must be an integer between 1 and 100")
			return
		}
		n = parsed
	}

	rows, err := s.conn().QueryContext(r.Context(), `
		SELECT c.name, c.city, COUNT(*) AS orders, SUM(f.amount) AS revenue
		FROM fact_sales f
		JOIN dim_customer c ON f.customer_key = c.customer_key
		GROUP BY c.customer_key, c.name, c.city
		ORDER BY revenue DESC
		LIMIT ?`, n)
	if err != nil {
		s.queryError(w, "top customers", err)
		return
	}
	defer rows.Close() //nolint:errcheck

	out := []TopCustomer{}
	for rows.Next() {
		var tc TopCustomer
		if err := rows.Scan(&tc.Name, &tc.City, &tc.Orders, &tc.Revenue); err != nil {
			s.queryError(w, "top customers", err)
			return
		}
		out = append(out, tc)
	}
	if err := rows.Err(); err != nil {
		s.queryError(w, "top customers", err)
		return
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleMonthlySales(w http.ResponseWriter, r *http.Request) {
	rows, err := s.conn().QueryContext(r.Context(), `
		SELECT t."year", t."month", SUM(f.amount) AS revenue
		FROM fact_sales f
		JOIN dim_time t ON f."date" = t."date"
		GROUP BY t."year", t."month"
		ORDER BY t."year", t."month"`)
	if err != nil {
		s.queryError(w, "monthly sales", err)
		return
	}
	defer rows.Close() //nolint:errcheck

	out := []MonthlySales{}
	for rows.Next() {
		var ms MonthlySales
		if err := rows.Scan(&ms.Year, &ms.Month, &ms.Revenue); err != nil {
			s.queryError(w, "monthly sales", err)
			return
		}
		out = append(out, ms)
	}
	if err := rows.Err(); err != nil {
		s.queryError(w, "monthly sales", err)
		return
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("encoding response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

func (s *Server) queryError(w http.ResponseWriter, op string, err error) {
	s.logger.Error("dashboard query failed", "op", op, "error", err)
	s.writeError(w, http.StatusInternalServerError, "query failed")
}
