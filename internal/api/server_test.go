package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internaldb "sales-dwh/internal/db"
	"sales-dwh/internal/lake"
	"sales-dwh/internal/warehouse"
)

var ctx = context.Background()

type fixture struct {
	extractor *lake.Extractor
	assembler *warehouse.Assembler
	server    *Server
	router    http.Handler
}

// newFixture builds a warehouse from three known orders and wires a server
// over it.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	oltp, sourcePath := internaldb.OpenTestSQLite(t)
	_, err := oltp.ExecContext(ctx, `
		INSERT INTO customers (id, name, email, city) VALUES
			(1, 'Ana', 'ana@example.com', 'Lisbon'),
			(2, 'Bruno', 'bruno@example.com', 'Porto');
		INSERT INTO products (id, name, category, price) VALUES
			(7, 'Collected Essays', 'Books', 20.0),
			(8, 'Desk Lamp', 'Home', 45.5);
		INSERT INTO orders (id, customer_id, product_id, date, quantity, total) VALUES
			(100, 1, 7, '2024-03-02', 2, 40.0),
			(101, 2, 8, '2024-04-04', 1, 45.5),
			(102, 1, 7, '2024-03-02', 1, 20.0);
	`)
	require.NoError(t, err)

	dir := t.TempDir()
	lakePath := filepath.Join(dir, "lake")
	destPath := filepath.Join(dir, "analytics.duckdb")

	extractor := lake.NewExtractor(sourcePath, lakePath, 1, nil)
	assembler := warehouse.NewAssembler(lakePath, destPath, nil)

	_, err = extractor.ExtractAll(ctx)
	require.NoError(t, err)
	_, err = assembler.Rebuild(ctx)
	require.NoError(t, err)

	server, err := NewServer(destPath, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = server.Close() })

	return &fixture{
		extractor: extractor,
		assembler: assembler,
		server:    server,
		router:    server.Router([]string{"*"}),
	}
}

func (f *fixture) get(t *testing.T, path string, out any) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	if out != nil && rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
	}
	return rec
}

func TestHealthz(t *testing.T) {
	f := newFixture(t)

	var body map[string]string
	rec := f.get(t, "/healthz", &body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestSalesByCategory(t *testing.T) {
	f := newFixture(t)

	var got []CategorySales
	rec := f.get(t, "/v1/sales/by-category", &got)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, got, 2)

	// Books: orders 100 and 102, 60.0 across 3 units. Home: order 101.
	assert.Equal(t, "Books", got[0].Category)
	assert.InDelta(t, 60.0, got[0].Revenue, 0.001)
	assert.EqualValues(t, 3, got[0].Units)
	assert.Equal(t, "Home", got[1].Category)
	assert.InDelta(t, 45.5, got[1].Revenue, 0.001)
}

func TestTopCustomers(t *testing.T) {
	f := newFixture(t)

	var got []TopCustomer
	rec := f.get(t, "/v1/customers/top", &got)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, got, 2)

	assert.Equal(t, "Ana", got[0].Name)
	assert.Equal(t, "Lisbon", got[0].City)
	assert.EqualValues(t, 2, got[0].Orders)
	assert.InDelta(t, 60.0, got[0].Revenue, 0.001)

	var one []TopCustomer
	rec = f.get(t, "/v1/customers/top?n=1", &one)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, one, 1)
	assert.Equal(t, "Ana", one[0].Name)
}

func TestTopCustomersBadN(t *testing.T) {
	f := newFixture(t)

	for _, n := range []string{"0", "-3", "101", "abc"} {
		rec := f.get(t, "/v1/customers/top?n="+n, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "n=%s", n)
	}
}

func TestMonthlySales(t *testing.T) {
	f := newFixture(t)

	var got []MonthlySales
	rec := f.get(t, "/v1/sales/monthly", &got)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, got, 2)

	assert.Equal(t, 2024, got[0].Year)
	assert.Equal(t, 3, got[0].Month)
	assert.InDelta(t, 60.0, got[0].Revenue, 0.001)
	assert.Equal(t, 4, got[1].Month)
	assert.InDelta(t, 45.5, got[1].Revenue, 0.001)
}

func TestRefreshReopensWarehouse(t *testing.T) {
	f := newFixture(t)

	refresher, err := NewRefresher("@hourly", f.extractor, f.assembler, f.server, nil)
	require.NoError(t, err)

	// A manual refresh swaps the file under the server; queries keep working.
	require.NoError(t, refresher.Refresh(ctx))

	var got []CategorySales
	rec := f.get(t, "/v1/sales/by-category", &got)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, got, 2)
}

func TestNewRefresherBadSchedule(t *testing.T) {
	f := newFixture(t)

	_, err := NewRefresher("not a schedule", f.extractor, f.assembler, f.server, nil)
	require.Error(t, err)
}
