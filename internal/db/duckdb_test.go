package db

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Both drivers must register as a side effect of importing this package, so
// callers never need their own blank imports.
func TestDriversRegistered(t *testing.T) {
	drivers := sql.Drivers()
	assert.Contains(t, drivers, "sqlite3")
	assert.Contains(t, drivers, "duckdb")
}

func TestOpenDuckDB_InMemory(t *testing.T) {
	conn, err := OpenDuckDB("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	var one int
	require.NoError(t, conn.QueryRow("SELECT 1").Scan(&one))
	assert.Equal(t, 1, one)
}

func TestOpenDuckDBReadOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.duckdb")

	rw, err := OpenDuckDB(path)
	require.NoError(t, err)
	_, err = rw.Exec("CREATE TABLE t (x INTEGER)")
	require.NoError(t, err)
	require.NoError(t, rw.Close())

	ro, err := OpenDuckDBReadOnly(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ro.Close() })

	var n int
	require.NoError(t, ro.QueryRow("SELECT count(*) FROM t").Scan(&n))
	assert.Equal(t, 0, n)

	_, err = ro.Exec("INSERT INTO t VALUES (1)")
	require.Error(t, err)
}
