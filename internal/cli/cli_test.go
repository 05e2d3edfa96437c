package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales-dwh/internal/db"
)

// runCommand executes the root command with the given args, capturing output.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var buf bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// setPipelineEnv points every pipeline path at a temp directory.
func setPipelineEnv(t *testing.T) (oltpPath, warehousePath string) {
	t.Helper()

	dir := t.TempDir()
	oltpPath = filepath.Join(dir, "sales_oltp.sqlite")
	warehousePath = filepath.Join(dir, "analytics.duckdb")
	t.Setenv("OLTP_DB_PATH", oltpPath)
	t.Setenv("LAKE_PATH", filepath.Join(dir, "raw"))
	t.Setenv("WAREHOUSE_DB_PATH", warehousePath)
	t.Setenv("DWH_CONFIG", "")
	t.Setenv("LOG_LEVEL", "error")
	return oltpPath, warehousePath
}

func TestVersionCommand(t *testing.T) {
	_, err := runCommand(t, "version")
	require.NoError(t, err)
}

func TestUnknownCommand(t *testing.T) {
	_, err := runCommand(t, "does-not-exist")
	require.Error(t, err)
}

func TestSeedExtractTransformBench(t *testing.T) {
	oltpPath, warehousePath := setPipelineEnv(t)

	_, err := runCommand(t, "seed", "--customers", "10", "--products", "4", "--orders", "100", "--seed", "3")
	require.NoError(t, err)

	store, err := db.OpenSQLite(oltpPath, "read", 1)
	require.NoError(t, err)
	var orders int
	require.NoError(t, store.QueryRow("SELECT count(*) FROM orders").Scan(&orders))
	require.NoError(t, store.Close())
	assert.Equal(t, 100, orders)

	_, err = runCommand(t, "extract", "--workers", "2")
	require.NoError(t, err)

	_, err = runCommand(t, "transform")
	require.NoError(t, err)

	dest, err := db.OpenDuckDBReadOnly(warehousePath)
	require.NoError(t, err)
	var facts int
	require.NoError(t, dest.QueryRow("SELECT count(*) FROM fact_sales").Scan(&facts))
	require.NoError(t, dest.Close())
	assert.Equal(t, 100, facts)

	_, err = runCommand(t, "bench")
	require.NoError(t, err)
}

func TestTransformWithoutSnapshots(t *testing.T) {
	setPipelineEnv(t)

	_, err := runCommand(t, "transform")
	require.Error(t, err)
}
