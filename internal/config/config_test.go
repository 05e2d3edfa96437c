package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load reads so tests are hermetic.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"DWH_CONFIG", "OLTP_DB_PATH", "LAKE_PATH", "WAREHOUSE_DB_PATH",
		"LISTEN_ADDR", "LOG_LEVEL", "REFRESH_CRON", "EXTRACT_WORKERS",
		"CORS_ALLOWED_ORIGINS",
	} {
		t.Setenv(key, "")
	}
	// t.Setenv with "" still leaves the var set; unset it outright.
	for _, key := range []string{"DWH_CONFIG"} {
		_ = os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sales_oltp.sqlite", cfg.OLTPDBPath)
	assert.Equal(t, "data_lake/raw", cfg.LakePath)
	assert.Equal(t, "analytics.duckdb", cfg.WarehouseDBPath)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 1, cfg.ExtractWorkers)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("OLTP_DB_PATH", "/tmp/oltp.sqlite")
	t.Setenv("LAKE_PATH", "/tmp/lake")
	t.Setenv("WAREHOUSE_DB_PATH", "/tmp/dwh.duckdb")
	t.Setenv("EXTRACT_WORKERS", "3")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.example, http://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/oltp.sqlite", cfg.OLTPDBPath)
	assert.Equal(t, "/tmp/lake", cfg.LakePath)
	assert.Equal(t, "/tmp/dwh.duckdb", cfg.WarehouseDBPath)
	assert.Equal(t, 3, cfg.ExtractWorkers)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.CORSAllowedOrigins)
}

func TestLoad_YAMLFileThenEnvPrecedence(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "dwh.yaml")
	yml := "oltp_db_path: /from/file/oltp.sqlite\nlake_path: /from/file/lake\nlog_level: debug\n"
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))

	t.Setenv("DWH_CONFIG", path)
	t.Setenv("LAKE_PATH", "/from/env/lake")

	cfg, err := Load()
	require.NoError(t, err)

	// File value survives where env is silent; env wins where both speak.
	assert.Equal(t, "/from/file/oltp.sqlite", cfg.OLTPDBPath)
	assert.Equal(t, "/from/env/lake", cfg.LakePath)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_MissingConfigFileFails(t *testing.T) {
	clearEnv(t)
	t.Setenv("DWH_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_InvalidExtractWorkers(t *testing.T) {
	clearEnv(t)
	t.Setenv("EXTRACT_WORKERS", "-2")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_BadExtractWorkersWarns(t *testing.T) {
	clearEnv(t)
	t.Setenv("EXTRACT_WORKERS", "lots")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.ExtractWorkers)
	assert.NotEmpty(t, cfg.Warnings)
}

func TestSlogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"nonsense", slog.LevelInfo},
	}
	for _, tt := range tests {
		cfg := &Config{LogLevel: tt.level}
		assert.Equal(t, tt.want, cfg.SlogLevel(), "level %q", tt.level)
	}
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "# comment\nDOTENV_TEST_KEY=hello\nDOTENV_QUOTED='world'\n\nnot-a-pair\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("DOTENV_TEST_KEY", "")
	_ = os.Unsetenv("DOTENV_TEST_KEY")
	t.Setenv("DOTENV_QUOTED", "")
	_ = os.Unsetenv("DOTENV_QUOTED")

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "hello", os.Getenv("DOTENV_TEST_KEY"))
	assert.Equal(t, "world", os.Getenv("DOTENV_QUOTED"))

	// Missing file is not an error.
	require.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "nope.env")))
}
