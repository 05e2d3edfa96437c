// Package config handles application configuration and environment loading.
package config

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the configuration for the pipeline, the dashboard server, and
// the benchmark. Values are resolved file-then-environment: an optional YAML
// config file provides defaults, environment variables override it.
type Config struct {
	OLTPDBPath      string `yaml:"oltp_db_path"`      // path to the SQLite transactional store
	LakePath        string `yaml:"lake_path"`         // directory holding parquet snapshots
	WarehouseDBPath string `yaml:"warehouse_db_path"` // path to the DuckDB analytical store
	ListenAddr      string `yaml:"listen_addr"`       // dashboard HTTP listen address (default ":8080")
	LogLevel        string `yaml:"log_level"`         // log level: debug, info, warn, error (default "info")
	RefreshCron     string `yaml:"refresh_cron"`      // optional cron spec for scheduled rebuilds in serve mode

	// ExtractWorkers bounds parallel per-table extraction. 1 (the default)
	// keeps extraction strictly sequential.
	ExtractWorkers int `yaml:"extract_workers"`

	// CORSAllowedOrigins lists origins allowed to call the dashboard API.
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`

	// Warnings collects non-fatal warnings generated during config loading.
	// These are logged by the caller after the logger is initialised.
	Warnings []string `yaml:"-"`
}

// SlogLevel maps the LogLevel string to an slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Load resolves the full configuration: the YAML file named by DWH_CONFIG
// (if set and present), then environment variables on top, then defaults.
func Load() (*Config, error) {
	cfg := &Config{}

	if path := os.Getenv("DWH_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if cfg.ExtractWorkers < 1 {
		return nil, fmt.Errorf("extract_workers must be at least 1, got %d", cfg.ExtractWorkers)
	}
	return cfg, nil
}

// loadFile reads a YAML config file into the receiver.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // path is caller-controlled
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

// applyEnv overrides fields from environment variables.
func (c *Config) applyEnv() {
	if v := os.Getenv("OLTP_DB_PATH"); v != "" {
		c.OLTPDBPath = v
	}
	if v := os.Getenv("LAKE_PATH"); v != "" {
		c.LakePath = v
	}
	if v := os.Getenv("WAREHOUSE_DB_PATH"); v != "" {
		c.WarehouseDBPath = v
	}
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		c.ListenAddr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("REFRESH_CRON"); v != "" {
		c.RefreshCron = v
	}
	if v := os.Getenv("EXTRACT_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.ExtractWorkers = n
		} else {
			c.Warnings = append(c.Warnings, fmt.Sprintf("EXTRACT_WORKERS=%q is not an integer, ignoring", v))
		}
	}
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		origins := strings.Split(v, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		c.CORSAllowedOrigins = compactNonEmpty(origins)
	}
}

// applyDefaults fills any fields still unset.
func (c *Config) applyDefaults() {
	if c.OLTPDBPath == "" {
		c.OLTPDBPath = "sales_oltp.sqlite"
	}
	if c.LakePath == "" {
		c.LakePath = "data_lake/raw"
	}
	if c.WarehouseDBPath == "" {
		c.WarehouseDBPath = "analytics.duckdb"
	}
	if c.ListenAddr == "" {
		c.ListenAddr = ":8080"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.ExtractWorkers == 0 {
		c.ExtractWorkers = 1
	}
	if len(c.CORSAllowedOrigins) == 0 {
		c.CORSAllowedOrigins = []string{"*"}
	}
}

func compactNonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// LoadDotEnv reads a .env file and sets any variables not already in the environment.
// Lines must be in KEY=VALUE format. Comments (#) and blank lines are skipped.
func LoadDotEnv(path string) error {
	f, err := os.Open(path) //nolint:gosec // path is caller-controlled
	if err != nil {
		if os.IsNotExist(err) {
			return nil // .env not found is not an error
		}
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = stripQuotes(strings.TrimSpace(value))
		// Only set if not already in the environment (env vars take precedence)
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("setenv %s: %w", key, err)
			}
		}
	}
	return scanner.Err()
}

// stripQuotes removes surrounding double or single quotes from a value.
// Only strips if both the first and last characters are matching quotes.
func stripQuotes(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
