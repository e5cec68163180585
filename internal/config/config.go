// Package config handles application configuration and environment loading.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the configuration for the HTTP API, the warehouse connection,
// and the query-history store.
type Config struct {
	WarehouseDriver  string // database/sql driver name: "duckdb" (default) or "bigquery"
	WarehouseDSN     string // driver connection string (empty = in-memory duckdb)
	DefaultDataset   string // default dataset/catalog applied at connect time
	HistoryDBPath    string // path to the SQLite query-history file
	ListenAddr       string // HTTP listen address (default ":8080")
	LogLevel         string // log level: debug, info, warn, error (default "info")
	MaxPreviewRows   int    // rows shown in result previews (default 10)
	StrictDimensions bool   // turn unresolved-dimension omissions into errors

	// Rate limiting
	RateLimitRPS   float64 // sustained requests per second (default 100)
	RateLimitBurst int     // burst capacity (default 200)

	// CORS
	CORSAllowedOrigins []string // allowed origins (default: ["*"])
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

// LoadDotEnv loads a .env file into the environment when present. Variables
// already set in the environment take precedence.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil // .env not found is not an error
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// LoadFromEnv loads configuration from environment variables and applies
// defaults.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		WarehouseDriver: os.Getenv("WAREHOUSE_DRIVER"),
		WarehouseDSN:    os.Getenv("WAREHOUSE_DSN"),
		DefaultDataset:  os.Getenv("DEFAULT_DATASET"),
		HistoryDBPath:   os.Getenv("HISTORY_DB_PATH"),
		ListenAddr:      os.Getenv("LISTEN_ADDR"),
		LogLevel:        os.Getenv("LOG_LEVEL"),
	}

	if v := os.Getenv("MAX_PREVIEW_ROWS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("MAX_PREVIEW_ROWS must be a positive integer, got %q", v)
		}
		cfg.MaxPreviewRows = n
	}
	cfg.StrictDimensions = parseBoolEnvDefault("STRICT_DIMENSIONS", false)

	if v := os.Getenv("RATE_LIMIT_RPS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.RateLimitRPS = f
		}
	}
	if v := os.Getenv("RATE_LIMIT_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RateLimitBurst = n
		}
	}

	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		origins := strings.Split(v, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		cfg.CORSAllowedOrigins = origins
	}

	// Defaults
	if cfg.WarehouseDriver == "" {
		cfg.WarehouseDriver = "duckdb"
	}
	if cfg.HistoryDBPath == "" {
		cfg.HistoryDBPath = "semql_history.sqlite"
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.MaxPreviewRows == 0 {
		cfg.MaxPreviewRows = 10
	}
	if cfg.RateLimitRPS == 0 {
		cfg.RateLimitRPS = 100
	}
	if cfg.RateLimitBurst == 0 {
		cfg.RateLimitBurst = 200
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		cfg.CORSAllowedOrigins = []string{"*"}
	}

	if cfg.WarehouseDriver == "bigquery" && cfg.WarehouseDSN == "" {
		return nil, fmt.Errorf("WAREHOUSE_DSN is required when WAREHOUSE_DRIVER=bigquery")
	}

	return cfg, nil
}

func parseBoolEnvDefault(key string, defaultVal bool) bool {
	v := strings.TrimSpace(strings.ToLower(os.Getenv(key)))
	switch v {
	case "":
		return defaultVal
	case "0", "false", "no", "off":
		return false
	case "1", "true", "yes", "on":
		return true
	}
	return defaultVal
}
