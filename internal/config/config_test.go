package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "duckdb", cfg.WarehouseDriver)
	assert.Equal(t, "semql_history.sqlite", cfg.HistoryDBPath)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 10, cfg.MaxPreviewRows)
	assert.False(t, cfg.StrictDimensions)
	assert.Equal(t, 100.0, cfg.RateLimitRPS)
	assert.Equal(t, 200, cfg.RateLimitBurst)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("WAREHOUSE_DRIVER", "bigquery")
	t.Setenv("WAREHOUSE_DSN", "bigquery://proj/us/analytics")
	t.Setenv("MAX_PREVIEW_ROWS", "25")
	t.Setenv("STRICT_DIMENSIONS", "true")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "bigquery", cfg.WarehouseDriver)
	assert.Equal(t, 25, cfg.MaxPreviewRows)
	assert.True(t, cfg.StrictDimensions)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
}

func TestLoadFromEnv_BigQueryRequiresDSN(t *testing.T) {
	t.Setenv("WAREHOUSE_DRIVER", "bigquery")

	_, err := LoadFromEnv()
	require.Error(t, err)
}

func TestLoadFromEnv_RejectsBadPreviewRows(t *testing.T) {
	t.Setenv("MAX_PREVIEW_ROWS", "-3")

	_, err := LoadFromEnv()
	require.Error(t, err)
}

func TestLoadDotEnv_MissingFileIsNotAnError(t *testing.T) {
	require.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "absent.env")))
}

func TestLoadDotEnv_EnvironmentTakesPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("DEFAULT_DATASET=from_file\n"), 0o600))

	t.Setenv("DEFAULT_DATASET", "from_env")
	require.NoError(t, LoadDotEnv(path))

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "from_env", cfg.DefaultDataset)
}
