// Package warehouse executes compiled SQL against the configured warehouse
// and returns structured rows. It is the only blocking/I/O boundary: the
// compiler never calls it, it only produces input for it.
package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Supported driver names. The drivers themselves are blank-imported by the
// binaries so this package stays driver-agnostic.
const (
	DriverDuckDB   = "duckdb"
	DriverBigQuery = "bigquery"
)

// Config selects and connects the warehouse driver.
type Config struct {
	// Driver is the database/sql driver name ("duckdb" or "bigquery").
	Driver string
	// DSN is the driver connection string. For bigquery the project and
	// default dataset are part of the DSN
	// (bigquery://<project>/<location>/<dataset>).
	DSN string
	// DefaultDataset is applied at open time for drivers with a USE
	// statement (duckdb). Ignored for bigquery, where the dataset lives in
	// the DSN.
	DefaultDataset string
}

// Result holds the structured output of a warehouse query.
type Result struct {
	Columns  []string
	Rows     [][]interface{}
	RowCount int
}

// Client wraps a *sql.DB for query execution.
type Client struct {
	db *sql.DB
}

// Open connects to the warehouse described by cfg and verifies the
// connection.
func Open(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.Driver == "" {
		return nil, fmt.Errorf("warehouse driver is required")
	}

	db, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open warehouse (%s): %w", cfg.Driver, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping warehouse (%s): %w", cfg.Driver, err)
	}

	if cfg.DefaultDataset != "" && cfg.Driver == DriverDuckDB {
		if _, err := db.ExecContext(ctx, "USE "+cfg.DefaultDataset); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("use dataset %s: %w", cfg.DefaultDataset, err)
		}
	}

	return &Client{db: db}, nil
}

// NewClient wraps an already-open *sql.DB.
func NewClient(db *sql.DB) *Client {
	return &Client{db: db}
}

// Close releases the underlying connection pool.
func (c *Client) Close() error {
	return c.db.Close()
}

// Execute runs a SQL query and returns structured results.
func (c *Client) Execute(ctx context.Context, sqlQuery string) (*Result, error) {
	if strings.TrimSpace(sqlQuery) == "" {
		return nil, fmt.Errorf("sql query is required")
	}

	rows, err := c.db.QueryContext(ctx, sqlQuery)
	if err != nil {
		return nil, fmt.Errorf("execute query: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	return scanRows(rows)
}

func scanRows(rows *sql.Rows) (*Result, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var resultRows [][]interface{}
	for rows.Next() {
		vals := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		// Convert byte slices to strings for JSON serialization
		row := make([]interface{}, len(vals))
		for i, v := range vals {
			if b, ok := v.([]byte); ok {
				row[i] = string(b)
			} else {
				row[i] = v
			}
		}
		resultRows = append(resultRows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &Result{
		Columns:  cols,
		Rows:     resultRows,
		RowCount: len(resultRows),
	}, nil
}
