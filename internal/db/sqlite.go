// Package db provides SQLite connectivity and migration support for the
// query-history store.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"
)

// SQLite DSN parameters for safe concurrent access from one process.
const (
	busyTimeout = "5000" // milliseconds
	synchronous = "NORMAL"
	journalMode = "WAL"
)

// OpenSQLite opens a hardened *sql.DB pool for the given SQLite file path.
// WAL journal, busy_timeout, synchronous=NORMAL, and foreign_keys=on are
// always applied; writes are serialized through a single connection.
func OpenSQLite(path string) (*sql.DB, error) {
	params := url.Values{}
	params.Set("_busy_timeout", busyTimeout)
	params.Set("_journal_mode", journalMode)
	params.Set("_synchronous", synchronous)
	params.Set("_foreign_keys", "on")
	params.Set("_txlock", "immediate")

	db, err := sql.Open("sqlite3", "file:"+path+"?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return db, nil
}
