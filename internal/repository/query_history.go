// Package repository implements SQLite-backed storage for query history.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"semql/internal/domain"
)

// QueryHistoryRepo persists executed-query records.
type QueryHistoryRepo struct {
	db *sql.DB
}

// NewQueryHistoryRepo creates a QueryHistoryRepo.
func NewQueryHistoryRepo(db *sql.DB) *QueryHistoryRepo {
	return &QueryHistoryRepo{db: db}
}

// Insert stores entry, assigning an ID and timestamp when absent.
func (r *QueryHistoryRepo) Insert(ctx context.Context, entry *domain.QueryHistoryEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO query_history (id, sql_text, status, error_message, duration_ms, rows_returned, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.SQL, entry.Status, entry.ErrorMessage,
		entry.DurationMs, entry.RowsReturned, entry.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert query history: %w", err)
	}
	return nil
}

// ListRecent returns up to limit entries, newest first.
func (r *QueryHistoryRepo) ListRecent(ctx context.Context, limit int) ([]domain.QueryHistoryEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, sql_text, status, error_message, duration_ms, rows_returned, created_at
		FROM query_history
		ORDER BY created_at DESC, id
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list query history: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var entries []domain.QueryHistoryEntry
	for rows.Next() {
		var (
			entry     domain.QueryHistoryEntry
			createdAt string
		)
		if err := rows.Scan(&entry.ID, &entry.SQL, &entry.Status, &entry.ErrorMessage,
			&entry.DurationMs, &entry.RowsReturned, &createdAt); err != nil {
			return nil, fmt.Errorf("scan query history: %w", err)
		}
		if ts, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			entry.CreatedAt = ts
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
