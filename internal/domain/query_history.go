package domain

import "time"

const (
	QueryStatusOK    = "OK"
	QueryStatusError = "ERROR"
)

// QueryHistoryEntry records one executed semantic query.
type QueryHistoryEntry struct {
	ID           string
	SQL          string
	Status       string
	ErrorMessage *string
	DurationMs   int64
	RowsReturned *int64
	CreatedAt    time.Time
}
