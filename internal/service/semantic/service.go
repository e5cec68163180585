// Package semantic orchestrates compilation and execution of metric queries.
package semantic

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"semql/internal/compile"
	"semql/internal/domain"
	"semql/internal/warehouse"
)

// Executor runs compiled SQL against the warehouse.
type Executor interface {
	Execute(ctx context.Context, sqlQuery string) (*warehouse.Result, error)
}

// HistoryStore records executed queries.
type HistoryStore interface {
	Insert(ctx context.Context, entry *domain.QueryHistoryEntry) error
	ListRecent(ctx context.Context, limit int) ([]domain.QueryHistoryEntry, error)
}

// QueryPlan captures the compiler output for one request.
type QueryPlan struct {
	SQL        string   `json:"sql"`
	Tables     []string `json:"tables"`
	Metrics    []string `json:"metrics"`
	Dimensions []string `json:"dimensions,omitempty"`
}

// RunResult wraps execution output and the generated plan.
type RunResult struct {
	Plan   QueryPlan
	Result *warehouse.Result
}

// Service compiles semantic queries and optionally executes them.
type Service struct {
	exec    Executor
	history HistoryStore
	opts    compile.Options
	logger  *slog.Logger
}

// NewService creates a Service. exec and history may be nil for compile-only
// use; Run then fails and history recording is skipped.
func NewService(exec Executor, history HistoryStore, opts compile.Options, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{exec: exec, history: history, opts: opts, logger: logger}
}

// Explain compiles the query against the layer without executing it.
func (s *Service) Explain(layer *domain.SemanticLayer, query *domain.Query) (*QueryPlan, error) {
	result, err := compile.Compile(layer, query, s.opts)
	if err != nil {
		return nil, err
	}
	return &QueryPlan{
		SQL:        result.SQL,
		Tables:     result.Tables,
		Metrics:    query.Metrics,
		Dimensions: query.Dimensions,
	}, nil
}

// Run compiles and executes the query, recording a history entry.
func (s *Service) Run(ctx context.Context, layer *domain.SemanticLayer, query *domain.Query) (*RunResult, error) {
	if s.exec == nil {
		return nil, fmt.Errorf("warehouse executor is not configured")
	}

	plan, err := s.Explain(layer, query)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result, err := s.exec.Execute(ctx, plan.SQL)
	duration := time.Since(start).Milliseconds()

	if err != nil {
		s.record(ctx, plan.SQL, domain.QueryStatusError, err.Error(), duration, nil)
		return nil, err
	}

	rowCount := int64(result.RowCount)
	s.record(ctx, plan.SQL, domain.QueryStatusOK, "", duration, &rowCount)

	return &RunResult{Plan: *plan, Result: result}, nil
}

// History lists recent executed queries, newest first.
func (s *Service) History(ctx context.Context, limit int) ([]domain.QueryHistoryEntry, error) {
	if s.history == nil {
		return nil, nil
	}
	return s.history.ListRecent(ctx, limit)
}

// record stores a history entry. Best-effort: failures are logged, not
// propagated.
func (s *Service) record(ctx context.Context, sqlText, status, errMsg string, durationMs int64, rows *int64) {
	if s.history == nil {
		return
	}
	entry := &domain.QueryHistoryEntry{
		SQL:          sqlText,
		Status:       status,
		DurationMs:   durationMs,
		RowsReturned: rows,
	}
	if errMsg != "" {
		entry.ErrorMessage = &errMsg
	}
	if err := s.history.Insert(ctx, entry); err != nil {
		s.logger.Warn("record query history", "error", err)
	}
}
