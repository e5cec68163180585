// Package api exposes the semantic-layer compiler over HTTP.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"semql/internal/compile"
	"semql/internal/service/semantic"
)

// Handler serves the /v1 API.
type Handler struct {
	svc    *semantic.Service
	logger *slog.Logger
}

// NewHandler creates a Handler around the semantic query service.
func NewHandler(svc *semantic.Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{svc: svc, logger: logger}
}

// Routes returns the /v1 route tree.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/compile", h.compileQuery)
	r.Post("/query", h.runQuery)
	r.Get("/history", h.listHistory)
	return r
}

// compileRequest carries a semantic layer and a query in one document.
type compileRequest struct {
	SemanticLayer json.RawMessage `json:"semantic_layer"`
	Query         json.RawMessage `json:"query"`
	MaxRows       int             `json:"max_rows,omitempty"`
}

func (h *Handler) parseRequest(w http.ResponseWriter, r *http.Request) (*compileRequest, *compiled, bool) {
	var req compileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return nil, nil, false
	}
	if len(req.SemanticLayer) == 0 {
		writeError(w, http.StatusBadRequest, "semantic_layer is required")
		return nil, nil, false
	}
	if len(req.Query) == 0 {
		writeError(w, http.StatusBadRequest, "query is required")
		return nil, nil, false
	}

	layer, err := compile.ParseLayerJSON(req.SemanticLayer)
	if err != nil {
		writeDomainError(w, err)
		return nil, nil, false
	}
	query, err := compile.ParseQueryJSON(req.Query)
	if err != nil {
		writeDomainError(w, err)
		return nil, nil, false
	}
	return &req, &compiled{layer: layer, query: query}, true
}

func (h *Handler) compileQuery(w http.ResponseWriter, r *http.Request) {
	_, c, ok := h.parseRequest(w, r)
	if !ok {
		return
	}

	plan, err := h.svc.Explain(c.layer, c.query)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

// queryResponse is the execution payload: the plan plus a bounded row
// preview.
type queryResponse struct {
	SQL      string          `json:"sql"`
	Columns  []string        `json:"columns"`
	Rows     [][]interface{} `json:"rows"`
	RowCount int             `json:"row_count"`
}

func (h *Handler) runQuery(w http.ResponseWriter, r *http.Request) {
	req, c, ok := h.parseRequest(w, r)
	if !ok {
		return
	}

	result, err := h.svc.Run(r.Context(), c.layer, c.query)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	rows := result.Result.Rows
	if req.MaxRows > 0 && len(rows) > req.MaxRows {
		rows = rows[:req.MaxRows]
	}
	writeJSON(w, http.StatusOK, queryResponse{
		SQL:      result.Plan.SQL,
		Columns:  result.Result.Columns,
		Rows:     rows,
		RowCount: result.Result.RowCount,
	})
}

type historyEntry struct {
	ID           string  `json:"id"`
	SQL          string  `json:"sql"`
	Status       string  `json:"status"`
	ErrorMessage *string `json:"error_message,omitempty"`
	DurationMs   int64   `json:"duration_ms"`
	RowsReturned *int64  `json:"rows_returned,omitempty"`
	CreatedAt    string  `json:"created_at"`
}

func (h *Handler) listHistory(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	entries, err := h.svc.History(r.Context(), limit)
	if err != nil {
		h.logger.Error("list history", "error", err)
		writeError(w, http.StatusInternalServerError, "could not list history")
		return
	}

	out := make([]historyEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, historyEntry{
			ID:           e.ID,
			SQL:          e.SQL,
			Status:       e.Status,
			ErrorMessage: e.ErrorMessage,
			DurationMs:   e.DurationMs,
			RowsReturned: e.RowsReturned,
			CreatedAt:    e.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"entries": out})
}
