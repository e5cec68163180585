package api

import (
	"encoding/json"
	"net/http"

	"semql/internal/domain"
)

// compiled bundles the parsed inputs of one request.
type compiled struct {
	layer *domain.SemanticLayer
	query *domain.Query
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"code":    status,
		"message": message,
	})
}

func writeDomainError(w http.ResponseWriter, err error) {
	writeError(w, httpStatusFromDomainError(err), err.Error())
}
