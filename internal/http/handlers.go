package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/dsjohal14/catcount/internal/count"
	"github.com/dsjohal14/catcount/internal/scope/db"
	"github.com/rs/zerolog"
)

// Handler contains HTTP handlers for the API
type Handler struct {
	endpoint *count.Endpoint
	backend  string
	indexer  db.Indexer // nil when the backend is not writable
	logger   zerolog.Logger
}

// NewHandler creates a new HTTP handler. indexer may be nil.
func NewHandler(endpoint *count.Endpoint, backend string, indexer db.Indexer, logger zerolog.Logger) *Handler {
	return &Handler{
		endpoint: endpoint,
		backend:  backend,
		indexer:  indexer,
		logger:   logger,
	}
}

// Helper functions used across all handlers

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response with the given status code
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorBody{
		Error:  message,
		Status: status,
	})
}
