package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/dsjohal14/catcount/internal/scope/db"
)

// HandleIngest adds a document to the local store so it can be counted
func (h *Handler) HandleIngest(w http.ResponseWriter, r *http.Request) {
	if h.indexer == nil {
		writeError(w, http.StatusNotImplemented, "backend "+h.backend+" does not accept documents")
		return
	}

	var req IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn().Err(err).Msg("invalid ingest request")
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if req.ID == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}
	if req.Index == "" {
		writeError(w, http.StatusBadRequest, "index is required")
		return
	}
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now()
	}

	doc := db.Document{
		ID:        req.ID,
		Index:     req.Index,
		Fields:    req.Fields,
		CreatedAt: req.CreatedAt,
	}

	if err := h.indexer.Add(doc); err != nil {
		h.logger.Error().Err(err).Str("doc_id", req.ID).Msg("failed to store document")
		writeError(w, http.StatusInternalServerError, "failed to store document")
		return
	}
	if err := h.indexer.Flush(); err != nil {
		// the document is counted from memory; persistence is retried on the next flush
		h.logger.Warn().Err(err).Str("doc_id", req.ID).Msg("failed to flush store")
	}

	h.logger.Info().
		Str("doc_id", req.ID).
		Str("index", req.Index).
		Msg("document ingested")

	writeJSON(w, http.StatusOK, IngestResponse{
		ID:      req.ID,
		Index:   req.Index,
		Success: true,
		Message: "document ingested successfully",
	})
}
