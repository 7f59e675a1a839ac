package httpapi

import "net/http"

// HandleHealth returns API health status and the active count backend
func (h *Handler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	h.logger.Debug().Str("backend", h.backend).Msg("health check")

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "healthy",
		Backend: h.backend,
	})
}
