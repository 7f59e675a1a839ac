// Package httpapi provides HTTP handlers and data transfer objects for the catcount API.
package httpapi

import (
	"time"

	"github.com/dsjohal14/catcount/internal/count"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status  string `json:"status"`
	Backend string `json:"backend"`
}

// IngestRequest adds one document to an index of the local store
type IngestRequest struct {
	ID        string         `json:"id"`
	Index     string         `json:"index"`
	Fields    map[string]any `json:"fields,omitempty"`
	CreatedAt time.Time      `json:"created_at,omitempty"` // Auto-set if not provided
}

// IngestResponse represents ingestion response
type IngestResponse struct {
	ID      string `json:"id"`
	Index   string `json:"index"`
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// ErrorBody is the error document written for failed requests
type ErrorBody struct {
	Error  string        `json:"error" yaml:"error"`
	Status int           `json:"status" yaml:"status"`
	Causes []count.Cause `json:"causes,omitempty" yaml:"causes,omitempty"`
}
