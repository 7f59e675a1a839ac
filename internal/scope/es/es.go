// Package es counts documents through the Elasticsearch _count API.
package es

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/dsjohal14/catcount/internal/count"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/rs/zerolog"
)

// Counter implements count.Counter on an Elasticsearch cluster
type Counter struct {
	es     *elasticsearch.Client
	logger zerolog.Logger
}

// NewClient creates an Elasticsearch client for the given node addresses
func NewClient(addresses []string) (*elasticsearch.Client, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: addresses})
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}
	return client, nil
}

// NewCounter creates a Counter using client
func NewCounter(client *elasticsearch.Client, logger zerolog.Logger) *Counter {
	return &Counter{es: client, logger: logger}
}

type countResponse struct {
	Count  int64 `json:"count"`
	Shards struct {
		Total      int `json:"total"`
		Successful int `json:"successful"`
		Failed     int `json:"failed"`
	} `json:"_shards"`
}

// Count runs a _count request. Backend error replies become *count.StatusError
// carrying the backend's status code.
func (c *Counter) Count(ctx context.Context, q count.CountQuery) (int64, error) {
	opts := []func(*esapi.CountRequest){
		c.es.Count.WithContext(ctx),
	}
	if len(q.IndexPatterns) > 0 {
		opts = append(opts, c.es.Count.WithIndex(q.IndexPatterns...))
	}
	if body := q.RequestBody(); body != nil {
		opts = append(opts, c.es.Count.WithBody(bytes.NewReader(body)))
	}

	res, err := c.es.Count(opts...)
	if err != nil {
		return 0, fmt.Errorf("failed to execute count: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return 0, count.NewStatusError(res.StatusCode, "elasticsearch count failed", errors.New(errorReason(res.Body, res.Status())))
	}

	var resp countResponse
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		return 0, fmt.Errorf("failed to decode count response: %w", err)
	}

	if resp.Shards.Failed > 0 {
		c.logger.Warn().
			Int("failed_shards", resp.Shards.Failed).
			Int("total_shards", resp.Shards.Total).
			Msg("count ran with shard failures")
	}

	return resp.Count, nil
}

// errorReason extracts error.reason from an error body, falling back to status
func errorReason(body io.Reader, status string) string {
	var e struct {
		Error json.RawMessage `json:"error"`
	}
	raw, err := io.ReadAll(io.LimitReader(body, 64*1024))
	if err != nil || json.Unmarshal(raw, &e) != nil || len(e.Error) == 0 {
		if len(bytes.TrimSpace(raw)) > 0 {
			return string(bytes.TrimSpace(raw))
		}
		return status
	}

	var detail struct {
		Type   string `json:"type"`
		Reason string `json:"reason"`
	}
	if json.Unmarshal(e.Error, &detail) == nil && detail.Reason != "" {
		if detail.Type != "" {
			return detail.Type + ": " + detail.Reason
		}
		return detail.Reason
	}

	var s string
	if json.Unmarshal(e.Error, &s) == nil && s != "" {
		return s
	}
	return status
}

var _ count.Counter = (*Counter)(nil)

