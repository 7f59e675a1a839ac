// Package opensearch counts documents through the OpenSearch _count API.
package opensearch

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"time"

	"github.com/dsjohal14/catcount/internal/count"
	opensearch "github.com/opensearch-project/opensearch-go/v4"
	"github.com/opensearch-project/opensearch-go/v4/opensearchapi"
	"github.com/rs/zerolog"
)

// Config holds connection settings for the OpenSearch cluster
type Config struct {
	Endpoint        string
	Username        string
	Password        string
	InsecureSkipTLS bool
	RequestTimeout  time.Duration
	MaxRetries      int
}

// Counter implements count.Counter on an OpenSearch cluster
type Counter struct {
	client *opensearchapi.Client
	logger zerolog.Logger
}

// NewCounter validates cfg and creates a Counter
func NewCounter(cfg *Config, logger zerolog.Logger) (*Counter, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("endpoint is required")
	}

	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}

	transport := &http.Transport{
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: cfg.InsecureSkipTLS,
		},
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: cfg.RequestTimeout,
	}

	client, err := opensearchapi.NewClient(opensearchapi.Config{
		Client: opensearch.Config{
			Addresses:  []string{cfg.Endpoint},
			Username:   cfg.Username,
			Password:   cfg.Password,
			Transport:  transport,
			MaxRetries: cfg.MaxRetries,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenSearch client: %w", err)
	}

	return &Counter{client: client, logger: logger}, nil
}

// Count runs an indices count request. Replies with an error status become
// *count.StatusError carrying that status.
func (c *Counter) Count(ctx context.Context, q count.CountQuery) (int64, error) {
	req := &opensearchapi.IndicesCountReq{Indices: q.IndexPatterns}
	if body := q.RequestBody(); body != nil {
		req.Body = bytes.NewReader(body)
	}

	resp, err := c.client.Indices.Count(ctx, req)
	if err != nil {
		if status := statusOf(resp); status >= 300 {
			return 0, count.NewStatusError(status, "opensearch count failed", err)
		}
		return 0, fmt.Errorf("failed to execute count: %w", err)
	}

	if resp.Shards.Failed > 0 {
		c.logger.Warn().
			Int("failed_shards", resp.Shards.Failed).
			Int("total_shards", resp.Shards.Total).
			Msg("count ran with shard failures")
	}

	return int64(resp.Count), nil
}

// statusOf returns the HTTP status behind a count reply, or 0 when no reply arrived
func statusOf(resp *opensearchapi.IndicesCountResp) int {
	if resp == nil {
		return 0
	}
	if raw := resp.Inspect().Response; raw != nil {
		return raw.StatusCode
	}
	return 0
}

var _ count.Counter = (*Counter)(nil)
