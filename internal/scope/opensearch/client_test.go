package opensearch

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dsjohal14/catcount/internal/count"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCounterValidation(t *testing.T) {
	_, err := NewCounter(nil, zerolog.Nop())
	assert.Error(t, err)

	_, err = NewCounter(&Config{}, zerolog.Nop())
	assert.Error(t, err)

	cfg := &Config{Endpoint: "http://localhost:9200"}
	_, err = NewCounter(cfg, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.MaxRetries)
}

func TestCount(t *testing.T) {
	var path, body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		path, body = r.URL.Path, string(b)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"count":17,"_shards":{"total":1,"successful":1,"failed":0}}`)
	}))
	defer srv.Close()

	c, err := NewCounter(&Config{Endpoint: srv.URL}, zerolog.Nop())
	require.NoError(t, err)

	n, err := c.Count(context.Background(), count.CountQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(17), n)
	assert.Equal(t, "/_count", path)
	assert.Empty(t, body)

	q := count.CountQuery{
		IndexPatterns: []string{"logs-2024", "metrics-*"},
		SourceBody:    []byte(`{"term":{"level":"error"}}`),
		SourceKind:    count.SourceRaw,
	}
	_, err = c.Count(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, "/logs-2024,metrics-*/_count", path)
	assert.JSONEq(t, `{"query":{"term":{"level":"error"}}}`, body)
}

func TestCountError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":{"type":"parsing_exception","reason":"unknown query [nope]"},"status":400}`)
	}))
	defer srv.Close()

	c, err := NewCounter(&Config{Endpoint: srv.URL}, zerolog.Nop())
	require.NoError(t, err)

	_, err = c.Count(context.Background(), count.CountQuery{})
	var se *count.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusBadRequest, se.Status)
	assert.Contains(t, err.Error(), "unknown query [nope]")
}

func TestCountUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := NewCounter(&Config{Endpoint: url, MaxRetries: 1}, zerolog.Nop())
	require.NoError(t, err)

	_, err = c.Count(context.Background(), count.CountQuery{})
	require.Error(t, err)

	var se *count.StatusError
	assert.False(t, errors.As(err, &se))
	assert.Equal(t, http.StatusInternalServerError, count.StatusOf(err))
}
