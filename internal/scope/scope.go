// Package scope opens the counting service selected by configuration.
package scope

import (
	"context"
	"fmt"
	"time"

	"github.com/dsjohal14/catcount/internal/count"
	"github.com/dsjohal14/catcount/internal/libs/config"
	"github.com/dsjohal14/catcount/internal/libs/obs"
	"github.com/dsjohal14/catcount/internal/scope/db"
	"github.com/dsjohal14/catcount/internal/scope/es"
	"github.com/dsjohal14/catcount/internal/scope/opensearch"
	"github.com/rs/zerolog"
)

// Backend is an opened counting service
type Backend struct {
	Name    string
	Counter count.Counter
	// Indexer is nil unless the backend accepts documents directly
	Indexer db.Indexer
	closer  func() error
}

// Close releases the backend's resources
func (b *Backend) Close() error {
	if b.closer == nil {
		return nil
	}
	return b.closer()
}

// Endpoint builds a count endpoint on this backend. Timestamps render in loc
// and undeliverable error responses are logged through logger.
func (b *Backend) Endpoint(loc *time.Location, logger zerolog.Logger) *count.Endpoint {
	return count.NewEndpoint(
		count.NewParser(nil),
		count.NewDispatcher(b.Counter),
		count.NewTableBuilder(loc, nil),
		count.NewErrorTranslator(obs.NewFailureLog(logger)),
		logger,
	)
}

// Open connects to the backend named by cfg.CountBackend
func Open(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*Backend, error) {
	switch cfg.CountBackend {
	case config.BackendLocal, "":
		store, err := db.NewStore(cfg.DataDir)
		if err != nil {
			return nil, err
		}
		logger.Info().Str("data_dir", cfg.DataDir).Int("documents", store.Len()).Msg("local store opened")
		return &Backend{Name: config.BackendLocal, Counter: store, Indexer: store, closer: store.Close}, nil

	case config.BackendElasticsearch:
		client, err := es.NewClient(cfg.ElasticsearchURLs)
		if err != nil {
			return nil, err
		}
		logger.Info().Strs("addresses", cfg.ElasticsearchURLs).Msg("elasticsearch client created")
		return &Backend{Name: cfg.CountBackend, Counter: es.NewCounter(client, logger)}, nil

	case config.BackendOpenSearch:
		counter, err := opensearch.NewCounter(&opensearch.Config{
			Endpoint: cfg.OpenSearchURL,
			Username: cfg.OpenSearchUser,
			Password: cfg.OpenSearchPass,
		}, logger)
		if err != nil {
			return nil, err
		}
		logger.Info().Str("endpoint", cfg.OpenSearchURL).Msg("opensearch client created")
		return &Backend{Name: cfg.CountBackend, Counter: counter}, nil

	case config.BackendPostgres:
		database, err := db.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := database.EnsureSchema(ctx); err != nil {
			database.Close()
			return nil, err
		}
		logger.Info().Msg("postgres counter ready")
		return &Backend{
			Name:    cfg.CountBackend,
			Counter: database,
			closer: func() error {
				database.Close()
				return nil
			},
		}, nil

	default:
		return nil, fmt.Errorf("unknown count backend %q", cfg.CountBackend)
	}
}
