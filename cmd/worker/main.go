// Package main implements the background worker that samples document counts.
package main

import (
	"context"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dsjohal14/catcount/internal/cat"
	"github.com/dsjohal14/catcount/internal/count"
	"github.com/dsjohal14/catcount/internal/libs/config"
	"github.com/dsjohal14/catcount/internal/libs/obs"
	"github.com/dsjohal14/catcount/internal/scope"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	obs.InitLogger(cfg.LogLevel)
	logger := obs.Logger("worker")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backend, err := scope.Open(ctx, cfg, obs.Logger(cfg.CountBackend))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open count backend")
	}
	defer func() { _ = backend.Close() }()

	loc, _ := cfg.Location()
	endpoint := backend.Endpoint(loc, obs.Logger("count"))

	targets := cfg.WorkerIndices
	if len(targets) == 0 {
		targets = []string{""} // all indices
	}

	logger.Info().
		Strs("indices", cfg.WorkerIndices).
		Dur("interval", cfg.WorkerInterval).
		Msg("worker started")

	ticker := time.NewTicker(cfg.WorkerInterval)
	defer ticker.Stop()

	for {
		sample(ctx, endpoint, targets, logger)

		select {
		case <-ctx.Done():
			logger.Info().Msg("worker stopped")
			return
		case <-ticker.C:
		}
	}
}

func sample(ctx context.Context, endpoint *count.Endpoint, targets []string, logger zerolog.Logger) {
	for _, index := range targets {
		params := count.MapParams{}
		if index != "" {
			params["index"] = index
		}
		endpoint.Handle(ctx, count.Request{Params: params}, &logChannel{index: index, logger: logger})
	}
}

// logChannel logs each count row instead of sending it anywhere
type logChannel struct {
	index  string
	logger zerolog.Logger
}

func (c *logChannel) SendTable(t cat.Table) error {
	names := t.Names()
	for _, row := range t.Rows() {
		ev := c.logger.Info().Str("index", c.index)
		for i, cell := range row {
			ev = ev.Interface(names[i], cell)
		}
		ev.Msg("count sample")
	}
	return nil
}

func (c *logChannel) SendError(resp *count.ErrorResponse) error {
	c.logger.Warn().
		Str("index", c.index).
		Int("status", resp.Status).
		Str("causes", joinCauses(resp.Causes)).
		Msg(resp.Message())
	return nil
}

func joinCauses(causes []count.Cause) string {
	msgs := make([]string, len(causes))
	for i, c := range causes {
		msgs[i] = c.Message
	}
	return strings.Join(msgs, " <- ")
}
