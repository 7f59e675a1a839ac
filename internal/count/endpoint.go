package count

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dsjohal14/catcount/internal/cat"
	"github.com/dsjohal14/catcount/internal/libs/obs"
	"github.com/rs/zerolog"
)

// State is where a request is in its lifecycle
type State int

const (
	Parsing State = iota
	Dispatched
	Responded
	FailedResponded
)

func (s State) String() string {
	switch s {
	case Parsing:
		return "parsing"
	case Dispatched:
		return "dispatched"
	case Responded:
		return "responded"
	case FailedResponded:
		return "failed_responded"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Terminal reports whether no further transitions can happen
func (s State) Terminal() bool {
	return s == Responded || s == FailedResponded
}

var errNoOutcome = errors.New("count dispatch finished without an outcome")

// Routes lists the paths served by the count endpoint
func Routes() []string {
	return []string{"/cat/count", "/cat/count/{index}"}
}

// Endpoint wires parsing, dispatch and response building for one count request
type Endpoint struct {
	parser     *Parser
	dispatcher *Dispatcher
	tables     *TableBuilder
	translator *ErrorTranslator
	logger     zerolog.Logger
}

// NewEndpoint creates an endpoint from its parts
func NewEndpoint(parser *Parser, dispatcher *Dispatcher, tables *TableBuilder, translator *ErrorTranslator, logger zerolog.Logger) *Endpoint {
	return &Endpoint{
		parser:     parser,
		dispatcher: dispatcher,
		tables:     tables,
		translator: translator,
		logger:     logger,
	}
}

// New creates an endpoint with default parsing and local-time rendering
func New(counter Counter, recorder FailureRecorder, logger zerolog.Logger) *Endpoint {
	return NewEndpoint(
		NewParser(nil),
		NewDispatcher(counter),
		NewTableBuilder(nil, nil),
		NewErrorTranslator(recorder),
		logger,
	)
}

// Header returns the count table with no rows, used for help output
func (e *Endpoint) Header() cat.Table {
	return e.tables.Header()
}

// Handle runs one request to completion and returns its terminal state.
// The only wait is on the dispatch outcome; cancellation is left to ctx and
// the counting service.
func (e *Endpoint) Handle(ctx context.Context, req Request, ch Channel) State {
	var (
		state   = Parsing
		query   CountQuery
		pending <-chan Outcome
		start   time.Time
	)

	for !state.Terminal() {
		switch state {
		case Parsing:
			query = e.parser.Parse(req.Params)
			start = time.Now()
			pending = e.dispatcher.Dispatch(ctx, query)
			state = Dispatched

			e.logger.Debug().
				Strs("indices", query.IndexPatterns).
				Bool("has_source", query.HasSource()).
				Str("mode", query.ExecutionMode.String()).
				Msg("count dispatched")

		case Dispatched:
			outcome, ok := <-pending
			obs.ObserveDispatch(time.Since(start))
			if !ok {
				outcome = Outcome{Err: errNoOutcome}
			}

			if outcome.Err != nil {
				e.logger.Warn().Err(outcome.Err).Strs("indices", query.IndexPatterns).Msg("count failed")
				state = e.fail(req, ch, outcome.Err)
			} else {
				state = e.respond(req, ch, query, outcome.Result)
			}
		}
	}

	obs.RecordCount(state.String())
	return state
}

func (e *Endpoint) respond(req Request, ch Channel, q CountQuery, result CountResult) State {
	table, err := e.tables.Row(result)
	if err != nil {
		return e.fail(req, ch, fmt.Errorf("failed to build count table: %w", err))
	}

	if err := sendTable(ch, table); err != nil {
		e.logger.Warn().Err(err).Msg("failed to send count table")
		return e.fail(req, ch, fmt.Errorf("failed to send count table: %w", err))
	}

	e.logger.Info().
		Strs("indices", q.IndexPatterns).
		Int64("count", result.Count).
		Msg("count completed")

	return Responded
}

func (e *Endpoint) fail(req Request, ch Channel, cause error) State {
	e.translator.Translate(req, ch, cause)
	return FailedResponded
}

func sendTable(ch Channel, t cat.Table) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic sending count table: %v", r)
		}
	}()
	return ch.SendTable(t)
}
