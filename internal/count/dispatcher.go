package count

import (
	"context"
	"fmt"
)

// Counter is a counting service: it returns how many documents match the query
type Counter interface {
	Count(ctx context.Context, q CountQuery) (int64, error)
}

// CounterFunc adapts a function to Counter
type CounterFunc func(ctx context.Context, q CountQuery) (int64, error)

// Count calls f
func (f CounterFunc) Count(ctx context.Context, q CountQuery) (int64, error) {
	return f(ctx, q)
}

// CountResult is one successful count
type CountResult struct {
	Count int64
}

// Outcome is what a dispatch resolves to: exactly one of Result or Err is set
type Outcome struct {
	Result CountResult
	Err    error
}

// Dispatcher sends count queries to a Counter without blocking the caller
type Dispatcher struct {
	counter Counter
}

// NewDispatcher creates a dispatcher calling counter
func NewDispatcher(counter Counter) *Dispatcher {
	return &Dispatcher{counter: counter}
}

// Dispatch calls the counter once and delivers a single Outcome on the returned
// channel, which is closed afterwards. Counter errors are passed through as-is.
func (d *Dispatcher) Dispatch(ctx context.Context, q CountQuery) <-chan Outcome {
	out := make(chan Outcome, 1)

	go func() {
		defer close(out)
		out <- d.run(ctx, q)
	}()

	return out
}

func (d *Dispatcher) run(ctx context.Context, q CountQuery) (o Outcome) {
	defer func() {
		if r := recover(); r != nil {
			o = Outcome{Err: fmt.Errorf("counting service panicked: %v", r)}
		}
	}()

	n, err := d.counter.Count(ctx, q)
	if err != nil {
		return Outcome{Err: err}
	}
	if n < 0 {
		return Outcome{Err: fmt.Errorf("counting service returned negative count %d", n)}
	}

	return Outcome{Result: CountResult{Count: n}}
}
