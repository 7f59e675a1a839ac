package count

import (
	"sync"

	"github.com/dsjohal14/catcount/internal/cat"
)

type fakeChannel struct {
	mu        sync.Mutex
	tables    []cat.Table
	errors    []*ErrorResponse
	tableErr  error
	errorErr  error
	panicOnEr bool
}

func (c *fakeChannel) SendTable(t cat.Table) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tableErr != nil {
		return c.tableErr
	}
	c.tables = append(c.tables, t)
	return nil
}

func (c *fakeChannel) SendError(resp *ErrorResponse) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.panicOnEr {
		panic("connection reset")
	}
	if c.errorErr != nil {
		return c.errorErr
	}
	c.errors = append(c.errors, resp)
	return nil
}

type recordedFailure struct {
	msg string
	err error
}

type fakeRecorder struct {
	mu       sync.Mutex
	failures []recordedFailure
}

func (r *fakeRecorder) RecordFailure(msg string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures = append(r.failures, recordedFailure{msg: msg, err: err})
}
