package count

import (
	"fmt"

	"github.com/dsjohal14/catcount/internal/cat"
)

// Request is one inbound count request
type Request struct {
	Params Params
	// Handle is the transport's own request value; it travels with error
	// responses so the encoder can negotiate them like a table response.
	Handle any
}

// Channel delivers a response for a single request
type Channel interface {
	SendTable(t cat.Table) error
	SendError(resp *ErrorResponse) error
}

// FailureRecorder records failures that cannot be reported to the caller
type FailureRecorder interface {
	RecordFailure(msg string, err error)
}

// ErrorResponse is the structured error sent when a count fails
type ErrorResponse struct {
	Request Request
	Status  int
	Causes  []Cause
}

// Message returns the outermost cause message
func (r *ErrorResponse) Message() string {
	if len(r.Causes) == 0 {
		return ""
	}
	return r.Causes[0].Message
}

// NewErrorResponse builds the error response for cause
func NewErrorResponse(req Request, cause error) *ErrorResponse {
	return &ErrorResponse{
		Request: req,
		Status:  StatusOf(cause),
		Causes:  CauseChain(cause),
	}
}

// ErrorTranslator turns dispatch failures into error responses
type ErrorTranslator struct {
	recorder FailureRecorder
}

// NewErrorTranslator creates a translator reporting delivery failures to recorder
func NewErrorTranslator(recorder FailureRecorder) *ErrorTranslator {
	return &ErrorTranslator{recorder: recorder}
}

// Translate sends an error response for cause. If sending fails the failure
// goes to the recorder and is dropped; Translate reports whether it was sent.
func (t *ErrorTranslator) Translate(req Request, ch Channel, cause error) bool {
	resp := NewErrorResponse(req, cause)

	if err := sendError(ch, resp); err != nil {
		t.record(err)
		return false
	}
	return true
}

func (t *ErrorTranslator) record(err error) {
	if t.recorder == nil {
		return
	}
	defer func() { _ = recover() }()
	t.recorder.RecordFailure("failed to send failure response", err)
}

func sendError(ch Channel, resp *ErrorResponse) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic sending error response: %v", r)
		}
	}()
	return ch.SendError(resp)
}
