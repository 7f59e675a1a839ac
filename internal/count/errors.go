package count

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// StatusError is a failure reported by a counting backend together with the
// HTTP status it maps to
type StatusError struct {
	Status int
	Reason string
	Err    error
}

// Error implements the error interface
func (e *StatusError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s (status %d): %v", e.Reason, e.Status, e.Err)
	}
	return fmt.Sprintf("%s (status %d)", e.Reason, e.Status)
}

// Unwrap returns the underlying error
func (e *StatusError) Unwrap() error {
	return e.Err
}

// NewStatusError creates a StatusError
func NewStatusError(status int, reason string, err error) *StatusError {
	return &StatusError{Status: status, Reason: reason, Err: err}
}

// StatusOf maps an error chain to an HTTP status code
func StatusOf(err error) int {
	var se *StatusError
	switch {
	case errors.As(err, &se) && se.Status >= 400:
		return se.Status
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// Cause is one link of an error chain
type Cause struct {
	Message string `json:"message" yaml:"message"`
}

// CauseChain flattens err into its unwrap chain, outermost first.
// Joined errors contribute their first branch.
func CauseChain(err error) []Cause {
	var chain []Cause
	for err != nil {
		chain = append(chain, Cause{Message: err.Error()})

		switch u := err.(type) {
		case interface{ Unwrap() []error }:
			errs := u.Unwrap()
			if len(errs) == 0 {
				return chain
			}
			err = errs[0]
		default:
			err = errors.Unwrap(err)
		}
	}
	return chain
}
