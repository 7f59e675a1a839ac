package count

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusOf(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
		{"status error", NewStatusError(http.StatusNotFound, "no such index", nil), http.StatusNotFound},
		{"wrapped status error", fmt.Errorf("count: %w", NewStatusError(http.StatusBadRequest, "bad query", nil)), http.StatusBadRequest},
		{"non-error status ignored", NewStatusError(http.StatusOK, "odd", nil), http.StatusInternalServerError},
		{"deadline", fmt.Errorf("count: %w", context.DeadlineExceeded), http.StatusGatewayTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StatusOf(tt.err))
		})
	}
}

func TestCauseChain(t *testing.T) {
	root := errors.New("connection refused")
	err := fmt.Errorf("count request: %w", NewStatusError(http.StatusBadGateway, "backend unavailable", root))

	chain := CauseChain(err)
	require.Len(t, chain, 3)
	assert.Equal(t, err.Error(), chain[0].Message)
	assert.Equal(t, "connection refused", chain[2].Message)

	joined := errors.Join(errors.New("first"), errors.New("second"))
	chain = CauseChain(joined)
	require.Len(t, chain, 2)
	assert.Equal(t, "first", chain[1].Message)

	assert.Empty(t, CauseChain(nil))
}

func TestTranslateSendsErrorResponse(t *testing.T) {
	ch := &fakeChannel{}
	rec := &fakeRecorder{}
	req := Request{Params: MapParams{"format": "json"}, Handle: "original"}

	sent := NewErrorTranslator(rec).Translate(req, ch, errors.New("connection refused"))

	assert.True(t, sent)
	require.Len(t, ch.errors, 1)
	resp := ch.errors[0]
	assert.Equal(t, "original", resp.Request.Handle)
	assert.Equal(t, http.StatusInternalServerError, resp.Status)
	assert.Equal(t, "connection refused", resp.Message())
	assert.Empty(t, rec.failures)
}

func TestTranslateRecordsDeliveryFailure(t *testing.T) {
	deliveryErr := errors.New("use of closed network connection")
	ch := &fakeChannel{errorErr: deliveryErr}
	rec := &fakeRecorder{}

	var sent bool
	assert.NotPanics(t, func() {
		sent = NewErrorTranslator(rec).Translate(Request{Params: MapParams{}}, ch, errors.New("connection refused"))
	})

	assert.False(t, sent)
	require.Len(t, rec.failures, 1)
	assert.ErrorIs(t, rec.failures[0].err, deliveryErr)
	assert.Equal(t, "failed to send failure response", rec.failures[0].msg)
}

func TestTranslateAbsorbsPanickingChannel(t *testing.T) {
	ch := &fakeChannel{panicOnEr: true}
	rec := &fakeRecorder{}

	assert.NotPanics(t, func() {
		NewErrorTranslator(rec).Translate(Request{Params: MapParams{}}, ch, errors.New("boom"))
	})
	require.Len(t, rec.failures, 1)
	assert.Contains(t, rec.failures[0].err.Error(), "connection reset")
}

func TestTranslateWithoutRecorder(t *testing.T) {
	ch := &fakeChannel{errorErr: errors.New("closed")}
	assert.NotPanics(t, func() {
		NewErrorTranslator(nil).Translate(Request{Params: MapParams{}}, ch, errors.New("boom"))
	})
}
