package httpapi

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/dsjohal14/catcount/internal/count"
	"github.com/go-chi/chi/v5"
)

// requestParams exposes query parameters to the count parser. A non-empty
// {index} path segment replaces any index query parameter.
type requestParams struct {
	query url.Values
	index string
}

func newRequestParams(r *http.Request) requestParams {
	// chi matches on the escaped path when one is present
	index := chi.URLParam(r, "index")
	if decoded, err := url.PathUnescape(index); err == nil {
		index = decoded
	}
	return requestParams{
		query: r.URL.Query(),
		index: index,
	}
}

// Param implements count.Params
func (p requestParams) Param(name string) (string, bool) {
	if name == "index" && p.index != "" {
		return p.index, true
	}
	if !p.query.Has(name) {
		return "", false
	}
	return p.query.Get(name), true
}

// HandleCount serves GET /cat/count and GET /cat/count/{index}
func (h *Handler) HandleCount(w http.ResponseWriter, r *http.Request) {
	ch := newResponseChannel(w, r)

	// help describes the columns without running a count
	if ch.opts.Help {
		if err := ch.SendTable(h.endpoint.Header()); err != nil {
			h.logger.Warn().Err(err).Msg("failed to send column help")
		}
		return
	}

	req := count.Request{Params: newRequestParams(r), Handle: r}
	state := h.endpoint.Handle(r.Context(), req, ch)

	h.logger.Debug().
		Str("path", r.URL.Path).
		Str("state", state.String()).
		Msg("count request finished")
}

// HandleCat lists the cat routes served by this API
func (h *Handler) HandleCat(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=UTF-8")
	w.WriteHeader(http.StatusOK)

	_, _ = fmt.Fprintln(w, "=^.^=")
	for _, route := range count.Routes() {
		_, _ = fmt.Fprintln(w, route)
	}
}
