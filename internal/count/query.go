// Package count implements the cat count endpoint: request parsing, asynchronous
// dispatch to a counting service, the one-row result table and error translation.
package count

import (
	"encoding/json"
	"strconv"
	"strings"
)

// ExecutionMode tells the counting service how to spread the operation
type ExecutionMode int

const (
	SingleThreaded ExecutionMode = iota
	Parallel
)

func (m ExecutionMode) String() string {
	if m == Parallel {
		return "parallel"
	}
	return "single_threaded"
}

// SourceKind records where a query body came from
type SourceKind int

const (
	SourceNone  SourceKind = iota // count everything
	SourceRaw                     // the source parameter, verbatim
	SourceBuilt                   // built from structured query parameters
)

// CountQuery is the backend count operation for one request
type CountQuery struct {
	IndexPatterns []string // empty means all indices
	SourceBody    []byte   // nil means count all
	SourceKind    SourceKind
	ExecutionMode ExecutionMode
}

// HasSource reports whether the query carries a body
func (q CountQuery) HasSource() bool {
	return q.SourceKind != SourceNone && len(q.SourceBody) > 0
}

// RequestBody returns the body to send to a search backend's _count API.
// A bare query clause such as {"match_all":{}} is wrapped in {"query": ...};
// bodies that already carry a query key, or are not JSON objects, go out unchanged.
func (q CountQuery) RequestBody() []byte {
	if !q.HasSource() {
		return nil
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(q.SourceBody, &top); err != nil || len(top) == 0 {
		return q.SourceBody
	}
	if _, ok := top["query"]; ok {
		return q.SourceBody
	}

	wrapped, err := json.Marshal(map[string]json.RawMessage{"query": q.SourceBody})
	if err != nil {
		return q.SourceBody
	}
	return wrapped
}

// Params is read access to request parameters
type Params interface {
	Param(name string) (string, bool)
}

// MapParams adapts a plain map to Params
type MapParams map[string]string

// Param returns the named parameter
func (m MapParams) Param(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

// QuerySourceBuilder builds a query body from structured request parameters.
// It returns nil when the parameters describe no query.
type QuerySourceBuilder interface {
	Build(params Params) []byte
}

// Parser turns request parameters into a CountQuery
type Parser struct {
	builder QuerySourceBuilder
}

// NewParser creates a parser; a nil builder falls back to QueryStringBuilder
func NewParser(builder QuerySourceBuilder) *Parser {
	if builder == nil {
		builder = QueryStringBuilder{}
	}
	return &Parser{builder: builder}
}

// Parse never fails: anything it cannot use degrades to no filter
func (p *Parser) Parse(params Params) CountQuery {
	index, _ := params.Param("index")
	q := CountQuery{
		IndexPatterns: SplitIndices(index),
		ExecutionMode: SingleThreaded,
	}

	// source wins outright; structured parameters are not consulted
	if source, ok := params.Param("source"); ok {
		q.SourceBody = []byte(source)
		q.SourceKind = SourceRaw
		return q
	}

	if body := p.builder.Build(params); len(body) > 0 {
		q.SourceBody = body
		q.SourceKind = SourceBuilt
	}
	return q
}

// SplitIndices splits a comma-separated index list, dropping empty entries
func SplitIndices(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// QueryStringBuilder builds a query_string query from the q family of parameters
type QueryStringBuilder struct{}

// Build returns nil unless q is set
func (QueryStringBuilder) Build(params Params) []byte {
	text, ok := params.Param("q")
	if !ok || text == "" {
		return nil
	}

	qs := map[string]any{"query": text}
	if v, ok := params.Param("df"); ok && v != "" {
		qs["default_field"] = v
	}
	if v, ok := params.Param("analyzer"); ok && v != "" {
		qs["analyzer"] = v
	}
	if v, ok := params.Param("default_operator"); ok {
		switch strings.ToUpper(v) {
		case "AND", "OR":
			qs["default_operator"] = strings.ToUpper(v)
		}
	}
	for _, name := range []string{"analyze_wildcard", "lenient", "lowercase_expanded_terms"} {
		if v, ok := params.Param(name); ok {
			if b, err := strconv.ParseBool(v); err == nil {
				qs[name] = b
			}
		}
	}

	body, err := json.Marshal(map[string]any{
		"query": map[string]any{"query_string": qs},
	})
	if err != nil {
		return nil
	}
	return body
}
