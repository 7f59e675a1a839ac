package db

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/dsjohal14/catcount/internal/count"
)

// filter is the subset of the query DSL the database backends can evaluate:
// match everything, or one field equal to one value.
type filter struct {
	all   bool
	field string
	value string
}

var matchAll = filter{all: true}

// parseFilter reads a count body. Both {"query": {...}} and a bare query object
// are accepted. Empty bodies match everything.
func parseFilter(body []byte) (filter, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return matchAll, nil
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		return filter{}, badQuery("query body is not a JSON object", err)
	}
	if inner, ok := top["query"]; ok {
		top = nil
		if err := json.Unmarshal(inner, &top); err != nil {
			return filter{}, badQuery("query is not a JSON object", err)
		}
	}
	if len(top) == 0 {
		return matchAll, nil
	}
	if len(top) > 1 {
		return filter{}, badQuery("only one query clause is supported", nil)
	}

	for kind, raw := range top {
		switch kind {
		case "match_all":
			return matchAll, nil
		case "term", "match":
			return parseFieldValue(kind, raw)
		case "query_string":
			return parseQueryString(raw)
		default:
			return filter{}, badQuery(fmt.Sprintf("unsupported query type [%s]", kind), nil)
		}
	}
	return matchAll, nil
}

// parseFieldValue handles {"field": "v"} and {"field": {"value"|"query": "v"}}
func parseFieldValue(kind string, raw json.RawMessage) (filter, error) {
	var clause map[string]json.RawMessage
	if err := json.Unmarshal(raw, &clause); err != nil || len(clause) != 1 {
		return filter{}, badQuery(fmt.Sprintf("[%s] query needs exactly one field", kind), err)
	}

	for field, v := range clause {
		if s, ok := scalar(v); ok {
			return filter{field: field, value: s}, nil
		}
		var inner map[string]json.RawMessage
		if err := json.Unmarshal(v, &inner); err == nil {
			for _, key := range []string{"value", "query"} {
				if iv, ok := inner[key]; ok {
					if s, ok := scalar(iv); ok {
						return filter{field: field, value: s}, nil
					}
				}
			}
		}
		return filter{}, badQuery(fmt.Sprintf("[%s] query on [%s] has no value", kind, field), nil)
	}
	return matchAll, nil
}

func parseQueryString(raw json.RawMessage) (filter, error) {
	var qs struct {
		Query        string `json:"query"`
		DefaultField string `json:"default_field"`
	}
	if err := json.Unmarshal(raw, &qs); err != nil {
		return filter{}, badQuery("invalid [query_string] query", err)
	}

	text := strings.TrimSpace(qs.Query)
	if text == "" || text == "*" || text == "*:*" {
		return matchAll, nil
	}
	if field, value, ok := strings.Cut(text, ":"); ok && field != "" && !strings.ContainsAny(field, " \t") {
		return filter{field: field, value: strings.Trim(value, `"`)}, nil
	}
	if qs.DefaultField == "" {
		return filter{}, badQuery("query_string without a field needs default_field", nil)
	}
	return filter{field: qs.DefaultField, value: strings.Trim(text, `"`)}, nil
}

// scalar renders a JSON string, number or bool as text
func scalar(raw json.RawMessage) (string, bool) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", false
	}
	switch t := v.(type) {
	case string:
		return t, true
	case float64, bool:
		return fmt.Sprint(t), true
	default:
		return "", false
	}
}

// matches evaluates the filter against a document's fields
func (f filter) matches(fields map[string]any) bool {
	if f.all {
		return true
	}
	v, ok := fields[f.field]
	if !ok || v == nil {
		return false
	}
	return fmt.Sprint(v) == f.value
}

// allIndices reports whether the patterns select every index
func allIndices(patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}
	for _, p := range patterns {
		if p == "_all" || p == "*" {
			return true
		}
	}
	return false
}

// indexMatches reports whether name matches one of the wildcard patterns
func indexMatches(patterns []string, name string) bool {
	if allIndices(patterns) {
		return true
	}
	for _, p := range patterns {
		if ok, err := path.Match(p, name); err == nil && ok {
			return true
		}
	}
	return false
}

func badQuery(reason string, err error) error {
	return count.NewStatusError(http.StatusBadRequest, reason, err)
}
