package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/dsjohal14/catcount/internal/cat"
	"github.com/dsjohal14/catcount/internal/count"
	"gopkg.in/yaml.v3"
)

// responseChannel writes count responses to an HTTP response.
// It implements count.Channel and accepts exactly one response.
type responseChannel struct {
	w    http.ResponseWriter
	opts cat.RenderOptions
	sent bool
}

func newResponseChannel(w http.ResponseWriter, r *http.Request) *responseChannel {
	return &responseChannel{w: w, opts: renderOptions(r)}
}

// SendTable renders the table in the negotiated format
func (c *responseChannel) SendTable(t cat.Table) error {
	if c.sent {
		return fmt.Errorf("response already sent")
	}

	var buf bytes.Buffer
	if err := cat.Render(&buf, t, c.opts); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	contentType := c.opts.Format.ContentType()
	if c.opts.Help {
		contentType = cat.FormatText.ContentType()
	}
	return c.write(http.StatusOK, contentType, buf.Bytes())
}

// SendError writes the error document with the response's status. Text
// requests get JSON.
func (c *responseChannel) SendError(resp *count.ErrorResponse) error {
	if c.sent {
		return fmt.Errorf("response already sent")
	}

	body := ErrorBody{
		Error:  resp.Message(),
		Status: resp.Status,
		Causes: resp.Causes,
	}

	var (
		raw []byte
		err error
	)
	format := c.opts.Format
	if format == cat.FormatYAML {
		raw, err = yaml.Marshal(body)
	} else {
		format = cat.FormatJSON
		raw, err = json.Marshal(body)
		raw = append(raw, '\n')
	}
	if err != nil {
		return fmt.Errorf("failed to encode error response: %w", err)
	}
	return c.write(resp.Status, format.ContentType(), raw)
}

func (c *responseChannel) write(status int, contentType string, body []byte) error {
	c.sent = true
	c.w.Header().Set("Content-Type", contentType)
	c.w.WriteHeader(status)
	if _, err := c.w.Write(body); err != nil {
		return fmt.Errorf("failed to write response: %w", err)
	}
	return nil
}

// renderOptions reads format, v, h and help from the request.
// An explicit format parameter beats the Accept header; unknown values fall
// back to text.
func renderOptions(r *http.Request) cat.RenderOptions {
	query := r.URL.Query()

	format, ok := cat.ParseFormat(query.Get("format"))
	if !ok || !query.Has("format") {
		format = acceptFormat(r.Header.Get("Accept"))
	}

	var columns []string
	if h := query.Get("h"); h != "" {
		for _, name := range strings.Split(h, ",") {
			if name = strings.TrimSpace(name); name != "" {
				columns = append(columns, name)
			}
		}
	}

	return cat.RenderOptions{
		Format:  format,
		Verbose: flag(query.Get("v"), query.Has("v")),
		Help:    flag(query.Get("help"), query.Has("help")),
		Columns: columns,
	}
}

func acceptFormat(accept string) cat.Format {
	accept = strings.ToLower(accept)
	switch {
	case strings.Contains(accept, "json"):
		return cat.FormatJSON
	case strings.Contains(accept, "yaml"):
		return cat.FormatYAML
	default:
		return cat.FormatText
	}
}

// flag treats a bare parameter (?v) as true
func flag(value string, present bool) bool {
	if !present {
		return false
	}
	if value == "" {
		return true
	}
	b, err := strconv.ParseBool(value)
	return err == nil && b
}
