package cat

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

// Format is an output encoding for a table
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat maps a format parameter to a Format
func ParseFormat(s string) (Format, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return FormatText, true
	case "json":
		return FormatJSON, true
	case "yaml", "yml":
		return FormatYAML, true
	default:
		return "", false
	}
}

// ContentType returns the MIME type written for the format
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatYAML:
		return "application/yaml"
	default:
		return "text/plain; charset=UTF-8"
	}
}

// RenderOptions controls how a table is written
type RenderOptions struct {
	Format  Format
	Verbose bool     // text only: print a header line
	Help    bool     // print column help instead of data
	Columns []string // column names or aliases to keep, empty keeps all
}

// Render writes the table to w
func Render(w io.Writer, t Table, opts RenderOptions) error {
	if opts.Help {
		return renderHelp(w, t)
	}

	t = t.Select(opts.Columns)

	switch opts.Format {
	case FormatJSON:
		return renderJSON(w, t)
	case FormatYAML:
		return renderYAML(w, t)
	default:
		return renderText(w, t, opts.Verbose)
	}
}

func renderText(w io.Writer, t Table, verbose bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)

	if verbose {
		if _, err := fmt.Fprintln(tw, strings.Join(t.Names(), "\t")); err != nil {
			return err
		}
	}
	for _, row := range t.rows {
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = cellString(c)
		}
		if _, err := fmt.Fprintln(tw, strings.Join(cells, "\t")); err != nil {
			return err
		}
	}

	return tw.Flush()
}

func renderHelp(w io.Writer, t Table) error {
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
	for _, c := range t.columns {
		aliases := strings.Join(append([]string{c.Name}, c.Aliases...), ",")
		if _, err := fmt.Fprintf(tw, "%s\t|\t%s\t|\t%s\n", c.Name, aliases, c.Desc); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// orderedRow keeps header order when encoded as a JSON object
type orderedRow struct {
	keys   []string
	values []string
}

func (r orderedRow) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(r.values[i])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func renderJSON(w io.Writer, t Table) error {
	names := t.Names()
	out := make([]orderedRow, len(t.rows))
	for i, row := range t.rows {
		r := orderedRow{keys: names, values: make([]string, len(row))}
		for j, c := range row {
			r.values[j] = cellString(c)
		}
		out[i] = r
	}
	return json.NewEncoder(w).Encode(out)
}

func renderYAML(w io.Writer, t Table) error {
	names := t.Names()
	seq := &yaml.Node{Kind: yaml.SequenceNode}
	for _, row := range t.rows {
		m := &yaml.Node{Kind: yaml.MappingNode}
		for j, c := range row {
			m.Content = append(m.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Value: names[j]},
				&yaml.Node{Kind: yaml.ScalarNode, Style: yaml.DoubleQuotedStyle, Value: cellString(c)},
			)
		}
		seq.Content = append(seq.Content, m)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(seq); err != nil {
		return err
	}
	return enc.Close()
}

func cellString(c any) string {
	if c == nil {
		return ""
	}
	return fmt.Sprint(c)
}
