// Package main implements the catcount CLI for counting documents from the command line.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dsjohal14/catcount/internal/cat"
	"github.com/dsjohal14/catcount/internal/count"
	"github.com/dsjohal14/catcount/internal/libs/config"
	"github.com/dsjohal14/catcount/internal/libs/obs"
	"github.com/dsjohal14/catcount/internal/scope"
	"github.com/spf13/cobra"
)

// queryFlags maps count flags to the request parameter they set
var queryFlags = map[string]string{
	"source":           "source",
	"q":                "q",
	"df":               "df",
	"analyzer":         "analyzer",
	"default-operator": "default_operator",
	"analyze-wildcard": "analyze_wildcard",
	"lenient":          "lenient",
}

func main() {
	root := &cobra.Command{
		Use:           "catcount",
		Short:         "Document counts for one or more indices",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newCountCmd(), newRoutesCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newCountCmd() *cobra.Command {
	var (
		format  string
		verbose bool
		columns string
		help    bool
	)

	cmd := &cobra.Command{
		Use:   "count [index]",
		Short: "Print the document count of the given indices (comma-separated, wildcards allowed)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, ok := cat.ParseFormat(format)
			if !ok {
				return fmt.Errorf("unknown format %q", format)
			}
			opts := cat.RenderOptions{Format: f, Verbose: verbose, Help: help}
			if columns != "" {
				opts.Columns = strings.Split(columns, ",")
			}

			params := count.MapParams{}
			if len(args) == 1 {
				params["index"] = args[0]
			}
			for flagName, param := range queryFlags {
				if cmd.Flags().Changed(flagName) {
					params[param], _ = cmd.Flags().GetString(flagName)
				}
			}

			return runCount(cmd.Context(), params, opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().String("source", "", "Raw query body, used verbatim")
	cmd.Flags().String("q", "", "Query string query")
	cmd.Flags().String("df", "", "Default field for --q")
	cmd.Flags().String("analyzer", "", "Analyzer for --q")
	cmd.Flags().String("default-operator", "", "Default operator for --q (AND or OR)")
	cmd.Flags().String("analyze-wildcard", "", "Analyze wildcard terms in --q")
	cmd.Flags().String("lenient", "", "Ignore format based failures in --q")
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text, json or yaml")
	cmd.Flags().BoolVar(&verbose, "v", false, "Print a header line")
	cmd.Flags().StringVar(&columns, "h", "", "Comma-separated columns to print")
	cmd.Flags().BoolVar(&help, "help-columns", false, "Describe the columns instead of counting")

	return cmd
}

func newRoutesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "List the HTTP routes of the count endpoint",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			for _, route := range count.Routes() {
				fmt.Fprintln(cmd.OutOrStdout(), route)
			}
		},
	}
}

func runCount(ctx context.Context, params count.MapParams, opts cat.RenderOptions, out, errOut io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	obs.InitLogger(cfg.LogLevel)
	logger := obs.Logger("cli")

	backend, err := scope.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = backend.Close() }()

	loc, _ := cfg.Location()
	endpoint := backend.Endpoint(loc, logger)

	if opts.Help {
		return cat.Render(out, endpoint.Header(), opts)
	}

	ch := &writerChannel{out: out, errOut: errOut, opts: opts}
	if state := endpoint.Handle(ctx, count.Request{Params: params}, ch); state != count.Responded {
		return fmt.Errorf("count %s", state)
	}
	return nil
}

// writerChannel prints tables to out and error documents to errOut
type writerChannel struct {
	out    io.Writer
	errOut io.Writer
	opts   cat.RenderOptions
}

func (c *writerChannel) SendTable(t cat.Table) error {
	return cat.Render(c.out, t, c.opts)
}

func (c *writerChannel) SendError(resp *count.ErrorResponse) error {
	enc := json.NewEncoder(c.errOut)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{
		"error":  resp.Message(),
		"status": resp.Status,
		"causes": resp.Causes,
	})
}
