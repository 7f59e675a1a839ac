package db

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dsjohal14/catcount/internal/count"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schemaSQL = `CREATE TABLE IF NOT EXISTS documents (
	index_name TEXT NOT NULL,
	id         TEXT NOT NULL,
	doc        JSONB NOT NULL DEFAULT '{}'::jsonb,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (index_name, id)
)`

// DB counts documents held in a Postgres documents table
type DB struct {
	pool *pgxpool.Pool
}

// New creates a new database connection
func New(ctx context.Context, connString string) (*DB, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// EnsureSchema creates the documents table if it is missing
func (d *DB) EnsureSchema(ctx context.Context) error {
	if _, err := d.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to create documents table: %w", err)
	}
	return nil
}

// Count runs a count(*) over the documents matching the query
func (d *DB) Count(ctx context.Context, q count.CountQuery) (int64, error) {
	f := matchAll
	if q.HasSource() {
		var err error
		if f, err = parseFilter(q.SourceBody); err != nil {
			return 0, err
		}
	}

	sql, args := buildCountSQL(q.IndexPatterns, f)

	var n int64
	if err := d.pool.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return n, nil
}

// Close closes the database connection
func (d *DB) Close() {
	d.pool.Close()
}

// buildCountSQL turns index patterns and a filter into a parameterised query
func buildCountSQL(patterns []string, f filter) (string, []any) {
	var (
		where []string
		args  []any
	)

	if !allIndices(patterns) {
		likes := make([]string, len(patterns))
		for i, p := range patterns {
			likes[i] = likePattern(p)
		}
		args = append(args, likes)
		where = append(where, "index_name LIKE ANY($"+strconv.Itoa(len(args))+")")
	}

	if !f.all {
		args = append(args, f.field, f.value)
		where = append(where, fmt.Sprintf("doc->>$%d = $%d", len(args)-1, len(args)))
	}

	sql := "SELECT count(*) FROM documents"
	if len(where) > 0 {
		sql += " WHERE " + strings.Join(where, " AND ")
	}
	return sql, args
}

// likePattern converts an index wildcard pattern into a LIKE pattern
func likePattern(p string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`, `*`, `%`, `?`, `_`)
	return r.Replace(p)
}
