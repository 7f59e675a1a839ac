package db

import (
	"github.com/dsjohal14/catcount/internal/count"
)

// Indexer accepts documents for later counting.
// Only the local Store implements it; Postgres rows are loaded out of band.
type Indexer interface {
	// Add adds or replaces a document
	Add(doc Document) error

	// Flush persists any pending changes
	Flush() error
}

// Ensure both backends can serve counts
var _ count.Counter = (*Store)(nil)
var _ count.Counter = (*DB)(nil)
var _ Indexer = (*Store)(nil)
