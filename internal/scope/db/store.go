// Package db provides the database-backed counting services: a Postgres
// counter and a local file-backed document store.
package db

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dsjohal14/catcount/internal/count"
)

// Document is one stored document
type Document struct {
	ID        string         `json:"id"`
	Index     string         `json:"index"`
	Fields    map[string]any `json:"fields,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// Store keeps documents in memory and persists them as JSONL under dataDir
type Store struct {
	dataDir  string
	mu       sync.RWMutex
	docs     []Document // In-memory cache
	modified bool
}

// NewStore creates a new store with the given data directory
func NewStore(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	s := &Store{
		dataDir: dataDir,
		docs:    make([]Document, 0),
	}

	// Load existing data if present
	if err := s.load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load store: %w", err)
	}

	return s, nil
}

// Add adds a document to the store, replacing one with the same index and ID
func (s *Store) Add(doc Document) error {
	if doc.Index == "" {
		return fmt.Errorf("document index is required")
	}
	if doc.ID == "" {
		return fmt.Errorf("document id is required")
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.docs {
		if s.docs[i].Index == doc.Index && s.docs[i].ID == doc.ID {
			s.docs[i] = doc
			s.modified = true
			return nil
		}
	}

	s.docs = append(s.docs, doc)
	s.modified = true
	return nil
}

// Count returns how many documents in the matching indices satisfy the query
func (s *Store) Count(ctx context.Context, q count.CountQuery) (int64, error) {
	f := matchAll
	if q.HasSource() {
		var err error
		if f, err = parseFilter(q.SourceBody); err != nil {
			return 0, err
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for i := range s.docs {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return 0, err
			}
		}
		if indexMatches(q.IndexPatterns, s.docs[i].Index) && f.matches(s.docs[i].Fields) {
			n++
		}
	}
	return n, nil
}

// Len returns the number of documents in the store
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// Flush writes the store to disk
func (s *Store) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.modified {
		return nil // No changes to write
	}

	if err := s.writeDocuments(); err != nil {
		return err
	}

	s.modified = false
	return nil
}

// Close flushes and closes the store
func (s *Store) Close() error {
	return s.Flush()
}

// writeDocuments writes all documents to a JSONL file, replacing it atomically
func (s *Store) writeDocuments() error {
	path := filepath.Join(s.dataDir, "documents.jsonl")
	tmp := path + ".tmp"

	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create documents file: %w", err)
	}

	w := bufio.NewWriter(f)
	encoder := json.NewEncoder(w)
	for i := range s.docs {
		if err := encoder.Encode(s.docs[i]); err != nil {
			_ = f.Close()
			return fmt.Errorf("failed to encode document %d: %w", i, err)
		}
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write documents file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close documents file: %w", err)
	}

	return os.Rename(tmp, path)
}

// load reads store from disk
func (s *Store) load() error {
	path := filepath.Join(s.dataDir, "documents.jsonl")
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	s.docs = make([]Document, 0)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var doc Document
		if err := json.Unmarshal(scanner.Bytes(), &doc); err != nil {
			return fmt.Errorf("failed to decode document: %w", err)
		}
		s.docs = append(s.docs, doc)
	}

	return scanner.Err()
}
