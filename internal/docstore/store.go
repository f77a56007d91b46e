// Package docstore holds the single active document. Uploads publish a
// fully built document with one atomic pointer swap, so a concurrent
// query sees either the prior complete document or the new one, never
// a half-populated state.
package docstore

import (
	"errors"
	"sync/atomic"
	"time"

	"manualqa/internal/index"
)

// ErrNoDocument means no document has been loaded this session.
var ErrNoDocument = errors.New("no document loaded")

// Document is an immutable-once-published snapshot of an ingested
// document and its relevance index.
type Document struct {
	ID          string
	FileName    string
	PageCount   int
	TotalChunks int
	Index       *index.Index
	LoadedAt    time.Time
}

// Store is the process-wide registry for the currently loaded document.
type Store struct {
	current atomic.Pointer[Document]
}

func New() *Store {
	return &Store{}
}

// Replace atomically swaps in doc as the active document, fully
// replacing any prior state.
func (s *Store) Replace(doc *Document) {
	s.current.Store(doc)
}

// Current returns the active document, or ErrNoDocument if none has
// been loaded.
func (s *Store) Current() (*Document, error) {
	doc := s.current.Load()
	if doc == nil {
		return nil, ErrNoDocument
	}
	return doc, nil
}
