package store

import (
	"context"
	"fmt"
	"strconv"
	"sync"
)

// MemoryStore is an in-memory Store with the same revision semantics as the
// remote one. It backs tests and local development; nothing is persisted.
type MemoryStore struct {
	mu   sync.Mutex
	docs map[string]memoryDoc
	seq  int
}

type memoryDoc struct {
	content  string
	revision string
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]memoryDoc)}
}

// Get returns the stored document or ErrNotFound.
func (s *MemoryStore) Get(_ context.Context, path string) (*Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[path]
	if !ok {
		return nil, fmt.Errorf("get %s: %w", path, ErrNotFound)
	}
	return &Document{Content: doc.content, Revision: doc.revision}, nil
}

// Put enforces the optimistic-concurrency contract: empty revision creates,
// non-empty revision must match the stored one.
func (s *MemoryStore) Put(_ context.Context, path, content, revision, _ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.docs[path]
	if revision == "" && exists {
		return "", fmt.Errorf("put %s: document already exists: %w", path, ErrConflict)
	}
	if revision != "" && (!exists || existing.revision != revision) {
		return "", fmt.Errorf("put %s: %w", path, ErrConflict)
	}

	s.seq++
	newRev := "rev-" + strconv.Itoa(s.seq)
	s.docs[path] = memoryDoc{content: content, revision: newRev}
	return newRev, nil
}
