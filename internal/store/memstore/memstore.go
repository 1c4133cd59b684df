// Package memstore provides an in-memory implementation of the document
// store gateway. Documents go through the same JSON round-trip as the
// persistent backends, so tests observe identical value semantics.
package memstore

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"sort"
	"sync"

	"github.com/catability/menu-rouletti/internal/id"
	"github.com/catability/menu-rouletti/internal/store"
)

// Store is an in-memory store.Gateway. Safe for concurrent use; each write
// holds the store lock, so read-modify-write sequences by a single caller
// still race as they would against a remote store.
type Store struct {
	mu          sync.RWMutex
	collections map[string]map[string][]byte

	// failNext, when set, makes the next operation return the given error.
	// Lets tests exercise opaque store failures.
	failMu   sync.Mutex
	failNext error
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{collections: make(map[string]map[string][]byte)}
}

// FailNext arranges for the next gateway call to fail with err.
func (s *Store) FailNext(err error) {
	s.failMu.Lock()
	defer s.failMu.Unlock()
	s.failNext = err
}

func (s *Store) takeFailure() error {
	s.failMu.Lock()
	defer s.failMu.Unlock()
	err := s.failNext
	s.failNext = nil
	return err
}

// Get implements store.Gateway.
func (s *Store) Get(ctx context.Context, collection, docID string) (store.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.takeFailure(); err != nil {
		return nil, err
	}

	data, ok := s.collections[collection][docID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return decodeWithID(data, docID)
}

// Set implements store.Gateway.
func (s *Store) Set(ctx context.Context, collection, docID string, doc store.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: %v", store.ErrQuery, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure(); err != nil {
		return err
	}

	if s.collections[collection] == nil {
		s.collections[collection] = make(map[string][]byte)
	}
	s.collections[collection][docID] = data
	return nil
}

// Add implements store.Gateway.
func (s *Store) Add(ctx context.Context, collection string, doc store.Document) (string, error) {
	docID, err := id.Generate("doc")
	if err != nil {
		return "", fmt.Errorf("%w: %v", store.ErrQuery, err)
	}
	if err := s.Set(ctx, collection, docID, doc); err != nil {
		return "", err
	}
	return docID, nil
}

// Update implements store.Gateway.
func (s *Store) Update(ctx context.Context, collection, docID string, partial store.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure(); err != nil {
		return err
	}

	data, ok := s.collections[collection][docID]
	if !ok {
		return store.ErrNotFound
	}

	var doc store.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: %v", store.ErrQuery, err)
	}
	for field, value := range partial {
		doc[field] = value
	}

	merged, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: %v", store.ErrQuery, err)
	}
	s.collections[collection][docID] = merged
	return nil
}

// Query implements store.Gateway.
func (s *Store) Query(ctx context.Context, collection string, filters []store.Filter) ([]store.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.takeFailure(); err != nil {
		return nil, err
	}

	var docs []store.Document
	for _, docID := range sortedIDs(s.collections[collection]) {
		doc, err := decodeWithID(s.collections[collection][docID], docID)
		if err != nil {
			return nil, err
		}
		if matchesAll(doc, filters) {
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

// QueryIn implements store.Gateway.
func (s *Store) QueryIn(ctx context.Context, collection, field string, values []string) ([]store.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, nil
	}

	wanted := make(map[string]bool, len(values))
	for _, v := range values {
		wanted[v] = true
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.takeFailure(); err != nil {
		return nil, err
	}

	var docs []store.Document
	for _, docID := range sortedIDs(s.collections[collection]) {
		doc, err := decodeWithID(s.collections[collection][docID], docID)
		if err != nil {
			return nil, err
		}
		if v, ok := doc[field].(string); ok && wanted[v] {
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

// Close implements store.Gateway.
func (s *Store) Close() error {
	return nil
}

func decodeWithID(data []byte, docID string) (store.Document, error) {
	var doc store.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrQuery, err)
	}
	if _, ok := doc["id"]; !ok {
		doc["id"] = docID
	}
	return doc, nil
}

func matchesAll(doc store.Document, filters []store.Filter) bool {
	for _, f := range filters {
		if !store.MatchValue(doc[f.Field], f.Value) {
			return false
		}
	}
	return true
}

// sortedIDs keeps iteration deterministic for tests.
func sortedIDs(coll map[string][]byte) []string {
	ids := make([]string, 0, len(coll))
	for docID := range coll {
		ids = append(ids, docID)
	}
	sort.Strings(ids)
	return ids
}
