// Package badgerstore implements the document store gateway on an embedded
// BadgerDB instance. Documents are stored as JSON under "collection:id"
// keys; queries are prefix scans with in-process filtering.
package badgerstore

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/catability/menu-rouletti/internal/id"
	"github.com/catability/menu-rouletti/internal/store"
)

// Store wraps a Badger database instance behind the gateway contract.
type Store struct {
	db     *badger.DB
	logger *slog.Logger
}

// New opens (or creates) a Badger database at the given path.
func New(path string, logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil            // Disable Badger's internal logging
	opts.SyncWrites = true       // Sync writes to disk to prevent corruption on crashes
	opts.CompactL0OnClose = true // Compact L0 tables on close for faster startup

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("%w: open badger db: %v", store.ErrConnection, err)
	}

	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger.Info("badger database opened", "path", path)

	return &Store{db: db, logger: logger}, nil
}

// Close implements store.Gateway.
func (s *Store) Close() error {
	return s.db.Close()
}

func docKey(collection, docID string) []byte {
	return []byte(collection + ":" + docID)
}

// Get implements store.Gateway.
func (s *Store) Get(ctx context.Context, collection, docID string) (store.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var doc store.Document
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(docKey(collection, docID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &doc)
		})
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("%w: get %s/%s: %v", store.ErrQuery, collection, docID, err)
	}

	if _, ok := doc["id"]; !ok {
		doc["id"] = docID
	}
	return doc, nil
}

// Set implements store.Gateway.
func (s *Store) Set(ctx context.Context, collection, docID string, doc store.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: marshal document: %v", store.ErrQuery, err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(docKey(collection, docID), data)
	})
	if err != nil {
		return fmt.Errorf("%w: set %s/%s: %v", store.ErrQuery, collection, docID, err)
	}
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
// The read-modify-write runs inside a single Badger transaction, so a
// partial update never interleaves with another writer on the same document.
func (s *Store) Update(ctx context.Context, collection, docID string, partial store.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		key := docKey(collection, docID)

		item, err := txn.Get(key)
		if err != nil {
			return err
		}

		var doc store.Document
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &doc)
		}); err != nil {
			return err
		}

		for field, value := range partial {
			doc[field] = value
		}

		data, err := json.Marshal(doc)
		if err != nil {
			return err
		}
		return txn.Set(key, data)
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return store.ErrNotFound
		}
		return fmt.Errorf("%w: update %s/%s: %v", store.ErrQuery, collection, docID, err)
	}
	return nil
}

// Query implements store.Gateway.
func (s *Store) Query(ctx context.Context, collection string, filters []store.Filter) ([]store.Document, error) {
	return s.scan(ctx, collection, func(doc store.Document) bool {
		for _, f := range filters {
			if !store.MatchValue(doc[f.Field], f.Value) {
				return false
			}
		}
		return true
	})
}

// QueryIn implements store.Gateway.
func (s *Store) QueryIn(ctx context.Context, collection, field string, values []string) ([]store.Document, error) {
	if len(values) == 0 {
		return nil, nil
	}
	wanted := make(map[string]bool, len(values))
	for _, v := range values {
		wanted[v] = true
	}
	return s.scan(ctx, collection, func(doc store.Document) bool {
		v, ok := doc[field].(string)
		return ok && wanted[v]
	})
}

// scan iterates every document in a collection and keeps those accepted by
// the predicate.
func (s *Store) scan(ctx context.Context, collection string, keep func(store.Document) bool) ([]store.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := []byte(collection + ":")
	var docs []store.Document

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			docID := strings.TrimPrefix(string(item.Key()), collection+":")

			var doc store.Document
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &doc)
			}); err != nil {
				return err
			}
			if _, ok := doc["id"]; !ok {
				doc["id"] = docID
			}

			if keep(doc) {
				docs = append(docs, doc)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: scan %s: %v", store.ErrQuery, collection, err)
	}
	return docs, nil
}
