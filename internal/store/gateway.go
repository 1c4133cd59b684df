// Package store defines the document store gateway consumed by the core.
//
// The gateway is a minimal typed interface over a remote schemaless store:
// collections of key→document with equality and containment filters, no
// joins. Three implementations exist: memstore (in-memory, reference
// semantics and tests), badgerstore (embedded BadgerDB), and surreal
// (remote SurrealDB).
//
// Documents are dynamic maps; typed domain models are encoded/decoded at the
// component boundary, never trusted implicitly.
package store

import (
	"context"
	"errors"
)

// Collection names shared by all backends.
const (
	CollectionUsers    = "Users"
	CollectionShops    = "Shops"
	CollectionMenuList = "MyMenuList"
)

// Standard errors for gateway operations.
// Use errors.Is() to check these error types in calling code.
var (
	// ErrNotFound indicates the requested document does not exist.
	ErrNotFound = errors.New("document not found")

	// ErrConnection indicates a failure to connect to or communicate with the store.
	ErrConnection = errors.New("store connection error")

	// ErrQuery indicates a query execution failure.
	ErrQuery = errors.New("store query error")
)

// Document is a schemaless record as stored in a collection.
//
// On reads, backends merge the document key into the "id" field so callers
// can recover identities without a second lookup.
type Document = map[string]any

// Filter is an equality constraint on a top-level document field.
type Filter struct {
	Field string
	Value any
}

// Eq builds an equality filter.
func Eq(field string, value any) Filter {
	return Filter{Field: field, Value: value}
}

// Gateway is the document store contract. Every operation may suspend on
// network latency; callers await each call before issuing the next. All
// failures surface as-is — the gateway never retries.
type Gateway interface {
	// Get fetches a single document by id. Returns ErrNotFound when absent.
	Get(ctx context.Context, collection, id string) (Document, error)

	// Set writes a document under the given id, overwriting any prior
	// content in full.
	Set(ctx context.Context, collection, id string, doc Document) error

	// Add writes a document under a freshly generated id and returns it.
	Add(ctx context.Context, collection string, doc Document) (string, error)

	// Update merges the partial document into an existing one, field by
	// field at the top level. Returns ErrNotFound when the target is absent.
	Update(ctx context.Context, collection, id string, partial Document) error

	// Query returns all documents in the collection matching every filter.
	Query(ctx context.Context, collection string, filters []Filter) ([]Document, error)

	// QueryIn returns all documents whose field equals any of the given
	// values. An empty value set yields an empty result.
	QueryIn(ctx context.Context, collection, field string, values []string) ([]Document, error)

	// Close releases backend resources.
	Close() error
}
