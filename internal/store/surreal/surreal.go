// Package surreal implements the document store gateway on a remote
// SurrealDB instance over its websocket client. Collections map to tables;
// filters become parameterized SurrealQL WHERE clauses.
package surreal

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/surrealdb/surrealdb.go"

	"github.com/catability/menu-rouletti/internal/id"
	"github.com/catability/menu-rouletti/internal/store"
)

// Config holds SurrealDB connection settings.
type Config struct {
	Host      string
	Port      string
	User      string
	Password  string
	Namespace string
	Database  string
}

// Store is a remote store.Gateway backed by SurrealDB.
type Store struct {
	db     *surrealdb.DB
	config Config
	logger *slog.Logger
}

// New creates a SurrealDB gateway. Call Connect before use.
func New(cfg Config, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{config: cfg, logger: logger}
}

// Connect establishes the websocket connection and selects the namespace
// and database.
func (s *Store) Connect(ctx context.Context) error {
	endpoint := fmt.Sprintf("ws://%s:%s", s.config.Host, s.config.Port)

	db, err := surrealdb.FromEndpointURLString(ctx, endpoint)
	if err != nil {
		return fmt.Errorf("%w: %v", store.ErrConnection, err)
	}

	if _, err = db.SignIn(ctx, &surrealdb.Auth{
		Username: s.config.User,
		Password: s.config.Password,
	}); err != nil {
		_ = db.Close(ctx)
		return fmt.Errorf("%w: signin failed: %v", store.ErrConnection, err)
	}

	if err := db.Use(ctx, s.config.Namespace, s.config.Database); err != nil {
		_ = db.Close(ctx)
		return fmt.Errorf("%w: use failed: %v", store.ErrConnection, err)
	}

	s.db = db
	s.logger.Info("surrealdb connected", "endpoint", endpoint, "namespace", s.config.Namespace)
	return nil
}

// Close implements store.Gateway.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close(context.Background())
	}
	return nil
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	if s.db == nil {
		return store.ErrConnection
	}
	if _, err := s.db.Version(ctx); err != nil {
		return fmt.Errorf("%w: %v", store.ErrConnection, err)
	}
	return nil
}

// Get implements store.Gateway.
func (s *Store) Get(ctx context.Context, collection, docID string) (store.Document, error) {
	rows, err := s.query(ctx,
		"SELECT *, record::id(id) AS id FROM type::thing($tb, $id)",
		map[string]any{"tb": collection, "id": docID},
	)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, store.ErrNotFound
	}
	return rows[0], nil
}

// Set implements store.Gateway.
func (s *Store) Set(ctx context.Context, collection, docID string, doc store.Document) error {
	_, err := s.query(ctx,
		"UPSERT type::thing($tb, $id) CONTENT $doc",
		map[string]any{"tb": collection, "id": docID, "doc": withoutID(doc)},
	)
	return err
}

// Add implements store.Gateway.
// IDs are generated client-side so that all backends share one id scheme.
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
	rows, err := s.query(ctx,
		"UPDATE type::thing($tb, $id) MERGE $partial RETURN AFTER",
		map[string]any{"tb": collection, "id": docID, "partial": withoutID(partial)},
	)
	if err != nil {
		return err
	}
	// Updating a nonexistent record matches nothing.
	if len(rows) == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Query implements store.Gateway.
func (s *Store) Query(ctx context.Context, collection string, filters []store.Filter) ([]store.Document, error) {
	var sb strings.Builder
	sb.WriteString("SELECT *, record::id(id) AS id FROM type::table($tb)")

	vars := map[string]any{"tb": collection}
	for i, f := range filters {
		if !safeField(f.Field) {
			return nil, fmt.Errorf("%w: invalid filter field %q", store.ErrQuery, f.Field)
		}
		if i == 0 {
			sb.WriteString(" WHERE ")
		} else {
			sb.WriteString(" AND ")
		}
		param := fmt.Sprintf("p%d", i)
		sb.WriteString(f.Field)
		sb.WriteString(" = $")
		sb.WriteString(param)
		vars[param] = f.Value
	}

	return s.query(ctx, sb.String(), vars)
}

// QueryIn implements store.Gateway.
func (s *Store) QueryIn(ctx context.Context, collection, field string, values []string) ([]store.Document, error) {
	if len(values) == 0 {
		return nil, nil
	}
	if !safeField(field) {
		return nil, fmt.Errorf("%w: invalid filter field %q", store.ErrQuery, field)
	}

	return s.query(ctx,
		fmt.Sprintf("SELECT *, record::id(id) AS id FROM type::table($tb) WHERE %s IN $vals", field),
		map[string]any{"tb": collection, "vals": values},
	)
}

// query executes a SurrealQL statement and flattens the response rows.
func (s *Store) query(ctx context.Context, statement string, vars map[string]any) ([]store.Document, error) {
	if s.db == nil {
		return nil, store.ErrConnection
	}

	results, err := surrealdb.Query[[]store.Document](ctx, s.db, statement, vars)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrQuery, err)
	}
	if results == nil {
		return nil, nil
	}

	var rows []store.Document
	for _, r := range *results {
		if r.Status != "OK" {
			if r.Error != nil {
				return nil, fmt.Errorf("%w: %s", store.ErrQuery, r.Error.Message)
			}
			return nil, store.ErrQuery
		}
		rows = append(rows, r.Result...)
	}
	return rows, nil
}

// withoutID strips the merged "id" read-side field before writing, keeping
// record identity solely in the record key.
func withoutID(doc store.Document) store.Document {
	if _, ok := doc["id"]; !ok {
		return doc
	}
	out := make(store.Document, len(doc))
	for k, v := range doc {
		if k == "id" {
			continue
		}
		out[k] = v
	}
	return out
}

// safeField accepts plain snake_case identifiers only; everything our
// components filter on. Anything else never reaches the query text.
func safeField(field string) bool {
	if field == "" {
		return false
	}
	for _, r := range field {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		case r == '_':
		default:
			return false
		}
	}
	return true
}
