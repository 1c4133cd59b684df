// Package registry owns the shared shop catalog: place records keyed by the
// external directory identifier, created by the first user to bookmark a
// place and overwritten (with identical data) by later ones.
package registry

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/catability/menu-rouletti/internal/domain"
	domainerrors "github.com/catability/menu-rouletti/internal/errors"
	"github.com/catability/menu-rouletti/internal/place"
	"github.com/catability/menu-rouletti/internal/store"
)

// batchLimit is the largest value set passed to a single QueryIn call.
// Remote document stores cap containment queries around this size, so
// larger lookups are chunked here rather than in each backend.
const batchLimit = 30

// Registry reads and upserts shop records.
type Registry struct {
	gateway store.Gateway
	logger  *slog.Logger
}

// New creates a shop registry.
func New(gateway store.Gateway, logger *slog.Logger) *Registry {
	return &Registry{gateway: gateway, logger: logger}
}

// Upsert writes the shop record, overwriting any existing document with the
// same id. Unconditional last-write-wins; in practice later writes carry
// identical data.
func (r *Registry) Upsert(ctx context.Context, shop domain.Shop) error {
	if shop.ID == "" {
		return domainerrors.Validation("shop id cannot be empty")
	}

	doc, err := store.Encode(shop)
	if err != nil {
		return fmt.Errorf("encode shop: %w", err)
	}

	if err := r.gateway.Set(ctx, store.CollectionShops, shop.ID, doc); err != nil {
		return domainerrors.Storef(err, "upsert shop %s", shop.ID)
	}

	r.logger.Debug("shop upserted", "shop_id", shop.ID, "name", shop.Name)
	return nil
}

// Get fetches a single shop. Returns ok=false when the record is absent —
// a missing shop is a soft case for every caller, never an error.
func (r *Registry) Get(ctx context.Context, shopID string) (domain.Shop, bool, error) {
	doc, err := r.gateway.Get(ctx, store.CollectionShops, shopID)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return domain.Shop{}, false, nil
		}
		return domain.Shop{}, false, domainerrors.Storef(err, "get shop %s", shopID)
	}

	var shop domain.Shop
	if err := store.Decode(doc, &shop); err != nil {
		return domain.Shop{}, false, domainerrors.Storef(err, "decode shop %s", shopID)
	}
	return shop, true, nil
}

// GetMany batches shop lookups by id. Ids with no matching record are
// simply absent from the result mapping. Value sets larger than the store's
// containment limit are chunked transparently.
func (r *Registry) GetMany(ctx context.Context, shopIDs []string) (map[string]domain.Shop, error) {
	shops := make(map[string]domain.Shop, len(shopIDs))

	for chunk := range chunks(shopIDs, batchLimit) {
		docs, err := r.gateway.QueryIn(ctx, store.CollectionShops, "shop_id", chunk)
		if err != nil {
			return nil, domainerrors.Storef(err, "query shops")
		}
		for _, doc := range docs {
			var shop domain.Shop
			if err := store.Decode(doc, &shop); err != nil {
				return nil, domainerrors.Storef(err, "decode shop")
			}
			shops[shop.ID] = shop
		}
	}
	return shops, nil
}

// FromPlace converts a raw place-search result into a Shop, parsing the
// directory's string coordinates into typed values.
func FromPlace(p place.Place) (domain.Shop, error) {
	if p.ID == "" {
		return domain.Shop{}, domainerrors.Validation("place id cannot be empty")
	}

	x, err := strconv.ParseFloat(p.X, 64)
	if err != nil {
		return domain.Shop{}, domainerrors.Validationf("place %s has invalid x coordinate %q", p.ID, p.X)
	}
	y, err := strconv.ParseFloat(p.Y, 64)
	if err != nil {
		return domain.Shop{}, domainerrors.Validationf("place %s has invalid y coordinate %q", p.ID, p.Y)
	}

	return domain.Shop{
		ID:      p.ID,
		Name:    p.Name,
		Address: p.Address,
		X:       x,
		Y:       y,
	}, nil
}

// chunks yields the slice in pieces of at most size elements.
func chunks(values []string, size int) func(yield func([]string) bool) {
	return func(yield func([]string) bool) {
		for start := 0; start < len(values); start += size {
			end := min(start+size, len(values))
			if !yield(values[start:end]) {
				return
			}
		}
	}
}
