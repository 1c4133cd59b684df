// Package menus owns the per-user flat collection of menu entries and every
// aggregate read over it: counts per tag, distinct dish names, shop joins,
// and the flat list view.
package menus

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/catability/menu-rouletti/internal/auth"
	"github.com/catability/menu-rouletti/internal/domain"
	domainerrors "github.com/catability/menu-rouletti/internal/errors"
	"github.com/catability/menu-rouletti/internal/registry"
	"github.com/catability/menu-rouletti/internal/store"
	"github.com/catability/menu-rouletti/internal/tags"
	"github.com/catability/menu-rouletti/internal/validation"
)

// Index manages menu entries for the signed-in user. All reads are scoped by
// user_id; entries under other users never leak into any result.
type Index struct {
	gateway  store.Gateway
	tags     *tags.Store
	registry *registry.Registry
	auth     auth.Provider
	validate *validation.Validator
	logger   *slog.Logger
}

// New creates a menu index.
func New(gateway store.Gateway, tagStore *tags.Store, reg *registry.Registry, authProvider auth.Provider, validate *validation.Validator, logger *slog.Logger) *Index {
	return &Index{
		gateway:  gateway,
		tags:     tagStore,
		registry: reg,
		auth:     authProvider,
		validate: validate,
		logger:   logger,
	}
}

// AddInput carries the fields for a new menu entry.
type AddInput struct {
	ShopID      string `json:"shop_id" validate:"required"`
	MenuName    string `json:"menu_name" validate:"required"`
	LocationTag string `json:"location_tag" validate:"required"`
	Memo        string `json:"memo"`
}

// Add appends a menu entry for the signed-in user. The entry's tag is
// ensured to exist first, so saving under a brand-new tag name creates the
// tag in the same action. Entries are append-only; nothing updates them
// later.
func (x *Index) Add(ctx context.Context, input AddInput) (domain.MenuEntry, error) {
	identity, err := auth.RequireUser(ctx, x.auth)
	if err != nil {
		return domain.MenuEntry{}, err
	}

	input.MenuName = strings.TrimSpace(input.MenuName)
	input.LocationTag = strings.TrimSpace(input.LocationTag)
	if err := x.validate.Validate(input); err != nil {
		return domain.MenuEntry{}, err
	}

	if _, err := x.tags.Ensure(ctx, input.LocationTag); err != nil {
		return domain.MenuEntry{}, err
	}

	entry := domain.MenuEntry{
		UserID:      identity.UserID,
		ShopID:      input.ShopID,
		MenuName:    input.MenuName,
		LocationTag: input.LocationTag,
		Memo:        input.Memo,
		CreatedAt:   time.Now(),
	}

	doc, err := store.Encode(entry)
	if err != nil {
		return domain.MenuEntry{}, fmt.Errorf("encode menu entry: %w", err)
	}
	id, err := x.gateway.Add(ctx, store.CollectionMenuList, doc)
	if err != nil {
		return domain.MenuEntry{}, domainerrors.Storef(err, "add menu entry")
	}
	entry.ID = id

	x.logger.Info("menu entry added",
		"user_id", identity.UserID,
		"entry_id", id,
		"shop_id", entry.ShopID,
		"menu_name", entry.MenuName,
		"location_tag", entry.LocationTag,
	)
	return entry, nil
}

// Save is the full bookmark action: upsert the shop into the shared catalog,
// then append a menu entry pointing at it. The whole input is validated up
// front, so a bad entry leaves the catalog untouched.
func (x *Index) Save(ctx context.Context, shop domain.Shop, input AddInput) (domain.MenuEntry, error) {
	if _, err := auth.RequireUser(ctx, x.auth); err != nil {
		return domain.MenuEntry{}, err
	}

	input.ShopID = shop.ID
	input.MenuName = strings.TrimSpace(input.MenuName)
	input.LocationTag = strings.TrimSpace(input.LocationTag)
	if err := x.validate.Validate(input); err != nil {
		return domain.MenuEntry{}, err
	}

	if err := x.registry.Upsert(ctx, shop); err != nil {
		return domain.MenuEntry{}, err
	}
	return x.Add(ctx, input)
}

// CountsByTag tallies the signed-in user's entries per tag name. Tags with
// no entries are absent from the result; entries with a blank tag are
// skipped.
func (x *Index) CountsByTag(ctx context.Context) (map[string]int, error) {
	identity, err := auth.RequireUser(ctx, x.auth)
	if err != nil {
		return nil, err
	}

	entries, err := x.entriesForUser(ctx, identity.UserID)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, e := range entries {
		if e.LocationTag == "" {
			continue
		}
		counts[e.LocationTag]++
	}
	return counts, nil
}

// TagsWithCounts returns the user's ordered tag list annotated with entry
// counts. Entries whose tag name no longer matches any tag contribute to no
// count.
func (x *Index) TagsWithCounts(ctx context.Context) ([]domain.TagWithCount, error) {
	list, err := x.tags.List(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := x.CountsByTag(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.TagWithCount, len(list))
	for i, tag := range list {
		out[i] = domain.TagWithCount{LocationTag: tag, Count: counts[tag.Name]}
	}
	return out, nil
}

// EntriesForTag returns the user's entries filed under the given tag name,
// matched exactly and case-sensitively.
func (x *Index) EntriesForTag(ctx context.Context, tagName string) ([]domain.MenuEntry, error) {
	identity, err := auth.RequireUser(ctx, x.auth)
	if err != nil {
		return nil, err
	}
	return x.queryEntries(ctx,
		store.Eq("user_id", identity.UserID),
		store.Eq("location_tag", tagName),
	)
}

// DistinctMenuNames returns the distinct dish names under the tag, each name
// once no matter how many entries carry it, in first-seen order. An unknown
// tag name yields an empty slice.
func (x *Index) DistinctMenuNames(ctx context.Context, tagName string) ([]string, error) {
	entries, err := x.EntriesForTag(ctx, tagName)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(entries))
	var names []string
	for _, e := range entries {
		if e.MenuName == "" {
			continue
		}
		if _, dup := seen[e.MenuName]; dup {
			continue
		}
		seen[e.MenuName] = struct{}{}
		names = append(names, e.MenuName)
	}
	return names, nil
}

// ResolveShopsFor returns every shop where the user has eaten the given dish
// under the given tag. Shops missing from the catalog are silently omitted;
// an empty result is valid.
func (x *Index) ResolveShopsFor(ctx context.Context, tagName, menuName string) ([]domain.Shop, error) {
	identity, err := auth.RequireUser(ctx, x.auth)
	if err != nil {
		return nil, err
	}

	entries, err := x.queryEntries(ctx,
		store.Eq("user_id", identity.UserID),
		store.Eq("location_tag", tagName),
		store.Eq("menu_name", menuName),
	)
	if err != nil {
		return nil, err
	}
	return x.shopsForEntries(ctx, entries)
}

// ShopsForTag returns every shop referenced by the user's entries under the
// tag, deduplicated, in first-seen entry order.
func (x *Index) ShopsForTag(ctx context.Context, tagName string) ([]domain.Shop, error) {
	entries, err := x.EntriesForTag(ctx, tagName)
	if err != nil {
		return nil, err
	}
	return x.shopsForEntries(ctx, entries)
}

// FullList returns every entry of the signed-in user joined with its shop,
// newest first. Entries whose shop is missing from the catalog are dropped
// from the view rather than surfaced as errors.
func (x *Index) FullList(ctx context.Context) ([]domain.ListedEntry, error) {
	identity, err := auth.RequireUser(ctx, x.auth)
	if err != nil {
		return nil, err
	}

	entries, err := x.entriesForUser(ctx, identity.UserID)
	if err != nil {
		return nil, err
	}

	shops, err := x.registry.GetMany(ctx, distinctShopIDs(entries))
	if err != nil {
		return nil, err
	}

	listed := make([]domain.ListedEntry, 0, len(entries))
	for _, e := range entries {
		shop, ok := shops[e.ShopID]
		if !ok {
			x.logger.Debug("dropping entry with missing shop", "entry_id", e.ID, "shop_id", e.ShopID)
			continue
		}
		listed = append(listed, domain.ListedEntry{Entry: e, Shop: shop})
	}

	sort.SliceStable(listed, func(i, j int) bool {
		return listed[i].Entry.CreatedAt.After(listed[j].Entry.CreatedAt)
	})
	return listed, nil
}

// SearchList returns the full list narrowed by a free-text filter over shop
// name, dish name, and tag. A blank query returns the whole list.
func (x *Index) SearchList(ctx context.Context, query string) ([]domain.ListedEntry, error) {
	listed, err := x.FullList(ctx)
	if err != nil {
		return nil, err
	}

	filtered := listed[:0]
	for i := range listed {
		if listed[i].Matches(query) {
			filtered = append(filtered, listed[i])
		}
	}
	return filtered, nil
}

func (x *Index) entriesForUser(ctx context.Context, userID string) ([]domain.MenuEntry, error) {
	return x.queryEntries(ctx, store.Eq("user_id", userID))
}

func (x *Index) queryEntries(ctx context.Context, filters ...store.Filter) ([]domain.MenuEntry, error) {
	docs, err := x.gateway.Query(ctx, store.CollectionMenuList, filters)
	if err != nil {
		return nil, domainerrors.Storef(err, "query menu entries")
	}

	entries := make([]domain.MenuEntry, 0, len(docs))
	for _, doc := range docs {
		var e domain.MenuEntry
		if err := store.Decode(doc, &e); err != nil {
			return nil, domainerrors.Storef(err, "decode menu entry")
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// shopsForEntries resolves the distinct shops behind a set of entries,
// preserving first-seen order and omitting shops absent from the catalog.
func (x *Index) shopsForEntries(ctx context.Context, entries []domain.MenuEntry) ([]domain.Shop, error) {
	ids := distinctShopIDs(entries)
	byID, err := x.registry.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	shops := make([]domain.Shop, 0, len(ids))
	for _, id := range ids {
		if shop, ok := byID[id]; ok {
			shops = append(shops, shop)
		}
	}
	return shops, nil
}

func distinctShopIDs(entries []domain.MenuEntry) []string {
	seen := make(map[string]struct{}, len(entries))
	var ids []string
	for _, e := range entries {
		if e.ShopID == "" {
			continue
		}
		if _, dup := seen[e.ShopID]; dup {
			continue
		}
		seen[e.ShopID] = struct{}{}
		ids = append(ids, e.ShopID)
	}
	return ids
}
