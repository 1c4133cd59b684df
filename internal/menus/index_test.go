package menus

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catability/menu-rouletti/internal/auth"
	"github.com/catability/menu-rouletti/internal/domain"
	domainerrors "github.com/catability/menu-rouletti/internal/errors"
	"github.com/catability/menu-rouletti/internal/logger"
	"github.com/catability/menu-rouletti/internal/registry"
	"github.com/catability/menu-rouletti/internal/store"
	"github.com/catability/menu-rouletti/internal/store/memstore"
	"github.com/catability/menu-rouletti/internal/tags"
	"github.com/catability/menu-rouletti/internal/validation"
)

type fixture struct {
	index    *Index
	mem      *memstore.Store
	registry *registry.Registry
	tags     *tags.Store
	provider *auth.StaticProvider
}

func setupIndex(t *testing.T) *fixture {
	t.Helper()
	mem := memstore.New()
	provider := auth.SignedIn("user-1", "Tester")
	log := logger.Discard().Logger
	tagStore := tags.New(mem, provider, log)
	reg := registry.New(mem, log)
	return &fixture{
		index:    New(mem, tagStore, reg, provider, validation.New(), log),
		mem:      mem,
		registry: reg,
		tags:     tagStore,
		provider: provider,
	}
}

func seedShop(t *testing.T, f *fixture, id, name string) {
	t.Helper()
	require.NoError(t, f.registry.Upsert(context.Background(), domain.Shop{ID: id, Name: name}))
}

// seedEntry writes a menu entry directly at the store layer so tests can
// control created_at.
func seedEntry(t *testing.T, f *fixture, entry domain.MenuEntry) {
	t.Helper()
	doc, err := store.Encode(entry)
	require.NoError(t, err)
	_, err = f.mem.Add(context.Background(), store.CollectionMenuList, doc)
	require.NoError(t, err)
}

func TestAdd_CreatesEntryAndTag(t *testing.T) {
	f := setupIndex(t)
	ctx := context.Background()

	entry, err := f.index.Add(ctx, AddInput{
		ShopID:      "s1",
		MenuName:    "kimchi stew",
		LocationTag: "Gangnam",
		Memo:        "extra spicy",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, "user-1", entry.UserID)
	assert.False(t, entry.CreatedAt.IsZero())

	list, err := f.tags.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Gangnam", list[0].Name)
}

func TestAdd_ReusesExistingTag(t *testing.T) {
	f := setupIndex(t)
	ctx := context.Background()

	tag, err := f.tags.Ensure(ctx, "Gangnam")
	require.NoError(t, err)

	_, err = f.index.Add(ctx, AddInput{ShopID: "s1", MenuName: "bibimbap", LocationTag: "Gangnam"})
	require.NoError(t, err)

	list, err := f.tags.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, tag.ID, list[0].ID)
}

func TestAdd_ValidatesInput(t *testing.T) {
	f := setupIndex(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		input AddInput
	}{
		{"blank menu name", AddInput{ShopID: "s1", MenuName: "  ", LocationTag: "t"}},
		{"blank tag", AddInput{ShopID: "s1", MenuName: "m", LocationTag: "  "}},
		{"missing shop id", AddInput{MenuName: "m", LocationTag: "t"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.index.Add(ctx, tt.input)
			assert.ErrorIs(t, err, domainerrors.ErrValidation)
		})
	}
}

func TestAdd_RequiresSignIn(t *testing.T) {
	f := setupIndex(t)
	f.provider.SignOut()

	_, err := f.index.Add(context.Background(), AddInput{ShopID: "s1", MenuName: "m", LocationTag: "t"})
	assert.ErrorIs(t, err, domainerrors.ErrNotAuthenticated)
}

func TestSave_UpsertsShopAndAddsEntry(t *testing.T) {
	f := setupIndex(t)
	ctx := context.Background()

	shop := domain.Shop{ID: "s1", Name: "Halmae Kitchen", Address: "Gangnam-daero 396", X: 127.0276, Y: 37.4979}
	entry, err := f.index.Save(ctx, shop, AddInput{MenuName: "kimchi stew", LocationTag: "Gangnam"})
	require.NoError(t, err)
	assert.Equal(t, "s1", entry.ShopID)

	got, ok, err := f.registry.Get(ctx, "s1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, shop, got)
}

func TestSave_InvalidInputLeavesCatalogUntouched(t *testing.T) {
	f := setupIndex(t)
	ctx := context.Background()

	shop := domain.Shop{ID: "s1", Name: "Halmae Kitchen"}
	_, err := f.index.Save(ctx, shop, AddInput{MenuName: "   ", LocationTag: "Gangnam"})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	_, ok, err := f.registry.Get(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, ok)

	list, err := f.tags.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCountsByTag(t *testing.T) {
	f := setupIndex(t)
	ctx := context.Background()

	for _, in := range []AddInput{
		{ShopID: "s1", MenuName: "a", LocationTag: "Gangnam"},
		{ShopID: "s1", MenuName: "b", LocationTag: "Gangnam"},
		{ShopID: "s2", MenuName: "c", LocationTag: "Hongdae"},
	} {
		_, err := f.index.Add(ctx, in)
		require.NoError(t, err)
	}
	seedEntry(t, f, domain.MenuEntry{UserID: "user-1", ShopID: "s3", MenuName: "stray"})

	counts, err := f.index.CountsByTag(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"Gangnam": 2, "Hongdae": 1}, counts)
}

func TestTagsWithCounts_KeepsTagOrder(t *testing.T) {
	f := setupIndex(t)
	ctx := context.Background()

	_, err := f.tags.Ensure(ctx, "empty tag")
	require.NoError(t, err)
	_, err = f.index.Add(ctx, AddInput{ShopID: "s1", MenuName: "a", LocationTag: "Gangnam"})
	require.NoError(t, err)

	got, err := f.index.TagsWithCounts(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "empty tag", got[0].Name)
	assert.Equal(t, 0, got[0].Count)
	assert.Equal(t, "Gangnam", got[1].Name)
	assert.Equal(t, 1, got[1].Count)
}

func TestCountsByTag_SurvivesTagRename(t *testing.T) {
	f := setupIndex(t)
	ctx := context.Background()

	_, err := f.index.Add(ctx, AddInput{ShopID: "s1", MenuName: "a", LocationTag: "old name"})
	require.NoError(t, err)

	list, err := f.tags.List(ctx)
	require.NoError(t, err)
	name := "new name"
	_, err = f.tags.Update(ctx, list[0].ID, domain.TagPatch{Name: &name})
	require.NoError(t, err)

	// Entries keep the old name; the renamed tag starts from zero.
	counts, err := f.index.CountsByTag(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"old name": 1}, counts)

	names, err := f.index.DistinctMenuNames(ctx, "new name")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestDistinctMenuNames_Deduplicates(t *testing.T) {
	f := setupIndex(t)
	ctx := context.Background()

	for _, in := range []AddInput{
		{ShopID: "s1", MenuName: "kimchi stew", LocationTag: "Gangnam"},
		{ShopID: "s2", MenuName: "kimchi stew", LocationTag: "Gangnam"},
		{ShopID: "s3", MenuName: "bibimbap", LocationTag: "Gangnam"},
		{ShopID: "s4", MenuName: "ramen", LocationTag: "Hongdae"},
	} {
		_, err := f.index.Add(ctx, in)
		require.NoError(t, err)
	}

	names, err := f.index.DistinctMenuNames(ctx, "Gangnam")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"kimchi stew", "bibimbap"}, names)
}

func TestDistinctMenuNames_UnknownTag(t *testing.T) {
	f := setupIndex(t)

	names, err := f.index.DistinctMenuNames(context.Background(), "nowhere")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestResolveShopsFor(t *testing.T) {
	f := setupIndex(t)
	ctx := context.Background()

	seedShop(t, f, "s1", "First Kitchen")
	seedShop(t, f, "s2", "Second Kitchen")

	for _, in := range []AddInput{
		{ShopID: "s1", MenuName: "kimchi stew", LocationTag: "Gangnam"},
		{ShopID: "s2", MenuName: "kimchi stew", LocationTag: "Gangnam"},
		{ShopID: "s1", MenuName: "bibimbap", LocationTag: "Gangnam"},
		{ShopID: "s2", MenuName: "kimchi stew", LocationTag: "Hongdae"},
	} {
		_, err := f.index.Add(ctx, in)
		require.NoError(t, err)
	}

	shops, err := f.index.ResolveShopsFor(ctx, "Gangnam", "kimchi stew")
	require.NoError(t, err)
	names := make([]string, len(shops))
	for i, s := range shops {
		names[i] = s.Name
	}
	assert.ElementsMatch(t, []string{"First Kitchen", "Second Kitchen"}, names)
}

func TestResolveShopsFor_OmitsMissingShops(t *testing.T) {
	f := setupIndex(t)
	ctx := context.Background()

	seedShop(t, f, "s1", "Known Kitchen")
	for _, in := range []AddInput{
		{ShopID: "s1", MenuName: "kimchi stew", LocationTag: "Gangnam"},
		{ShopID: "gone", MenuName: "kimchi stew", LocationTag: "Gangnam"},
	} {
		_, err := f.index.Add(ctx, in)
		require.NoError(t, err)
	}

	shops, err := f.index.ResolveShopsFor(ctx, "Gangnam", "kimchi stew")
	require.NoError(t, err)
	require.Len(t, shops, 1)
	assert.Equal(t, "s1", shops[0].ID)
}

func TestResolveShopsFor_EmptyResultIsValid(t *testing.T) {
	f := setupIndex(t)

	shops, err := f.index.ResolveShopsFor(context.Background(), "Gangnam", "never eaten")
	require.NoError(t, err)
	assert.Empty(t, shops)
}

func TestShopsForTag(t *testing.T) {
	f := setupIndex(t)
	ctx := context.Background()

	seedShop(t, f, "s1", "First Kitchen")
	seedShop(t, f, "s2", "Second Kitchen")
	for _, in := range []AddInput{
		{ShopID: "s1", MenuName: "a", LocationTag: "Gangnam"},
		{ShopID: "s1", MenuName: "b", LocationTag: "Gangnam"},
		{ShopID: "s2", MenuName: "c", LocationTag: "Gangnam"},
	} {
		_, err := f.index.Add(ctx, in)
		require.NoError(t, err)
	}

	shops, err := f.index.ShopsForTag(ctx, "Gangnam")
	require.NoError(t, err)
	ids := make([]string, len(shops))
	for i, s := range shops {
		ids[i] = s.ID
	}
	assert.ElementsMatch(t, []string{"s1", "s2"}, ids)
}

func TestFullList_SortsNewestFirstAndDropsMissingShops(t *testing.T) {
	f := setupIndex(t)
	ctx := context.Background()

	seedShop(t, f, "s1", "First Kitchen")
	seedShop(t, f, "s2", "Second Kitchen")

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	seedEntry(t, f, domain.MenuEntry{UserID: "user-1", ShopID: "s1", MenuName: "oldest", LocationTag: "t", CreatedAt: base})
	seedEntry(t, f, domain.MenuEntry{UserID: "user-1", ShopID: "gone", MenuName: "orphan", LocationTag: "t", CreatedAt: base.Add(time.Hour)})
	seedEntry(t, f, domain.MenuEntry{UserID: "user-1", ShopID: "s2", MenuName: "newest", LocationTag: "t", CreatedAt: base.Add(2 * time.Hour)})

	listed, err := f.index.FullList(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "newest", listed[0].Entry.MenuName)
	assert.Equal(t, "Second Kitchen", listed[0].Shop.Name)
	assert.Equal(t, "oldest", listed[1].Entry.MenuName)
}

func TestSearchList(t *testing.T) {
	f := setupIndex(t)
	ctx := context.Background()

	seedShop(t, f, "s1", "Halmae Kitchen")
	seedShop(t, f, "s2", "Noodle Bar")
	for _, in := range []AddInput{
		{ShopID: "s1", MenuName: "Kimchi Stew", LocationTag: "Gangnam"},
		{ShopID: "s2", MenuName: "cold noodles", LocationTag: "Hongdae"},
	} {
		_, err := f.index.Add(ctx, in)
		require.NoError(t, err)
	}

	byMenu, err := f.index.SearchList(ctx, "kimchi")
	require.NoError(t, err)
	require.Len(t, byMenu, 1)
	assert.Equal(t, "Kimchi Stew", byMenu[0].Entry.MenuName)

	byShop, err := f.index.SearchList(ctx, "NOODLE")
	require.NoError(t, err)
	require.Len(t, byShop, 1)
	assert.Equal(t, "Noodle Bar", byShop[0].Shop.Name)

	all, err := f.index.SearchList(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestIndex_UsersAreIsolated(t *testing.T) {
	f := setupIndex(t)
	ctx := context.Background()

	seedShop(t, f, "s1", "Kitchen")
	seedEntry(t, f, domain.MenuEntry{UserID: "someone-else", ShopID: "s1", MenuName: "theirs", LocationTag: "Gangnam"})
	_, err := f.index.Add(ctx, AddInput{ShopID: "s1", MenuName: "mine", LocationTag: "Gangnam"})
	require.NoError(t, err)

	names, err := f.index.DistinctMenuNames(ctx, "Gangnam")
	require.NoError(t, err)
	assert.Equal(t, []string{"mine"}, names)

	counts, err := f.index.CountsByTag(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"Gangnam": 1}, counts)
}

func TestIndex_StoreFailure(t *testing.T) {
	f := setupIndex(t)

	f.mem.FailNext(store.ErrQuery)
	_, err := f.index.CountsByTag(context.Background())
	assert.ErrorIs(t, err, domainerrors.ErrStore)
}
