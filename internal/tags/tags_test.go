package tags

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catability/menu-rouletti/internal/auth"
	"github.com/catability/menu-rouletti/internal/domain"
	domainerrors "github.com/catability/menu-rouletti/internal/errors"
	"github.com/catability/menu-rouletti/internal/logger"
	"github.com/catability/menu-rouletti/internal/store"
	"github.com/catability/menu-rouletti/internal/store/memstore"
)

func setupTagStore(t *testing.T) (*Store, *memstore.Store, *auth.StaticProvider) {
	t.Helper()
	mem := memstore.New()
	provider := auth.SignedIn("user-1", "Tester")
	return New(mem, provider, logger.Discard().Logger), mem, provider
}

func TestList_EmptyWithoutUserDocument(t *testing.T) {
	s, _, _ := setupTagStore(t)

	got, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestList_RequiresSignIn(t *testing.T) {
	s, _, provider := setupTagStore(t)
	provider.SignOut()

	_, err := s.List(context.Background())
	assert.ErrorIs(t, err, domainerrors.ErrNotAuthenticated)
}

func TestEnsure_CreatesTagAndUserDocument(t *testing.T) {
	s, mem, _ := setupTagStore(t)
	ctx := context.Background()

	tag, err := s.Ensure(ctx, "Gangnam")
	require.NoError(t, err)
	assert.NotEmpty(t, tag.ID)
	assert.Equal(t, "Gangnam", tag.Name)
	assert.Equal(t, 0, tag.Order)
	assert.Nil(t, tag.Lat)
	assert.Nil(t, tag.Lng)
	assert.Nil(t, tag.Address)

	doc, err := mem.Get(ctx, store.CollectionUsers, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Tester", doc["display_name"])
}

func TestEnsure_Idempotent(t *testing.T) {
	s, _, _ := setupTagStore(t)
	ctx := context.Background()

	first, err := s.Ensure(ctx, "Gangnam")
	require.NoError(t, err)
	second, err := s.Ensure(ctx, "Gangnam")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)

	tags, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, tags, 1)
}

func TestEnsure_NameMatchIsCaseSensitive(t *testing.T) {
	s, _, _ := setupTagStore(t)
	ctx := context.Background()

	first, err := s.Ensure(ctx, "lunch")
	require.NoError(t, err)
	second, err := s.Ensure(ctx, "Lunch")
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, 1, second.Order)
}

func TestEnsure_AppendsInOrder(t *testing.T) {
	s, _, _ := setupTagStore(t)
	ctx := context.Background()

	for _, name := range []string{"a", "b", "c"} {
		_, err := s.Ensure(ctx, name)
		require.NoError(t, err)
	}

	tags, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 3)
	for i, name := range []string{"a", "b", "c"} {
		assert.Equal(t, name, tags[i].Name)
		assert.Equal(t, i, tags[i].Order)
	}
}

func TestEnsure_RejectsBlankName(t *testing.T) {
	s, _, _ := setupTagStore(t)

	_, err := s.Ensure(context.Background(), "   ")
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestUpdate_PatchesWithoutTouchingOrder(t *testing.T) {
	s, _, _ := setupTagStore(t)
	ctx := context.Background()

	_, err := s.Ensure(ctx, "first")
	require.NoError(t, err)
	tag, err := s.Ensure(ctx, "second")
	require.NoError(t, err)

	lat, lng := 37.4979, 127.0276
	name := "renamed"
	got, err := s.Update(ctx, tag.ID, domain.TagPatch{Name: &name, Lat: &lat, Lng: &lng})
	require.NoError(t, err)

	assert.Equal(t, "renamed", got.Name)
	assert.Equal(t, 1, got.Order)
	require.NotNil(t, got.Lat)
	assert.Equal(t, lat, *got.Lat)

	tags, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "renamed", tags[1].Name)
}

func TestUpdate_UnknownTag(t *testing.T) {
	s, _, _ := setupTagStore(t)
	ctx := context.Background()

	_, err := s.Ensure(ctx, "only")
	require.NoError(t, err)

	_, err = s.Update(ctx, "missing-id", domain.TagPatch{})
	assert.ErrorIs(t, err, domainerrors.ErrTagNotFound)
}

func TestDelete_CompactsOrder(t *testing.T) {
	s, _, _ := setupTagStore(t)
	ctx := context.Background()

	var ids []string
	for _, name := range []string{"a", "b", "c"} {
		tag, err := s.Ensure(ctx, name)
		require.NoError(t, err)
		ids = append(ids, tag.ID)
	}

	require.NoError(t, s.Delete(ctx, ids[1]))

	tags, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "a", tags[0].Name)
	assert.Equal(t, 0, tags[0].Order)
	assert.Equal(t, "c", tags[1].Name)
	assert.Equal(t, 1, tags[1].Order)
}

func TestDelete_UnknownTag(t *testing.T) {
	s, _, _ := setupTagStore(t)

	err := s.Delete(context.Background(), "missing-id")
	assert.ErrorIs(t, err, domainerrors.ErrTagNotFound)
}

func TestReorder_RewritesOrders(t *testing.T) {
	s, _, _ := setupTagStore(t)
	ctx := context.Background()

	var ids []string
	for _, name := range []string{"a", "b", "c"} {
		tag, err := s.Ensure(ctx, name)
		require.NoError(t, err)
		ids = append(ids, tag.ID)
	}

	require.NoError(t, s.Reorder(ctx, []string{ids[2], ids[0], ids[1]}))

	tags, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "c", tags[0].Name)
	assert.Equal(t, "a", tags[1].Name)
	assert.Equal(t, "b", tags[2].Name)
}

func TestReorder_RejectsPartialPermutation(t *testing.T) {
	s, _, _ := setupTagStore(t)
	ctx := context.Background()

	tag, err := s.Ensure(ctx, "a")
	require.NoError(t, err)
	_, err = s.Ensure(ctx, "b")
	require.NoError(t, err)

	err = s.Reorder(ctx, []string{tag.ID})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	err = s.Reorder(ctx, []string{tag.ID, tag.ID})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestTagStore_UsersAreIsolated(t *testing.T) {
	s, _, provider := setupTagStore(t)
	ctx := context.Background()

	_, err := s.Ensure(ctx, "mine")
	require.NoError(t, err)

	provider.SignIn(auth.Identity{UserID: "user-2", DisplayName: "Other"})
	tags, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, tags)
}

func TestEnsure_StoreFailure(t *testing.T) {
	s, mem, _ := setupTagStore(t)

	mem.FailNext(store.ErrQuery)
	_, err := s.Ensure(context.Background(), "tag")
	assert.ErrorIs(t, err, domainerrors.ErrStore)
}
