package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser() *User {
	return &User{
		ID: "uid-1",
		Locations: []LocationTag{
			{ID: "loc-b", Name: "office", Order: 1},
			{ID: "loc-a", Name: "home", Order: 0},
			{ID: "loc-c", Name: "gym", Order: 2},
		},
	}
}

func TestUser_SortedTags(t *testing.T) {
	u := testUser()

	tags := u.SortedTags()

	require.Len(t, tags, 3)
	assert.Equal(t, []string{"home", "office", "gym"}, []string{tags[0].Name, tags[1].Name, tags[2].Name})

	// Original slice order is untouched.
	assert.Equal(t, "office", u.Locations[0].Name)
}

func TestUser_TagByName_ExactMatch(t *testing.T) {
	u := testUser()

	assert.NotNil(t, u.TagByName("home"))
	assert.Nil(t, u.TagByName("Home"), "matching is case-sensitive")
	assert.Nil(t, u.TagByName("nowhere"))
}

func TestUser_RemoveTag_CompactsOrder(t *testing.T) {
	u := testUser()

	require.True(t, u.RemoveTag("loc-b"))

	tags := u.SortedTags()
	require.Len(t, tags, 2)
	assert.Equal(t, "home", tags[0].Name)
	assert.Equal(t, 0, tags[0].Order)
	assert.Equal(t, "gym", tags[1].Name)
	assert.Equal(t, 1, tags[1].Order)
}

func TestUser_RemoveTag_Missing(t *testing.T) {
	u := testUser()

	assert.False(t, u.RemoveTag("loc-x"))
	assert.Len(t, u.Locations, 3)
}

func TestTagPatch_Apply(t *testing.T) {
	lat, lng := 37.4979, 127.0276
	name := "near office"
	addr := "Gangnam-daero 396"

	tag := LocationTag{ID: "loc-1", Name: "office", Order: 3}

	TagPatch{Name: &name, Lat: &lat, Lng: &lng, Address: &addr}.Apply(&tag)

	assert.Equal(t, "near office", tag.Name)
	assert.True(t, tag.Anchored())
	assert.Equal(t, 3, tag.Order, "order is never patched")

	// Partial patch leaves other fields alone.
	newName := "HQ"
	TagPatch{Name: &newName}.Apply(&tag)
	assert.Equal(t, "HQ", tag.Name)
	assert.Equal(t, &lat, tag.Lat)
}

func TestListedEntry_Matches(t *testing.T) {
	entry := ListedEntry{
		Entry: MenuEntry{MenuName: "Kimchi-Stew", LocationTag: "office"},
		Shop:  Shop{Name: "Halmae Kitchen"},
	}

	tests := []struct {
		query string
		want  bool
	}{
		{"", true},
		{"  ", true},
		{"kimchi", true},
		{"HALMAE", true},
		{"office", true},
		{"sushi", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, entry.Matches(tt.query), "query: %q", tt.query)
	}
}
