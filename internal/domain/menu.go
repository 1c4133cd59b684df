package domain

import (
	"strings"
	"time"
)

// MenuEntry records one "I ate dish D at shop S, filed under tag T" event.
// Entries are append-only: created by the save action, never mutated.
//
// ShopID and LocationTag are non-enforced references. A dangling tag name,
// e.g. after a tag rename, leaves the entry orphaned: there is no cascade
// and no referential integrity.
type MenuEntry struct {
	ID          string    `json:"id,omitempty"`
	UserID      string    `json:"user_id"`
	ShopID      string    `json:"shop_id"`
	MenuName    string    `json:"menu_name"`
	LocationTag string    `json:"location_tag"`
	Memo        string    `json:"memo,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ListedEntry is a MenuEntry joined with its Shop for the "My List" view.
type ListedEntry struct {
	Entry MenuEntry `json:"entry"`
	Shop  Shop      `json:"shop"`
}

// Matches reports whether the listed entry matches a free-text filter:
// case-insensitive substring over shop name, menu name, and tag.
// An empty query matches everything.
func (l *ListedEntry) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(l.Shop.Name), q) ||
		strings.Contains(strings.ToLower(l.Entry.MenuName), q) ||
		strings.Contains(strings.ToLower(l.Entry.LocationTag), q)
}
