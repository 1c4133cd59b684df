package domain

import (
	"sort"
	"time"
)

// User represents an authenticated identity. One document per user; the
// ordered tag list is embedded, so every tag mutation rewrites the whole
// Locations array at the storage boundary.
type User struct {
	ID          string        `json:"id"`
	DisplayName string        `json:"display_name,omitempty"`
	Locations   []LocationTag `json:"locations"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// Touch updates the UpdatedAt timestamp.
func (u *User) Touch() {
	u.UpdatedAt = time.Now()
}

// SortedTags returns the tag list ordered ascending by Order.
// The receiver's slice is not mutated.
func (u *User) SortedTags() []LocationTag {
	tags := make([]LocationTag, len(u.Locations))
	copy(tags, u.Locations)
	sort.Slice(tags, func(i, j int) bool { return tags[i].Order < tags[j].Order })
	return tags
}

// TagByName finds a tag by exact, case-sensitive name match.
// Returns nil if no tag has that name.
func (u *User) TagByName(name string) *LocationTag {
	for i := range u.Locations {
		if u.Locations[i].Name == name {
			return &u.Locations[i]
		}
	}
	return nil
}

// TagByID finds a tag by its id. Returns nil if absent.
func (u *User) TagByID(id string) *LocationTag {
	for i := range u.Locations {
		if u.Locations[i].ID == id {
			return &u.Locations[i]
		}
	}
	return nil
}

// AppendTag adds a tag to the end of the list.
func (u *User) AppendTag(tag LocationTag) {
	u.Locations = append(u.Locations, tag)
}

// RemoveTag deletes the tag with the given id and compacts the remaining
// Order values so they stay dense, preserving relative order.
// Returns false if no tag had that id.
func (u *User) RemoveTag(id string) bool {
	idx := -1
	for i := range u.Locations {
		if u.Locations[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}

	u.Locations = append(u.Locations[:idx], u.Locations[idx+1:]...)

	sorted := u.SortedTags()
	orderOf := make(map[string]int, len(sorted))
	for i, t := range sorted {
		orderOf[t.ID] = i
	}
	for i := range u.Locations {
		u.Locations[i].Order = orderOf[u.Locations[i].ID]
	}
	return true
}
