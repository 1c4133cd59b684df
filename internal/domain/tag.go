package domain

// LocationTag is a user-defined named grouping of bookmarked restaurants,
// optionally anchored to a geographic point. Tags live embedded inside the
// owning User document, never as standalone collection members.
//
// Name is the join key used everywhere else: MenuEntry.LocationTag matches
// against it by exact, case-sensitive string comparison. Renaming a tag does
// not rewrite existing entries.
type LocationTag struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Lat     *float64 `json:"lat"`
	Lng     *float64 `json:"lng"`
	Address *string  `json:"address"`
	Order   int      `json:"order"`
}

// Anchored reports whether the tag has a geographic anchor attached.
func (t *LocationTag) Anchored() bool {
	return t.Lat != nil && t.Lng != nil
}

// TagPatch is a partial update for a LocationTag. Nil fields are left
// untouched. Order is deliberately absent: it only changes through explicit
// reordering.
type TagPatch struct {
	Name    *string  `json:"name,omitempty"`
	Lat     *float64 `json:"lat,omitempty"`
	Lng     *float64 `json:"lng,omitempty"`
	Address *string  `json:"address,omitempty"`
}

// Apply merges the patch into the tag.
func (p TagPatch) Apply(t *LocationTag) {
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.Lat != nil {
		t.Lat = p.Lat
	}
	if p.Lng != nil {
		t.Lng = p.Lng
	}
	if p.Address != nil {
		t.Address = p.Address
	}
}

// TagWithCount annotates a LocationTag with the number of menu entries
// referencing it by name.
type TagWithCount struct {
	LocationTag
	Count int `json:"count"`
}
