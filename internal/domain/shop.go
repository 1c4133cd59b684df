package domain

// Shop is a place record from the external place directory, shared across
// users. The first user to bookmark a place creates the record; later writers
// overwrite it with identical data. Never deleted.
type Shop struct {
	// ID is the opaque identifier assigned by the place directory.
	// It is the join key shared across users.
	ID      string  `json:"shop_id"`
	Name    string  `json:"name"`
	Address string  `json:"address"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
}
