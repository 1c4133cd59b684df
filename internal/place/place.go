// Package place defines the place-search provider contract. The actual
// directory (map SDK) lives outside this module; its results enter the core
// as Shop seed data.
package place

import "context"

// Place is a raw place record from the external directory. Coordinates
// arrive as strings, exactly as the directory serializes them; they are
// parsed into typed values when a place is ingested as a Shop.
type Place struct {
	ID      string `json:"id"`
	Name    string `json:"place_name"`
	Address string `json:"address_name"`
	X       string `json:"x"`
	Y       string `json:"y"`
}

// Searcher is the keyword search surface of the place directory.
// A zero-result search returns an empty slice, not an error.
type Searcher interface {
	Search(ctx context.Context, keyword string) ([]Place, error)
}
