package store

import (
	"encoding/json/v2"
	"fmt"
)

// Encode converts a typed model into a schemaless document by a JSON
// round-trip. Field names follow the model's json tags.
func Encode(v any) (Document, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return doc, nil
}

// Decode populates a typed model from a schemaless document, validating the
// shape at the store boundary. Unknown fields are ignored; missing optional
// fields stay zero.
func Decode(doc Document, v any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	return nil
}

// MatchValue reports whether a stored field value equals a filter value.
// Stored values have been through a JSON round-trip, so numbers arrive as
// float64; filter values are normalized the same way before comparison.
func MatchValue(stored, filter any) bool {
	if stored == nil || filter == nil {
		return stored == filter
	}
	switch f := filter.(type) {
	case string:
		s, ok := stored.(string)
		return ok && s == f
	case bool:
		b, ok := stored.(bool)
		return ok && b == f
	default:
		sf, ff := asFloat(stored), asFloat(filter)
		return sf != nil && ff != nil && *sf == *ff
	}
}

func asFloat(v any) *float64 {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	default:
		return nil
	}
	return &f
}
