// Package draft prepares in-memory drafts for persistence.
//
// The document store has no notion of a key that is present but empty, so an
// absent key is the only empty state. Sanitize enforces that on every value
// before it is written.
package draft

import "encoding/json"

// Sanitize returns a copy of v where objects lose keys whose cleaned value is
// nil or "", and arrays lose elements that are nil, "", {} or [] after
// cleaning. Scalars pass through. Sanitize(Sanitize(v)) equals Sanitize(v).
func Sanitize(v any) any {
	switch node := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(node))
		for k, child := range node {
			cleaned := Sanitize(child)
			if cleaned == nil || cleaned == "" {
				continue
			}
			out[k] = cleaned
		}
		return out
	case []any:
		out := make([]any, 0, len(node))
		for _, child := range node {
			cleaned := Sanitize(child)
			if isEmpty(cleaned) {
				continue
			}
			out = append(out, cleaned)
		}
		return out
	default:
		return v
	}
}

func isEmpty(v any) bool {
	switch node := v.(type) {
	case nil:
		return true
	case string:
		return node == ""
	case map[string]any:
		return len(node) == 0
	case []any:
		return len(node) == 0
	default:
		return false
	}
}

// ToDocument converts a typed value into plain JSON types.
func ToDocument(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Clone deep-copies v through its JSON form.
func Clone[T any](v T) (T, error) {
	var out T
	raw, err := json.Marshal(v)
	if err != nil {
		return out, err
	}
	err = json.Unmarshal(raw, &out)
	return out, err
}
