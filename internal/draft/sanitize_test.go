package draft

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want any
	}{
		{"scalar", 3.0, 3.0},
		{"empty string scalar", "", ""},
		{"drops empty keys", map[string]any{"a": "", "b": nil, "c": "x"}, map[string]any{"c": "x"}},
		{"keeps false and zero", map[string]any{"f": false, "z": 0.0}, map[string]any{"f": false, "z": 0.0}},
		{"keeps emptied object", map[string]any{"o": map[string]any{"a": ""}}, map[string]any{"o": map[string]any{}}},
		{"array drops empties", []any{"", nil, map[string]any{}, []any{}, "k"}, []any{"k"}},
		{"array drops emptied object", []any{map[string]any{"a": ""}, 1.0}, []any{1.0}},
		{
			"nested",
			map[string]any{"headings": []any{map[string]any{"id": "h1", "imageUrl": ""}, nil}},
			map[string]any{"headings": []any{map[string]any{"id": "h1"}}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sanitize(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, Sanitize(got))
		})
	}
}

func TestSanitize_DoesNotMutateInput(t *testing.T) {
	in := map[string]any{"a": "", "b": []any{"", "x"}}
	_ = Sanitize(in)
	assert.Equal(t, map[string]any{"a": "", "b": []any{"", "x"}}, in)
}

func TestToDocumentAndClone(t *testing.T) {
	type item struct {
		Label string   `json:"label"`
		Tags  []string `json:"tags"`
	}
	doc, err := ToDocument(item{Label: "Home", Tags: []string{"a"}})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"label": "Home", "tags": []any{"a"}}, doc)

	orig := item{Tags: []string{"a"}}
	cp, err := Clone(orig)
	require.NoError(t, err)
	cp.Tags[0] = "b"
	assert.Equal(t, "a", orig.Tags[0])
}
