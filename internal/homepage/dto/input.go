package dto

// SectionPatch changes a homepage section. Content keys are merged into the
// section's content; its type cannot be changed.
type SectionPatch struct {
	Title     *string        `json:"title"`
	IsVisible *bool          `json:"isVisible"`
	Order     *int           `json:"order"`
	Content   map[string]any `json:"content"`
}

// SectionJSON is a free-form JSON textarea edit.
type SectionJSON struct {
	Field string `json:"field"`
	Text  string `json:"text"`
}
