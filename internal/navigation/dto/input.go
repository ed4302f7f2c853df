package dto

// SaveNavigationInput is the page form. An empty ID creates a new page.
type SaveNavigationInput struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Href        string `json:"href"`
	Description string `json:"description"`
	Order       int    `json:"order"`
}

// OverviewInput carries the facts the dashboard needs from other editors.
type OverviewInput struct {
	ContentSections int
	SettingsSaved   bool
}
