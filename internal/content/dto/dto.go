package dto

import (
	"time"

	"github.com/fekuna/omnipos-seller-cms/internal/model"
)

// Page is a navigation item with its headings sorted by order.
type Page struct {
	Item     model.NavigationItem   `json:"item"`
	Headings []model.ContentHeading `json:"headings"`
}

// EditorState is what the editor toolbar shows.
type EditorState struct {
	Status          string     `json:"status"`
	Dirty           bool       `json:"dirty"`
	Saving          bool       `json:"saving"`
	AutoSavePending bool       `json:"autoSavePending"`
	LastSaved       *time.Time `json:"lastSaved,omitempty"`
}
