package dto

import "time"

type EditorState struct {
	Status    string     `json:"status"`
	Dirty     bool       `json:"dirty"`
	Saving    bool       `json:"saving"`
	LastSaved *time.Time `json:"lastSaved,omitempty"`
}
