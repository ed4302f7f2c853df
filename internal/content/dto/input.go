package dto

import "github.com/fekuna/omnipos-seller-cms/internal/model"

// HeadingPatch lists the fields to change. An empty string clears an optional
// field; it is dropped from the document on the next save.
type HeadingPatch struct {
	Title      *string            `json:"title"`
	Content    *string            `json:"content"`
	Order      *int               `json:"order"`
	IsVisible  *bool              `json:"isVisible"`
	Type       *model.HeadingType `json:"type"`
	ImageURL   *string            `json:"imageUrl"`
	ButtonText *string            `json:"buttonText"`
	ButtonLink *string            `json:"buttonLink"`
	Price      *string            `json:"price"`
	Features   *[]string          `json:"features"`
}

type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)
