package content

import (
	"context"

	"github.com/fekuna/omnipos-seller-cms/internal/content/dto"
	"github.com/fekuna/omnipos-seller-cms/internal/model"
	"github.com/fekuna/omnipos-seller-cms/internal/slice"
)

type UseCase interface {
	Mount() error
	Close()
	Status() slice.Status
	Err() error
	Resubscribe() error
	State() *dto.EditorState

	Pages() []dto.Page
	Page(navID string) (*dto.Page, error)
	SectionCount() int

	AddHeading(navID string, headingType model.HeadingType) (*model.ContentHeading, error)
	UpdateHeading(navID, headingID string, patch *dto.HeadingPatch) (*model.ContentHeading, error)
	DeleteHeading(navID, headingID string) error
	ToggleVisibility(navID, headingID string) (*model.ContentHeading, error)
	MoveHeading(navID, headingID string, direction dto.Direction) error

	SaveNow(ctx context.Context) error
}
