package homepage

import (
	"context"

	"github.com/fekuna/omnipos-seller-cms/internal/homepage/dto"
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

	Content() model.HomepageContent
	Section(id string) (*model.HomepageSection, error)
	UpdateSection(id string, patch *dto.SectionPatch) (*model.HomepageSection, error)
	ToggleVisibility(id string) (*model.HomepageSection, error)
	SetSectionJSON(id, field, text string) (bool, error)
	Save(ctx context.Context) error
}
