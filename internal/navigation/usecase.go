package navigation

import (
	"context"

	"github.com/fekuna/omnipos-seller-cms/internal/model"
	"github.com/fekuna/omnipos-seller-cms/internal/navigation/dto"
	"github.com/fekuna/omnipos-seller-cms/internal/slice"
)

type UseCase interface {
	Mount() error
	Close()
	Status() slice.Status
	Err() error
	Resubscribe() error

	ListItems() []model.NavigationItem
	GetItem(id string) (*model.NavigationItem, error)
	Templates() []model.NavigationTemplate
	Draft(template int) (*dto.SaveNavigationInput, error)
	SaveItem(ctx context.Context, input *dto.SaveNavigationInput) (*model.NavigationItem, bool, error)
	DeleteItem(ctx context.Context, id string) error

	Overview(input *dto.OverviewInput) *dto.Overview
}
