package settings

import (
	"context"

	"github.com/fekuna/omnipos-seller-cms/internal/model"
	"github.com/fekuna/omnipos-seller-cms/internal/settings/dto"
)

type UseCase interface {
	Mount(ctx context.Context) error
	Get() model.Settings
	Saved() bool
	Save(ctx context.Context, s *model.Settings) (*model.Settings, error)
	FeePreview(amount float64) *dto.FeePreview
}
