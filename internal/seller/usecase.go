package seller

import (
	"context"

	"github.com/fekuna/omnipos-seller-cms/internal/model"
	"github.com/fekuna/omnipos-seller-cms/internal/seller/dto"
	"github.com/fekuna/omnipos-seller-cms/internal/slice"
)

type UseCase interface {
	Mount() error
	Close()
	Status() slice.Status
	Err() error
	Resubscribe() error

	ListSellers(ctx context.Context, filters *dto.SellerFilters) ([]model.Seller, error)
	GetSeller(id string) (*model.Seller, error)
	Stats() *dto.SellerStats
	UpdateStatus(ctx context.Context, input *dto.UpdateStatusInput) (*model.Seller, error)
	DeleteSeller(ctx context.Context, id string) error
	Register(ctx context.Context, input *dto.RegisterSellerInput) (*model.Seller, error)
}

// Index is an optional full-text index over sellers. Search returns the ids
// of matching sellers; Sync replaces the indexed set with sellers.
type Index interface {
	Search(ctx context.Context, query string) ([]string, error)
	Sync(ctx context.Context, sellers []model.Seller) error
}
