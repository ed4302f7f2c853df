package inquiry

import (
	"context"

	"github.com/fekuna/omnipos-seller-cms/internal/inquiry/dto"
	"github.com/fekuna/omnipos-seller-cms/internal/model"
	"github.com/fekuna/omnipos-seller-cms/internal/slice"
)

type UseCase interface {
	Mount() error
	Close()
	Status() slice.Status
	Err() error
	Resubscribe() error

	ListInquiries(filters *dto.InquiryFilters) ([]model.ContactInquiry, error)
	GetInquiry(id string) (*model.ContactInquiry, error)
	Stats() *dto.InquiryStats
	MarkRead(ctx context.Context, id string) (*model.ContactInquiry, error)
	Submit(ctx context.Context, input *dto.SubmitInquiryInput) (*model.ContactInquiry, error)
}
