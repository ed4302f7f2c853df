package intake

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-seller-cms/internal/apperr"
	"github.com/fekuna/omnipos-seller-cms/internal/inquiry"
	inqDTO "github.com/fekuna/omnipos-seller-cms/internal/inquiry/dto"
	inqUC "github.com/fekuna/omnipos-seller-cms/internal/inquiry/usecase"
	"github.com/fekuna/omnipos-seller-cms/internal/seller"
	sellerDTO "github.com/fekuna/omnipos-seller-cms/internal/seller/dto"
	sellerUC "github.com/fekuna/omnipos-seller-cms/internal/seller/usecase"
	"github.com/fekuna/omnipos-seller-cms/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Submitter accepts public submissions. Validation errors come back to the
// visitor; an accepted submission may still be written later.
type Submitter interface {
	SubmitInquiry(ctx context.Context, input *inqDTO.SubmitInquiryInput) error
	RegisterSeller(ctx context.Context, input *sellerDTO.RegisterSellerInput) error
}

type Producer interface {
	Publish(ctx context.Context, key, value []byte) error
}

// Direct writes submissions straight to the store.
type Direct struct {
	inquiries inquiry.UseCase
	sellers   seller.UseCase
}

func NewDirect(inquiries inquiry.UseCase, sellers seller.UseCase) *Direct {
	return &Direct{inquiries: inquiries, sellers: sellers}
}

func (d *Direct) SubmitInquiry(ctx context.Context, input *inqDTO.SubmitInquiryInput) error {
	_, err := d.inquiries.Submit(ctx, input)
	return err
}

func (d *Direct) RegisterSeller(ctx context.Context, input *sellerDTO.RegisterSellerInput) error {
	_, err := d.sellers.Register(ctx, input)
	return err
}

// Publisher validates a submission and publishes it as an event; the intake
// listener performs the write.
type Publisher struct {
	producer Producer
	now      func() time.Time
	logger   logger.ZapLogger
}

func NewPublisher(producer Producer, log logger.ZapLogger) *Publisher {
	return &Publisher{producer: producer, now: time.Now, logger: log}
}

func (p *Publisher) SubmitInquiry(ctx context.Context, input *inqDTO.SubmitInquiryInput) error {
	if _, err := inqUC.NewInquiry(input, p.now()); err != nil {
		return err
	}
	return p.publish(ctx, EventContactInquirySubmitted, input.Email, input)
}

func (p *Publisher) RegisterSeller(ctx context.Context, input *sellerDTO.RegisterSellerInput) error {
	if _, err := sellerUC.NewSeller(input, p.now()); err != nil {
		return err
	}
	return p.publish(ctx, EventSellerRegistered, input.Email, input)
}

func (p *Publisher) publish(ctx context.Context, eventType, key string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", eventType, err)
	}
	event := Event{
		EventID:   uuid.NewString(),
		EventType: eventType,
		Payload:   raw,
		Timestamp: p.now().UTC(),
	}
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode %s: %w", eventType, err)
	}
	if err := p.producer.Publish(ctx, []byte(key), body); err != nil {
		p.logger.Error("failed to publish intake event", zap.String("event_type", eventType), zap.Error(err))
		return apperr.Save("submission could not be queued", err)
	}
	p.logger.Info("intake event published", zap.String("event_type", eventType), zap.String("event_id", event.EventID))
	return nil
}
