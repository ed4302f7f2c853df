package listener

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fekuna/omnipos-seller-cms/internal/apperr"
	"github.com/fekuna/omnipos-seller-cms/internal/intake"
	"github.com/fekuna/omnipos-seller-cms/internal/inquiry"
	inqDTO "github.com/fekuna/omnipos-seller-cms/internal/inquiry/dto"
	"github.com/fekuna/omnipos-seller-cms/internal/seller"
	sellerDTO "github.com/fekuna/omnipos-seller-cms/internal/seller/dto"
	"github.com/fekuna/omnipos-seller-cms/pkg/logger"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const maxAttempts = 3

type Consumer interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Commit(ctx context.Context, msg kafka.Message) error
}

type IntakeListener struct {
	consumer  Consumer
	inquiries inquiry.UseCase
	sellers   seller.UseCase
	logger    logger.ZapLogger

	backoff time.Duration
}

func NewIntakeListener(consumer Consumer, inquiries inquiry.UseCase, sellers seller.UseCase, logger logger.ZapLogger) *IntakeListener {
	return &IntakeListener{
		consumer:  consumer,
		inquiries: inquiries,
		sellers:   sellers,
		logger:    logger,
		backoff:   time.Second,
	}
}

func (l *IntakeListener) Start(ctx context.Context) {
	l.logger.Info("Starting intake Kafka listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping intake Kafka listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				l.sleep(ctx)
				continue
			}
			l.processMessage(ctx, msg.Value)
			if err := l.consumer.Commit(ctx, msg); err != nil && ctx.Err() == nil {
				l.logger.Error("Failed to commit kafka message", zap.Error(err))
			}
		}
	}
}

func (l *IntakeListener) processMessage(ctx context.Context, value []byte) {
	var event intake.Event
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("Failed to unmarshal intake event", zap.Error(err))
		return
	}

	var apply func() error
	switch event.EventType {
	case intake.EventContactInquirySubmitted:
		var input inqDTO.SubmitInquiryInput
		if err := json.Unmarshal(event.Payload, &input); err != nil {
			l.logger.Error("Failed to unmarshal inquiry payload", zap.String("event_id", event.EventID), zap.Error(err))
			return
		}
		apply = func() error {
			_, err := l.inquiries.Submit(ctx, &input)
			return err
		}
	case intake.EventSellerRegistered:
		var input sellerDTO.RegisterSellerInput
		if err := json.Unmarshal(event.Payload, &input); err != nil {
			l.logger.Error("Failed to unmarshal seller payload", zap.String("event_id", event.EventID), zap.Error(err))
			return
		}
		apply = func() error {
			_, err := l.sellers.Register(ctx, &input)
			return err
		}
	default:
		return
	}

	l.logger.Info("Processing intake event", zap.String("event_type", event.EventType), zap.String("event_id", event.EventID))
	for attempt := 1; ; attempt++ {
		err := apply()
		if err == nil {
			return
		}
		// A submission that fails validation will never succeed.
		if apperr.Is(err, apperr.KindValidation) || attempt == maxAttempts || ctx.Err() != nil {
			l.logger.Error("Dropping intake event",
				zap.String("event_type", event.EventType),
				zap.String("event_id", event.EventID),
				zap.Int("attempts", attempt),
				zap.Error(err),
			)
			return
		}
		l.logger.Warn("Retrying intake event", zap.String("event_id", event.EventID), zap.Int("attempt", attempt), zap.Error(err))
		l.sleep(ctx)
	}
}

func (l *IntakeListener) sleep(ctx context.Context) {
	t := time.NewTimer(l.backoff)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
