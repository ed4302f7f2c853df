package listener

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fekuna/omnipos-seller-cms/internal/apperr"
	"github.com/fekuna/omnipos-seller-cms/internal/intake"
	"github.com/fekuna/omnipos-seller-cms/internal/inquiry"
	inqDTO "github.com/fekuna/omnipos-seller-cms/internal/inquiry/dto"
	"github.com/fekuna/omnipos-seller-cms/internal/model"
	"github.com/fekuna/omnipos-seller-cms/internal/seller"
	sellerDTO "github.com/fekuna/omnipos-seller-cms/internal/seller/dto"
	"github.com/fekuna/omnipos-seller-cms/pkg/logger"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConsumer struct {
	msgs chan kafka.Message

	mu        sync.Mutex
	committed int
}

func (f *fakeConsumer) ReadMessage(ctx context.Context) (kafka.Message, error) {
	select {
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	case m := <-f.msgs:
		return m, nil
	}
}

func (f *fakeConsumer) Commit(context.Context, kafka.Message) error {
	f.mu.Lock()
	f.committed++
	f.mu.Unlock()
	return nil
}

func (f *fakeConsumer) commits() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.committed
}

type fakeInquiries struct {
	inquiry.UseCase

	mu     sync.Mutex
	inputs []inqDTO.SubmitInquiryInput
	errs   []error
}

func (f *fakeInquiries) Submit(_ context.Context, input *inqDTO.SubmitInquiryInput) (*model.ContactInquiry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inputs = append(f.inputs, *input)
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		return nil, err
	}
	return &model.ContactInquiry{Name: input.Name}, nil
}

func (f *fakeInquiries) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.inputs)
}

type fakeSellers struct {
	seller.UseCase

	mu     sync.Mutex
	inputs []sellerDTO.RegisterSellerInput
}

func (f *fakeSellers) Register(_ context.Context, input *sellerDTO.RegisterSellerInput) (*model.Seller, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inputs = append(f.inputs, *input)
	return &model.Seller{Email: input.Email}, nil
}

func (f *fakeSellers) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.inputs)
}

func eventMessage(t *testing.T, eventType string, payload any) kafka.Message {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	body, err := json.Marshal(intake.Event{EventID: "e1", EventType: eventType, Payload: raw, Timestamp: time.Now()})
	require.NoError(t, err)
	return kafka.Message{Value: body}
}

func start(t *testing.T, inquiries *fakeInquiries, sellers *fakeSellers) *fakeConsumer {
	t.Helper()
	consumer := &fakeConsumer{msgs: make(chan kafka.Message, 8)}
	l := NewIntakeListener(consumer, inquiries, sellers, logger.NewNop())
	l.backoff = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		l.Start(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return consumer
}

func TestListener_DispatchesEvents(t *testing.T) {
	inquiries, sellers := &fakeInquiries{}, &fakeSellers{}
	consumer := start(t, inquiries, sellers)

	consumer.msgs <- eventMessage(t, intake.EventContactInquirySubmitted, inqDTO.SubmitInquiryInput{Name: "Eve", Email: "eve@ng.test", Message: "Hi"})
	consumer.msgs <- eventMessage(t, intake.EventSellerRegistered, sellerDTO.RegisterSellerInput{FirstName: "Eve", Email: "eve@ng.test"})
	consumer.msgs <- eventMessage(t, "OrderCreated", map[string]any{})
	consumer.msgs <- kafka.Message{Value: []byte("not json")}

	require.Eventually(t, func() bool { return consumer.commits() == 4 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, inquiries.calls())
	assert.Equal(t, 1, sellers.calls())
	assert.Equal(t, "Eve", inquiries.inputs[0].Name)
}

func TestListener_RetriesTransientFailures(t *testing.T) {
	inquiries := &fakeInquiries{errs: []error{apperr.Save("write failed", errors.New("timeout"))}}
	consumer := start(t, inquiries, &fakeSellers{})

	consumer.msgs <- eventMessage(t, intake.EventContactInquirySubmitted, inqDTO.SubmitInquiryInput{Name: "Eve"})

	require.Eventually(t, func() bool { return consumer.commits() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 2, inquiries.calls())
}

func TestListener_DropsInvalidSubmissions(t *testing.T) {
	inquiries := &fakeInquiries{errs: []error{apperr.Validation("Name, email and message are required")}}
	consumer := start(t, inquiries, &fakeSellers{})

	consumer.msgs <- eventMessage(t, intake.EventContactInquirySubmitted, inqDTO.SubmitInquiryInput{})

	require.Eventually(t, func() bool { return consumer.commits() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, inquiries.calls())
}
