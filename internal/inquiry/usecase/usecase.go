package usecase

import (
	"context"
	"net/mail"
	"sort"
	"strings"
	"time"

	"github.com/fekuna/omnipos-seller-cms/internal/apperr"
	"github.com/fekuna/omnipos-seller-cms/internal/docstore"
	"github.com/fekuna/omnipos-seller-cms/internal/inquiry"
	"github.com/fekuna/omnipos-seller-cms/internal/inquiry/dto"
	"github.com/fekuna/omnipos-seller-cms/internal/model"
	"github.com/fekuna/omnipos-seller-cms/internal/slice"
	"github.com/fekuna/omnipos-seller-cms/pkg/logger"
	"go.uber.org/zap"
)

const (
	Path = "contact_inquiries"

	defaultReason = "general_inquiry"
)

type inquiryUseCase struct {
	inquiries *slice.Slice[[]model.ContactInquiry]
	now       func() time.Time
	logger    logger.ZapLogger
}

func NewInquiryUseCase(store docstore.Store, log logger.ZapLogger) inquiry.UseCase {
	codec := slice.Collection(func(c *model.ContactInquiry, id string) { c.ID = id }, log)
	decode := codec.Decode
	codec.Decode = func(snap docstore.Snapshot) ([]model.ContactInquiry, error) {
		list, err := decode(snap)
		sort.SliceStable(list, func(i, j int) bool { return list[i].Time().After(list[j].Time()) })
		return list, err
	}
	return &inquiryUseCase{
		inquiries: slice.New(store, Path, codec, log),
		now:       time.Now,
		logger:    log,
	}
}

func (uc *inquiryUseCase) Mount() error         { return uc.inquiries.Mount() }
func (uc *inquiryUseCase) Close()               { uc.inquiries.Close() }
func (uc *inquiryUseCase) Status() slice.Status { return uc.inquiries.Status() }
func (uc *inquiryUseCase) Err() error           { return uc.inquiries.Err() }
func (uc *inquiryUseCase) Resubscribe() error   { return uc.inquiries.Resubscribe() }

func (uc *inquiryUseCase) ListInquiries(filters *dto.InquiryFilters) ([]model.ContactInquiry, error) {
	if filters == nil {
		filters = &dto.InquiryFilters{}
	}
	status := filters.Status
	if status == "all" {
		status = ""
	}
	if status != "" && status != string(model.InquiryPending) && status != string(model.InquiryRead) {
		return nil, apperr.Validation("unknown inquiry status " + status)
	}
	reason := filters.Reason
	if reason == "all" {
		reason = ""
	}
	query := strings.ToLower(strings.TrimSpace(filters.SearchQuery))

	all := uc.inquiries.Value()
	out := make([]model.ContactInquiry, 0, len(all))
	for _, c := range all {
		if status != "" && string(c.Status) != status {
			continue
		}
		if reason != "" && c.Reason != reason {
			continue
		}
		if !matches(c, query) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func matches(c model.ContactInquiry, query string) bool {
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(c.Name), query) ||
		strings.Contains(strings.ToLower(c.Email), query) ||
		strings.Contains(c.Phone, query) ||
		strings.Contains(strings.ToLower(c.Message), query)
}

func (uc *inquiryUseCase) GetInquiry(id string) (*model.ContactInquiry, error) {
	for _, c := range uc.inquiries.Value() {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, apperr.NotFound("inquiry not found")
}

// Stats counts "today" in the calendar of the current clock's location.
func (uc *inquiryUseCase) Stats() *dto.InquiryStats {
	now := uc.now()
	y, m, d := now.Date()
	all := uc.inquiries.Value()

	stats := &dto.InquiryStats{Total: len(all)}
	for _, c := range all {
		switch c.Status {
		case model.InquiryPending:
			stats.Pending++
		case model.InquiryRead:
			stats.Read++
		}
		t := c.Time()
		if t.IsZero() {
			continue
		}
		if ty, tm, td := t.In(now.Location()).Date(); ty == y && tm == m && td == d {
			stats.Today++
		}
	}
	return stats
}

// MarkRead moves a pending inquiry to read. An inquiry that is already read
// is returned unchanged without a write.
func (uc *inquiryUseCase) MarkRead(ctx context.Context, id string) (*model.ContactInquiry, error) {
	if err := uc.inquiries.WaitSynced(ctx); err != nil {
		return nil, apperr.AsConnection(err)
	}
	c, err := uc.GetInquiry(id)
	if err != nil {
		return nil, err
	}
	if c.Status == model.InquiryRead {
		return c, nil
	}
	if err := uc.inquiries.WriteChild(ctx, docstore.Join(id, "status"), string(model.InquiryRead)); err != nil {
		return nil, err
	}
	uc.logger.Info("inquiry marked read", zap.String("id", id))
	c.Status = model.InquiryRead
	return c, nil
}

// Submit stores a new pending inquiry from the public contact form.
func (uc *inquiryUseCase) Submit(ctx context.Context, input *dto.SubmitInquiryInput) (*model.ContactInquiry, error) {
	c, err := NewInquiry(input, uc.now())
	if err != nil {
		return nil, err
	}
	id, err := uc.inquiries.NewKey()
	if err != nil {
		return nil, err
	}
	if err := uc.inquiries.WriteChild(ctx, id, c); err != nil {
		return nil, err
	}
	uc.logger.Info("inquiry received", zap.String("id", id), zap.String("reason", c.Reason))
	c.ID = id
	return c, nil
}

func NewInquiry(input *dto.SubmitInquiryInput, now time.Time) (*model.ContactInquiry, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)
	message := strings.TrimSpace(input.Message)
	if name == "" || email == "" || message == "" {
		return nil, apperr.Validation("Name, email and message are required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperr.Validation("Please enter a valid email address")
	}
	reason := input.Reason
	if reason == "" {
		reason = defaultReason
	}
	if _, ok := model.InquiryReasonLabels[reason]; !ok {
		return nil, apperr.Validation("unknown inquiry reason " + reason)
	}
	return &model.ContactInquiry{
		Name:      name,
		Email:     email,
		Phone:     strings.TrimSpace(input.Phone),
		Reason:    reason,
		Message:   message,
		Status:    model.InquiryPending,
		Timestamp: model.Timestamp(now),
	}, nil
}
