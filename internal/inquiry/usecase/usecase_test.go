package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/fekuna/omnipos-seller-cms/internal/apperr"
	"github.com/fekuna/omnipos-seller-cms/internal/docstore"
	"github.com/fekuna/omnipos-seller-cms/internal/inquiry/dto"
	"github.com/fekuna/omnipos-seller-cms/internal/model"
	"github.com/fekuna/omnipos-seller-cms/internal/slice"
	"github.com/fekuna/omnipos-seller-cms/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 6, 3, 15, 0, 0, 0, time.UTC)

type recordingStore struct {
	*docstore.Tree
	writes []string
}

func (s *recordingStore) Write(ctx context.Context, path string, value any) error {
	s.writes = append(s.writes, path)
	return s.Tree.Write(ctx, path, value)
}

func setup(t *testing.T) (*inquiryUseCase, *recordingStore) {
	t.Helper()
	ids, err := docstore.NewIDGenerator(5)
	require.NoError(t, err)
	tree := docstore.NewTree(ids)
	t.Cleanup(tree.Close)

	require.NoError(t, tree.Write(context.Background(), Path, map[string]any{
		"i1": map[string]any{
			"name": "Ana", "email": "ana@lee.test", "phone": "555-0101", "reason": "billing",
			"message": "Invoice question", "status": "pending", "timestamp": "2024-06-03T08:00:00.000Z",
		},
		"i2": map[string]any{
			"name": "Carl", "email": "carl@moe.test", "reason": "technical_support",
			"message": "Login broken", "status": "read", "timestamp": "2024-06-01T08:00:00.000Z",
		},
		"i3": map[string]any{
			"name": "Dee", "email": "dee@ray.test", "reason": "billing",
			"message": "Refund", "status": "pending", "timestamp": "2024-06-02T08:00:00.000Z",
		},
	}))

	store := &recordingStore{Tree: tree}
	uc := NewInquiryUseCase(store, logger.NewNop()).(*inquiryUseCase)
	uc.now = func() time.Time { return fixedNow }
	require.NoError(t, uc.Mount())
	t.Cleanup(uc.Close)
	require.Eventually(t, func() bool { return uc.Status() == slice.StatusSynced }, time.Second, 5*time.Millisecond)
	store.writes = nil
	return uc, store
}

func idsOf(list []model.ContactInquiry) []string {
	out := make([]string, 0, len(list))
	for _, c := range list {
		out = append(out, c.ID)
	}
	return out
}

func TestListInquiries(t *testing.T) {
	uc, _ := setup(t)

	tests := []struct {
		name    string
		filters *dto.InquiryFilters
		want    []string
	}{
		{"newest first", nil, []string{"i1", "i3", "i2"}},
		{"status", &dto.InquiryFilters{Status: "pending"}, []string{"i1", "i3"}},
		{"reason", &dto.InquiryFilters{Reason: "billing", Status: "all"}, []string{"i1", "i3"}},
		{"phone", &dto.InquiryFilters{SearchQuery: "0101"}, []string{"i1"}},
		{"message ignores case", &dto.InquiryFilters{SearchQuery: "LOGIN"}, []string{"i2"}},
		{"combined", &dto.InquiryFilters{SearchQuery: "refund", Reason: "billing", Status: "read"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := uc.ListInquiries(tt.filters)
			require.NoError(t, err)
			assert.Equal(t, tt.want, idsOf(got))
		})
	}

	_, err := uc.ListInquiries(&dto.InquiryFilters{Status: "archived"})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestStats(t *testing.T) {
	uc, _ := setup(t)
	assert.Equal(t, &dto.InquiryStats{Total: 3, Pending: 2, Read: 1, Today: 1}, uc.Stats())
}

func TestMarkRead(t *testing.T) {
	uc, store := setup(t)
	ctx := context.Background()

	c, err := uc.MarkRead(ctx, "i1")
	require.NoError(t, err)
	assert.Equal(t, model.InquiryRead, c.Status)
	assert.Equal(t, []string{Path + "/i1/status"}, store.writes)

	snap, err := store.Get(ctx, Path+"/i1")
	require.NoError(t, err)
	doc := snap.Value.(map[string]any)
	assert.Equal(t, "read", doc["status"])
	assert.Equal(t, "Invoice question", doc["message"])
}

func TestMarkRead_AlreadyReadIsNoop(t *testing.T) {
	uc, store := setup(t)

	c, err := uc.MarkRead(context.Background(), "i2")
	require.NoError(t, err)
	assert.Equal(t, model.InquiryRead, c.Status)
	assert.Empty(t, store.writes)
}

func TestMarkRead_Missing(t *testing.T) {
	uc, store := setup(t)

	_, err := uc.MarkRead(context.Background(), "nope")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.Empty(t, store.writes)
}

func TestSubmit(t *testing.T) {
	uc, store := setup(t)
	ctx := context.Background()

	c, err := uc.Submit(ctx, &dto.SubmitInquiryInput{Name: "Eve", Email: "eve@ng.test", Message: "Hi"})
	require.NoError(t, err)
	assert.Equal(t, model.InquiryPending, c.Status)
	assert.Equal(t, "general_inquiry", c.Reason)
	assert.Equal(t, model.Timestamp(fixedNow), c.Timestamp)

	snap, err := store.Get(ctx, Path+"/"+c.ID)
	require.NoError(t, err)
	assert.NotContains(t, snap.Value.(map[string]any), "phone")

	require.Eventually(t, func() bool { return uc.Stats().Today == 2 }, time.Second, 5*time.Millisecond)

	_, err = uc.Submit(ctx, &dto.SubmitInquiryInput{Name: "Eve", Email: "eve@ng.test"})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	_, err = uc.Submit(ctx, &dto.SubmitInquiryInput{Name: "Eve", Email: "eve@ng.test", Message: "x", Reason: "spam"})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestSubmit_WithoutStore(t *testing.T) {
	uc := NewInquiryUseCase(nil, logger.NewNop())

	_, err := uc.Submit(context.Background(), &dto.SubmitInquiryInput{Name: "Ana", Email: "ana@lee.test", Message: "Hi"})
	assert.True(t, apperr.Is(err, apperr.KindConnection))
	assert.ErrorIs(t, err, docstore.ErrNotConfigured)
}
