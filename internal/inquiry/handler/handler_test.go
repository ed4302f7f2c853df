package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fekuna/omnipos-seller-cms/internal/apperr"
	"github.com/fekuna/omnipos-seller-cms/internal/inquiry"
	"github.com/fekuna/omnipos-seller-cms/internal/inquiry/dto"
	"github.com/fekuna/omnipos-seller-cms/internal/model"
	"github.com/fekuna/omnipos-seller-cms/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeInquiries struct {
	inquiry.UseCase

	filters *dto.InquiryFilters
	read    string
	err     error
}

func (f *fakeInquiries) ListInquiries(filters *dto.InquiryFilters) ([]model.ContactInquiry, error) {
	f.filters = filters
	return []model.ContactInquiry{{ID: "i1", Name: "Ana"}}, f.err
}

func (f *fakeInquiries) Stats() *dto.InquiryStats {
	return &dto.InquiryStats{Total: 3, Pending: 2, Read: 1, Today: 1}
}

func (f *fakeInquiries) MarkRead(_ context.Context, id string) (*model.ContactInquiry, error) {
	f.read = id
	if f.err != nil {
		return nil, f.err
	}
	return &model.ContactInquiry{ID: id, Status: model.InquiryRead}, nil
}

func serve(f *fakeInquiries, method, path string) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	NewInquiryHandler(f, logger.NewNop()).Register(mux)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestInquiryHandler_List(t *testing.T) {
	f := &fakeInquiries{}
	rec := serve(f, http.MethodGet, "/admin/api/inquiries?search=ana&status=pending&reason=billing")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, &dto.InquiryFilters{SearchQuery: "ana", Status: "pending", Reason: "billing"}, f.filters)

	f = &fakeInquiries{err: apperr.Validation("unknown inquiry status archived")}
	assert.Equal(t, http.StatusUnprocessableEntity, serve(f, http.MethodGet, "/admin/api/inquiries?status=archived").Code)
}

func TestInquiryHandler_Stats(t *testing.T) {
	rec := serve(&fakeInquiries{}, http.MethodGet, "/admin/api/inquiries/stats")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":{"total":3,"pending":2,"read":1,"today":1}}`, rec.Body.String())
}

func TestInquiryHandler_MarkRead(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"marked", nil, http.StatusOK},
		{"missing", apperr.NotFound("inquiry not found"), http.StatusNotFound},
		{"subscription failed", apperr.Subscription("contact_inquiries", assert.AnError), http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeInquiries{err: tt.err}
			rec := serve(f, http.MethodPost, "/admin/api/inquiries/i7/read")
			assert.Equal(t, tt.code, rec.Code)
			assert.Equal(t, "i7", f.read)
		})
	}
}
