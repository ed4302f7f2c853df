package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-seller-cms/internal/httpx"
	"github.com/fekuna/omnipos-seller-cms/internal/inquiry"
	"github.com/fekuna/omnipos-seller-cms/internal/inquiry/dto"
	"github.com/fekuna/omnipos-seller-cms/internal/notice"
	"github.com/fekuna/omnipos-seller-cms/pkg/logger"
)

const failedID = "inquiry.update_failed"

type InquiryHandler struct {
	uc     inquiry.UseCase
	logger logger.ZapLogger
}

func NewInquiryHandler(uc inquiry.UseCase, log logger.ZapLogger) *InquiryHandler {
	return &InquiryHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *InquiryHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /admin/api/inquiries", h.List)
	mux.HandleFunc("GET /admin/api/inquiries/stats", h.Stats)
	mux.HandleFunc("GET /admin/api/inquiries/{id}", h.Get)
	mux.HandleFunc("POST /admin/api/inquiries/{id}/read", h.MarkRead)
}

func (h *InquiryHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	list, err := h.uc.ListInquiries(&dto.InquiryFilters{
		SearchQuery: q.Get("search"),
		Status:      q.Get("status"),
		Reason:      q.Get("reason"),
	})
	if err != nil {
		httpx.Fail(w, h.logger, err, failedID)
		return
	}
	httpx.OK(w, list)
}

func (h *InquiryHandler) Stats(w http.ResponseWriter, r *http.Request) {
	httpx.OK(w, h.uc.Stats())
}

func (h *InquiryHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.uc.GetInquiry(r.PathValue("id"))
	if err != nil {
		httpx.Fail(w, h.logger, err, failedID)
		return
	}
	httpx.OK(w, c)
}

func (h *InquiryHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	c, err := h.uc.MarkRead(r.Context(), r.PathValue("id"))
	if err != nil {
		httpx.Fail(w, h.logger, err, failedID)
		return
	}
	httpx.Done(w, http.StatusOK, c, notice.Success("inquiry.marked_read", nil))
}
