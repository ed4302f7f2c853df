package handler

import (
	"bytes"
	"net/http"
	"time"

	"github.com/fekuna/omnipos-seller-cms/internal/httpx"
	"github.com/fekuna/omnipos-seller-cms/internal/notice"
	"github.com/fekuna/omnipos-seller-cms/internal/seller"
	"github.com/fekuna/omnipos-seller-cms/internal/seller/dto"
	"github.com/fekuna/omnipos-seller-cms/internal/seller/export"
	"github.com/fekuna/omnipos-seller-cms/pkg/logger"
	"go.uber.org/zap"
)

type SellerHandler struct {
	uc     seller.UseCase
	logger logger.ZapLogger
}

func NewSellerHandler(uc seller.UseCase, log logger.ZapLogger) *SellerHandler {
	return &SellerHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *SellerHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /admin/api/sellers", h.List)
	mux.HandleFunc("GET /admin/api/sellers/stats", h.Stats)
	mux.HandleFunc("GET /admin/api/sellers/export", h.Export)
	mux.HandleFunc("GET /admin/api/sellers/{id}", h.Get)
	mux.HandleFunc("PUT /admin/api/sellers/{id}/status", h.UpdateStatus)
	mux.HandleFunc("DELETE /admin/api/sellers/{id}", h.Delete)
}

func filtersFrom(r *http.Request) *dto.SellerFilters {
	q := r.URL.Query()
	return &dto.SellerFilters{
		SearchQuery: q.Get("search"),
		Status:      q.Get("status"),
	}
}

func (h *SellerHandler) List(w http.ResponseWriter, r *http.Request) {
	sellers, err := h.uc.ListSellers(r.Context(), filtersFrom(r))
	if err != nil {
		httpx.Fail(w, h.logger, err, "seller.update_failed")
		return
	}
	httpx.OK(w, sellers)
}

func (h *SellerHandler) Stats(w http.ResponseWriter, r *http.Request) {
	httpx.OK(w, h.uc.Stats())
}

func (h *SellerHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, err := h.uc.GetSeller(r.PathValue("id"))
	if err != nil {
		httpx.Fail(w, h.logger, err, "seller.update_failed")
		return
	}
	httpx.OK(w, s)
}

// Export downloads the currently filtered sellers as CSV.
func (h *SellerHandler) Export(w http.ResponseWriter, r *http.Request) {
	sellers, err := h.uc.ListSellers(r.Context(), filtersFrom(r))
	if err != nil {
		httpx.Fail(w, h.logger, err, "seller.update_failed")
		return
	}
	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, sellers); err != nil {
		httpx.Fail(w, h.logger, err, "seller.update_failed")
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename(time.Now())+`"`)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.Warn("failed to write seller export", zap.Error(err))
	}
}

func (h *SellerHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var input dto.UpdateStatusInput
	if err := httpx.Decode(r, &input); err != nil {
		httpx.Fail(w, h.logger, err, "seller.update_failed")
		return
	}
	input.ID = r.PathValue("id")
	s, err := h.uc.UpdateStatus(r.Context(), &input)
	if err != nil {
		httpx.Fail(w, h.logger, err, "seller.update_failed")
		return
	}
	httpx.Done(w, http.StatusOK, s, notice.Success("seller.status_updated", map[string]any{"Status": string(s.Status)}))
}

func (h *SellerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.uc.DeleteSeller(r.Context(), r.PathValue("id")); err != nil {
		httpx.Fail(w, h.logger, err, "seller.delete_failed")
		return
	}
	httpx.Done(w, http.StatusOK, nil, notice.Success("seller.deleted", nil))
}
