package handler

import (
	"net/http"
	"strconv"

	"github.com/fekuna/omnipos-seller-cms/internal/apperr"
	"github.com/fekuna/omnipos-seller-cms/internal/httpx"
	"github.com/fekuna/omnipos-seller-cms/internal/notice"
	"github.com/fekuna/omnipos-seller-cms/internal/settings"
	"github.com/fekuna/omnipos-seller-cms/pkg/logger"
)

const (
	failedID = "settings.save_failed"

	previewAmount = 100.0
)

type SettingsHandler struct {
	uc     settings.UseCase
	logger logger.ZapLogger
}

func NewSettingsHandler(uc settings.UseCase, log logger.ZapLogger) *SettingsHandler {
	return &SettingsHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *SettingsHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /admin/api/settings", h.Get)
	mux.HandleFunc("PUT /admin/api/settings", h.Save)
	mux.HandleFunc("GET /admin/api/settings/fee-preview", h.FeePreview)
}

func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	httpx.OK(w, h.uc.Get())
}

func (h *SettingsHandler) Save(w http.ResponseWriter, r *http.Request) {
	// Start from the current values so a partial body only changes what it names.
	s := h.uc.Get()
	if err := httpx.Decode(r, &s); err != nil {
		httpx.Fail(w, h.logger, err, failedID)
		return
	}
	saved, err := h.uc.Save(r.Context(), &s)
	if err != nil {
		httpx.Fail(w, h.logger, err, failedID)
		return
	}
	httpx.Done(w, http.StatusOK, saved, notice.Success("settings.saved", nil))
}

func (h *SettingsHandler) FeePreview(w http.ResponseWriter, r *http.Request) {
	amount := previewAmount
	if raw := r.URL.Query().Get("amount"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			httpx.Fail(w, h.logger, apperr.Validation("amount must be a positive number"), failedID)
			return
		}
		amount = v
	}
	httpx.OK(w, h.uc.FeePreview(amount))
}
