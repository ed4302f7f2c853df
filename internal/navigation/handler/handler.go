package handler

import (
	"net/http"
	"strconv"

	"github.com/fekuna/omnipos-seller-cms/internal/apperr"
	"github.com/fekuna/omnipos-seller-cms/internal/httpx"
	"github.com/fekuna/omnipos-seller-cms/internal/navigation"
	"github.com/fekuna/omnipos-seller-cms/internal/navigation/dto"
	"github.com/fekuna/omnipos-seller-cms/internal/notice"
	"github.com/fekuna/omnipos-seller-cms/pkg/logger"
)

type NavigationHandler struct {
	uc     navigation.UseCase
	logger logger.ZapLogger
}

func NewNavigationHandler(uc navigation.UseCase, log logger.ZapLogger) *NavigationHandler {
	return &NavigationHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *NavigationHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /admin/api/navigation", h.List)
	mux.HandleFunc("GET /admin/api/navigation/templates", h.Templates)
	mux.HandleFunc("GET /admin/api/navigation/draft", h.Draft)
	mux.HandleFunc("POST /admin/api/navigation", h.Create)
	mux.HandleFunc("PUT /admin/api/navigation/{id}", h.Update)
	mux.HandleFunc("DELETE /admin/api/navigation/{id}", h.Delete)
}

func (h *NavigationHandler) List(w http.ResponseWriter, r *http.Request) {
	httpx.OK(w, h.uc.ListItems())
}

func (h *NavigationHandler) Templates(w http.ResponseWriter, r *http.Request) {
	httpx.OK(w, h.uc.Templates())
}

func (h *NavigationHandler) Draft(w http.ResponseWriter, r *http.Request) {
	template := -1
	if raw := r.URL.Query().Get("template"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			httpx.Fail(w, h.logger, apperr.Validation("template must be a number"), "navigation.save_failed")
			return
		}
		template = n
	}
	input, err := h.uc.Draft(template)
	if err != nil {
		httpx.Fail(w, h.logger, err, "navigation.save_failed")
		return
	}
	httpx.OK(w, input)
}

func (h *NavigationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input dto.SaveNavigationInput
	if err := httpx.Decode(r, &input); err != nil {
		httpx.Fail(w, h.logger, err, "navigation.save_failed")
		return
	}
	input.ID = ""
	h.save(w, r, &input)
}

func (h *NavigationHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input dto.SaveNavigationInput
	if err := httpx.Decode(r, &input); err != nil {
		httpx.Fail(w, h.logger, err, "navigation.save_failed")
		return
	}
	input.ID = r.PathValue("id")
	h.save(w, r, &input)
}

func (h *NavigationHandler) save(w http.ResponseWriter, r *http.Request, input *dto.SaveNavigationInput) {
	item, created, err := h.uc.SaveItem(r.Context(), input)
	if err != nil {
		httpx.Fail(w, h.logger, err, "navigation.save_failed")
		return
	}
	if created {
		httpx.Done(w, http.StatusCreated, item, notice.Success("navigation.created", nil))
		return
	}
	httpx.Done(w, http.StatusOK, item, notice.Success("navigation.updated", nil))
}

func (h *NavigationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.uc.DeleteItem(r.Context(), r.PathValue("id")); err != nil {
		httpx.Fail(w, h.logger, err, "navigation.delete_failed")
		return
	}
	httpx.Done(w, http.StatusOK, nil, notice.Success("navigation.deleted", nil))
}
