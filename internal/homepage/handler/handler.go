package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-seller-cms/internal/homepage"
	"github.com/fekuna/omnipos-seller-cms/internal/homepage/dto"
	"github.com/fekuna/omnipos-seller-cms/internal/httpx"
	"github.com/fekuna/omnipos-seller-cms/internal/notice"
	"github.com/fekuna/omnipos-seller-cms/pkg/logger"
)

const failedID = "homepage.save_failed"

type HomepageHandler struct {
	uc     homepage.UseCase
	logger logger.ZapLogger
}

func NewHomepageHandler(uc homepage.UseCase, log logger.ZapLogger) *HomepageHandler {
	return &HomepageHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *HomepageHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /admin/api/homepage", h.Get)
	mux.HandleFunc("GET /admin/api/homepage/state", h.State)
	mux.HandleFunc("POST /admin/api/homepage/save", h.Save)
	mux.HandleFunc("PATCH /admin/api/homepage/sections/{id}", h.Update)
	mux.HandleFunc("POST /admin/api/homepage/sections/{id}/visibility", h.Toggle)
	mux.HandleFunc("PUT /admin/api/homepage/sections/{id}/json", h.SetJSON)
}

func (h *HomepageHandler) Get(w http.ResponseWriter, r *http.Request) {
	httpx.OK(w, h.uc.Content())
}

func (h *HomepageHandler) State(w http.ResponseWriter, r *http.Request) {
	httpx.OK(w, h.uc.State())
}

func (h *HomepageHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch dto.SectionPatch
	if err := httpx.Decode(r, &patch); err != nil {
		httpx.Fail(w, h.logger, err, failedID)
		return
	}
	section, err := h.uc.UpdateSection(r.PathValue("id"), &patch)
	if err != nil {
		httpx.Fail(w, h.logger, err, failedID)
		return
	}
	httpx.OK(w, section)
}

func (h *HomepageHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	section, err := h.uc.ToggleVisibility(r.PathValue("id"))
	if err != nil {
		httpx.Fail(w, h.logger, err, failedID)
		return
	}
	httpx.OK(w, section)
}

// SetJSON never reports malformed text as an error; "applied" tells the
// client whether the value was taken.
func (h *HomepageHandler) SetJSON(w http.ResponseWriter, r *http.Request) {
	var body dto.SectionJSON
	if err := httpx.Decode(r, &body); err != nil {
		httpx.Fail(w, h.logger, err, failedID)
		return
	}
	applied, err := h.uc.SetSectionJSON(r.PathValue("id"), body.Field, body.Text)
	if err != nil {
		httpx.Fail(w, h.logger, err, failedID)
		return
	}
	httpx.OK(w, map[string]bool{"applied": applied})
}

func (h *HomepageHandler) Save(w http.ResponseWriter, r *http.Request) {
	if err := h.uc.Save(r.Context()); err != nil {
		httpx.Fail(w, h.logger, err, failedID)
		return
	}
	httpx.Done(w, http.StatusOK, h.uc.State(), notice.Success("homepage.saved", nil))
}
