package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-seller-cms/internal/content"
	"github.com/fekuna/omnipos-seller-cms/internal/content/dto"
	"github.com/fekuna/omnipos-seller-cms/internal/httpx"
	"github.com/fekuna/omnipos-seller-cms/internal/model"
	"github.com/fekuna/omnipos-seller-cms/internal/notice"
	"github.com/fekuna/omnipos-seller-cms/pkg/logger"
)

const failedID = "content.save_failed"

type ContentHandler struct {
	uc     content.UseCase
	logger logger.ZapLogger
}

func NewContentHandler(uc content.UseCase, log logger.ZapLogger) *ContentHandler {
	return &ContentHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *ContentHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /admin/api/content", h.List)
	mux.HandleFunc("GET /admin/api/content/state", h.State)
	mux.HandleFunc("POST /admin/api/content/save", h.Save)
	mux.HandleFunc("GET /admin/api/content/{navID}", h.Get)
	mux.HandleFunc("POST /admin/api/content/{navID}/headings", h.Add)
	mux.HandleFunc("PATCH /admin/api/content/{navID}/headings/{headingID}", h.Update)
	mux.HandleFunc("DELETE /admin/api/content/{navID}/headings/{headingID}", h.Delete)
	mux.HandleFunc("POST /admin/api/content/{navID}/headings/{headingID}/visibility", h.Toggle)
	mux.HandleFunc("POST /admin/api/content/{navID}/headings/{headingID}/move", h.Move)
}

func (h *ContentHandler) List(w http.ResponseWriter, r *http.Request) {
	httpx.OK(w, h.uc.Pages())
}

func (h *ContentHandler) State(w http.ResponseWriter, r *http.Request) {
	httpx.OK(w, h.uc.State())
}

func (h *ContentHandler) Get(w http.ResponseWriter, r *http.Request) {
	page, err := h.uc.Page(r.PathValue("navID"))
	if err != nil {
		httpx.Fail(w, h.logger, err, failedID)
		return
	}
	httpx.OK(w, page)
}

func (h *ContentHandler) Add(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Type model.HeadingType `json:"type"`
	}
	if err := httpx.Decode(r, &body); err != nil {
		httpx.Fail(w, h.logger, err, failedID)
		return
	}
	heading, err := h.uc.AddHeading(r.PathValue("navID"), body.Type)
	if err != nil {
		httpx.Fail(w, h.logger, err, failedID)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, httpx.Envelope{Data: heading})
}

func (h *ContentHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch dto.HeadingPatch
	if err := httpx.Decode(r, &patch); err != nil {
		httpx.Fail(w, h.logger, err, failedID)
		return
	}
	heading, err := h.uc.UpdateHeading(r.PathValue("navID"), r.PathValue("headingID"), &patch)
	if err != nil {
		httpx.Fail(w, h.logger, err, failedID)
		return
	}
	httpx.OK(w, heading)
}

func (h *ContentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.uc.DeleteHeading(r.PathValue("navID"), r.PathValue("headingID")); err != nil {
		httpx.Fail(w, h.logger, err, failedID)
		return
	}
	httpx.OK(w, h.uc.State())
}

func (h *ContentHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	heading, err := h.uc.ToggleVisibility(r.PathValue("navID"), r.PathValue("headingID"))
	if err != nil {
		httpx.Fail(w, h.logger, err, failedID)
		return
	}
	httpx.OK(w, heading)
}

func (h *ContentHandler) Move(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Direction dto.Direction `json:"direction"`
	}
	if err := httpx.Decode(r, &body); err != nil {
		httpx.Fail(w, h.logger, err, failedID)
		return
	}
	if err := h.uc.MoveHeading(r.PathValue("navID"), r.PathValue("headingID"), body.Direction); err != nil {
		httpx.Fail(w, h.logger, err, failedID)
		return
	}
	page, err := h.uc.Page(r.PathValue("navID"))
	if err != nil {
		httpx.Fail(w, h.logger, err, failedID)
		return
	}
	httpx.OK(w, page)
}

// Save is the manual "Save Now"; its result is always reported.
func (h *ContentHandler) Save(w http.ResponseWriter, r *http.Request) {
	if err := h.uc.SaveNow(r.Context()); err != nil {
		httpx.Fail(w, h.logger, err, failedID)
		return
	}
	httpx.Done(w, http.StatusOK, h.uc.State(), notice.Success("content.saved", nil))
}
