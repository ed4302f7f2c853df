package handler

import (
	"net/http"
	"strconv"

	"github.com/fekuna/omnipos-seller-cms/internal/apperr"
	"github.com/fekuna/omnipos-seller-cms/internal/httpx"
	"github.com/fekuna/omnipos-seller-cms/internal/navigation"
	"github.com/fekuna/omnipos-seller-cms/internal/preview"
	"github.com/fekuna/omnipos-seller-cms/pkg/logger"
)

const failedID = "navigation.save_failed"

type PreviewHandler struct {
	renderer *preview.Renderer
	nav      navigation.UseCase
	logger   logger.ZapLogger
}

func NewPreviewHandler(renderer *preview.Renderer, nav navigation.UseCase, log logger.ZapLogger) *PreviewHandler {
	return &PreviewHandler{
		renderer: renderer,
		nav:      nav,
		logger:   log,
	}
}

func (h *PreviewHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /admin/api/preview", h.Frame)
}

type frameResponse struct {
	*preview.Frame
	Split     float64 `json:"split"`
	PaneWidth int     `json:"paneWidth"`
}

// Frame answers ?page={navID} or ?href=/path, with optional device,
// container (pixels), split (editor percent) and reload.
func (h *PreviewHandler) Frame(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	href := q.Get("href")
	if id := q.Get("page"); id != "" {
		item, err := h.nav.GetItem(id)
		if err != nil {
			httpx.Fail(w, h.logger, err, failedID)
			return
		}
		href = item.Href
	}
	if href == "" {
		href = "/"
	}

	container, err := intParam(q.Get("container"))
	if err != nil {
		httpx.Fail(w, h.logger, err, failedID)
		return
	}
	reload, err := intParam(q.Get("reload"))
	if err != nil {
		httpx.Fail(w, h.logger, err, failedID)
		return
	}
	split := preview.DefaultSplit
	if raw := q.Get("split"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			httpx.Fail(w, h.logger, apperr.Validation("split must be a number"), failedID)
			return
		}
		split = preview.ClampSplit(v)
	}

	pane := preview.PaneWidth(container, split)
	httpx.OK(w, frameResponse{
		Frame:     h.renderer.Frame(href, preview.Device(q.Get("device")), pane, reload),
		Split:     split,
		PaneWidth: pane,
	})
}

func intParam(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, apperr.Validation("expected a non-negative integer, got " + raw)
	}
	return v, nil
}
