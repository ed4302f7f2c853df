package server

import (
	"net/http"

	"github.com/fekuna/omnipos-seller-cms/internal/content"
	"github.com/fekuna/omnipos-seller-cms/internal/httpx"
	"github.com/fekuna/omnipos-seller-cms/internal/navigation"
	navDTO "github.com/fekuna/omnipos-seller-cms/internal/navigation/dto"
	"github.com/fekuna/omnipos-seller-cms/internal/settings"
)

// DashboardHandler joins the facts the overview needs from three editors.
type DashboardHandler struct {
	nav      navigation.UseCase
	content  content.UseCase
	settings settings.UseCase
}

func NewDashboardHandler(nav navigation.UseCase, content content.UseCase, settings settings.UseCase) *DashboardHandler {
	return &DashboardHandler{nav: nav, content: content, settings: settings}
}

func (h *DashboardHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /admin/api/dashboard", h.Overview)
}

func (h *DashboardHandler) Overview(w http.ResponseWriter, r *http.Request) {
	httpx.OK(w, h.nav.Overview(&navDTO.OverviewInput{
		ContentSections: h.content.SectionCount(),
		SettingsSaved:   h.settings.Saved(),
	}))
}
