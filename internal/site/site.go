// Package site renders the public seller site from the same document store
// the admin edits.
package site

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/fekuna/omnipos-seller-cms/internal/docstore"
	"github.com/fekuna/omnipos-seller-cms/internal/homepage"
	homeUC "github.com/fekuna/omnipos-seller-cms/internal/homepage/usecase"
	"github.com/fekuna/omnipos-seller-cms/internal/httpx"
	inqDTO "github.com/fekuna/omnipos-seller-cms/internal/inquiry/dto"
	"github.com/fekuna/omnipos-seller-cms/internal/intake"
	"github.com/fekuna/omnipos-seller-cms/internal/model"
	navUC "github.com/fekuna/omnipos-seller-cms/internal/navigation/usecase"
	"github.com/fekuna/omnipos-seller-cms/internal/notice"
	sellerDTO "github.com/fekuna/omnipos-seller-cms/internal/seller/dto"
	"github.com/fekuna/omnipos-seller-cms/internal/slice"
	"github.com/fekuna/omnipos-seller-cms/pkg/logger"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templates embed.FS

var funcs = template.FuncMap{
	"stories": stories,
	"footer":  footerOf,
}

type Site struct {
	name   string
	nav    *slice.Slice[[]model.NavigationItem]
	home   *slice.Slice[model.HomepageContent]
	pages  *slice.Slice[model.NavItemContent]
	submit intake.Submitter
	logger logger.ZapLogger

	homeTmpl     *template.Template
	pageTmpl     *template.Template
	notFoundTmpl *template.Template
}

func NewSite(store docstore.Store, name string, submit intake.Submitter, log logger.ZapLogger) (*Site, error) {
	s := &Site{
		name: name,
		nav: slice.New(store, navUC.ItemsPath,
			slice.Collection(func(n *model.NavigationItem, id string) { n.ID = id }, log), log),
		home: slice.New(store, homeUC.Path,
			slice.Document(func() model.HomepageContent { return homepage.Defaults(time.Now()) }), log),
		pages: slice.New(store, navUC.ContentPath,
			slice.Document(func() model.NavItemContent { return model.NavItemContent{} }), log),
		submit: submit,
		logger: log,
	}

	var err error
	if s.homeTmpl, err = parse("home.html"); err != nil {
		return nil, err
	}
	if s.pageTmpl, err = parse("page.html"); err != nil {
		return nil, err
	}
	if s.notFoundTmpl, err = parse("notfound.html"); err != nil {
		return nil, err
	}
	return s, nil
}

func parse(page string) (*template.Template, error) {
	return template.New(page).Funcs(funcs).ParseFS(templates, "templates/layout.html", "templates/"+page)
}

func (s *Site) Mount() error {
	for _, m := range []func() error{s.nav.Mount, s.home.Mount, s.pages.Mount} {
		if err := m(); err != nil {
			return err
		}
	}
	return nil
}

func (s *Site) Close() {
	s.pages.Close()
	s.home.Close()
	s.nav.Close()
}

func (s *Site) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", s.Home)
	mux.HandleFunc("GET /{path...}", s.Page)
	mux.HandleFunc("POST /api/contact", s.Contact)
	mux.HandleFunc("POST /api/sellers/register", s.RegisterSeller)
}

func (s *Site) layout(title, current string) layoutView {
	nav := s.nav.Value()
	model.SortNavigation(nav)
	return layoutView{SiteName: s.name, Title: title, Nav: nav, Current: current}
}

func (s *Site) Home(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, s.homeTmpl, homeView{
		layoutView: s.layout("", "/"),
		Sections:   visibleSections(s.home.Value()),
	})
}

// Page renders the navigation item whose href matches the request path.
func (s *Site) Page(w http.ResponseWriter, r *http.Request) {
	path := "/" + strings.Trim(r.PathValue("path"), "/")
	for _, item := range s.nav.Value() {
		if strings.TrimSuffix(navUC.NormalizeHref(item.Href), "/") != path {
			continue
		}
		s.render(w, http.StatusOK, s.pageTmpl, pageView{
			layoutView: s.layout(item.Label, item.Href),
			Item:       item,
			Headings:   visibleHeadings(s.pages.Value()[item.ID]),
		})
		return
	}
	s.render(w, http.StatusNotFound, s.notFoundTmpl, s.layout("Page not found", ""))
}

func (s *Site) render(w http.ResponseWriter, status int, tmpl *template.Template, data any) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		s.logger.Error("failed to render page", zap.String("template", tmpl.Name()), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (s *Site) Contact(w http.ResponseWriter, r *http.Request) {
	var input inqDTO.SubmitInquiryInput
	if err := httpx.Decode(r, &input); err != nil {
		httpx.Fail(w, s.logger, err, "inquiry.submit_failed")
		return
	}
	if err := s.submit.SubmitInquiry(r.Context(), &input); err != nil {
		httpx.Fail(w, s.logger, err, "inquiry.submit_failed")
		return
	}
	httpx.Done(w, http.StatusAccepted, nil, notice.Success("inquiry.received", nil))
}

func (s *Site) RegisterSeller(w http.ResponseWriter, r *http.Request) {
	var input sellerDTO.RegisterSellerInput
	if err := httpx.Decode(r, &input); err != nil {
		httpx.Fail(w, s.logger, err, "seller.register_failed")
		return
	}
	if err := s.submit.RegisterSeller(r.Context(), &input); err != nil {
		httpx.Fail(w, s.logger, err, "seller.register_failed")
		return
	}
	httpx.Done(w, http.StatusAccepted, nil, notice.Success("seller.registered", nil))
}
