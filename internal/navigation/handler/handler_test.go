package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fekuna/omnipos-seller-cms/internal/apperr"
	"github.com/fekuna/omnipos-seller-cms/internal/model"
	"github.com/fekuna/omnipos-seller-cms/internal/navigation"
	"github.com/fekuna/omnipos-seller-cms/internal/navigation/dto"
	"github.com/fekuna/omnipos-seller-cms/internal/notice"
	"github.com/fekuna/omnipos-seller-cms/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNav struct {
	navigation.UseCase

	saved    *dto.SaveNavigationInput
	deleted  string
	template int
	err      error
}

func (f *fakeNav) ListItems() []model.NavigationItem {
	return []model.NavigationItem{{ID: "home", Label: "Home", Href: "/", Order: 1}}
}

func (f *fakeNav) Draft(template int) (*dto.SaveNavigationInput, error) {
	f.template = template
	return &dto.SaveNavigationInput{Label: "Pricing", Href: "/pricing"}, f.err
}

func (f *fakeNav) SaveItem(_ context.Context, input *dto.SaveNavigationInput) (*model.NavigationItem, bool, error) {
	f.saved = input
	if f.err != nil {
		return nil, false, f.err
	}
	id := input.ID
	if id == "" {
		id = "new"
	}
	return &model.NavigationItem{ID: id, Label: input.Label, Href: input.Href}, input.ID == "", nil
}

func (f *fakeNav) DeleteItem(_ context.Context, id string) error {
	f.deleted = id
	return f.err
}

func serve(h *NavigationHandler, method, path, body string) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	h.Register(mux)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
	return rec
}

type envelope struct {
	Data   json.RawMessage `json:"data"`
	Notice *notice.Notice  `json:"notice"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestNavigationHandler_Routes(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		body   string
		err    error
		code   int
		check  func(t *testing.T, f *fakeNav, env envelope)
	}{
		{
			name: "list", method: http.MethodGet, path: "/admin/api/navigation", code: http.StatusOK,
			check: func(t *testing.T, _ *fakeNav, env envelope) {
				assert.JSONEq(t, `[{"id":"home","label":"Home","href":"/","description":"","order":1}]`, string(env.Data))
			},
		},
		{
			name: "create ignores a body id", method: http.MethodPost, path: "/admin/api/navigation",
			body: `{"id":"sneaky","label":"About","href":"/about"}`, code: http.StatusCreated,
			check: func(t *testing.T, f *fakeNav, env envelope) {
				assert.Empty(t, f.saved.ID)
				require.NotNil(t, env.Notice)
				assert.Equal(t, "Page created successfully", env.Notice.Message)
			},
		},
		{
			name: "update takes the id from the path", method: http.MethodPut, path: "/admin/api/navigation/abc",
			body: `{"label":"About","href":"/about"}`, code: http.StatusOK,
			check: func(t *testing.T, f *fakeNav, env envelope) {
				assert.Equal(t, "abc", f.saved.ID)
				assert.Equal(t, "Page updated successfully", env.Notice.Message)
			},
		},
		{
			name: "duplicate href", method: http.MethodPost, path: "/admin/api/navigation",
			body: `{"label":"Home","href":"/"}`, err: apperr.Validation("A page with this URL already exists"),
			code: http.StatusUnprocessableEntity,
			check: func(t *testing.T, _ *fakeNav, env envelope) {
				assert.Equal(t, notice.LevelError, env.Notice.Level)
				assert.Equal(t, "A page with this URL already exists", env.Notice.Message)
			},
		},
		{
			name: "malformed body", method: http.MethodPost, path: "/admin/api/navigation", body: `{`,
			code: http.StatusUnprocessableEntity,
			check: func(t *testing.T, f *fakeNav, _ envelope) {
				assert.Nil(t, f.saved)
			},
		},
		{
			name: "delete", method: http.MethodDelete, path: "/admin/api/navigation/abc", code: http.StatusOK,
			check: func(t *testing.T, f *fakeNav, env envelope) {
				assert.Equal(t, "abc", f.deleted)
				assert.Equal(t, "Page deleted successfully", env.Notice.Message)
			},
		},
		{
			name: "delete missing", method: http.MethodDelete, path: "/admin/api/navigation/nope",
			err: apperr.NotFound("page not found"), code: http.StatusNotFound,
		},
		{
			name: "draft template", method: http.MethodGet, path: "/admin/api/navigation/draft?template=2", code: http.StatusOK,
			check: func(t *testing.T, f *fakeNav, _ envelope) {
				assert.Equal(t, 2, f.template)
			},
		},
		{
			name: "draft without template", method: http.MethodGet, path: "/admin/api/navigation/draft", code: http.StatusOK,
			check: func(t *testing.T, f *fakeNav, _ envelope) {
				assert.Equal(t, -1, f.template)
			},
		},
		{
			name: "draft bad template", method: http.MethodGet, path: "/admin/api/navigation/draft?template=x",
			code: http.StatusUnprocessableEntity,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeNav{err: tt.err}
			rec := serve(NewNavigationHandler(f, logger.NewNop()), tt.method, tt.path, tt.body)
			require.Equal(t, tt.code, rec.Code, rec.Body.String())
			if tt.check != nil {
				tt.check(t, f, decode(t, rec))
			}
		})
	}
}
