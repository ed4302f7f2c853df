package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fekuna/omnipos-seller-cms/internal/apperr"
	"github.com/fekuna/omnipos-seller-cms/internal/content"
	"github.com/fekuna/omnipos-seller-cms/internal/docstore"
	"github.com/fekuna/omnipos-seller-cms/internal/navigation"
	navDTO "github.com/fekuna/omnipos-seller-cms/internal/navigation/dto"
	"github.com/fekuna/omnipos-seller-cms/internal/notice"
	"github.com/fekuna/omnipos-seller-cms/internal/settings"
	"github.com/fekuna/omnipos-seller-cms/internal/slice"
	"github.com/fekuna/omnipos-seller-cms/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeEditor struct {
	status slice.Status
	err    error

	resubscribed int
	resubErr     error
}

func (f *fakeEditor) Status() slice.Status { return f.status }
func (f *fakeEditor) Err() error           { return f.err }

func (f *fakeEditor) Resubscribe() error {
	f.resubscribed++
	if f.resubErr != nil {
		return f.resubErr
	}
	f.status, f.err = slice.StatusLoading, nil
	return nil
}

type pingHandler struct{}

func (pingHandler) Register(mux *http.ServeMux) {
	ok := func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) }
	mux.HandleFunc("GET /admin/api/navigation", ok)
	mux.HandleFunc("GET /admin/api/settings", ok)
	mux.HandleFunc("GET /{$}", ok)
}

func serve(s *Server, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestGate_BlocksStoreCallsWhenUnreachable(t *testing.T) {
	notice.Init()
	s := New(logger.NewNop())
	s.Mount(pingHandler{})
	nav := &fakeEditor{status: slice.StatusSynced}
	s.Watch("navigation", nav)

	assert.Equal(t, http.StatusNoContent, serve(s, "/admin/api/navigation").Code)

	nav.status = slice.StatusError
	nav.err = apperr.Connection(docstore.ErrNotConfigured)

	rec := serve(s, "/admin/api/navigation")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var body struct {
		Notice notice.Notice `json:"notice"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Notice.Persistent)
	assert.Equal(t, notice.LevelError, body.Notice.Level)

	// settings are local and the public site renders the last mirror
	assert.Equal(t, http.StatusNoContent, serve(s, "/admin/api/settings").Code)
	assert.Equal(t, http.StatusNoContent, serve(s, "/").Code)
}

func TestGate_SubscriptionErrorDoesNotBlock(t *testing.T) {
	s := New(logger.NewNop())
	s.Mount(pingHandler{})
	s.Watch("navigation", &fakeEditor{
		status: slice.StatusError,
		err:    apperr.Subscription("navigation_items", errors.New("stream reset")),
	})

	assert.Equal(t, http.StatusNoContent, serve(s, "/admin/api/navigation").Code)

	rec := serve(s, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"degraded","editors":{"navigation":"error"}}`, rec.Body.String())
}

func post(s *Server, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, nil))
	return rec
}

func TestResubscribe_FailedEditors(t *testing.T) {
	notice.Init()
	s := New(logger.NewNop())
	healthy := &fakeEditor{status: slice.StatusSynced}
	broken := &fakeEditor{status: slice.StatusError, err: apperr.Subscription("sellers", errors.New("stream reset"))}
	s.Watch("navigation", healthy)
	s.Watch("sellers", broken)

	rec := post(s, "/admin/api/resubscribe")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, healthy.resubscribed)
	assert.Equal(t, 1, broken.resubscribed)

	var body struct {
		Data   map[string]string `json:"data"`
		Notice notice.Notice     `json:"notice"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, map[string]string{"sellers": "loading"}, body.Data)
	assert.Equal(t, notice.LevelSuccess, body.Notice.Level)
}

func TestResubscribe_PassesTheGate(t *testing.T) {
	notice.Init()
	s := New(logger.NewNop())
	nav := &fakeEditor{
		status:   slice.StatusError,
		err:      apperr.Connection(docstore.ErrUnavailable),
		resubErr: apperr.Connection(docstore.ErrUnavailable),
	}
	s.Watch("navigation", nav)

	rec := post(s, "/admin/api/resubscribe?editor=navigation")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, 1, nav.resubscribed, "the gate must not swallow the retry")

	nav.resubErr = nil
	rec = post(s, "/admin/api/resubscribe?editor=navigation")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, nav.resubscribed)

	assert.Equal(t, http.StatusNotFound, post(s, "/admin/api/resubscribe?editor=nope").Code)
}

func TestHealth(t *testing.T) {
	s := New(logger.NewNop())
	s.Watch("sellers", &fakeEditor{status: slice.StatusSynced})
	s.Watch("homepage", &fakeEditor{status: slice.StatusLoading})

	rec := serve(s, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","editors":{"sellers":"synced","homepage":"loading"}}`, rec.Body.String())

	s.Watch("inquiries", &fakeEditor{status: slice.StatusError, err: apperr.Connection(docstore.ErrUnavailable)})
	rec = serve(s, "/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"unavailable"`)
}

func TestLogRequests(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	s := New(logger.New(zap.New(core)))
	s.Mount(pingHandler{})

	req := httptest.NewRequest(http.MethodGet, "/admin/api/navigation", nil)
	req.Header.Set("X-Request-Id", "req-7")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	entries := logs.FilterMessage("HTTP request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "req-7", fields["request_id"])
	assert.Equal(t, int64(http.StatusNoContent), fields["status"])
	assert.Equal(t, "req-7", rec.Header().Get("X-Request-Id"))
}

type fakeNav struct {
	navigation.UseCase
	got *navDTO.OverviewInput
}

func (f *fakeNav) Overview(input *navDTO.OverviewInput) *navDTO.Overview {
	f.got = input
	return &navDTO.Overview{TotalPages: 3}
}

type fakeContent struct{ content.UseCase }

func (fakeContent) SectionCount() int { return 4 }

type fakeSettings struct{ settings.UseCase }

func (fakeSettings) Saved() bool { return true }

func TestDashboard(t *testing.T) {
	nav := &fakeNav{}
	s := New(logger.NewNop())
	s.Mount(NewDashboardHandler(nav, fakeContent{}, fakeSettings{}))

	rec := serve(s, "/admin/api/dashboard")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, &navDTO.OverviewInput{ContentSections: 4, SettingsSaved: true}, nav.got)
	assert.Contains(t, rec.Body.String(), `"totalPages":3`)
}
