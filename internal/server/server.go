// Package server composes the admin API, the public site and the health
// endpoint into one HTTP handler.
package server

import (
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fekuna/omnipos-seller-cms/internal/apperr"
	"github.com/fekuna/omnipos-seller-cms/internal/httpx"
	"github.com/fekuna/omnipos-seller-cms/internal/notice"
	"github.com/fekuna/omnipos-seller-cms/internal/reqid"
	"github.com/fekuna/omnipos-seller-cms/internal/slice"
	"github.com/fekuna/omnipos-seller-cms/pkg/logger"
	"go.uber.org/zap"
)

const (
	adminPrefix     = "/admin/api/"
	resubscribePath = "/admin/api/resubscribe"
)

// Paths under the admin API that do not read the document store.
var storeFree = []string{"/admin/api/settings", "/admin/api/preview"}

// Editor is the part of a mounted editor the server watches.
type Editor interface {
	Status() slice.Status
	Err() error
	Resubscribe() error
}

type Registrar interface {
	Register(mux *http.ServeMux)
}

type Server struct {
	mux    *http.ServeMux
	logger logger.ZapLogger

	mu      sync.RWMutex
	editors map[string]Editor
}

func New(log logger.ZapLogger) *Server {
	s := &Server{
		mux:     http.NewServeMux(),
		logger:  log,
		editors: make(map[string]Editor),
	}
	s.mux.HandleFunc("GET /healthz", s.Health)
	s.mux.HandleFunc("POST "+resubscribePath, s.Resubscribe)
	return s
}

func (s *Server) Mount(handlers ...Registrar) {
	for _, h := range handlers {
		h.Register(s.mux)
	}
}

// Watch adds an editor to the health report and the connection gate.
func (s *Server) Watch(name string, e Editor) {
	s.mu.Lock()
	s.editors[name] = e
	s.mu.Unlock()
}

func (s *Server) Handler() http.Handler {
	return reqid.Middleware(s.logRequests(s.gate(s.mux)))
}

// blocked returns the connection error of the first editor that could not
// reach the store.
func (s *Server) blocked() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.editors))
	for name := range s.editors {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := s.editors[name].Err(); apperr.Is(err, apperr.KindConnection) {
			return err
		}
	}
	return nil
}

// gate answers every store-backed admin call with 503 while the store is
// unreachable. Nothing is retried automatically; the operator asks for a
// resubscribe, which the gate lets through.
func (s *Server) gate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if needsStore(r.URL.Path) {
			if err := s.blocked(); err != nil {
				n := notice.FromError(err, "")
				httpx.WriteJSON(w, http.StatusServiceUnavailable, httpx.Envelope{Notice: &n})
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func needsStore(path string) bool {
	if !strings.HasPrefix(path, adminPrefix) || path == resubscribePath {
		return false
	}
	for _, p := range storeFree {
		if path == p || strings.HasPrefix(path, p+"/") {
			return false
		}
	}
	return true
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		fields := []zap.Field{
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", reqid.Get(r.Context())),
		}
		if rec.status >= http.StatusInternalServerError {
			s.logger.Warn("HTTP request failed", fields...)
			return
		}
		s.logger.Debug("HTTP request", fields...)
	})
}

type healthReport struct {
	Status  string            `json:"status"`
	Editors map[string]string `json:"editors"`
}

// Health reports every watched editor. A blocked store makes the whole
// service unhealthy; a failed subscription only degrades it.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	report := healthReport{Status: "ok", Editors: make(map[string]string)}
	s.mu.RLock()
	for name, e := range s.editors {
		st := e.Status()
		report.Editors[name] = st.String()
		if st == slice.StatusError && report.Status == "ok" {
			report.Status = "degraded"
		}
	}
	s.mu.RUnlock()

	code := http.StatusOK
	if s.blocked() != nil {
		report.Status = "unavailable"
		code = http.StatusServiceUnavailable
	}
	httpx.WriteJSON(w, code, report)
}

// Resubscribe reconnects the editor named by ?editor=, or every editor whose
// subscription is in the error state.
func (s *Server) Resubscribe(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("editor")

	s.mu.RLock()
	targets := make(map[string]Editor)
	if name != "" {
		if e, ok := s.editors[name]; ok {
			targets[name] = e
		}
	} else {
		for n, e := range s.editors {
			if e.Status() == slice.StatusError {
				targets[n] = e
			}
		}
	}
	s.mu.RUnlock()

	if name != "" && len(targets) == 0 {
		httpx.Fail(w, s.logger, apperr.NotFound("unknown editor "+name), "store.resubscribe_failed")
		return
	}

	names := make([]string, 0, len(targets))
	for n := range targets {
		names = append(names, n)
	}
	sort.Strings(names)

	var failed error
	report := make(map[string]string, len(names))
	for _, n := range names {
		if err := targets[n].Resubscribe(); err != nil {
			s.logger.Warn("resubscribe failed", zap.String("editor", n), zap.Error(err))
			if failed == nil {
				failed = err
			}
		}
		report[n] = targets[n].Status().String()
	}
	if failed != nil {
		httpx.Fail(w, s.logger, failed, "store.resubscribe_failed")
		return
	}
	s.logger.Info("editors resubscribed", zap.Strings("editors", names))
	httpx.Done(w, http.StatusOK, report, notice.Success("store.resubscribed", nil))
}
