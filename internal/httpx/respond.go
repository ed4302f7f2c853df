// Package httpx holds the JSON plumbing shared by the HTTP handlers.
package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fekuna/omnipos-seller-cms/internal/apperr"
	"github.com/fekuna/omnipos-seller-cms/internal/notice"
	"github.com/fekuna/omnipos-seller-cms/internal/slice"
	"github.com/fekuna/omnipos-seller-cms/pkg/logger"
	"go.uber.org/zap"
)

const maxBody = 1 << 20

// Envelope is the body of every admin API response.
type Envelope struct {
	Data   any            `json:"data,omitempty"`
	Notice *notice.Notice `json:"notice,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func OK(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusOK, Envelope{Data: data})
}

// Done answers a successful command with its toast.
func Done(w http.ResponseWriter, status int, data any, n notice.Notice) {
	WriteJSON(w, status, Envelope{Data: data, Notice: &n})
}

// Fail maps err onto a status code and toast. failedID names the catalog
// message used for a save failure.
func Fail(w http.ResponseWriter, log logger.ZapLogger, err error, failedID string) {
	n := notice.FromError(err, failedID)
	status := StatusOf(err)
	if status >= http.StatusInternalServerError {
		log.Error("request failed", zap.Error(err))
	}
	WriteJSON(w, status, Envelope{Notice: &n})
}

func StatusOf(err error) int {
	if errors.Is(err, slice.ErrSaveInProgress) {
		return http.StatusConflict
	}
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		return http.StatusUnprocessableEntity
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConnection, apperr.KindSubscription:
		return http.StatusServiceUnavailable
	case apperr.KindSave:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Decode reads a JSON request body into v.
func Decode(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBody))
	if err := dec.Decode(v); err != nil {
		return apperr.Validation("invalid request body")
	}
	return nil
}
