// Package notice turns operation results into the short messages shown to the
// operator, using a go-i18n message catalog.
package notice

import (
	"embed"
	"encoding/json"
	"errors"
	"sync"

	"github.com/fekuna/omnipos-seller-cms/internal/apperr"
	"github.com/fekuna/omnipos-seller-cms/internal/slice"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var locales embed.FS

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelWarning Level = "warning"
)

// Notice is a toast. Persistent notices stay until the condition clears;
// the rest auto-dismiss.
type Notice struct {
	Level      Level  `json:"level"`
	Message    string `json:"message"`
	Persistent bool   `json:"persistent,omitempty"`
}

var (
	mu     sync.RWMutex
	bundle *i18n.Bundle
	once   sync.Once
)

// Init loads the embedded English catalog. It is safe to call repeatedly.
func Init() {
	once.Do(func() {
		b := i18n.NewBundle(language.English)
		b.RegisterUnmarshalFunc("json", json.Unmarshal)
		if _, err := b.LoadMessageFileFS(locales, "locales/active.en.json"); err != nil {
			panic(err)
		}
		mu.Lock()
		bundle = b
		mu.Unlock()
	})
}

// Load adds a catalog file, e.g. active.id.json, on top of the embedded one.
func Load(path string) error {
	Init()
	mu.Lock()
	defer mu.Unlock()
	_, err := bundle.LoadMessageFile(path)
	return err
}

// T renders message id in the first matching language, falling back to English.
func T(id string, data map[string]any, langs ...string) string {
	Init()
	mu.RLock()
	loc := i18n.NewLocalizer(bundle, append(langs, language.English.String())...)
	mu.RUnlock()

	msg, err := loc.Localize(&i18n.LocalizeConfig{MessageID: id, TemplateData: data})
	if err != nil {
		return id
	}
	return msg
}

func Success(id string, data map[string]any) Notice {
	return Notice{Level: LevelSuccess, Message: T(id, data)}
}

func Error(id string, data map[string]any) Notice {
	return Notice{Level: LevelError, Message: T(id, data)}
}

// FromError maps err to a notice. failedID is the message used for save
// failures of the calling editor.
func FromError(err error, failedID string) Notice {
	if errors.Is(err, slice.ErrSaveInProgress) {
		return Notice{Level: LevelWarning, Message: T("save.in_progress", nil)}
	}
	reason := map[string]any{"Reason": apperr.Message(err)}
	switch apperr.KindOf(err) {
	case apperr.KindConnection:
		return Notice{Level: LevelError, Message: T("store.unavailable", nil), Persistent: true}
	case apperr.KindSubscription:
		return Notice{Level: LevelWarning, Message: T("store.subscription_failed", map[string]any{"Path": subscriptionPath(err)})}
	case apperr.KindValidation:
		return Error("validation.failed", reason)
	case apperr.KindNotFound:
		return Error("not_found", reason)
	default:
		return Error(failedID, map[string]any{"Reason": rootCause(err)})
	}
}

func subscriptionPath(err error) string {
	var e *apperr.Error
	if errors.As(err, &e) && e.Path != "" {
		return e.Path
	}
	return "this view"
}

func rootCause(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}
