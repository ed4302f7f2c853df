// Package apperr classifies failures into the four kinds an operator can see:
// a blocking connection problem, a stale-subscription banner, a failed save,
// or a validation message raised before anything is written.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindInternal Kind = iota
	KindConnection
	KindSubscription
	KindSave
	KindValidation
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindConnection:
		return "connection"
	case KindSubscription:
		return "subscription"
	case KindSave:
		return "save"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	default:
		return "internal"
	}
}

type Error struct {
	Kind Kind
	Msg  string
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	if e.Msg == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Msg, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Connection(err error) error {
	return &Error{Kind: KindConnection, Msg: "document store unavailable", Err: err}
}

func Subscription(path string, err error) error {
	return &Error{Kind: KindSubscription, Msg: "subscription to " + path + " failed", Path: path, Err: err}
}

func Save(msg string, err error) error {
	return &Error{Kind: KindSave, Msg: msg, Err: err}
}

func Validation(msg string) error {
	return &Error{Kind: KindValidation, Msg: msg}
}

func NotFound(msg string) error {
	return &Error{Kind: KindNotFound, Msg: msg}
}

// KindOf reports the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Message returns the operator-facing message of err.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Msg != "" {
		return e.Msg
	}
	return err.Error()
}

// AsConnection keeps an already classified err and treats anything else as
// the store being unreachable.
func AsConnection(err error) error {
	if err == nil || KindOf(err) != KindInternal {
		return err
	}
	return Connection(err)
}
