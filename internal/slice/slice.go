// Package slice mirrors one store path in memory. Editors mutate the mirror
// locally and commit it with an explicit Save; the subscription echo then
// replaces the mirror with whatever the store holds.
package slice

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/fekuna/omnipos-seller-cms/internal/apperr"
	"github.com/fekuna/omnipos-seller-cms/internal/docstore"
	"github.com/fekuna/omnipos-seller-cms/internal/draft"
	"github.com/fekuna/omnipos-seller-cms/pkg/logger"
	"go.uber.org/zap"
)

var (
	ErrSaveInProgress = errors.New("save already in progress")
	ErrClosed         = errors.New("slice closed")
	ErrNotSynced      = errors.New("slice has not received its first snapshot")
)

type Status int

const (
	StatusUninitialized Status = iota
	StatusLoading
	StatusSynced
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusSynced:
		return "synced"
	case StatusError:
		return "error"
	default:
		return "uninitialized"
	}
}

// Codec converts between store snapshots and the slice's value type.
// Encode may be nil, in which case the value is converted through JSON.
type Codec[T any] struct {
	Decode func(docstore.Snapshot) (T, error)
	Encode func(T) (any, error)
}

type Slice[T any] struct {
	store  docstore.Store
	path   string
	codec  Codec[T]
	logger logger.ZapLogger
	now    func() time.Time

	mu        sync.RWMutex
	status    Status
	value     T
	err       error
	dirty     bool
	rev       uint64
	saving    bool
	lastSaved time.Time
	unsub     docstore.Unsubscribe
	closed    bool
	synced    chan struct{}
	failed    chan struct{}
	onChange  []func()
	onSync    []func(T)
}

func New[T any](store docstore.Store, path string, codec Codec[T], log logger.ZapLogger) *Slice[T] {
	if codec.Encode == nil {
		codec.Encode = func(v T) (any, error) { return draft.ToDocument(v) }
	}
	return &Slice[T]{
		store:  store,
		path:   path,
		codec:  codec,
		logger: log.With(zap.String("path", path)),
		now:    time.Now,
		synced: make(chan struct{}),
		failed: make(chan struct{}),
	}
}

func (s *Slice[T]) Path() string {
	return s.path
}

// Mount subscribes to the store. It may be called once; use Resubscribe to
// recover from a subscription error.
func (s *Slice[T]) Mount() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.unsub != nil {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()
	return s.subscribe()
}

func (s *Slice[T]) Resubscribe() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	unsub := s.unsub
	s.unsub = nil
	s.mu.Unlock()
	if unsub != nil {
		unsub()
	}
	return s.subscribe()
}

func (s *Slice[T]) subscribe() error {
	if s.store == nil {
		s.fail(apperr.Connection(docstore.ErrNotConfigured))
		return s.Err()
	}

	s.mu.Lock()
	if s.status != StatusSynced {
		s.status = StatusLoading
	}
	s.mu.Unlock()

	unsub, err := s.store.Subscribe(s.path, s.receive, func(err error) {
		s.logger.Warn("subscription failed", zap.Error(err))
		s.fail(apperr.Subscription(s.path, err))
	})
	if err != nil {
		s.fail(apperr.Connection(err))
		return s.Err()
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		unsub()
		return ErrClosed
	}
	s.unsub = unsub
	s.mu.Unlock()
	return nil
}

// Close stops the subscription. Saves already running still complete.
func (s *Slice[T]) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	unsub := s.unsub
	s.unsub = nil
	s.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}

func (s *Slice[T]) receive(snap docstore.Snapshot) {
	value, err := s.codec.Decode(snap)
	if err != nil {
		s.logger.Error("failed to decode snapshot", zap.Error(err))
		s.fail(apperr.Subscription(s.path, err))
		return
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.value = value
	s.dirty = false
	s.rev++
	s.err = nil
	first := s.status != StatusSynced
	s.status = StatusSynced
	observers := append([]func(T){}, s.onSync...)
	s.mu.Unlock()

	if first {
		s.markSynced()
	}
	for _, fn := range observers {
		fn(s.Value())
	}
}

func (s *Slice[T]) fail(err error) {
	s.mu.Lock()
	s.status = StatusError
	s.err = err
	// wake WaitSynced callers
	close(s.failed)
	s.failed = make(chan struct{})
	s.mu.Unlock()
}

func (s *Slice[T]) markSynced() {
	s.mu.Lock()
	defer s.mu.Unlock()
	select {
	case <-s.synced:
	default:
		close(s.synced)
	}
}

// WaitSynced blocks until the first snapshot has been applied. It returns the
// slice error as soon as the subscription fails before that happens.
func (s *Slice[T]) WaitSynced(ctx context.Context) error {
	for {
		s.mu.RLock()
		status, err, failed := s.status, s.err, s.failed
		s.mu.RUnlock()

		if s.hasSynced() {
			return nil
		}
		if status == StatusError && err != nil {
			return err
		}
		select {
		case <-s.synced:
			return nil
		case <-failed:
		case <-ctx.Done():
			if err := s.Err(); err != nil {
				return err
			}
			return ctx.Err()
		}
	}
}

func (s *Slice[T]) hasSynced() bool {
	select {
	case <-s.synced:
		return true
	default:
		return false
	}
}

// notReady must be called with s.mu held. Whole-value edits are refused until
// the mirror holds real data; saving the zero value would wipe the store.
func (s *Slice[T]) notReady() error {
	if s.hasSynced() {
		return nil
	}
	if s.err != nil {
		return s.err
	}
	return apperr.Connection(ErrNotSynced)
}

func (s *Slice[T]) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Err is the last subscription or connection error; nil once data flows again.
func (s *Slice[T]) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// Value returns a deep copy of the mirror.
func (s *Slice[T]) Value() T {
	s.mu.RLock()
	v := s.value
	s.mu.RUnlock()

	out, err := draft.Clone(v)
	if err != nil {
		s.logger.Error("failed to clone slice value", zap.Error(err))
		return v
	}
	return out
}

func (s *Slice[T]) Dirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dirty
}

func (s *Slice[T]) Saving() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saving
}

func (s *Slice[T]) LastSaved() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSaved
}

// OnChange registers fn to run after every local mutation.
func (s *Slice[T]) OnChange(fn func()) {
	s.mu.Lock()
	s.onChange = append(s.onChange, fn)
	s.mu.Unlock()
}

// OnSync registers fn to run with a copy of every snapshot applied from the store.
func (s *Slice[T]) OnSync(fn func(T)) {
	s.mu.Lock()
	s.onSync = append(s.onSync, fn)
	s.mu.Unlock()
}

// Mutate applies fn to the in-memory value. Nothing is written to the store;
// if fn returns an error the value is left as it was.
func (s *Slice[T]) Mutate(fn func(*T) error) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if err := s.notReady(); err != nil {
		s.mu.Unlock()
		return err
	}
	working, err := draft.Clone(s.value)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if err := fn(&working); err != nil {
		s.mu.Unlock()
		return err
	}
	s.value = working
	s.dirty = true
	s.rev++
	observers := append([]func(){}, s.onChange...)
	s.mu.Unlock()

	for _, obs := range observers {
		obs()
	}
	return nil
}

func (s *Slice[T]) Save(ctx context.Context) error {
	return s.SaveWith(ctx, nil)
}

// SaveWith writes the whole value to the store. prepare, when set, adjusts the
// copy being written without touching the draft.
func (s *Slice[T]) SaveWith(ctx context.Context, prepare func(*T)) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if err := s.notReady(); err != nil {
		s.mu.Unlock()
		return err
	}
	if s.saving {
		s.mu.Unlock()
		return ErrSaveInProgress
	}
	s.saving = true
	rev := s.rev
	working, err := draft.Clone(s.value)
	s.mu.Unlock()

	if err == nil {
		if prepare != nil {
			prepare(&working)
		}
		err = s.write(ctx, working)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.saving = false
	if err != nil {
		s.logger.Error("failed to save", zap.Error(err))
		return apperr.Save("failed to save "+s.path, err)
	}
	s.lastSaved = s.now()
	if s.rev == rev {
		s.dirty = false
	}
	return nil
}

// WriteChild writes value under rel below the slice path. These targeted
// writes are the only partial updates; the mirror changes when the echo arrives.
func (s *Slice[T]) WriteChild(ctx context.Context, rel string, value any) error {
	if s.store == nil {
		return apperr.Connection(docstore.ErrNotConfigured)
	}
	path := s.path + "/" + rel
	if doc, err := draft.ToDocument(value); err == nil {
		value = draft.Sanitize(doc)
	} else {
		return apperr.Save("failed to encode "+path, err)
	}
	if err := s.store.Write(ctx, path, value); err != nil {
		s.logger.Error("failed to write", zap.String("child", rel), zap.Error(err))
		return apperr.Save("failed to save "+path, err)
	}
	return nil
}

func (s *Slice[T]) RemoveChild(ctx context.Context, rel string) error {
	if s.store == nil {
		return apperr.Connection(docstore.ErrNotConfigured)
	}
	path := s.path + "/" + rel
	if err := s.store.Remove(ctx, path); err != nil {
		s.logger.Error("failed to remove", zap.String("child", rel), zap.Error(err))
		return apperr.Save("failed to remove "+path, err)
	}
	return nil
}

// NewKey returns a fresh child key under the slice path.
func (s *Slice[T]) NewKey() (string, error) {
	if s.store == nil {
		return "", apperr.Connection(docstore.ErrNotConfigured)
	}
	return s.store.GenerateID(s.path), nil
}

func (s *Slice[T]) write(ctx context.Context, v T) error {
	if s.store == nil {
		return apperr.Connection(docstore.ErrNotConfigured)
	}
	doc, err := s.codec.Encode(v)
	if err != nil {
		return err
	}
	return s.store.Write(ctx, s.path, draft.Sanitize(doc))
}
