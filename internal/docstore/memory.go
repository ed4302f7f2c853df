package docstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fekuna/omnipos-seller-cms/pkg/logger"
	"go.uber.org/zap"
)

// Persister keeps top-level roots durable. UpdateRoot applies a write to the
// durable copy atomically and returns the result; a nil result deletes the root.
type Persister interface {
	LoadRoot(ctx context.Context, root string) (any, error)
	UpdateRoot(ctx context.Context, root string, apply func(current any) any) (any, error)
}

// Change announces that the value at Path was replaced by the instance Origin.
type Change struct {
	Origin string `json:"origin"`
	Path   string `json:"path"`
}

// Bus fans changes out to other instances sharing the same Persister.
type Bus interface {
	Publish(ctx context.Context, c Change) error
	Listen(ctx context.Context, handle func(Change)) error
}

type subscription struct {
	path    string
	segs    []string
	box     *mailbox
	onData  func(Snapshot)
	onError func(error)
}

// Tree is an in-process realtime document tree. Writes are copy-on-write so a
// snapshot handed to a subscriber is never mutated afterwards.
type Tree struct {
	mu      sync.Mutex
	roots   map[string]any
	loaded  map[string]bool
	subs    map[uint64]*subscription
	nextSub uint64
	closed  bool

	ids         *IDGenerator
	origin      string
	persister   Persister
	bus         Bus
	loadTimeout time.Duration
	logger      logger.ZapLogger
}

type Option func(*Tree)

func WithPersister(p Persister) Option {
	return func(t *Tree) { t.persister = p }
}

func WithBus(b Bus) Option {
	return func(t *Tree) { t.bus = b }
}

func WithLogger(l logger.ZapLogger) Option {
	return func(t *Tree) { t.logger = l }
}

func NewTree(ids *IDGenerator, opts ...Option) *Tree {
	t := &Tree{
		roots:       make(map[string]any),
		loaded:      make(map[string]bool),
		subs:        make(map[uint64]*subscription),
		ids:         ids,
		origin:      ids.Next(),
		loadTimeout: 5 * time.Second,
		logger:      logger.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

var _ Store = (*Tree)(nil)

func (t *Tree) Subscribe(path string, onData func(Snapshot), onError func(error)) (Unsubscribe, error) {
	segs, err := SplitPath(path)
	if err != nil {
		return nil, err
	}
	path = Join(segs...)

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil, ErrClosed
	}

	ctx, cancel := context.WithTimeout(context.Background(), t.loadTimeout)
	defer cancel()
	if err := t.ensureLoaded(ctx, segs[0]); err != nil {
		return nil, err
	}

	if onError == nil {
		onError = func(error) {}
	}
	id := t.nextSub
	t.nextSub++
	sub := &subscription{
		path:    path,
		segs:    segs,
		box:     newMailbox(),
		onData:  onData,
		onError: onError,
	}
	t.subs[id] = sub
	t.deliver(sub)

	var once sync.Once
	return func() {
		once.Do(func() {
			t.mu.Lock()
			delete(t.subs, id)
			t.mu.Unlock()
			sub.box.close()
		})
	}, nil
}

func (t *Tree) Get(ctx context.Context, path string) (Snapshot, error) {
	segs, err := SplitPath(path)
	if err != nil {
		return Snapshot{}, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return Snapshot{}, ErrClosed
	}
	if err := t.ensureLoaded(ctx, segs[0]); err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Path: Join(segs...), Value: getIn(t.roots[segs[0]], segs[1:])}, nil
}

func (t *Tree) Write(ctx context.Context, path string, value any) error {
	segs, err := SplitPath(path)
	if err != nil {
		return err
	}
	val, err := Normalize(value)
	if err != nil {
		return fmt.Errorf("normalize %s: %w", path, err)
	}
	path = Join(segs...)
	root := segs[0]

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return ErrClosed
	}
	if err := t.ensureLoaded(ctx, root); err != nil {
		t.mu.Unlock()
		return err
	}

	var next any
	if t.persister != nil {
		// Apply against the durable copy; ours may lag behind another instance.
		next, err = t.persister.UpdateRoot(ctx, root, func(current any) any {
			return setIn(current, segs[1:], val)
		})
		if err != nil {
			t.mu.Unlock()
			return fmt.Errorf("%w: save %s: %v", ErrUnavailable, root, err)
		}
	} else {
		next = setIn(t.roots[root], segs[1:], val)
	}
	if next == nil {
		delete(t.roots, root)
	} else {
		t.roots[root] = next
	}
	t.notify(path)
	t.mu.Unlock()

	if t.bus != nil {
		if err := t.bus.Publish(ctx, Change{Origin: t.origin, Path: path}); err != nil {
			t.logger.Warn("failed to publish document change", zap.String("path", path), zap.Error(err))
		}
	}
	return nil
}

func (t *Tree) Remove(ctx context.Context, path string) error {
	return t.Write(ctx, path, nil)
}

func (t *Tree) GenerateID(string) string {
	return t.ids.Next()
}

// Run listens on the bus until ctx is done. Without a bus it returns at once.
func (t *Tree) Run(ctx context.Context) error {
	if t.bus == nil {
		return nil
	}
	return t.bus.Listen(ctx, t.applyRemote)
}

// Close stops every subscription.
func (t *Tree) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	for id, sub := range t.subs {
		sub.box.close()
		delete(t.subs, id)
	}
}

func (t *Tree) applyRemote(c Change) {
	if c.Origin == t.origin || t.persister == nil {
		return
	}
	segs, err := SplitPath(c.Path)
	if err != nil {
		t.logger.Warn("ignoring remote change with invalid path", zap.String("path", c.Path))
		return
	}
	root := segs[0]

	ctx, cancel := context.WithTimeout(context.Background(), t.loadTimeout)
	defer cancel()

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed || !t.loaded[root] {
		return
	}

	value, err := t.persister.LoadRoot(ctx, root)
	if err != nil {
		t.logger.Error("failed to reload root after remote change", zap.String("root", root), zap.Error(err))
		for _, sub := range t.subs {
			if sub.segs[0] == root && Overlaps(sub.path, c.Path) {
				onError := sub.onError
				sub.box.post(func() { onError(fmt.Errorf("%w: %v", ErrUnavailable, err)) })
			}
		}
		return
	}
	if value == nil {
		delete(t.roots, root)
	} else {
		t.roots[root] = value
	}
	t.notify(Join(segs...))
}

// ensureLoaded must be called with t.mu held.
func (t *Tree) ensureLoaded(ctx context.Context, root string) error {
	if t.persister == nil || t.loaded[root] {
		return nil
	}
	value, err := t.persister.LoadRoot(ctx, root)
	if err != nil {
		return fmt.Errorf("%w: load %s: %v", ErrUnavailable, root, err)
	}
	if value != nil {
		t.roots[root] = value
	}
	t.loaded[root] = true
	return nil
}

// notify must be called with t.mu held.
func (t *Tree) notify(changed string) {
	for _, sub := range t.subs {
		if Overlaps(sub.path, changed) {
			t.deliver(sub)
		}
	}
}

func (t *Tree) deliver(sub *subscription) {
	snap := Snapshot{Path: sub.path, Value: getIn(t.roots[sub.segs[0]], sub.segs[1:])}
	onData := sub.onData
	sub.box.post(func() { onData(snap) })
}
