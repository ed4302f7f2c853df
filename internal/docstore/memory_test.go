package docstore

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu    sync.Mutex
	snaps []Snapshot
	errs  []error
}

func (r *recorder) onData(s Snapshot) {
	r.mu.Lock()
	r.snaps = append(r.snaps, s)
	r.mu.Unlock()
}

func (r *recorder) onError(err error) {
	r.mu.Lock()
	r.errs = append(r.errs, err)
	r.mu.Unlock()
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.snaps)
}

func (r *recorder) last() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snaps[len(r.snaps)-1]
}

func newTree(t *testing.T, opts ...Option) *Tree {
	t.Helper()
	ids, err := NewIDGenerator(1)
	require.NoError(t, err)
	tree := NewTree(ids, opts...)
	t.Cleanup(tree.Close)
	return tree
}

func waitFor(t *testing.T, r *recorder, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return r.count() >= n }, time.Second, 5*time.Millisecond)
}

func TestSubscribe_DeliversCurrentValue(t *testing.T) {
	tree := newTree(t)
	ctx := context.Background()

	missing := &recorder{}
	_, err := tree.Subscribe("homepage_content", missing.onData, missing.onError)
	require.NoError(t, err)
	waitFor(t, missing, 1)
	assert.False(t, missing.last().Exists())

	require.NoError(t, tree.Write(ctx, "sellers/a", map[string]any{"firstName": "Ana"}))
	r := &recorder{}
	_, err = tree.Subscribe("sellers", r.onData, r.onError)
	require.NoError(t, err)
	waitFor(t, r, 1)
	assert.Equal(t, map[string]any{"a": map[string]any{"firstName": "Ana"}}, r.last().Value)
}

func TestSubscribe_NotifiesAncestorsAndDescendants(t *testing.T) {
	tree := newTree(t)
	ctx := context.Background()

	parent, child, other := &recorder{}, &recorder{}, &recorder{}
	_, err := tree.Subscribe("sellers", parent.onData, nil)
	require.NoError(t, err)
	_, err = tree.Subscribe("sellers/a/status", child.onData, nil)
	require.NoError(t, err)
	_, err = tree.Subscribe("contact_inquiries", other.onData, nil)
	require.NoError(t, err)
	waitFor(t, parent, 1)
	waitFor(t, child, 1)
	waitFor(t, other, 1)

	require.NoError(t, tree.Write(ctx, "sellers/a/status", "active"))
	waitFor(t, parent, 2)
	waitFor(t, child, 2)
	assert.Equal(t, "active", child.last().Value)

	require.NoError(t, tree.Write(ctx, "sellers", map[string]any{"a": map[string]any{"status": "pending"}}))
	waitFor(t, child, 3)
	assert.Equal(t, "pending", child.last().Value)

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 1, other.count())
}

func TestSubscribe_OrderedDeliveries(t *testing.T) {
	tree := newTree(t)
	ctx := context.Background()

	r := &recorder{}
	_, err := tree.Subscribe("counter", r.onData, nil)
	require.NoError(t, err)
	for i := 1; i <= 20; i++ {
		require.NoError(t, tree.Write(ctx, "counter", i))
	}
	waitFor(t, r, 21)
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, s := range r.snaps[1:] {
		assert.Equal(t, float64(i+1), s.Value)
	}
}

func TestUnsubscribe_StopsDeliveries(t *testing.T) {
	tree := newTree(t)
	r := &recorder{}
	unsub, err := tree.Subscribe("sellers", r.onData, nil)
	require.NoError(t, err)
	waitFor(t, r, 1)

	unsub()
	unsub()
	require.NoError(t, tree.Write(context.Background(), "sellers/a", "x"))
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 1, r.count())
}

func TestRemove_PrunesEmptyParents(t *testing.T) {
	tree := newTree(t)
	ctx := context.Background()
	require.NoError(t, tree.Write(ctx, "nav_items_content/n1/headings", []any{"h"}))

	require.NoError(t, tree.Remove(ctx, "nav_items_content/n1/headings"))
	snap, err := tree.Get(ctx, "nav_items_content")
	require.NoError(t, err)
	assert.False(t, snap.Exists())
}

func TestWrite_SnapshotsAreImmutable(t *testing.T) {
	tree := newTree(t)
	ctx := context.Background()
	require.NoError(t, tree.Write(ctx, "settings", map[string]any{"a": 1}))

	before, err := tree.Get(ctx, "settings")
	require.NoError(t, err)
	require.NoError(t, tree.Write(ctx, "settings/a", 2))

	assert.Equal(t, map[string]any{"a": 1.0}, before.Value)
}

func TestWrite_InvalidPath(t *testing.T) {
	tree := newTree(t)
	assert.ErrorIs(t, tree.Write(context.Background(), "bad.path", 1), ErrInvalidPath)
	_, err := tree.Subscribe("", nil, nil)
	assert.ErrorIs(t, err, ErrInvalidPath)
}

func TestClosedTree(t *testing.T) {
	tree := newTree(t)
	tree.Close()
	assert.ErrorIs(t, tree.Write(context.Background(), "a", 1), ErrClosed)
	_, err := tree.Subscribe("a", func(Snapshot) {}, nil)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestGenerateID_TimeOrdered(t *testing.T) {
	tree := newTree(t)
	prev := tree.GenerateID("sellers")
	for i := 0; i < 100; i++ {
		next := tree.GenerateID("sellers")
		assert.Less(t, prev, next)
		prev = next
	}
}

func TestIDGenerator_OutOfRangeNodeUsesHost(t *testing.T) {
	node := hostNodeID()
	assert.GreaterOrEqual(t, node, int64(0))
	assert.LessOrEqual(t, node, int64(1023))
	assert.Equal(t, node, hostNodeID())

	ids, err := NewIDGenerator(-1)
	require.NoError(t, err)
	assert.NotEmpty(t, ids.Next())
}

type memPersister struct {
	mu      sync.Mutex
	roots   map[string]any
	loadErr error
	saveErr error
}

func (p *memPersister) LoadRoot(_ context.Context, root string) (any, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.loadErr != nil {
		return nil, p.loadErr
	}
	return p.roots[root], nil
}

func (p *memPersister) UpdateRoot(_ context.Context, root string, apply func(any) any) (any, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.saveErr != nil {
		return nil, p.saveErr
	}
	next := apply(p.roots[root])
	if next == nil {
		delete(p.roots, root)
	} else {
		p.roots[root] = next
	}
	return next, nil
}

func TestPersister_LoadsAndSavesRoots(t *testing.T) {
	p := &memPersister{roots: map[string]any{"sellers": map[string]any{"a": "x"}}}
	tree := newTree(t, WithPersister(p))
	ctx := context.Background()

	snap, err := tree.Get(ctx, "sellers/a")
	require.NoError(t, err)
	assert.Equal(t, "x", snap.Value)

	require.NoError(t, tree.Write(ctx, "sellers/b", "y"))
	assert.Equal(t, map[string]any{"a": "x", "b": "y"}, p.roots["sellers"])
}

func TestPersister_WriteKeepsChangesFromOtherInstances(t *testing.T) {
	p := &memPersister{roots: map[string]any{}}
	tree := newTree(t, WithPersister(p))
	ctx := context.Background()

	_, err := tree.Get(ctx, "sellers")
	require.NoError(t, err)

	// another instance wrote sellers/x; this tree has not heard about it yet
	p.mu.Lock()
	p.roots["sellers"] = map[string]any{"x": "remote"}
	p.mu.Unlock()

	require.NoError(t, tree.Write(ctx, "sellers/y", "local"))
	assert.Equal(t, map[string]any{"x": "remote", "y": "local"}, p.roots["sellers"])

	snap, err := tree.Get(ctx, "sellers")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"x": "remote", "y": "local"}, snap.Value)
}

func TestPersister_FailureIsUnavailable(t *testing.T) {
	p := &memPersister{roots: map[string]any{}, saveErr: errors.New("db down")}
	tree := newTree(t, WithPersister(p))

	err := tree.Write(context.Background(), "sellers/a", "x")
	assert.ErrorIs(t, err, ErrUnavailable)
	snap, err := tree.Get(context.Background(), "sellers")
	require.NoError(t, err)
	assert.False(t, snap.Exists())

	p.loadErr = errors.New("db down")
	_, err = tree.Subscribe("homepage_content", func(Snapshot) {}, nil)
	assert.ErrorIs(t, err, ErrUnavailable)
}

type chanBus struct {
	mu        sync.Mutex
	published []Change
	changes   chan Change
}

func (b *chanBus) Publish(_ context.Context, c Change) error {
	b.mu.Lock()
	b.published = append(b.published, c)
	b.mu.Unlock()
	return nil
}

func (b *chanBus) Listen(ctx context.Context, handle func(Change)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case c := <-b.changes:
			handle(c)
		}
	}
}

func TestBus_RemoteChangeReloadsRoot(t *testing.T) {
	p := &memPersister{roots: map[string]any{}}
	b := &chanBus{changes: make(chan Change)}
	tree := newTree(t, WithPersister(p), WithBus(b))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = tree.Run(ctx) }()

	r := &recorder{}
	_, err := tree.Subscribe("sellers", r.onData, r.onError)
	require.NoError(t, err)
	waitFor(t, r, 1)

	// another instance wrote through the shared database
	p.mu.Lock()
	p.roots["sellers"] = map[string]any{"z": "remote"}
	p.mu.Unlock()
	b.changes <- Change{Origin: "peer", Path: "sellers/z"}

	waitFor(t, r, 2)
	assert.Equal(t, map[string]any{"z": "remote"}, r.last().Value)

	require.NoError(t, tree.Write(context.Background(), "sellers/a", "local"))
	b.mu.Lock()
	require.Len(t, b.published, 1)
	assert.Equal(t, "sellers/a", b.published[0].Path)
	origin := b.published[0].Origin
	b.mu.Unlock()

	// echoes of our own writes are ignored
	n := r.count()
	b.changes <- Change{Origin: origin, Path: "sellers/a"}
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, n, r.count())
}
