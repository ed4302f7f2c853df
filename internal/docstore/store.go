package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strconv"
	"strings"
)

var (
	ErrInvalidPath   = errors.New("invalid document path")
	ErrUnavailable   = errors.New("document store unavailable")
	ErrNotConfigured = errors.New("document store not configured")
	ErrClosed        = errors.New("document store closed")
)

// Unsubscribe stops a subscription. It is safe to call more than once.
type Unsubscribe func()

// Store is the realtime document tree every slice reads from and writes to.
type Store interface {
	Subscribe(path string, onData func(Snapshot), onError func(error)) (Unsubscribe, error)
	Get(ctx context.Context, path string) (Snapshot, error)
	Write(ctx context.Context, path string, value any) error
	Remove(ctx context.Context, path string) error
	GenerateID(path string) string
}

// Snapshot is the full value at a path at one point in time.
// Value holds JSON-normalised data and must be treated as read-only.
type Snapshot struct {
	Path  string
	Value any
}

func (s Snapshot) Exists() bool {
	return s.Value != nil
}

// Key is the last segment of the snapshot's path.
func (s Snapshot) Key() string {
	if i := strings.LastIndexByte(s.Path, '/'); i >= 0 {
		return s.Path[i+1:]
	}
	return s.Path
}

// Decode unmarshals the snapshot value into v.
func (s Snapshot) Decode(v any) error {
	raw, err := json.Marshal(s.Value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}

// Children returns the child snapshots ordered by key.
func (s Snapshot) Children() []Snapshot {
	switch v := s.Value.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make([]Snapshot, 0, len(keys))
		for _, k := range keys {
			out = append(out, Snapshot{Path: s.Path + "/" + k, Value: v[k]})
		}
		return out
	case []any:
		out := make([]Snapshot, 0, len(v))
		for i, item := range v {
			if item == nil {
				continue
			}
			out = append(out, Snapshot{Path: s.Path + "/" + strconv.Itoa(i), Value: item})
		}
		return out
	default:
		return nil
	}
}

// Join builds a path from segments.
func Join(segments ...string) string {
	return strings.Join(segments, "/")
}

// SplitPath validates p and returns its segments.
func SplitPath(p string) ([]string, error) {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil, ErrInvalidPath
	}
	segs := strings.Split(p, "/")
	for _, s := range segs {
		if s == "" || strings.ContainsAny(s, ".#$[]") {
			return nil, ErrInvalidPath
		}
	}
	return segs, nil
}

// Overlaps reports whether a change at changed is visible to a subscriber of watched.
func Overlaps(watched, changed string) bool {
	if watched == changed {
		return true
	}
	return strings.HasPrefix(changed, watched+"/") || strings.HasPrefix(watched, changed+"/")
}

// Normalize converts v into plain JSON types.
func Normalize(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
