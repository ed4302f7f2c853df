package slice

import (
	"fmt"

	"github.com/fekuna/omnipos-seller-cms/internal/docstore"
	"github.com/fekuna/omnipos-seller-cms/pkg/logger"
	"go.uber.org/zap"
)

// Collection decodes a keyed collection such as sellers/{id}. Each child is
// decoded on its own and given its key through setID; children that fail to
// decode are logged and skipped so one bad record cannot hide the rest.
func Collection[T any](setID func(*T, string), log logger.ZapLogger) Codec[[]T] {
	return Codec[[]T]{
		Decode: func(snap docstore.Snapshot) ([]T, error) {
			children := snap.Children()
			out := make([]T, 0, len(children))
			for _, child := range children {
				var item T
				if err := child.Decode(&item); err != nil {
					log.Warn("skipping undecodable child",
						zap.String("path", snap.Path),
						zap.String("key", child.Key()),
						zap.Error(err),
					)
					continue
				}
				setID(&item, child.Key())
				out = append(out, item)
			}
			return out, nil
		},
	}
}

// Document decodes a single document. A missing path yields fallback().
func Document[T any](fallback func() T) Codec[T] {
	return Codec[T]{
		Decode: func(snap docstore.Snapshot) (T, error) {
			if !snap.Exists() {
				return fallback(), nil
			}
			var v T
			if err := snap.Decode(&v); err != nil {
				return v, fmt.Errorf("decode %s: %w", snap.Path, err)
			}
			return v, nil
		},
	}
}
