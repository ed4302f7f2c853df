package settings

import "context"

// Repository is the operator's local key-value storage. Get returns nil, nil
// for a key that was never written.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}
