// Package metadata is the client's persistent key-value storage. The session
// keeps its token and user record here.
package metadata

import (
	"context"
)

// Repository stores opaque values by key. Get returns (nil, nil) for a key
// that was never set.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key ...string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
