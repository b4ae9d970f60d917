// Package cache holds the console's read-through projection of the document
// store.
package cache

import "context"

// Backend stores opaque values by key. A missing key is (nil, false, nil).
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
}
