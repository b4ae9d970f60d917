package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryBackend keeps entries in process.
type MemoryBackend struct {
	entries *gocache.Cache
}

// NewMemoryBackend expires entries after ttl. A non-positive ttl keeps them
// until deleted.
func NewMemoryBackend(ttl time.Duration) *MemoryBackend {
	expiration := ttl
	cleanup := 2 * ttl
	if ttl <= 0 {
		expiration = gocache.NoExpiration
		cleanup = 10 * time.Minute
	}
	return &MemoryBackend{entries: gocache.New(expiration, cleanup)}
}

func (m *MemoryBackend) Get(_ context.Context, key string) ([]byte, bool, error) {
	value, ok := m.entries.Get(key)
	if !ok {
		return nil, false, nil
	}
	data, ok := value.([]byte)
	return data, ok, nil
}

func (m *MemoryBackend) Set(_ context.Context, key string, value []byte) error {
	m.entries.SetDefault(key, value)
	return nil
}

func (m *MemoryBackend) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		m.entries.Delete(key)
	}
	return nil
}
