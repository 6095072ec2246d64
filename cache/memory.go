package cache

import (
	"bytes"
	"context"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// MemoryCache is a process-local Cache backed by ttlcache.
type MemoryCache struct {
	cache *ttlcache.Cache[string, []byte]
}

var _ Cache = (*MemoryCache)(nil)

// NewMemoryCache starts the expiry loop; call Stop to end it.
func NewMemoryCache(defaultTTL time.Duration) *MemoryCache {
	c := ttlcache.New(
		ttlcache.WithTTL[string, []byte](defaultTTL),
		ttlcache.WithDisableTouchOnHit[string, []byte](),
	)

	go c.Start()

	return &MemoryCache{cache: c}
}

func (m *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	item := m.cache.Get(key)
	if item == nil {
		return nil, false, nil
	}
	return bytes.Clone(item.Value()), true, nil
}

func (m *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.cache.Set(key, bytes.Clone(value), ttl)
	return nil
}

func (m *MemoryCache) Delete(_ context.Context, key string) error {
	m.cache.Delete(key)
	return nil
}

// Len returns the number of live items.
func (m *MemoryCache) Len() int {
	return m.cache.Len()
}

// Stop ends the expiry loop.
func (m *MemoryCache) Stop() {
	m.cache.Stop()
}
