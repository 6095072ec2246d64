// Package cache wraps the configuration stores with a TTL cache kept in
// memory or in Redis.
package cache

import (
	"context"
	"time"
)

// Cache stores encoded values under string keys with a time to live.
type Cache interface {
	// Get returns false when the key is missing or expired.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Recorder counts hits and misses per cache name.
type Recorder interface {
	CacheHit(cache string)
	CacheMiss(cache string)
}

type nopRecorder struct{}

func (nopRecorder) CacheHit(string)  {}
func (nopRecorder) CacheMiss(string) {}
