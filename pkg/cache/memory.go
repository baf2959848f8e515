package cache

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
)

// MemoryCache is an in-process LRU with a per-entry TTL
type MemoryCache[V any] struct {
	name     string
	lru      *lru.LRU[string, V]
	recorder Recorder
}

// NewMemoryCache creates an LRU holding at most size entries for ttl each.
// A zero ttl keeps entries until evicted by size.
func NewMemoryCache[V any](name string, size int, ttl time.Duration, recorder Recorder) *MemoryCache[V] {
	if size <= 0 {
		size = DefaultConfig().Size
	}
	return &MemoryCache[V]{
		name:     name,
		lru:      lru.NewLRU[string, V](size, nil, ttl),
		recorder: recorderOrNop(recorder),
	}
}

// Get implements Cache
func (c *MemoryCache[V]) Get(_ context.Context, key string) (V, bool) {
	v, ok := c.lru.Get(key)
	if ok {
		c.recorder.RecordCacheHit(c.name)
	} else {
		c.recorder.RecordCacheMiss(c.name)
	}
	return v, ok
}

// Set implements Cache
func (c *MemoryCache[V]) Set(_ context.Context, key string, value V) {
	c.lru.Add(key, value)
}

// Delete implements Cache
func (c *MemoryCache[V]) Delete(_ context.Context, key string) error {
	c.lru.Remove(key)
	return nil
}

// Purge implements Cache
func (c *MemoryCache[V]) Purge(_ context.Context) error {
	c.lru.Purge()
	return nil
}

// Len returns the number of live entries
func (c *MemoryCache[V]) Len() int {
	return c.lru.Len()
}
