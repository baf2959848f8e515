// Package cache provides the process-wide caches of the stores service:
// user roles, the category tree and attributes.
//
// Every typed cache sits on a Cache[V]. The in-memory implementation is an
// expirable LRU; the Redis implementation shares entries between instances;
// Tiered combines both and broadcasts invalidations over Redis pub/sub so that
// every instance drops its local copy.
package cache

import (
	"context"
	"time"
)

// Cache is a keyed store of values of type V.
// Get reports a miss with false; cache failures are never surfaced to readers.
type Cache[V any] interface {
	Get(ctx context.Context, key string) (V, bool)
	Set(ctx context.Context, key string, value V)
	Delete(ctx context.Context, key string) error
	Purge(ctx context.Context) error
}

// Recorder receives hit and miss events
type Recorder interface {
	RecordCacheHit(cache string)
	RecordCacheMiss(cache string)
}

// Config holds the sizing of the caches
type Config struct {
	Size         int
	RolesTTL     time.Duration
	ReferenceTTL time.Duration
}

// DefaultConfig returns the default cache configuration
func DefaultConfig() Config {
	return Config{
		Size:         10000,
		RolesTTL:     5 * time.Minute,
		ReferenceTTL: 30 * time.Minute,
	}
}

type nopRecorder struct{}

func (nopRecorder) RecordCacheHit(string)  {}
func (nopRecorder) RecordCacheMiss(string) {}

func recorderOrNop(r Recorder) Recorder {
	if r == nil {
		return nopRecorder{}
	}
	return r
}
