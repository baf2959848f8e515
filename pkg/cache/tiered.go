package cache

import (
	"context"
	"fmt"
)

// Tiered reads through a local L1 to a shared L2 and keeps both in step on writes
type Tiered[V any] struct {
	name        string
	l1          Cache[V]
	l2          Cache[V]
	invalidator *Invalidator
}

// NewTiered combines a local and a shared cache. invalidator may be nil for a
// single instance deployment.
func NewTiered[V any](name string, l1 Cache[V], l2 Cache[V], invalidator *Invalidator) *Tiered[V] {
	t := &Tiered[V]{name: name, l1: l1, l2: l2, invalidator: invalidator}
	if invalidator != nil {
		invalidator.register(name, l1)
	}
	return t
}

// Get implements Cache. An L2 hit is promoted into L1.
func (t *Tiered[V]) Get(ctx context.Context, key string) (V, bool) {
	if v, ok := t.l1.Get(ctx, key); ok {
		return v, true
	}
	v, ok := t.l2.Get(ctx, key)
	if ok {
		t.l1.Set(ctx, key, v)
	}
	return v, ok
}

// Set implements Cache
func (t *Tiered[V]) Set(ctx context.Context, key string, value V) {
	t.l1.Set(ctx, key, value)
	t.l2.Set(ctx, key, value)
}

// Delete implements Cache. Other instances are told to drop their L1 copy.
func (t *Tiered[V]) Delete(ctx context.Context, key string) error {
	_ = t.l1.Delete(ctx, key)
	if err := t.l2.Delete(ctx, key); err != nil {
		return err
	}
	if t.invalidator != nil {
		if err := t.invalidator.Publish(ctx, t.name, key); err != nil {
			return fmt.Errorf("failed to broadcast eviction of %s: %w", key, err)
		}
	}
	return nil
}

// Purge implements Cache
func (t *Tiered[V]) Purge(ctx context.Context) error {
	_ = t.l1.Purge(ctx)
	if err := t.l2.Purge(ctx); err != nil {
		return err
	}
	if t.invalidator != nil {
		if err := t.invalidator.PublishPurge(ctx, t.name); err != nil {
			return fmt.Errorf("failed to broadcast purge of %s: %w", t.name, err)
		}
	}
	return nil
}
