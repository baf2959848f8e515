package acl

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"
)

// RoleStore loads the persisted roles of a user
type RoleStore interface {
	ListRoles(ctx context.Context, userID int64) ([]Role, error)
}

// RoleCache memoizes role sets by user id
type RoleCache interface {
	Get(ctx context.Context, userID int64) ([]Role, bool)
	Set(ctx context.Context, userID int64, roles []Role)
	Remove(ctx context.Context, userID int64) error
}

// RoleResolver resolves a user's roles through a cache
type RoleResolver struct {
	store RoleStore
	cache RoleCache
	group singleflight.Group

	mu          sync.Mutex
	generations map[int64]uint64
	// users whose last eviction failed; their cached entry may be stale
	unevicted map[int64]uint64
}

// NewRoleResolver creates a resolver. cache may be nil to disable caching.
func NewRoleResolver(store RoleStore, cache RoleCache) *RoleResolver {
	return &RoleResolver{
		store:       store,
		cache:       cache,
		generations: make(map[int64]uint64),
		unevicted:   make(map[int64]uint64),
	}
}

func (r *RoleResolver) generation(userID int64) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.generations[userID]
}

// usable reports whether the cache may serve userID. A pending failed
// eviction is retried first; while it keeps failing the cache is bypassed.
func (r *RoleResolver) usable(ctx context.Context, userID int64) bool {
	if r.cache == nil {
		return false
	}
	r.mu.Lock()
	gen, pending := r.unevicted[userID]
	r.mu.Unlock()
	if !pending {
		return true
	}
	if err := r.cache.Remove(ctx, userID); err != nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.unevicted[userID] == gen {
		delete(r.unevicted, userID)
	}
	return true
}

// Roles returns the role set of a user. Concurrent misses for the same user share one load.
func (r *RoleResolver) Roles(ctx context.Context, userID int64) ([]Role, error) {
	cached := r.usable(ctx, userID)
	if cached {
		if roles, ok := r.cache.Get(ctx, userID); ok {
			return roles, nil
		}
	}

	v, err, _ := r.group.Do(strconv.FormatInt(userID, 10), func() (interface{}, error) {
		gen := r.generation(userID)
		roles, err := r.store.ListRoles(ctx, userID)
		if err != nil {
			return nil, err
		}
		// a load racing an invalidation must not repopulate the cache
		if cached && gen == r.generation(userID) {
			r.cache.Set(ctx, userID, roles)
		}
		return roles, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load roles for user %d: %w", userID, err)
	}
	return v.([]Role), nil
}

// Invalidate drops the cached role set of a user. Callers invoke it after every
// committed change to that user's roles. When the eviction fails the error is
// returned and this resolver stops trusting the cache for the user until a
// retried eviction succeeds.
func (r *RoleResolver) Invalidate(ctx context.Context, userID int64) error {
	r.mu.Lock()
	r.generations[userID]++
	gen := r.generations[userID]
	if r.cache != nil {
		r.unevicted[userID] = gen
	}
	r.mu.Unlock()
	r.group.Forget(strconv.FormatInt(userID, 10))

	if r.cache == nil {
		return nil
	}
	if err := r.cache.Remove(ctx, userID); err != nil {
		return fmt.Errorf("failed to evict cached roles of user %d: %w", userID, err)
	}
	r.mu.Lock()
	if r.unevicted[userID] == gen {
		delete(r.unevicted, userID)
	}
	r.mu.Unlock()
	return nil
}
