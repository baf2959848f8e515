package cache

import (
	"context"
	"strconv"

	"github.com/platinummonkey/stores/pkg/acl"
	"github.com/sirupsen/logrus"
)

// RolesCache holds resolved role sets by user id. It implements acl.RoleCache.
type RolesCache struct {
	cache Cache[[]acl.Role]
	log   logrus.FieldLogger
}

// NewRolesCache wraps a cache of role sets
func NewRolesCache(c Cache[[]acl.Role], log logrus.FieldLogger) *RolesCache {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &RolesCache{cache: c, log: log}
}

func roleKey(userID int64) string {
	return strconv.FormatInt(userID, 10)
}

// Get implements acl.RoleCache
func (r *RolesCache) Get(ctx context.Context, userID int64) ([]acl.Role, bool) {
	return r.cache.Get(ctx, roleKey(userID))
}

// Set implements acl.RoleCache
func (r *RolesCache) Set(ctx context.Context, userID int64, roles []acl.Role) {
	if roles == nil {
		roles = []acl.Role{}
	}
	r.cache.Set(ctx, roleKey(userID), roles)
}

// Remove implements acl.RoleCache
func (r *RolesCache) Remove(ctx context.Context, userID int64) error {
	if err := r.cache.Delete(ctx, roleKey(userID)); err != nil {
		r.log.WithError(err).WithField("user_id", userID).Error("failed to evict cached roles")
		return err
	}
	return nil
}

// Purge drops every cached role set
func (r *RolesCache) Purge(ctx context.Context) error {
	return r.cache.Purge(ctx)
}
