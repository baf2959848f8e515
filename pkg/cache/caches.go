package cache

import (
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/platinummonkey/stores/pkg/acl"
	"github.com/platinummonkey/stores/pkg/models"
	"github.com/sirupsen/logrus"
)

// Cache names used for metrics, Redis prefixes and invalidation routing
const (
	NameRoles      = "roles"
	NameCategories = "categories"
	NameAttributes = "attributes"
)

// Caches bundles the typed caches shared by the whole process
type Caches struct {
	Roles      *RolesCache
	Categories *CategoryCache
	Attributes *AttributeCache
}

// New builds the caches. With a nil client every cache is local only; otherwise
// each is tiered over Redis and invalidations go through invalidator.
func New(cfg Config, client *redis.Client, invalidator *Invalidator, log logrus.FieldLogger, recorder Recorder) *Caches {
	roles := build[[]acl.Role](NameRoles, cfg.Size, cfg.RolesTTL, client, invalidator, log, recorder)
	categories := build[*models.Category](NameCategories, 1, cfg.ReferenceTTL, client, invalidator, log, recorder)
	attributes := build[models.Attribute](NameAttributes, cfg.Size, cfg.ReferenceTTL, client, invalidator, log, recorder)

	return &Caches{
		Roles:      NewRolesCache(roles, log),
		Categories: NewCategoryCache(categories),
		Attributes: NewAttributeCache(attributes),
	}
}

func build[V any](name string, size int, ttl time.Duration, client *redis.Client, invalidator *Invalidator, log logrus.FieldLogger, recorder Recorder) Cache[V] {
	local := NewMemoryCache[V](name, size, ttl, recorder)
	if client == nil {
		return local
	}
	shared := NewRedisCache[V](name, client, ttl, log, recorder)
	return NewTiered[V](name, local, shared, invalidator)
}
