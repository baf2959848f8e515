package cache

import (
	"context"
	"strconv"

	"github.com/platinummonkey/stores/pkg/models"
)

// AttributeCache holds attributes by id
type AttributeCache struct {
	cache Cache[models.Attribute]
}

// NewAttributeCache wraps a cache of attributes
func NewAttributeCache(c Cache[models.Attribute]) *AttributeCache {
	return &AttributeCache{cache: c}
}

// Get returns a cached attribute
func (c *AttributeCache) Get(ctx context.Context, id int64) (models.Attribute, bool) {
	return c.cache.Get(ctx, strconv.FormatInt(id, 10))
}

// Set stores an attribute
func (c *AttributeCache) Set(ctx context.Context, attr models.Attribute) {
	c.cache.Set(ctx, strconv.FormatInt(attr.ID, 10), attr)
}

// Remove evicts an attribute
func (c *AttributeCache) Remove(ctx context.Context, id int64) error {
	return c.cache.Delete(ctx, strconv.FormatInt(id, 10))
}

// Purge implements Purgeable
func (c *AttributeCache) Purge(ctx context.Context) error {
	return c.cache.Purge(ctx)
}
