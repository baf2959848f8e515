package cache

import (
	"context"

	"github.com/platinummonkey/stores/pkg/models"
)

const categoryTreeKey = "tree"

// CategoryCache holds the single assembled category tree
type CategoryCache struct {
	cache Cache[*models.Category]
}

// NewCategoryCache wraps a cache of category trees
func NewCategoryCache(c Cache[*models.Category]) *CategoryCache {
	return &CategoryCache{cache: c}
}

// Get returns the cached tree
func (c *CategoryCache) Get(ctx context.Context) (*models.Category, bool) {
	tree, ok := c.cache.Get(ctx, categoryTreeKey)
	if !ok || tree == nil {
		return nil, false
	}
	return tree, true
}

// Set replaces the cached tree
func (c *CategoryCache) Set(ctx context.Context, tree *models.Category) {
	c.cache.Set(ctx, categoryTreeKey, tree)
}

// Clear drops the cached tree
func (c *CategoryCache) Clear(ctx context.Context) error {
	return c.cache.Delete(ctx, categoryTreeKey)
}

// Purge implements Purgeable
func (c *CategoryCache) Purge(ctx context.Context) error {
	return c.cache.Purge(ctx)
}
