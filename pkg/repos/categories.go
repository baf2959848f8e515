package repos

import (
	"context"
	"fmt"

	"github.com/platinummonkey/stores/pkg/acl"
	"github.com/platinummonkey/stores/pkg/models"
	"github.com/platinummonkey/stores/pkg/observability"
)

// CategoryCache memoizes the assembled category tree
type CategoryCache interface {
	Get(ctx context.Context) (*models.Category, bool)
	Set(ctx context.Context, tree *models.Category)
	Clear(ctx context.Context) error
}

const categoryColumns = "id, name, parent_id, level, meta_field"

// Categories is the categories table repository
type Categories struct {
	base
	cache CategoryCache
}

// NewCategories creates a categories repository. cache may be nil.
func NewCategories(db DBTX, a acl.ACL, cache CategoryCache) *Categories {
	return &Categories{base: base{db: db, acl: a}, cache: cache}
}

func scanCategory(row scanner) (*models.Category, error) {
	var c models.Category
	if err := row.Scan(&c.ID, &c.Name, &c.ParentID, &c.Level, &c.MetaField); err != nil {
		return nil, err
	}
	return &c, nil
}

// Tree returns the whole category tree under a synthetic root with id 0
func (r *Categories) Tree(ctx context.Context) (*models.Category, error) {
	if err := r.visible(ctx, acl.ResourceCategories, nil); err != nil {
		return nil, classify("load categories", err)
	}
	if r.cache != nil {
		if tree, ok := r.cache.Get(ctx); ok {
			return tree, nil
		}
	}

	rows, err := r.db.QueryContext(ctx, "SELECT "+categoryColumns+" FROM categories ORDER BY id")
	if err != nil {
		return nil, classify("load categories", err)
	}
	defer rows.Close()

	var flat []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, classify("load categories", err)
		}
		flat = append(flat, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("load categories", err)
	}

	tree := models.BuildCategoryTree(flat)
	if r.cache != nil {
		r.cache.Set(ctx, tree)
	}
	return tree, nil
}

// Find returns a category with its subtree
func (r *Categories) Find(ctx context.Context, id int64) (*models.Category, error) {
	tree, err := r.Tree(ctx)
	if err != nil {
		return nil, err
	}
	if id == 0 {
		return tree, nil
	}
	c := tree.Find(id)
	if c == nil {
		return nil, fmt.Errorf("find category %d: %w", id, ErrNotFound)
	}
	return c, nil
}

// Create inserts a category and clears the cached tree
func (r *Categories) Create(ctx context.Context, payload *models.NewCategory) (*models.Category, error) {
	if err := payload.Validate(); err != nil {
		return nil, err
	}
	if err := r.allowed(ctx, acl.ResourceCategories, acl.ActionCreate, nil); err != nil {
		return nil, classify("create category", err)
	}
	c, err := scanCategory(r.db.QueryRowContext(ctx,
		"INSERT INTO categories (name, parent_id, level, meta_field) VALUES ($1, $2, $3, $4) RETURNING "+categoryColumns,
		payload.Name, payload.ParentID, payload.Level, payload.MetaField))
	if err != nil {
		return nil, classify("create category", err)
	}
	r.clear(ctx)
	c.Children = []*models.Category{}
	return c, nil
}

// Update changes a category and clears the cached tree
func (r *Categories) Update(ctx context.Context, id int64, payload *models.UpdateCategory) (*models.Category, error) {
	if err := payload.Validate(); err != nil {
		return nil, err
	}
	if err := r.allowed(ctx, acl.ResourceCategories, acl.ActionUpdate, nil); err != nil {
		return nil, classify("update category", err)
	}

	var u update
	if payload.Name != nil {
		u.set("name", payload.Name)
	}
	if payload.ParentID != nil {
		u.set("parent_id", *payload.ParentID)
	}
	if payload.Level != nil {
		u.set("level", *payload.Level)
	}
	if payload.MetaField != nil {
		u.set("meta_field", payload.MetaField)
	}
	if u.empty() {
		return r.Find(ctx, id)
	}

	query, args := u.build("categories", id, categoryColumns)
	c, err := scanCategory(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, classify("update category", err)
	}
	r.clear(ctx)
	c.Children = []*models.Category{}
	return c, nil
}

func (r *Categories) clear(ctx context.Context) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Clear(ctx); err != nil {
		observability.FromContext(ctx).WithError(err).Warn("failed to clear cached category tree")
	}
}

const categoryAttrColumns = "id, cat_id, attr_id"

// CategoryAttrs links attributes to categories
type CategoryAttrs struct {
	base
}

// NewCategoryAttrs creates a category attributes repository
func NewCategoryAttrs(db DBTX, a acl.ACL) *CategoryAttrs {
	return &CategoryAttrs{base{db: db, acl: a}}
}

// ListByCategory returns the attribute links of a category
func (r *CategoryAttrs) ListByCategory(ctx context.Context, catID int64) ([]models.CategoryAttr, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+categoryAttrColumns+" FROM cat_attr_values WHERE cat_id = $1 ORDER BY attr_id", catID)
	if err != nil {
		return nil, classify("list category attributes", err)
	}
	defer rows.Close()

	out := []models.CategoryAttr{}
	for rows.Next() {
		var ca models.CategoryAttr
		if err := rows.Scan(&ca.ID, &ca.CatID, &ca.AttrID); err != nil {
			return nil, classify("list category attributes", err)
		}
		out = append(out, ca)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("list category attributes", err)
	}
	out, err = readableAll(ctx, r.base, acl.ResourceCategoryAttrs, out)
	return out, classify("list category attributes", err)
}

// Create links an attribute to a category
func (r *CategoryAttrs) Create(ctx context.Context, payload *models.NewCategoryAttr) (*models.CategoryAttr, error) {
	if err := payload.Validate(); err != nil {
		return nil, err
	}
	if err := r.allowed(ctx, acl.ResourceCategoryAttrs, acl.ActionCreate, nil); err != nil {
		return nil, classify("create category attribute", err)
	}
	var ca models.CategoryAttr
	err := r.db.QueryRowContext(ctx,
		"INSERT INTO cat_attr_values (cat_id, attr_id) VALUES ($1, $2) RETURNING "+categoryAttrColumns,
		payload.CatID, payload.AttrID).Scan(&ca.ID, &ca.CatID, &ca.AttrID)
	if err != nil {
		return nil, classify("create category attribute", err)
	}
	return &ca, nil
}

// Delete unlinks an attribute from a category
func (r *CategoryAttrs) Delete(ctx context.Context, payload *models.OldCategoryAttr) (*models.CategoryAttr, error) {
	if err := r.allowed(ctx, acl.ResourceCategoryAttrs, acl.ActionDelete, nil); err != nil {
		return nil, classify("delete category attribute", err)
	}
	var ca models.CategoryAttr
	err := r.db.QueryRowContext(ctx,
		"DELETE FROM cat_attr_values WHERE cat_id = $1 AND attr_id = $2 RETURNING "+categoryAttrColumns,
		payload.CatID, payload.AttrID).Scan(&ca.ID, &ca.CatID, &ca.AttrID)
	if err != nil {
		return nil, classify("delete category attribute", err)
	}
	return &ca, nil
}
