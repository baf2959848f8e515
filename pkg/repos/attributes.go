package repos

import (
	"context"

	"github.com/platinummonkey/stores/pkg/acl"
	"github.com/platinummonkey/stores/pkg/models"
	"github.com/platinummonkey/stores/pkg/observability"
)

// AttributeCache memoizes attributes by id
type AttributeCache interface {
	Get(ctx context.Context, id int64) (models.Attribute, bool)
	Set(ctx context.Context, attr models.Attribute)
	Remove(ctx context.Context, id int64) error
}

const attributeColumns = "id, name, value_type, meta_field"

// Attributes is the attributes table repository
type Attributes struct {
	base
	cache AttributeCache
}

// NewAttributes creates an attributes repository. cache may be nil.
func NewAttributes(db DBTX, a acl.ACL, cache AttributeCache) *Attributes {
	return &Attributes{base: base{db: db, acl: a}, cache: cache}
}

func scanAttribute(row scanner) (*models.Attribute, error) {
	var a models.Attribute
	if err := row.Scan(&a.ID, &a.Name, &a.ValueType, &a.MetaField); err != nil {
		return nil, err
	}
	return &a, nil
}

// Find returns an attribute, from the cache when possible
func (r *Attributes) Find(ctx context.Context, id int64) (*models.Attribute, error) {
	if err := r.visible(ctx, acl.ResourceAttributes, nil); err != nil {
		return nil, classify("find attribute", err)
	}
	if r.cache != nil {
		if attr, ok := r.cache.Get(ctx, id); ok {
			return &attr, nil
		}
	}

	attr, err := scanAttribute(r.db.QueryRowContext(ctx, "SELECT "+attributeColumns+" FROM attributes WHERE id = $1", id))
	if err != nil {
		return nil, classify("find attribute", err)
	}
	if r.cache != nil {
		r.cache.Set(ctx, *attr)
	}
	return attr, nil
}

// List returns every attribute
func (r *Attributes) List(ctx context.Context) ([]models.Attribute, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+attributeColumns+" FROM attributes ORDER BY id")
	if err != nil {
		return nil, classify("list attributes", err)
	}
	defer rows.Close()

	out := []models.Attribute{}
	for rows.Next() {
		a, err := scanAttribute(rows)
		if err != nil {
			return nil, classify("list attributes", err)
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("list attributes", err)
	}
	out, err = readableAll(ctx, r.base, acl.ResourceAttributes, out)
	return out, classify("list attributes", err)
}

// Create inserts an attribute
func (r *Attributes) Create(ctx context.Context, payload *models.NewAttribute) (*models.Attribute, error) {
	if err := payload.Validate(); err != nil {
		return nil, err
	}
	if err := r.allowed(ctx, acl.ResourceAttributes, acl.ActionCreate, nil); err != nil {
		return nil, classify("create attribute", err)
	}
	attr, err := scanAttribute(r.db.QueryRowContext(ctx,
		"INSERT INTO attributes (name, value_type, meta_field) VALUES ($1, $2, $3) RETURNING "+attributeColumns,
		payload.Name, payload.ValueType, payload.MetaField))
	if err != nil {
		return nil, classify("create attribute", err)
	}
	return attr, nil
}

// Update changes an attribute and evicts it from the cache
func (r *Attributes) Update(ctx context.Context, id int64, payload *models.UpdateAttribute) (*models.Attribute, error) {
	if err := payload.Validate(); err != nil {
		return nil, err
	}
	current, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.allowed(ctx, acl.ResourceAttributes, acl.ActionUpdate, nil); err != nil {
		return nil, classify("update attribute", err)
	}

	var u update
	if payload.Name != nil {
		u.set("name", payload.Name)
	}
	if payload.MetaField != nil {
		u.set("meta_field", payload.MetaField)
	}
	if u.empty() {
		return current, nil
	}

	query, args := u.build("attributes", id, attributeColumns)
	attr, err := scanAttribute(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, classify("update attribute", err)
	}
	if r.cache != nil {
		if err := r.cache.Remove(ctx, id); err != nil {
			observability.FromContext(ctx).WithError(err).WithField("attribute_id", id).Warn("failed to evict cached attribute")
		}
	}
	return attr, nil
}
