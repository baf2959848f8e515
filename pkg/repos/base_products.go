package repos

import (
	"context"
	"fmt"
	"time"

	"github.com/platinummonkey/stores/pkg/acl"
	"github.com/platinummonkey/stores/pkg/models"
)

const baseProductColumns = `id, store_id, is_active, name, short_description, long_description, seo_title,
	category_id, views, rating, slug, status, currency, created_at, updated_at`

// BaseProducts is the base_products table repository
type BaseProducts struct {
	base
}

// NewBaseProducts creates a base products repository
func NewBaseProducts(db DBTX, a acl.ACL) *BaseProducts {
	return &BaseProducts{base{db: db, acl: a}}
}

func scanBaseProduct(row scanner) (*models.BaseProduct, error) {
	var b models.BaseProduct
	err := row.Scan(
		&b.ID, &b.StoreID, &b.IsActive, &b.Name, &b.ShortDescription, &b.LongDescription, &b.SeoTitle,
		&b.CategoryID, &b.Views, &b.Rating, &b.Slug, &b.Status, &b.Currency, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BaseProducts) queryMany(ctx context.Context, op, query string, args ...interface{}) ([]models.BaseProduct, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify(op, err)
	}
	defer rows.Close()

	var out []models.BaseProduct
	for rows.Next() {
		b, err := scanBaseProduct(rows)
		if err != nil {
			return nil, classify(op, err)
		}
		out = append(out, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(op, err)
	}

	out, err = readable(ctx, r.base, acl.ResourceBaseProducts, out)
	return out, classify(op, err)
}

// Find returns an active base product by id
func (r *BaseProducts) Find(ctx context.Context, id int64) (*models.BaseProduct, error) {
	query := "SELECT " + baseProductColumns + " FROM base_products WHERE is_active = true AND id = $1"
	bp, err := scanBaseProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, classify("find base product", err)
	}
	if err := r.visible(ctx, acl.ResourceBaseProducts, bp); err != nil {
		return nil, classify("find base product", err)
	}
	return bp, nil
}

// FindByProduct returns the base product of a variant
func (r *BaseProducts) FindByProduct(ctx context.Context, productID int64) (*models.BaseProduct, error) {
	query := "SELECT " + prefixed("b", baseProductColumns) + ` FROM base_products b
		JOIN products p ON p.base_product_id = b.id
		WHERE b.is_active = true AND p.id = $1`
	bp, err := scanBaseProduct(r.db.QueryRowContext(ctx, query, productID))
	if err != nil {
		return nil, classify("find base product by product", err)
	}
	if err := r.visible(ctx, acl.ResourceBaseProducts, bp); err != nil {
		return nil, classify("find base product by product", err)
	}
	return bp, nil
}

// FindMany returns active base products in the order of ids
func (r *BaseProducts) FindMany(ctx context.Context, ids []int64) ([]models.BaseProduct, error) {
	if len(ids) == 0 {
		return []models.BaseProduct{}, nil
	}
	query := "SELECT " + baseProductColumns + " FROM base_products WHERE is_active = true AND id IN (" + placeholders(1, len(ids)) + ")"
	out, err := r.queryMany(ctx, "find base products", query, idArgs(ids)...)
	if err != nil {
		return nil, err
	}
	return orderByIDs(ids, out, func(b *models.BaseProduct) int64 { return b.ID }), nil
}

// List returns up to count active base products with id >= from
func (r *BaseProducts) List(ctx context.Context, from int64, count int) ([]models.BaseProduct, error) {
	query := "SELECT " + baseProductColumns + " FROM base_products WHERE is_active = true AND id >= $1 ORDER BY id LIMIT $2"
	return r.queryMany(ctx, "list base products", query, from, count)
}

// ListByStore returns up to count active base products of a store with id >= from
func (r *BaseProducts) ListByStore(ctx context.Context, storeID, from int64, count int) ([]models.BaseProduct, error) {
	query := "SELECT " + baseProductColumns + ` FROM base_products
		WHERE is_active = true AND store_id = $1 AND id >= $2 ORDER BY id LIMIT $3`
	return r.queryMany(ctx, "list store base products", query, storeID, from, count)
}

// ListAllByStore returns every active base product of a store
func (r *BaseProducts) ListAllByStore(ctx context.Context, storeID int64) ([]models.BaseProduct, error) {
	query := "SELECT " + baseProductColumns + " FROM base_products WHERE is_active = true AND store_id = $1 ORDER BY id"
	return r.queryMany(ctx, "list store base products", query, storeID)
}

// CountByStore returns how many active base products a store has
func (r *BaseProducts) CountByStore(ctx context.Context, storeID int64) (int64, error) {
	if err := r.allowed(ctx, acl.ResourceBaseProducts, acl.ActionRead, nil); err != nil {
		return 0, classify("count store base products", err)
	}
	var n int64
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM base_products WHERE is_active = true AND store_id = $1", storeID).Scan(&n)
	return n, classify("count store base products", err)
}

// Create inserts a base product after checking the payload
func (r *BaseProducts) Create(ctx context.Context, payload *models.NewBaseProduct) (*models.BaseProduct, error) {
	if err := payload.Validate(); err != nil {
		return nil, err
	}
	if err := r.allowed(ctx, acl.ResourceBaseProducts, acl.ActionCreate, payload); err != nil {
		return nil, classify("create base product", err)
	}

	now := time.Now().UTC()
	query := `INSERT INTO base_products (store_id, is_active, name, short_description, long_description,
		seo_title, category_id, views, rating, slug, status, currency, created_at, updated_at)
		VALUES ($1, true, $2, $3, $4, $5, $6, 0, 0, $7, $8, $9, $10, $10)
		RETURNING ` + baseProductColumns

	bp, err := scanBaseProduct(r.db.QueryRowContext(ctx, query,
		payload.StoreID, payload.Name, payload.ShortDescription, payload.LongDescription, payload.SeoTitle,
		payload.CategoryID, payload.Slug, models.StatusDraft, payload.Currency, now,
	))
	if err != nil {
		return nil, classify("create base product", err)
	}
	return bp, nil
}

// Update applies the non-nil fields of payload
func (r *BaseProducts) Update(ctx context.Context, id int64, payload *models.UpdateBaseProduct) (*models.BaseProduct, error) {
	if err := payload.Validate(); err != nil {
		return nil, err
	}
	current, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.allowed(ctx, acl.ResourceBaseProducts, acl.ActionUpdate, current); err != nil {
		return nil, classify("update base product", err)
	}

	var u update
	if payload.Name != nil {
		u.set("name", payload.Name)
	}
	if payload.ShortDescription != nil {
		u.set("short_description", payload.ShortDescription)
	}
	if payload.LongDescription != nil {
		u.set("long_description", payload.LongDescription)
	}
	if payload.SeoTitle != nil {
		u.set("seo_title", payload.SeoTitle)
	}
	if payload.CategoryID != nil {
		u.set("category_id", *payload.CategoryID)
	}
	setString(&u, "slug", payload.Slug)
	if u.empty() {
		return current, nil
	}
	u.set("updated_at", time.Now().UTC())

	query, args := u.build("base_products", id, baseProductColumns)
	bp, err := scanBaseProduct(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, classify("update base product", err)
	}
	return bp, nil
}

// SetCurrency changes the currency of a base product
func (r *BaseProducts) SetCurrency(ctx context.Context, id int64, currency models.Currency) (*models.BaseProduct, error) {
	if !currency.Valid() {
		return nil, fmt.Errorf("%w: unknown currency %q", models.ErrInvalidPayload, currency)
	}
	current, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.allowed(ctx, acl.ResourceBaseProducts, acl.ActionUpdate, current); err != nil {
		return nil, classify("update base product currency", err)
	}
	query := "UPDATE base_products SET currency = $1, updated_at = $2 WHERE id = $3 RETURNING " + baseProductColumns
	bp, err := scanBaseProduct(r.db.QueryRowContext(ctx, query, currency, time.Now().UTC(), id))
	if err != nil {
		return nil, classify("update base product currency", err)
	}
	return bp, nil
}

// Deactivate hides a base product. Cascading to variants is the caller's job.
func (r *BaseProducts) Deactivate(ctx context.Context, id int64) (*models.BaseProduct, error) {
	current, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.allowed(ctx, acl.ResourceBaseProducts, acl.ActionDelete, current); err != nil {
		return nil, classify("deactivate base product", err)
	}
	query := "UPDATE base_products SET is_active = false, updated_at = $1 WHERE id = $2 RETURNING " + baseProductColumns
	bp, err := scanBaseProduct(r.db.QueryRowContext(ctx, query, time.Now().UTC(), id))
	if err != nil {
		return nil, classify("deactivate base product", err)
	}
	return bp, nil
}

// IncrementViews bumps the view counter of a base product the caller can read
func (r *BaseProducts) IncrementViews(ctx context.Context, id int64) (*models.BaseProduct, error) {
	if _, err := r.Find(ctx, id); err != nil {
		return nil, err
	}
	query := "UPDATE base_products SET views = views + 1 WHERE id = $1 RETURNING " + baseProductColumns
	bp, err := scanBaseProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, classify("increment base product views", err)
	}
	return bp, nil
}
