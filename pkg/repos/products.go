package repos

import (
	"context"
	"fmt"
	"time"

	"github.com/platinummonkey/stores/pkg/acl"
	"github.com/platinummonkey/stores/pkg/models"
)

const productColumns = `id, base_product_id, is_active, discount, photo_main, additional_photos,
	vendor_code, cashback, price, currency, created_at, updated_at`

// Products is the products (variants) table repository
type Products struct {
	base
}

// NewProducts creates a products repository
func NewProducts(db DBTX, a acl.ACL) *Products {
	return &Products{base{db: db, acl: a}}
}

func scanProduct(row scanner) (*models.Product, error) {
	var p models.Product
	err := row.Scan(
		&p.ID, &p.BaseProductID, &p.IsActive, &p.Discount, &p.PhotoMain, &p.AdditionalPhotos,
		&p.VendorCode, &p.Cashback, &p.Price, &p.Currency, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Products) queryMany(ctx context.Context, op, query string, args ...interface{}) ([]models.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify(op, err)
	}
	defer rows.Close()

	var out []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, classify(op, err)
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(op, err)
	}

	out, err = readable(ctx, r.base, acl.ResourceProducts, out)
	return out, classify(op, err)
}

// Find returns an active product by id
func (r *Products) Find(ctx context.Context, id int64) (*models.Product, error) {
	query := "SELECT " + productColumns + " FROM products WHERE is_active = true AND id = $1"
	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, classify("find product", err)
	}
	if err := r.visible(ctx, acl.ResourceProducts, p); err != nil {
		return nil, classify("find product", err)
	}
	return p, nil
}

// FindMany returns active products in the order of ids
func (r *Products) FindMany(ctx context.Context, ids []int64) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	query := "SELECT " + productColumns + " FROM products WHERE is_active = true AND id IN (" + placeholders(1, len(ids)) + ")"
	out, err := r.queryMany(ctx, "find products", query, idArgs(ids)...)
	if err != nil {
		return nil, err
	}
	return orderByIDs(ids, out, func(p *models.Product) int64 { return p.ID }), nil
}

// List returns up to count active products with id >= from
func (r *Products) List(ctx context.Context, from int64, count int) ([]models.Product, error) {
	query := "SELECT " + productColumns + " FROM products WHERE is_active = true AND id >= $1 ORDER BY id LIMIT $2"
	return r.queryMany(ctx, "list products", query, from, count)
}

// FindWithBaseID returns the active variants of a base product
func (r *Products) FindWithBaseID(ctx context.Context, baseProductID int64) ([]models.Product, error) {
	query := "SELECT " + productColumns + " FROM products WHERE is_active = true AND base_product_id = $1 ORDER BY id"
	return r.queryMany(ctx, "list base product variants", query, baseProductID)
}

// Create inserts a variant after checking the payload
func (r *Products) Create(ctx context.Context, payload *models.NewProduct) (*models.Product, error) {
	if err := payload.Validate(); err != nil {
		return nil, err
	}
	if err := r.allowed(ctx, acl.ResourceProducts, acl.ActionCreate, payload); err != nil {
		return nil, classify("create product", err)
	}

	photos := payload.AdditionalPhotos
	if photos == nil {
		photos = models.StringList{}
	}
	now := time.Now().UTC()
	query := `INSERT INTO products (base_product_id, is_active, discount, photo_main, additional_photos,
		vendor_code, cashback, price, currency, created_at, updated_at)
		VALUES ($1, true, $2, $3, $4, $5, $6, $7, $8, $9, $9)
		RETURNING ` + productColumns

	p, err := scanProduct(r.db.QueryRowContext(ctx, query,
		payload.BaseProductID, payload.Discount, payload.PhotoMain, photos,
		payload.VendorCode, payload.Cashback, payload.Price, payload.Currency, now,
	))
	if err != nil {
		return nil, classify("create product", err)
	}
	return p, nil
}

// VendorCodeExists reports whether an active variant other than exceptID in
// the store already uses code
func (r *Products) VendorCodeExists(ctx context.Context, storeID int64, code string, exceptID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM products p
		JOIN base_products b ON b.id = p.base_product_id
		WHERE b.store_id = $1 AND p.vendor_code = $2 AND p.is_active = true AND p.id <> $3)`,
		storeID, code, exceptID).Scan(&exists)
	return exists, classify("check vendor code", err)
}

// Update applies the non-nil fields of payload
func (r *Products) Update(ctx context.Context, id int64, payload *models.UpdateProduct) (*models.Product, error) {
	if err := payload.Validate(); err != nil {
		return nil, err
	}
	current, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.allowed(ctx, acl.ResourceProducts, acl.ActionUpdate, current); err != nil {
		return nil, classify("update product", err)
	}

	var u update
	if payload.Discount != nil {
		u.set("discount", *payload.Discount)
	}
	setString(&u, "photo_main", payload.PhotoMain)
	if payload.AdditionalPhotos != nil {
		u.set("additional_photos", payload.AdditionalPhotos)
	}
	setString(&u, "vendor_code", payload.VendorCode)
	if payload.Cashback != nil {
		u.set("cashback", *payload.Cashback)
	}
	if payload.Price != nil {
		u.set("price", *payload.Price)
	}
	if payload.Currency != nil {
		u.set("currency", *payload.Currency)
	}
	if u.empty() {
		return current, nil
	}
	u.set("updated_at", time.Now().UTC())

	query, args := u.build("products", id, productColumns)
	p, err := scanProduct(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, classify("update product", err)
	}
	return p, nil
}

// Deactivate hides a variant. Deleting its attributes is the caller's job.
func (r *Products) Deactivate(ctx context.Context, id int64) (*models.Product, error) {
	current, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.allowed(ctx, acl.ResourceProducts, acl.ActionDelete, current); err != nil {
		return nil, classify("deactivate product", err)
	}
	query := "UPDATE products SET is_active = false, updated_at = $1 WHERE id = $2 RETURNING " + productColumns
	p, err := scanProduct(r.db.QueryRowContext(ctx, query, time.Now().UTC(), id))
	if err != nil {
		return nil, classify("deactivate product", err)
	}
	return p, nil
}

// UpdateCurrency rewrites the currency of every active variant of a base product.
// Every variant must be updatable by the caller.
func (r *Products) UpdateCurrency(ctx context.Context, currency models.Currency, baseProductID int64) ([]models.Product, error) {
	if !currency.Valid() {
		return nil, fmt.Errorf("%w: unknown currency %q", models.ErrInvalidPayload, currency)
	}
	variants, err := r.FindWithBaseID(ctx, baseProductID)
	if err != nil {
		return nil, err
	}
	for i := range variants {
		if err := r.allowed(ctx, acl.ResourceProducts, acl.ActionUpdate, &variants[i]); err != nil {
			return nil, classify("update variant currency", err)
		}
	}

	query := `UPDATE products SET currency = $1, updated_at = $2
		WHERE is_active = true AND base_product_id = $3 RETURNING ` + productColumns
	rows, err := r.db.QueryContext(ctx, query, currency, time.Now().UTC(), baseProductID)
	if err != nil {
		return nil, classify("update variant currency", err)
	}
	defer rows.Close()

	out := make([]models.Product, 0, len(variants))
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, classify("update variant currency", err)
		}
		out = append(out, *p)
	}
	return out, classify("update variant currency", rows.Err())
}

// DeactivateByBaseProduct hides every variant of a base product
func (r *Products) DeactivateByBaseProduct(ctx context.Context, baseProductID int64) ([]models.Product, error) {
	variants, err := r.FindWithBaseID(ctx, baseProductID)
	if err != nil {
		return nil, err
	}
	out := make([]models.Product, 0, len(variants))
	for _, v := range variants {
		p, err := r.Deactivate(ctx, v.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, nil
}
