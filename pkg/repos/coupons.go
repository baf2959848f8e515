package repos

import (
	"context"
	"time"

	"github.com/platinummonkey/stores/pkg/acl"
	"github.com/platinummonkey/stores/pkg/models"
)

const couponColumns = "id, code, title, store_id, scope, percent, quantity, expired_at, is_active, created_at"

// Coupons is the coupons table repository
type Coupons struct {
	base
}

// NewCoupons creates a coupons repository
func NewCoupons(db DBTX, a acl.ACL) *Coupons {
	return &Coupons{base{db: db, acl: a}}
}

func scanCoupon(row scanner) (*models.Coupon, error) {
	var c models.Coupon
	err := row.Scan(&c.ID, &c.Code, &c.Title, &c.StoreID, &c.Scope, &c.Percent, &c.Quantity,
		&c.ExpiredAt, &c.IsActive, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Coupons) queryOne(ctx context.Context, op, where string, args ...interface{}) (*models.Coupon, error) {
	c, err := scanCoupon(r.db.QueryRowContext(ctx, "SELECT "+couponColumns+" FROM coupons WHERE "+where, args...))
	if err != nil {
		return nil, classify(op, err)
	}
	if err := r.visible(ctx, acl.ResourceCoupons, c); err != nil {
		return nil, classify(op, err)
	}
	return c, nil
}

// Find returns a coupon by id
func (r *Coupons) Find(ctx context.Context, id int64) (*models.Coupon, error) {
	return r.queryOne(ctx, "find coupon", "id = $1", id)
}

// FindByCode returns a coupon by its code
func (r *Coupons) FindByCode(ctx context.Context, code string) (*models.Coupon, error) {
	return r.queryOne(ctx, "find coupon by code", "code = $1", code)
}

// ListByStore returns the coupons of a store
func (r *Coupons) ListByStore(ctx context.Context, storeID int64) ([]models.Coupon, error) {
	const op = "list coupons"
	rows, err := r.db.QueryContext(ctx, "SELECT "+couponColumns+" FROM coupons WHERE store_id = $1 ORDER BY id", storeID)
	if err != nil {
		return nil, classify(op, err)
	}
	defer rows.Close()

	out := []models.Coupon{}
	for rows.Next() {
		c, err := scanCoupon(rows)
		if err != nil {
			return nil, classify(op, err)
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(op, err)
	}
	out, err = readable(ctx, r.base, acl.ResourceCoupons, out)
	return out, classify(op, err)
}

// Create inserts an active coupon
func (r *Coupons) Create(ctx context.Context, payload *models.NewCoupon) (*models.Coupon, error) {
	if err := payload.Validate(); err != nil {
		return nil, err
	}
	if err := r.allowed(ctx, acl.ResourceCoupons, acl.ActionCreate, payload); err != nil {
		return nil, classify("create coupon", err)
	}
	c, err := scanCoupon(r.db.QueryRowContext(ctx,
		`INSERT INTO coupons (code, title, store_id, scope, percent, quantity, expired_at, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, true, $8) RETURNING `+couponColumns,
		payload.Code, payload.Title, payload.StoreID, payload.Scope, payload.Percent, payload.Quantity,
		payload.ExpiredAt, time.Now().UTC()))
	if err != nil {
		return nil, classify("create coupon", err)
	}
	return c, nil
}

// Update changes a coupon
func (r *Coupons) Update(ctx context.Context, id int64, payload *models.UpdateCoupon) (*models.Coupon, error) {
	if err := payload.Validate(); err != nil {
		return nil, err
	}
	current, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.allowed(ctx, acl.ResourceCoupons, acl.ActionUpdate, current); err != nil {
		return nil, classify("update coupon", err)
	}

	var u update
	setString(&u, "title", payload.Title)
	if payload.Percent != nil {
		u.set("percent", *payload.Percent)
	}
	if payload.Quantity != nil {
		u.set("quantity", *payload.Quantity)
	}
	if payload.ExpiredAt != nil {
		u.set("expired_at", payload.ExpiredAt.UTC())
	}
	if payload.IsActive != nil {
		u.set("is_active", *payload.IsActive)
	}
	if u.empty() {
		return current, nil
	}

	query, args := u.build("coupons", id, couponColumns)
	c, err := scanCoupon(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, classify("update coupon", err)
	}
	return c, nil
}

// Delete removes a coupon
func (r *Coupons) Delete(ctx context.Context, id int64) (*models.Coupon, error) {
	current, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.allowed(ctx, acl.ResourceCoupons, acl.ActionDelete, current); err != nil {
		return nil, classify("delete coupon", err)
	}
	if _, err := r.db.ExecContext(ctx, "DELETE FROM coupons WHERE id = $1", id); err != nil {
		return nil, classify("delete coupon", err)
	}
	return current, nil
}
