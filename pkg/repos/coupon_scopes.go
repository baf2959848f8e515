package repos

import (
	"context"
	"time"

	"github.com/platinummonkey/stores/pkg/acl"
	"github.com/platinummonkey/stores/pkg/models"
)

const couponScopeColumns = "id, coupon_id, base_product_id"

// CouponScopeBaseProducts lists the base products a base_products coupon applies to
type CouponScopeBaseProducts struct {
	base
}

// NewCouponScopeBaseProducts creates a coupon scope repository
func NewCouponScopeBaseProducts(db DBTX, a acl.ACL) *CouponScopeBaseProducts {
	return &CouponScopeBaseProducts{base{db: db, acl: a}}
}

func scanCouponScope(row scanner) (*models.CouponScopeBaseProduct, error) {
	var c models.CouponScopeBaseProduct
	if err := row.Scan(&c.ID, &c.CouponID, &c.BaseProductID); err != nil {
		return nil, err
	}
	return &c, nil
}

// ListByCoupon returns the base products linked to a coupon
func (r *CouponScopeBaseProducts) ListByCoupon(ctx context.Context, couponID int64) ([]models.CouponScopeBaseProduct, error) {
	const op = "list coupon base products"
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+couponScopeColumns+" FROM coupon_scope_base_products WHERE coupon_id = $1 ORDER BY id", couponID)
	if err != nil {
		return nil, classify(op, err)
	}
	defer rows.Close()

	out := []models.CouponScopeBaseProduct{}
	for rows.Next() {
		c, err := scanCouponScope(rows)
		if err != nil {
			return nil, classify(op, err)
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(op, err)
	}
	out, err = readable(ctx, r.base, acl.ResourceCouponScopeBaseProducts, out)
	return out, classify(op, err)
}

// Create links a base product to a coupon
func (r *CouponScopeBaseProducts) Create(ctx context.Context, payload *models.NewCouponScopeBaseProduct) (*models.CouponScopeBaseProduct, error) {
	if err := payload.Validate(); err != nil {
		return nil, err
	}
	if err := r.allowed(ctx, acl.ResourceCouponScopeBaseProducts, acl.ActionCreate, payload); err != nil {
		return nil, classify("add coupon base product", err)
	}
	c, err := scanCouponScope(r.db.QueryRowContext(ctx,
		"INSERT INTO coupon_scope_base_products (coupon_id, base_product_id) VALUES ($1, $2) RETURNING "+couponScopeColumns,
		payload.CouponID, payload.BaseProductID))
	if err != nil {
		return nil, classify("add coupon base product", err)
	}
	return c, nil
}

// Delete unlinks a base product from a coupon
func (r *CouponScopeBaseProducts) Delete(ctx context.Context, couponID, baseProductID int64) (*models.CouponScopeBaseProduct, error) {
	const op = "remove coupon base product"
	current, err := scanCouponScope(r.db.QueryRowContext(ctx,
		"SELECT "+couponScopeColumns+" FROM coupon_scope_base_products WHERE coupon_id = $1 AND base_product_id = $2",
		couponID, baseProductID))
	if err != nil {
		return nil, classify(op, err)
	}
	if err := r.allowed(ctx, acl.ResourceCouponScopeBaseProducts, acl.ActionDelete, current); err != nil {
		return nil, classify(op, err)
	}
	if _, err := r.db.ExecContext(ctx, "DELETE FROM coupon_scope_base_products WHERE id = $1", current.ID); err != nil {
		return nil, classify(op, err)
	}
	return current, nil
}

// UsedCoupons records which users redeemed which coupons
type UsedCoupons struct {
	base
}

// NewUsedCoupons creates a coupon usage repository
func NewUsedCoupons(db DBTX, a acl.ACL) *UsedCoupons {
	return &UsedCoupons{base{db: db, acl: a}}
}

// Exists reports whether the user already redeemed the coupon
func (r *UsedCoupons) Exists(ctx context.Context, couponID, userID int64) (bool, error) {
	const op = "check coupon usage"
	if err := r.allowed(ctx, acl.ResourceUsedCoupons, acl.ActionRead, &models.NewUsedCoupon{CouponID: couponID, UserID: userID}); err != nil {
		return false, classify(op, err)
	}
	var exists bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM used_coupons WHERE coupon_id = $1 AND user_id = $2)", couponID, userID).Scan(&exists)
	return exists, classify(op, err)
}

// Create records a redemption
func (r *UsedCoupons) Create(ctx context.Context, payload *models.NewUsedCoupon) (*models.UsedCoupon, error) {
	const op = "record coupon usage"
	if err := payload.Validate(); err != nil {
		return nil, err
	}
	if err := r.allowed(ctx, acl.ResourceUsedCoupons, acl.ActionCreate, payload); err != nil {
		return nil, classify(op, err)
	}
	var u models.UsedCoupon
	err := r.db.QueryRowContext(ctx,
		"INSERT INTO used_coupons (coupon_id, user_id, created_at) VALUES ($1, $2, $3) RETURNING coupon_id, user_id, created_at",
		payload.CouponID, payload.UserID, time.Now().UTC()).Scan(&u.CouponID, &u.UserID, &u.CreatedAt)
	if err != nil {
		return nil, classify(op, err)
	}
	return &u, nil
}
