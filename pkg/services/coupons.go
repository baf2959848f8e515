package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/platinummonkey/stores/pkg/acl"
	"github.com/platinummonkey/stores/pkg/models"
	"github.com/platinummonkey/stores/pkg/repos"
)

// ListCouponBaseProducts returns the base products a coupon applies to
func (s *Service) ListCouponBaseProducts(ctx context.Context, couponID int64) ([]models.CouponScopeBaseProduct, error) {
	return run(ctx, s, "ListCouponBaseProducts", func(ctx context.Context, conn repos.DBTX, a acl.ACL) ([]models.CouponScopeBaseProduct, error) {
		if _, err := s.repos.Coupons(conn, a).Find(ctx, couponID); err != nil {
			return nil, err
		}
		return s.repos.CouponScopeBaseProducts(conn, a).ListByCoupon(ctx, couponID)
	})
}

// AddCouponBaseProduct limits a base_products coupon to one more base product
// of the coupon's store
func (s *Service) AddCouponBaseProduct(ctx context.Context, payload *models.NewCouponScopeBaseProduct) (*models.CouponScopeBaseProduct, error) {
	return inTx(ctx, s, "AddCouponBaseProduct", func(ctx context.Context, tx *sql.Tx, a acl.ACL) (*models.CouponScopeBaseProduct, error) {
		coupon, err := s.repos.Coupons(tx, a).Find(ctx, payload.CouponID)
		if err != nil {
			return nil, err
		}
		if coupon.Scope != models.CouponScopeBaseProducts {
			return nil, fmt.Errorf("%w: coupon %d applies to the whole store", models.ErrInvalidPayload, coupon.ID)
		}
		bp, err := s.repos.BaseProducts(tx, a).Find(ctx, payload.BaseProductID)
		if err != nil {
			return nil, err
		}
		if bp.StoreID != coupon.StoreID {
			return nil, fmt.Errorf("%w: base product %d is not sold by store %d", models.ErrInvalidPayload, bp.ID, coupon.StoreID)
		}
		return s.repos.CouponScopeBaseProducts(tx, a).Create(ctx, payload)
	})
}

// RemoveCouponBaseProduct unlinks a base product from a coupon
func (s *Service) RemoveCouponBaseProduct(ctx context.Context, couponID, baseProductID int64) (*models.CouponScopeBaseProduct, error) {
	return run(ctx, s, "RemoveCouponBaseProduct", func(ctx context.Context, conn repos.DBTX, a acl.ACL) (*models.CouponScopeBaseProduct, error) {
		return s.repos.CouponScopeBaseProducts(conn, a).Delete(ctx, couponID, baseProductID)
	})
}

// CouponUsedByUser reports whether a user already redeemed a coupon
func (s *Service) CouponUsedByUser(ctx context.Context, couponID, userID int64) (bool, error) {
	return run(ctx, s, "CouponUsedByUser", func(ctx context.Context, conn repos.DBTX, a acl.ACL) (bool, error) {
		return s.repos.UsedCoupons(conn, a).Exists(ctx, couponID, userID)
	})
}

// UseCoupon redeems a coupon for a user. A user redeems a coupon at most once
// and every redemption takes one unit of the coupon's quantity.
func (s *Service) UseCoupon(ctx context.Context, payload *models.NewUsedCoupon) (*models.UsedCoupon, error) {
	return inTx(ctx, s, "UseCoupon", func(ctx context.Context, tx *sql.Tx, a acl.ACL) (*models.UsedCoupon, error) {
		if err := payload.Validate(); err != nil {
			return nil, err
		}
		coupons := s.repos.Coupons(tx, a)
		coupon, err := coupons.Find(ctx, payload.CouponID)
		if err != nil {
			return nil, err
		}
		if !coupon.Redeemable(time.Now()) {
			return nil, fmt.Errorf("%w: coupon %d cannot be redeemed", models.ErrInvalidPayload, coupon.ID)
		}

		used := s.repos.UsedCoupons(tx, a)
		exists, err := used.Exists(ctx, payload.CouponID, payload.UserID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, fmt.Errorf("coupon %d already used by user %d: %w", coupon.ID, payload.UserID, repos.ErrConflict)
		}
		out, err := used.Create(ctx, payload)
		if err != nil {
			return nil, err
		}

		left := coupon.Quantity - 1
		if _, err := coupons.Update(ctx, coupon.ID, &models.UpdateCoupon{Quantity: &left}); err != nil {
			return nil, err
		}
		return out, nil
	})
}
