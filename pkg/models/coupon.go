package models

import (
	"fmt"
	"regexp"
	"time"
)

// CouponScope says what a coupon applies to
type CouponScope string

const (
	CouponScopeStore        CouponScope = "store"
	CouponScopeBaseProducts CouponScope = "base_products"
)

var couponCodePattern = regexp.MustCompile(`^[A-Z0-9]{4,32}$`)

// Coupon is a store discount code
type Coupon struct {
	ID        int64       `json:"id"`
	Code      string      `json:"code"`
	Title     string      `json:"title"`
	StoreID   int64       `json:"store_id"`
	Scope     CouponScope `json:"scope"`
	Percent   int         `json:"percent"`
	Quantity  int         `json:"quantity"`
	ExpiredAt *time.Time  `json:"expired_at,omitempty"`
	IsActive  bool        `json:"is_active"`
	CreatedAt time.Time   `json:"created_at"`
}

// OwnershipField exposes the store link
func (c *Coupon) OwnershipField(name string) (int64, bool) {
	if name == "store_id" {
		return c.StoreID, true
	}
	return 0, false
}

// Expired reports whether the coupon is past its expiry at t
func (c *Coupon) Expired(t time.Time) bool {
	return c.ExpiredAt != nil && !t.Before(*c.ExpiredAt)
}

// NewCoupon is the payload for creating a coupon
type NewCoupon struct {
	Code      string      `json:"code"`
	Title     string      `json:"title"`
	StoreID   int64       `json:"store_id"`
	Scope     CouponScope `json:"scope"`
	Percent   int         `json:"percent"`
	Quantity  int         `json:"quantity"`
	ExpiredAt *time.Time  `json:"expired_at,omitempty"`
}

// OwnershipField exposes the store the coupon will belong to
func (n *NewCoupon) OwnershipField(name string) (int64, bool) {
	if name == "store_id" {
		return n.StoreID, true
	}
	return 0, false
}

// Validate checks the create payload
func (n *NewCoupon) Validate() error {
	if !couponCodePattern.MatchString(n.Code) {
		return fmt.Errorf("%w: code must be 4 to 32 upper-case letters or digits", ErrInvalidPayload)
	}
	if n.StoreID <= 0 {
		return fmt.Errorf("%w: store_id must be positive", ErrInvalidPayload)
	}
	if n.Scope != CouponScopeStore && n.Scope != CouponScopeBaseProducts {
		return fmt.Errorf("%w: unknown coupon scope %q", ErrInvalidPayload, n.Scope)
	}
	if n.Percent <= 0 || n.Percent > 100 {
		return fmt.Errorf("%w: percent must be between 1 and 100", ErrInvalidPayload)
	}
	if n.Quantity < 0 {
		return fmt.Errorf("%w: quantity must not be negative", ErrInvalidPayload)
	}
	return nil
}

// UpdateCoupon is the payload for updating a coupon
type UpdateCoupon struct {
	Title     *string    `json:"title,omitempty"`
	Percent   *int       `json:"percent,omitempty"`
	Quantity  *int       `json:"quantity,omitempty"`
	ExpiredAt *time.Time `json:"expired_at,omitempty"`
	IsActive  *bool      `json:"is_active,omitempty"`
}

// Validate checks the update payload
func (u *UpdateCoupon) Validate() error {
	if u.Percent != nil && (*u.Percent <= 0 || *u.Percent > 100) {
		return fmt.Errorf("%w: percent must be between 1 and 100", ErrInvalidPayload)
	}
	if u.Quantity != nil && *u.Quantity < 0 {
		return fmt.Errorf("%w: quantity must not be negative", ErrInvalidPayload)
	}
	return nil
}

// Redeemable reports whether the coupon can still be used at t
func (c *Coupon) Redeemable(t time.Time) bool {
	return c.IsActive && c.Quantity > 0 && !c.Expired(t)
}

// CouponScopeBaseProduct limits a base_products coupon to one base product
type CouponScopeBaseProduct struct {
	ID            int64 `json:"id"`
	CouponID      int64 `json:"coupon_id"`
	BaseProductID int64 `json:"base_product_id"`
}

// OwnershipField exposes the coupon link
func (c *CouponScopeBaseProduct) OwnershipField(name string) (int64, bool) {
	if name == "coupon_id" {
		return c.CouponID, true
	}
	return 0, false
}

// NewCouponScopeBaseProduct is the payload for adding a base product to a coupon
type NewCouponScopeBaseProduct struct {
	CouponID      int64 `json:"coupon_id"`
	BaseProductID int64 `json:"base_product_id"`
}

// OwnershipField exposes the coupon the scope will belong to
func (n *NewCouponScopeBaseProduct) OwnershipField(name string) (int64, bool) {
	if name == "coupon_id" {
		return n.CouponID, true
	}
	return 0, false
}

// Validate checks the payload
func (n *NewCouponScopeBaseProduct) Validate() error {
	if n.CouponID <= 0 || n.BaseProductID <= 0 {
		return fmt.Errorf("%w: coupon_id and base_product_id must be positive", ErrInvalidPayload)
	}
	return nil
}

// UsedCoupon records that a user redeemed a coupon
type UsedCoupon struct {
	CouponID  int64     `json:"coupon_id"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// OwnershipField exposes the user who redeemed the coupon
func (u *UsedCoupon) OwnershipField(name string) (int64, bool) {
	if name == "user_id" {
		return u.UserID, true
	}
	return 0, false
}

// NewUsedCoupon is the payload for redeeming a coupon
type NewUsedCoupon struct {
	CouponID int64 `json:"coupon_id"`
	UserID   int64 `json:"user_id"`
}

// OwnershipField exposes the redeeming user
func (n *NewUsedCoupon) OwnershipField(name string) (int64, bool) {
	if name == "user_id" {
		return n.UserID, true
	}
	return 0, false
}

// Validate checks the payload
func (n *NewUsedCoupon) Validate() error {
	if n.CouponID <= 0 || n.UserID <= 0 {
		return fmt.Errorf("%w: coupon_id and user_id must be positive", ErrInvalidPayload)
	}
	return nil
}
