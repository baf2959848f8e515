package models

import (
	"fmt"
	"time"
)

// Product is a purchasable variant of a base product
type Product struct {
	ID               int64      `json:"id"`
	BaseProductID    int64      `json:"base_product_id"`
	IsActive         bool       `json:"is_active"`
	Discount         *float64   `json:"discount,omitempty"`
	PhotoMain        *string    `json:"photo_main,omitempty"`
	AdditionalPhotos StringList `json:"additional_photos"`
	VendorCode       string     `json:"vendor_code"`
	Cashback         *float64   `json:"cashback,omitempty"`
	Price            float64    `json:"price"`
	Currency         Currency   `json:"currency"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// OwnershipField exposes the base product link
func (p *Product) OwnershipField(name string) (int64, bool) {
	if name == "base_product_id" {
		return p.BaseProductID, true
	}
	return 0, false
}

// ProductSellerPrice is a variant's price in the currency the seller set
type ProductSellerPrice struct {
	Price    float64  `json:"price"`
	Currency Currency `json:"currency"`
}

// ProductWithAttributes is a variant together with its attribute values
type ProductWithAttributes struct {
	Product
	Attributes []ProductAttr `json:"attributes"`
}

// NewProduct is the payload for creating a variant
type NewProduct struct {
	BaseProductID    int64      `json:"base_product_id"`
	Discount         *float64   `json:"discount,omitempty"`
	PhotoMain        *string    `json:"photo_main,omitempty"`
	AdditionalPhotos StringList `json:"additional_photos,omitempty"`
	VendorCode       string     `json:"vendor_code"`
	Cashback         *float64   `json:"cashback,omitempty"`
	Price            float64    `json:"price"`
	// Currency is copied from the base product
	Currency Currency `json:"-"`
}

// OwnershipField exposes the base product the variant will belong to
func (n *NewProduct) OwnershipField(name string) (int64, bool) {
	if name == "base_product_id" {
		return n.BaseProductID, true
	}
	return 0, false
}

// Validate checks the create payload
func (n *NewProduct) Validate() error {
	if n.BaseProductID <= 0 {
		return fmt.Errorf("%w: base_product_id must be positive", ErrInvalidPayload)
	}
	if n.VendorCode == "" {
		return fmt.Errorf("%w: vendor_code is required", ErrInvalidPayload)
	}
	if n.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidPayload)
	}
	if !n.Currency.Valid() {
		return fmt.Errorf("%w: unknown currency %q", ErrInvalidPayload, n.Currency)
	}
	return validateFraction("discount", n.Discount)
}

// NewProductWithAttributes creates a variant together with its attributes
type NewProductWithAttributes struct {
	Product    NewProduct  `json:"product"`
	Attributes []AttrValue `json:"attributes"`
}

// UpdateProduct is the payload for updating a variant
type UpdateProduct struct {
	Discount         *float64   `json:"discount,omitempty"`
	PhotoMain        *string    `json:"photo_main,omitempty"`
	AdditionalPhotos StringList `json:"additional_photos,omitempty"`
	VendorCode       *string    `json:"vendor_code,omitempty"`
	Cashback         *float64   `json:"cashback,omitempty"`
	Price            *float64   `json:"price,omitempty"`
	Currency         *Currency  `json:"currency,omitempty"`
}

// Validate checks the update payload
func (u *UpdateProduct) Validate() error {
	if u.VendorCode != nil && *u.VendorCode == "" {
		return fmt.Errorf("%w: vendor_code must not be empty", ErrInvalidPayload)
	}
	if u.Price != nil && *u.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidPayload)
	}
	if u.Currency != nil && !u.Currency.Valid() {
		return fmt.Errorf("%w: unknown currency %q", ErrInvalidPayload, *u.Currency)
	}
	if err := validateFraction("discount", u.Discount); err != nil {
		return err
	}
	return validateFraction("cashback", u.Cashback)
}

// UpdateProductWithAttributes updates a variant and replaces its attributes
type UpdateProductWithAttributes struct {
	Product    *UpdateProduct `json:"product,omitempty"`
	Attributes []AttrValue    `json:"attributes,omitempty"`
}

func validateFraction(field string, v *float64) error {
	if v != nil && (*v < 0 || *v > 1) {
		return fmt.Errorf("%w: %s must be between 0 and 1", ErrInvalidPayload, field)
	}
	return nil
}

// ValueType is the kind of value an attribute holds
type ValueType string

const (
	ValueTypeStr   ValueType = "str"
	ValueTypeFloat ValueType = "float"
)

// Valid reports whether v is a known value type
func (v ValueType) Valid() bool {
	return v == ValueTypeStr || v == ValueTypeFloat
}

// ProductAttr is the value of an attribute for a variant
type ProductAttr struct {
	ID         int64     `json:"id"`
	ProdID     int64     `json:"prod_id"`
	BaseProdID int64     `json:"base_prod_id"`
	AttrID     int64     `json:"attr_id"`
	Value      string    `json:"value"`
	ValueType  ValueType `json:"value_type"`
}

// OwnershipField exposes the product link
func (a *ProductAttr) OwnershipField(name string) (int64, bool) {
	switch name {
	case "prod_id":
		return a.ProdID, true
	case "base_prod_id":
		return a.BaseProdID, true
	}
	return 0, false
}

// NewProductAttr is the payload for creating an attribute value
type NewProductAttr struct {
	ProdID     int64     `json:"prod_id"`
	BaseProdID int64     `json:"base_prod_id"`
	AttrID     int64     `json:"attr_id"`
	Value      string    `json:"value"`
	ValueType  ValueType `json:"value_type"`
}

// OwnershipField exposes the product the value will belong to
func (n *NewProductAttr) OwnershipField(name string) (int64, bool) {
	switch name {
	case "prod_id":
		return n.ProdID, true
	case "base_prod_id":
		return n.BaseProdID, true
	}
	return 0, false
}

// AttrValue is an attribute id and value pair as sent by clients
type AttrValue struct {
	AttrID int64  `json:"attr_id"`
	Value  string `json:"value"`
}

// Validate checks the pair
func (a AttrValue) Validate() error {
	if a.AttrID <= 0 {
		return fmt.Errorf("%w: attr_id must be positive", ErrInvalidPayload)
	}
	if a.Value == "" {
		return fmt.Errorf("%w: value for attribute %d is empty", ErrInvalidPayload, a.AttrID)
	}
	return nil
}
