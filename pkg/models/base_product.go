package models

import (
	"fmt"
	"time"
)

// BaseProduct groups product variants sold by a store
type BaseProduct struct {
	ID               int64        `json:"id"`
	StoreID          int64        `json:"store_id"`
	IsActive         bool         `json:"is_active"`
	Name             Translations `json:"name"`
	ShortDescription Translations `json:"short_description"`
	LongDescription  Translations `json:"long_description,omitempty"`
	SeoTitle         Translations `json:"seo_title,omitempty"`
	CategoryID       int64        `json:"category_id"`
	Views            int64        `json:"views"`
	Rating           float64      `json:"rating"`
	Slug             *string      `json:"slug,omitempty"`
	Status           Status       `json:"status"`
	Currency         Currency     `json:"currency"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

// OwnershipField exposes the store link
func (b *BaseProduct) OwnershipField(name string) (int64, bool) {
	if name == "store_id" {
		return b.StoreID, true
	}
	return 0, false
}

// BaseProductWithVariants is a base product together with its active variants
type BaseProductWithVariants struct {
	BaseProduct
	Variants []ProductWithAttributes `json:"variants"`
}

// NewBaseProduct is the payload for creating a base product
type NewBaseProduct struct {
	StoreID          int64        `json:"store_id"`
	Name             Translations `json:"name"`
	ShortDescription Translations `json:"short_description"`
	LongDescription  Translations `json:"long_description,omitempty"`
	SeoTitle         Translations `json:"seo_title,omitempty"`
	CategoryID       int64        `json:"category_id"`
	Slug             *string      `json:"slug,omitempty"`
	Currency         Currency     `json:"currency"`
}

// OwnershipField exposes the store the base product will belong to
func (n *NewBaseProduct) OwnershipField(name string) (int64, bool) {
	if name == "store_id" {
		return n.StoreID, true
	}
	return 0, false
}

// Validate checks the create payload
func (n *NewBaseProduct) Validate() error {
	if n.StoreID <= 0 {
		return fmt.Errorf("%w: store_id must be positive", ErrInvalidPayload)
	}
	if n.CategoryID <= 0 {
		return fmt.Errorf("%w: category_id must be positive", ErrInvalidPayload)
	}
	if err := n.Name.Validate("name"); err != nil {
		return err
	}
	if err := n.ShortDescription.Validate("short_description"); err != nil {
		return err
	}
	if !n.Currency.Valid() {
		return fmt.Errorf("%w: unknown currency %q", ErrInvalidPayload, n.Currency)
	}
	if n.Slug != nil && !slugPattern.MatchString(*n.Slug) {
		return fmt.Errorf("%w: slug %q must be lowercase alphanumerics separated by dashes", ErrInvalidPayload, *n.Slug)
	}
	return nil
}

// UpdateBaseProduct is the payload for updating a base product
type UpdateBaseProduct struct {
	Name             Translations `json:"name,omitempty"`
	ShortDescription Translations `json:"short_description,omitempty"`
	LongDescription  Translations `json:"long_description,omitempty"`
	SeoTitle         Translations `json:"seo_title,omitempty"`
	CategoryID       *int64       `json:"category_id,omitempty"`
	Slug             *string      `json:"slug,omitempty"`
}

// Validate checks the update payload
func (u *UpdateBaseProduct) Validate() error {
	if u.Name != nil {
		if err := u.Name.Validate("name"); err != nil {
			return err
		}
	}
	if u.CategoryID != nil && *u.CategoryID <= 0 {
		return fmt.Errorf("%w: category_id must be positive", ErrInvalidPayload)
	}
	if u.Slug != nil && !slugPattern.MatchString(*u.Slug) {
		return fmt.Errorf("%w: slug %q must be lowercase alphanumerics separated by dashes", ErrInvalidPayload, *u.Slug)
	}
	return nil
}

// NewBaseProductWithVariants creates a base product together with its first variants
type NewBaseProductWithVariants struct {
	NewBaseProduct
	Variants []NewProductWithAttributes `json:"variants,omitempty"`
}
