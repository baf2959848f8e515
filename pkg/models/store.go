package models

import (
	"fmt"
	"regexp"
	"time"
)

// Status is the moderation status of a store or base product
type Status string

const (
	StatusDraft      Status = "draft"
	StatusModeration Status = "moderation"
	StatusDecline    Status = "decline"
	StatusPublished  Status = "published"
	StatusBlocked    Status = "blocked"
)

// Valid reports whether s is a known status
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusModeration, StatusDecline, StatusPublished, StatusBlocked:
		return true
	}
	return false
}

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Store is a seller's shop
type Store struct {
	ID               int64        `json:"id"`
	UserID           int64        `json:"user_id"`
	IsActive         bool         `json:"is_active"`
	Name             Translations `json:"name"`
	ShortDescription Translations `json:"short_description"`
	LongDescription  Translations `json:"long_description,omitempty"`
	Slug             string       `json:"slug"`
	Cover            *string      `json:"cover,omitempty"`
	Logo             *string      `json:"logo,omitempty"`
	Phone            *string      `json:"phone,omitempty"`
	Email            *string      `json:"email,omitempty"`
	Address          *string      `json:"address,omitempty"`
	Country          *string      `json:"country,omitempty"`
	DefaultLanguage  string       `json:"default_language"`
	Slogan           *string      `json:"slogan,omitempty"`
	Rating           float64      `json:"rating"`
	Status           Status       `json:"status"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

// OwnershipField exposes the store's owner
func (s *Store) OwnershipField(name string) (int64, bool) {
	if name == "user_id" {
		return s.UserID, true
	}
	return 0, false
}

// NewStore is the payload for creating a store
type NewStore struct {
	UserID           int64        `json:"user_id"`
	Name             Translations `json:"name"`
	ShortDescription Translations `json:"short_description"`
	LongDescription  Translations `json:"long_description,omitempty"`
	Slug             string       `json:"slug"`
	Cover            *string      `json:"cover,omitempty"`
	Logo             *string      `json:"logo,omitempty"`
	Phone            *string      `json:"phone,omitempty"`
	Email            *string      `json:"email,omitempty"`
	Address          *string      `json:"address,omitempty"`
	Country          *string      `json:"country,omitempty"`
	DefaultLanguage  string       `json:"default_language"`
	Slogan           *string      `json:"slogan,omitempty"`
}

// OwnershipField exposes the future owner of the store
func (s *NewStore) OwnershipField(name string) (int64, bool) {
	if name == "user_id" {
		return s.UserID, true
	}
	return 0, false
}

// Validate checks the create payload
func (s *NewStore) Validate() error {
	if s.UserID <= 0 {
		return fmt.Errorf("%w: user_id must be positive", ErrInvalidPayload)
	}
	if err := s.Name.Validate("name"); err != nil {
		return err
	}
	if err := s.ShortDescription.Validate("short_description"); err != nil {
		return err
	}
	if !slugPattern.MatchString(s.Slug) {
		return fmt.Errorf("%w: slug %q must be lowercase alphanumerics separated by dashes", ErrInvalidPayload, s.Slug)
	}
	if s.DefaultLanguage == "" {
		return fmt.Errorf("%w: default_language is required", ErrInvalidPayload)
	}
	return nil
}

// UpdateStore is the payload for updating a store; nil fields are left unchanged
type UpdateStore struct {
	Name             Translations `json:"name,omitempty"`
	ShortDescription Translations `json:"short_description,omitempty"`
	LongDescription  Translations `json:"long_description,omitempty"`
	Slug             *string      `json:"slug,omitempty"`
	Cover            *string      `json:"cover,omitempty"`
	Logo             *string      `json:"logo,omitempty"`
	Phone            *string      `json:"phone,omitempty"`
	Email            *string      `json:"email,omitempty"`
	Address          *string      `json:"address,omitempty"`
	Country          *string      `json:"country,omitempty"`
	DefaultLanguage  *string      `json:"default_language,omitempty"`
	Slogan           *string      `json:"slogan,omitempty"`
}

// Validate checks the update payload
func (u *UpdateStore) Validate() error {
	if u.Name != nil {
		if err := u.Name.Validate("name"); err != nil {
			return err
		}
	}
	if u.Slug != nil && !slugPattern.MatchString(*u.Slug) {
		return fmt.Errorf("%w: slug %q must be lowercase alphanumerics separated by dashes", ErrInvalidPayload, *u.Slug)
	}
	return nil
}

// StoreSearch is the body of a store search request
type StoreSearch struct {
	Name    string              `json:"name"`
	Options *StoreSearchOptions `json:"options,omitempty"`
}

// StoreSearchOptions narrows a store search
type StoreSearchOptions struct {
	CategoryID *int64  `json:"category_id,omitempty"`
	Country    *string `json:"country,omitempty"`
}

// CartProduct is one line of a shopping cart
type CartProduct struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// Validate checks the cart line
func (c CartProduct) Validate() error {
	if c.ProductID <= 0 {
		return fmt.Errorf("%w: product_id must be positive", ErrInvalidPayload)
	}
	if c.Quantity <= 0 {
		return fmt.Errorf("%w: quantity of product %d must be positive", ErrInvalidPayload, c.ProductID)
	}
	return nil
}

// CartItem is a cart line resolved to its variant
type CartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// CartStore groups the cart lines sold by one store
type CartStore struct {
	Store
	Items []CartItem `json:"items"`
}
