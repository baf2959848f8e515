package models

import (
	"fmt"
	"strings"
)

// Attribute describes a product characteristic such as size or color
type Attribute struct {
	ID        int64        `json:"id"`
	Name      Translations `json:"name"`
	ValueType ValueType    `json:"value_type"`
	MetaField JSONMap      `json:"meta_field,omitempty"`
}

// NewAttribute is the payload for creating an attribute
type NewAttribute struct {
	Name      Translations `json:"name"`
	ValueType ValueType    `json:"value_type"`
	MetaField JSONMap      `json:"meta_field,omitempty"`
}

// Validate checks the create payload
func (n *NewAttribute) Validate() error {
	if err := n.Name.Validate("name"); err != nil {
		return err
	}
	if !n.ValueType.Valid() {
		return fmt.Errorf("%w: unknown value type %q", ErrInvalidPayload, n.ValueType)
	}
	return nil
}

// UpdateAttribute is the payload for updating an attribute
type UpdateAttribute struct {
	Name      Translations `json:"name,omitempty"`
	MetaField JSONMap      `json:"meta_field,omitempty"`
}

// Validate checks the update payload
func (u *UpdateAttribute) Validate() error {
	if u.Name != nil {
		return u.Name.Validate("name")
	}
	return nil
}

// CustomAttribute marks an attribute as selectable for a base product's variants
type CustomAttribute struct {
	ID            int64 `json:"id"`
	BaseProductID int64 `json:"base_product_id"`
	AttributeID   int64 `json:"attribute_id"`
}

// OwnershipField exposes the base product link
func (c *CustomAttribute) OwnershipField(name string) (int64, bool) {
	if name == "base_product_id" {
		return c.BaseProductID, true
	}
	return 0, false
}

// NewCustomAttribute is the payload for creating a custom attribute
type NewCustomAttribute struct {
	BaseProductID int64 `json:"base_product_id"`
	AttributeID   int64 `json:"attribute_id"`
}

// OwnershipField exposes the base product link
func (n *NewCustomAttribute) OwnershipField(name string) (int64, bool) {
	if name == "base_product_id" {
		return n.BaseProductID, true
	}
	return 0, false
}

// Validate checks the create payload
func (n *NewCustomAttribute) Validate() error {
	if n.BaseProductID <= 0 || n.AttributeID <= 0 {
		return fmt.Errorf("%w: base_product_id and attribute_id must be positive", ErrInvalidPayload)
	}
	return nil
}

// AttributeValue is a predefined value of a string attribute
type AttributeValue struct {
	ID         int64        `json:"id"`
	AttrID     int64        `json:"attr_id"`
	Code       string       `json:"code"`
	Translates Translations `json:"translates,omitempty"`
}

// NewAttributeValue is the payload for adding a predefined value
type NewAttributeValue struct {
	AttrID     int64        `json:"attr_id"`
	Code       string       `json:"code"`
	Translates Translations `json:"translates,omitempty"`
}

// Validate checks the payload
func (n *NewAttributeValue) Validate() error {
	if n.AttrID <= 0 {
		return fmt.Errorf("%w: attr_id must be positive", ErrInvalidPayload)
	}
	if strings.TrimSpace(n.Code) == "" {
		return fmt.Errorf("%w: code is required", ErrInvalidPayload)
	}
	if n.Translates != nil {
		return n.Translates.Validate("translates")
	}
	return nil
}

// UpdateAttributeValue is the payload for changing a predefined value
type UpdateAttributeValue struct {
	Code       *string      `json:"code,omitempty"`
	Translates Translations `json:"translates,omitempty"`
}

// Validate checks the payload
func (u *UpdateAttributeValue) Validate() error {
	if u.Code != nil && strings.TrimSpace(*u.Code) == "" {
		return fmt.Errorf("%w: code must not be empty", ErrInvalidPayload)
	}
	if u.Translates != nil {
		return u.Translates.Validate("translates")
	}
	return nil
}
