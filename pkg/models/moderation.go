package models

import (
	"fmt"
	"strings"
	"time"
)

// ModeratorProductComment is a moderator's note on a base product
type ModeratorProductComment struct {
	ID            int64     `json:"id"`
	ModeratorID   int64     `json:"moderator_id"`
	BaseProductID int64     `json:"base_product_id"`
	Comments      string    `json:"comments"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewModeratorProductComment is the payload for commenting on a base product
type NewModeratorProductComment struct {
	ModeratorID   int64  `json:"moderator_id"`
	BaseProductID int64  `json:"base_product_id"`
	Comments      string `json:"comments"`
}

// Validate checks the payload
func (n *NewModeratorProductComment) Validate() error {
	if n.ModeratorID <= 0 || n.BaseProductID <= 0 {
		return fmt.Errorf("%w: moderator_id and base_product_id must be positive", ErrInvalidPayload)
	}
	if strings.TrimSpace(n.Comments) == "" {
		return fmt.Errorf("%w: comments are required", ErrInvalidPayload)
	}
	return nil
}

// ModeratorStoreComment is a moderator's note on a store
type ModeratorStoreComment struct {
	ID          int64     `json:"id"`
	ModeratorID int64     `json:"moderator_id"`
	StoreID     int64     `json:"store_id"`
	Comments    string    `json:"comments"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewModeratorStoreComment is the payload for commenting on a store
type NewModeratorStoreComment struct {
	ModeratorID int64  `json:"moderator_id"`
	StoreID     int64  `json:"store_id"`
	Comments    string `json:"comments"`
}

// Validate checks the payload
func (n *NewModeratorStoreComment) Validate() error {
	if n.ModeratorID <= 0 || n.StoreID <= 0 {
		return fmt.Errorf("%w: moderator_id and store_id must be positive", ErrInvalidPayload)
	}
	if strings.TrimSpace(n.Comments) == "" {
		return fmt.Errorf("%w: comments are required", ErrInvalidPayload)
	}
	return nil
}

// Moderation is a moderator's decision on a store or base product
type Moderation struct {
	Status *Status  `json:"status,omitempty"`
	Rating *float64 `json:"rating,omitempty"`
}

// Validate checks the payload
func (m *Moderation) Validate() error {
	if m.Status == nil && m.Rating == nil {
		return fmt.Errorf("%w: status or rating is required", ErrInvalidPayload)
	}
	if m.Status != nil && !m.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidPayload, *m.Status)
	}
	if m.Rating != nil && (*m.Rating < 0 || *m.Rating > 5) {
		return fmt.Errorf("%w: rating must be between 0 and 5", ErrInvalidPayload)
	}
	return nil
}
