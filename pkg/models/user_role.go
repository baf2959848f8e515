package models

import (
	"fmt"
	"time"

	"github.com/platinummonkey/stores/pkg/acl"
)

// UserRole assigns a role to a user
type UserRole struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Name      acl.Role  `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// OwnershipField exposes the user the role belongs to
func (u *UserRole) OwnershipField(name string) (int64, bool) {
	if name == "user_id" {
		return u.UserID, true
	}
	return 0, false
}

// NewUserRole is the payload for granting a role
type NewUserRole struct {
	UserID int64    `json:"user_id"`
	Name   acl.Role `json:"name"`
}

// OwnershipField exposes the user the role will belong to
func (n *NewUserRole) OwnershipField(name string) (int64, bool) {
	if name == "user_id" {
		return n.UserID, true
	}
	return 0, false
}

// Validate checks the payload
func (n *NewUserRole) Validate() error {
	if n.UserID <= 0 {
		return fmt.Errorf("%w: user_id must be positive", ErrInvalidPayload)
	}
	if !n.Name.Assignable() {
		return fmt.Errorf("%w: role %q cannot be assigned", ErrInvalidPayload, n.Name)
	}
	return nil
}

// OldUserRole identifies a role grant to revoke
type OldUserRole struct {
	UserID int64    `json:"user_id"`
	Name   acl.Role `json:"name"`
}

// OwnershipField exposes the user the role belongs to
func (o *OldUserRole) OwnershipField(name string) (int64, bool) {
	if name == "user_id" {
		return o.UserID, true
	}
	return 0, false
}
