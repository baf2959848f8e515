package acl

import (
	"errors"
	"fmt"
)

var (
	// ErrDenied is matched by every authorization refusal
	ErrDenied = errors.New("forbidden")

	// ErrOwnerNotFound is returned by an OwnerLookup when a link of an ownership chain is missing
	ErrOwnerNotFound = errors.New("ownership link not found")
)

// Reason explains a denial. It is meant for logs and never sent to callers.
type Reason string

const (
	ReasonNoGrant             Reason = "no_grant"
	ReasonNotOwner            Reason = "not_owner"
	ReasonOwnershipUnresolved Reason = "ownership_unresolved"
	ReasonAnonymous           Reason = "anonymous"
)

// DeniedError carries the context of a denied check
type DeniedError struct {
	Resource Resource
	Action   Action
	UserID   int64
	Reason   Reason
	Entity   string
}

func (e *DeniedError) Error() string {
	if e.Entity != "" {
		return fmt.Sprintf("forbidden: %s on %s (%s, entity %s)", e.Action, e.Resource, e.Reason, e.Entity)
	}
	return fmt.Sprintf("forbidden: %s on %s (%s)", e.Action, e.Resource, e.Reason)
}

// Is makes errors.Is(err, ErrDenied) match
func (e *DeniedError) Is(target error) bool {
	return target == ErrDenied
}

// IsDenied reports whether err is an authorization refusal
func IsDenied(err error) bool {
	return errors.Is(err, ErrDenied)
}
