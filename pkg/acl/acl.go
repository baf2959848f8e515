// Package acl decides whether an actor may perform an action on a resource.
//
// Decisions come from a static permission table mapping (role, resource, action)
// to a scope. An actor gets the most permissive scope granted by any of its roles.
// ScopeAll allows unconditionally; ScopeOwned allows only when the entity's
// ownership chain resolves to the actor's user id.
package acl

import "context"

// ACL is the per-request authorization capability handed to repositories
type ACL interface {
	// Check returns nil when allowed and an error matching ErrDenied otherwise.
	// Only infrastructure failures return other errors.
	Check(ctx context.Context, resource Resource, action Action, entity Entity) error
}

// ApplicationACL evaluates checks for an authenticated user
type ApplicationACL struct {
	evaluator *Evaluator
	lookup    OwnerLookup
	actor     Actor
}

// NewApplicationACL creates an ACL for a user with resolved roles.
// lookup is bound to the connection the request is using.
func NewApplicationACL(evaluator *Evaluator, lookup OwnerLookup, userID int64, roles []Role) *ApplicationACL {
	return &ApplicationACL{
		evaluator: evaluator,
		lookup:    lookup,
		actor:     Actor{UserID: userID, Roles: roles},
	}
}

// Check implements ACL
func (a *ApplicationACL) Check(ctx context.Context, resource Resource, action Action, entity Entity) error {
	return a.evaluator.Check(ctx, a.lookup, a.actor, resource, action, entity)
}

// Actor returns the user and roles the ACL evaluates for
func (a *ApplicationACL) Actor() Actor {
	return a.actor
}

// UnauthorizedACL evaluates checks for anonymous callers: only guest grants apply
type UnauthorizedACL struct {
	evaluator *Evaluator
}

// NewUnauthorizedACL creates the anonymous ACL
func NewUnauthorizedACL(evaluator *Evaluator) *UnauthorizedACL {
	return &UnauthorizedACL{evaluator: evaluator}
}

// Check implements ACL
func (a *UnauthorizedACL) Check(ctx context.Context, resource Resource, action Action, entity Entity) error {
	return a.evaluator.Check(ctx, nil, Actor{}, resource, action, entity)
}

// SystemACL allows everything. It is reserved for internal operations such as
// loading a user's own roles before an ApplicationACL can exist.
type SystemACL struct{}

// Check implements ACL
func (SystemACL) Check(context.Context, Resource, Action, Entity) error {
	return nil
}
