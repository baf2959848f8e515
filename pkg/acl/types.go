package acl

import "fmt"

// Role is a label conferring a set of permission grants on the user holding it
type Role string

const (
	RoleSuperuser Role = "superuser"
	RoleModerator Role = "moderator"
	RoleUser      Role = "user"

	// RoleGuest is held implicitly by every actor, including anonymous ones.
	// It is never persisted.
	RoleGuest Role = "guest"
)

// Roles lists every known role
var Roles = []Role{RoleSuperuser, RoleModerator, RoleUser, RoleGuest}

// Assignable reports whether the role may be stored for a user
func (r Role) Assignable() bool {
	switch r {
	case RoleSuperuser, RoleModerator, RoleUser:
		return true
	}
	return false
}

// ParseRole validates a role name
func ParseRole(s string) (Role, error) {
	for _, r := range Roles {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Resource is the category of entity an authorization rule applies to
type Resource string

const (
	ResourceStores                   Resource = "stores"
	ResourceBaseProducts             Resource = "base_products"
	ResourceProducts                 Resource = "products"
	ResourceProductAttrs             Resource = "product_attrs"
	ResourceAttributes               Resource = "attributes"
	ResourceCategories               Resource = "categories"
	ResourceCategoryAttrs            Resource = "category_attrs"
	ResourceUserRoles                Resource = "user_roles"
	ResourceModeratorProductComments Resource = "moderator_product_comments"
	ResourceModeratorStoreComments   Resource = "moderator_store_comments"
	ResourceWizardStores             Resource = "wizard_stores"
	ResourceCurrencyExchange         Resource = "currency_exchange"
	ResourceCustomAttributes         Resource = "custom_attributes"
	ResourceCoupons                  Resource = "coupons"
	ResourceCouponScopeBaseProducts  Resource = "coupon_scope_base_products"
	ResourceUsedCoupons              Resource = "used_coupons"
	ResourceAttributeValues          Resource = "attribute_values"
)

// Resources lists every known resource
var Resources = []Resource{
	ResourceStores,
	ResourceBaseProducts,
	ResourceProducts,
	ResourceProductAttrs,
	ResourceAttributes,
	ResourceCategories,
	ResourceCategoryAttrs,
	ResourceUserRoles,
	ResourceModeratorProductComments,
	ResourceModeratorStoreComments,
	ResourceWizardStores,
	ResourceCurrencyExchange,
	ResourceCustomAttributes,
	ResourceCoupons,
	ResourceCouponScopeBaseProducts,
	ResourceUsedCoupons,
	ResourceAttributeValues,
}

// ParseResource validates a resource name
func ParseResource(s string) (Resource, error) {
	for _, r := range Resources {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown resource %q", s)
}

// Action is an operation performed on a resource
type Action string

const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Actions lists every known action
var Actions = []Action{ActionRead, ActionCreate, ActionUpdate, ActionDelete}

// ParseAction validates an action name
func ParseAction(s string) (Action, error) {
	for _, a := range Actions {
		if string(a) == s {
			return a, nil
		}
	}
	return "", fmt.Errorf("unknown action %q", s)
}

// Scope qualifies a grant. The zero value means no grant.
type Scope int

const (
	ScopeNone Scope = iota
	ScopeOwned
	ScopeAll
)

// String returns the scope name used in the rules file
func (s Scope) String() string {
	switch s {
	case ScopeOwned:
		return "owned"
	case ScopeAll:
		return "all"
	}
	return "none"
}

// ParseScope validates a scope name
func ParseScope(s string) (Scope, error) {
	switch s {
	case "all":
		return ScopeAll, nil
	case "owned":
		return ScopeOwned, nil
	}
	return ScopeNone, fmt.Errorf("unknown scope %q", s)
}

// Permission is a resource and action pair
type Permission struct {
	Resource Resource `json:"resource"`
	Action   Action   `json:"action"`
}

// String returns a string representation of the permission
func (p Permission) String() string {
	return string(p.Resource) + ":" + string(p.Action)
}
