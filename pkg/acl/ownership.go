package acl

import (
	"context"
	"errors"
	"fmt"
	"regexp"
)

// OwnerField is the terminal column of every ownership chain
const OwnerField = "user_id"

// Entity is a concrete instance, or a create payload standing in for one,
// that can be placed on an ownership chain.
type Entity interface {
	// OwnershipField returns the value of the named link column
	OwnershipField(name string) (int64, bool)
}

// OwnerLookup fetches a single column of a row by id.
// Implementations return ErrOwnerNotFound when the row is missing or the column is NULL.
type OwnerLookup interface {
	LookupColumn(ctx context.Context, table, column string, id int64) (int64, error)
}

// Hop is one foreign-key step: SELECT Column FROM Table WHERE id = <previous link>
type Hop struct {
	Table  string
	Column string
}

// Chain is the fixed path from an entity to its owning user id.
// With no hops, Field holds the owner id itself.
type Chain struct {
	Field string
	Hops  []Hop
}

var identifierPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// Validate ensures the chain terminates at the owner field, never visits a table
// twice and only names safe identifiers
func (c Chain) Validate() error {
	if !identifierPattern.MatchString(c.Field) {
		return fmt.Errorf("invalid chain field %q", c.Field)
	}
	if len(c.Hops) == 0 {
		if c.Field != OwnerField {
			return fmt.Errorf("chain without hops must start at %s, got %s", OwnerField, c.Field)
		}
		return nil
	}
	seen := make(map[string]bool, len(c.Hops))
	for _, h := range c.Hops {
		if !identifierPattern.MatchString(h.Table) || !identifierPattern.MatchString(h.Column) {
			return fmt.Errorf("invalid hop %s.%s", h.Table, h.Column)
		}
		if seen[h.Table] {
			return fmt.Errorf("chain visits %s twice", h.Table)
		}
		seen[h.Table] = true
	}
	if last := c.Hops[len(c.Hops)-1]; last.Column != OwnerField {
		return fmt.Errorf("chain must end at %s, ends at %s.%s", OwnerField, last.Table, last.Column)
	}
	return nil
}

// Resolve walks the chain from the entity to the owning user id.
// Any missing link yields ErrOwnerNotFound; other lookup errors are returned wrapped.
func (c Chain) Resolve(ctx context.Context, lookup OwnerLookup, entity Entity) (int64, error) {
	if entity == nil {
		return 0, ErrOwnerNotFound
	}
	link, ok := entity.OwnershipField(c.Field)
	if !ok || link <= 0 {
		return 0, ErrOwnerNotFound
	}
	for _, hop := range c.Hops {
		if lookup == nil {
			return 0, ErrOwnerNotFound
		}
		next, err := lookup.LookupColumn(ctx, hop.Table, hop.Column, link)
		if err != nil {
			if errors.Is(err, ErrOwnerNotFound) {
				return 0, ErrOwnerNotFound
			}
			return 0, fmt.Errorf("failed to resolve %s.%s for id %d: %w", hop.Table, hop.Column, link, err)
		}
		link = next
	}
	return link, nil
}

var storeOwner = Hop{Table: "stores", Column: OwnerField}

// Chains maps a resource to its ownership chain
type Chains map[Resource]Chain

// DefaultChains is the ownership table of the stores domain
var DefaultChains = Chains{
	ResourceStores:       {Field: OwnerField},
	ResourceUserRoles:    {Field: OwnerField},
	ResourceWizardStores: {Field: OwnerField},
	ResourceBaseProducts: {Field: "store_id", Hops: []Hop{storeOwner}},
	ResourceCoupons:      {Field: "store_id", Hops: []Hop{storeOwner}},
	ResourceUsedCoupons:  {Field: OwnerField},
	ResourceCouponScopeBaseProducts: {Field: "coupon_id", Hops: []Hop{
		{Table: "coupons", Column: "store_id"},
		storeOwner,
	}},
	ResourceProducts: {Field: "base_product_id", Hops: []Hop{
		{Table: "base_products", Column: "store_id"},
		storeOwner,
	}},
	ResourceCustomAttributes: {Field: "base_product_id", Hops: []Hop{
		{Table: "base_products", Column: "store_id"},
		storeOwner,
	}},
	ResourceProductAttrs: {Field: "prod_id", Hops: []Hop{
		{Table: "products", Column: "base_product_id"},
		{Table: "base_products", Column: "store_id"},
		storeOwner,
	}},
}

// Validate checks every chain and that each resource is known
func (c Chains) Validate() error {
	for res, chain := range c {
		if _, err := ParseResource(string(res)); err != nil {
			return err
		}
		if err := chain.Validate(); err != nil {
			return fmt.Errorf("chain for %s: %w", res, err)
		}
	}
	return nil
}
