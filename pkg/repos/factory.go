package repos

import (
	"context"
	"database/sql"

	"github.com/platinummonkey/stores/pkg/acl"
	"github.com/platinummonkey/stores/pkg/cache"
)

// Factory builds per-request ACLs and repositories bound to a connection
type Factory struct {
	evaluator *acl.Evaluator
	resolver  *acl.RoleResolver
	caches    *cache.Caches
}

// NewFactory wires the role resolver over db and the shared caches. caches may be nil.
func NewFactory(db *sql.DB, evaluator *acl.Evaluator, caches *cache.Caches) *Factory {
	var roleCache acl.RoleCache
	if caches != nil && caches.Roles != nil {
		roleCache = caches.Roles
	}
	return &Factory{
		evaluator: evaluator,
		resolver:  acl.NewRoleResolver(NewRoleStore(db), roleCache),
		caches:    caches,
	}
}

// Resolver returns the shared role resolver
func (f *Factory) Resolver() *acl.RoleResolver {
	return f.resolver
}

// ACL builds the ACL of a request. A nil userID yields the anonymous ACL.
// Ownership chains are followed on conn so they observe the request's own writes.
func (f *Factory) ACL(ctx context.Context, conn DBTX, userID *int64) (acl.ACL, error) {
	if userID == nil {
		return acl.NewUnauthorizedACL(f.evaluator), nil
	}
	roles, err := f.resolver.Roles(ctx, *userID)
	if err != nil {
		return nil, err
	}
	return acl.NewApplicationACL(f.evaluator, ownerLookup{db: conn}, *userID, roles), nil
}

// Bind returns a copy of a that follows ownership chains on conn.
// Anonymous and system ACLs do not read the database and are returned as is.
func (f *Factory) Bind(a acl.ACL, conn DBTX) acl.ACL {
	app, ok := a.(*acl.ApplicationACL)
	if !ok {
		return a
	}
	actor := app.Actor()
	return acl.NewApplicationACL(f.evaluator, ownerLookup{db: conn}, actor.UserID, actor.Roles)
}

// SystemACL returns the ACL for internal callers
func (f *Factory) SystemACL() acl.ACL {
	return acl.SystemACL{}
}

func (f *Factory) Stores(conn DBTX, a acl.ACL) *Stores             { return NewStores(conn, a) }
func (f *Factory) BaseProducts(conn DBTX, a acl.ACL) *BaseProducts { return NewBaseProducts(conn, a) }
func (f *Factory) Products(conn DBTX, a acl.ACL) *Products         { return NewProducts(conn, a) }
func (f *Factory) ProductAttrs(conn DBTX, a acl.ACL) *ProductAttrs { return NewProductAttrs(conn, a) }
func (f *Factory) CategoryAttrs(conn DBTX, a acl.ACL) *CategoryAttrs {
	return NewCategoryAttrs(conn, a)
}
func (f *Factory) CustomAttributes(conn DBTX, a acl.ACL) *CustomAttributes {
	return NewCustomAttributes(conn, a)
}
func (f *Factory) WizardStores(conn DBTX, a acl.ACL) *WizardStores { return NewWizardStores(conn, a) }
func (f *Factory) Coupons(conn DBTX, a acl.ACL) *Coupons           { return NewCoupons(conn, a) }
func (f *Factory) CouponScopeBaseProducts(conn DBTX, a acl.ACL) *CouponScopeBaseProducts {
	return NewCouponScopeBaseProducts(conn, a)
}
func (f *Factory) UsedCoupons(conn DBTX, a acl.ACL) *UsedCoupons { return NewUsedCoupons(conn, a) }
func (f *Factory) AttributeValues(conn DBTX, a acl.ACL) *AttributeValues {
	return NewAttributeValues(conn, a)
}
func (f *Factory) CurrencyExchange(conn DBTX, a acl.ACL) *CurrencyExchange {
	return NewCurrencyExchange(conn, a)
}
func (f *Factory) ModeratorProductComments(conn DBTX, a acl.ACL) *ModeratorProductComments {
	return NewModeratorProductComments(conn, a)
}
func (f *Factory) ModeratorStoreComments(conn DBTX, a acl.ACL) *ModeratorStoreComments {
	return NewModeratorStoreComments(conn, a)
}

// Attributes returns an attributes repository over the shared attribute cache
func (f *Factory) Attributes(conn DBTX, a acl.ACL) *Attributes {
	var c AttributeCache
	if f.caches != nil && f.caches.Attributes != nil {
		c = f.caches.Attributes
	}
	return NewAttributes(conn, a, c)
}

// Categories returns a categories repository over the shared category cache
func (f *Factory) Categories(conn DBTX, a acl.ACL) *Categories {
	var c CategoryCache
	if f.caches != nil && f.caches.Categories != nil {
		c = f.caches.Categories
	}
	return NewCategories(conn, a, c)
}

// UserRoles returns a user roles repository that invalidates the role resolver
func (f *Factory) UserRoles(conn DBTX, a acl.ACL) *UserRoles {
	return NewUserRoles(conn, a, f.resolver)
}
