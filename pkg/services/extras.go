package services

import (
	"context"

	"github.com/platinummonkey/stores/pkg/acl"
	"github.com/platinummonkey/stores/pkg/models"
	"github.com/platinummonkey/stores/pkg/repos"
)

// GetWizardStore returns the caller's store draft
func (s *Service) GetWizardStore(ctx context.Context) (*models.WizardStore, error) {
	return run(ctx, s, "GetWizardStore", func(ctx context.Context, conn repos.DBTX, a acl.ACL) (*models.WizardStore, error) {
		return s.repos.WizardStores(conn, a).FindByUserID(ctx, callerID(ctx))
	})
}

// CreateWizardStore starts a store draft for the caller
func (s *Service) CreateWizardStore(ctx context.Context) (*models.WizardStore, error) {
	return run(ctx, s, "CreateWizardStore", func(ctx context.Context, conn repos.DBTX, a acl.ACL) (*models.WizardStore, error) {
		return s.repos.WizardStores(conn, a).Create(ctx, &models.NewWizardStore{UserID: callerID(ctx)})
	})
}

// UpdateWizardStore updates the caller's store draft
func (s *Service) UpdateWizardStore(ctx context.Context, payload *models.UpdateWizardStore) (*models.WizardStore, error) {
	return run(ctx, s, "UpdateWizardStore", func(ctx context.Context, conn repos.DBTX, a acl.ACL) (*models.WizardStore, error) {
		return s.repos.WizardStores(conn, a).Update(ctx, callerID(ctx), payload)
	})
}

// DeleteWizardStore discards the caller's store draft
func (s *Service) DeleteWizardStore(ctx context.Context) (*models.WizardStore, error) {
	return run(ctx, s, "DeleteWizardStore", func(ctx context.Context, conn repos.DBTX, a acl.ACL) (*models.WizardStore, error) {
		return s.repos.WizardStores(conn, a).Delete(ctx, callerID(ctx))
	})
}

// ListModeratorProductComments returns the moderation comments of a base product, latest first
func (s *Service) ListModeratorProductComments(ctx context.Context, baseProductID int64) ([]models.ModeratorProductComment, error) {
	return run(ctx, s, "ListModeratorProductComments", func(ctx context.Context, conn repos.DBTX, a acl.ACL) ([]models.ModeratorProductComment, error) {
		return s.repos.ModeratorProductComments(conn, a).FindByBaseProduct(ctx, baseProductID)
	})
}

// CreateModeratorProductComment records a moderation comment on a base product.
// The caller is the moderator unless the payload names one.
func (s *Service) CreateModeratorProductComment(ctx context.Context, payload *models.NewModeratorProductComment) (*models.ModeratorProductComment, error) {
	return run(ctx, s, "CreateModeratorProductComment", func(ctx context.Context, conn repos.DBTX, a acl.ACL) (*models.ModeratorProductComment, error) {
		if payload.ModeratorID == 0 {
			payload.ModeratorID = callerID(ctx)
		}
		return s.repos.ModeratorProductComments(conn, a).Create(ctx, payload)
	})
}

// ListModeratorStoreComments returns the moderation comments of a store, latest first
func (s *Service) ListModeratorStoreComments(ctx context.Context, storeID int64) ([]models.ModeratorStoreComment, error) {
	return run(ctx, s, "ListModeratorStoreComments", func(ctx context.Context, conn repos.DBTX, a acl.ACL) ([]models.ModeratorStoreComment, error) {
		return s.repos.ModeratorStoreComments(conn, a).FindByStore(ctx, storeID)
	})
}

// CreateModeratorStoreComment records a moderation comment on a store
func (s *Service) CreateModeratorStoreComment(ctx context.Context, payload *models.NewModeratorStoreComment) (*models.ModeratorStoreComment, error) {
	return run(ctx, s, "CreateModeratorStoreComment", func(ctx context.Context, conn repos.DBTX, a acl.ACL) (*models.ModeratorStoreComment, error) {
		if payload.ModeratorID == 0 {
			payload.ModeratorID = callerID(ctx)
		}
		return s.repos.ModeratorStoreComments(conn, a).Create(ctx, payload)
	})
}

// ListCustomAttributes returns the custom attributes of a base product
func (s *Service) ListCustomAttributes(ctx context.Context, baseProductID int64) ([]models.CustomAttribute, error) {
	return run(ctx, s, "ListCustomAttributes", func(ctx context.Context, conn repos.DBTX, a acl.ACL) ([]models.CustomAttribute, error) {
		return s.repos.CustomAttributes(conn, a).ListByBaseProduct(ctx, baseProductID)
	})
}

// CreateCustomAttribute attaches an attribute to a base product
func (s *Service) CreateCustomAttribute(ctx context.Context, payload *models.NewCustomAttribute) (*models.CustomAttribute, error) {
	return run(ctx, s, "CreateCustomAttribute", func(ctx context.Context, conn repos.DBTX, a acl.ACL) (*models.CustomAttribute, error) {
		return s.repos.CustomAttributes(conn, a).Create(ctx, payload)
	})
}

// DeleteCustomAttribute detaches a custom attribute
func (s *Service) DeleteCustomAttribute(ctx context.Context, id int64) (*models.CustomAttribute, error) {
	return run(ctx, s, "DeleteCustomAttribute", func(ctx context.Context, conn repos.DBTX, a acl.ACL) (*models.CustomAttribute, error) {
		return s.repos.CustomAttributes(conn, a).Delete(ctx, id)
	})
}

// GetCoupon returns a coupon
func (s *Service) GetCoupon(ctx context.Context, id int64) (*models.Coupon, error) {
	return run(ctx, s, "GetCoupon", func(ctx context.Context, conn repos.DBTX, a acl.ACL) (*models.Coupon, error) {
		return s.repos.Coupons(conn, a).Find(ctx, id)
	})
}

// GetCouponByCode returns the coupon with code
func (s *Service) GetCouponByCode(ctx context.Context, code string) (*models.Coupon, error) {
	return run(ctx, s, "GetCouponByCode", func(ctx context.Context, conn repos.DBTX, a acl.ACL) (*models.Coupon, error) {
		return s.repos.Coupons(conn, a).FindByCode(ctx, code)
	})
}

// ListStoreCoupons returns the coupons of a store
func (s *Service) ListStoreCoupons(ctx context.Context, storeID int64) ([]models.Coupon, error) {
	return run(ctx, s, "ListStoreCoupons", func(ctx context.Context, conn repos.DBTX, a acl.ACL) ([]models.Coupon, error) {
		return s.repos.Coupons(conn, a).ListByStore(ctx, storeID)
	})
}

// CreateCoupon creates a coupon
func (s *Service) CreateCoupon(ctx context.Context, payload *models.NewCoupon) (*models.Coupon, error) {
	return run(ctx, s, "CreateCoupon", func(ctx context.Context, conn repos.DBTX, a acl.ACL) (*models.Coupon, error) {
		return s.repos.Coupons(conn, a).Create(ctx, payload)
	})
}

// UpdateCoupon applies a partial update to a coupon
func (s *Service) UpdateCoupon(ctx context.Context, id int64, payload *models.UpdateCoupon) (*models.Coupon, error) {
	return run(ctx, s, "UpdateCoupon", func(ctx context.Context, conn repos.DBTX, a acl.ACL) (*models.Coupon, error) {
		return s.repos.Coupons(conn, a).Update(ctx, id, payload)
	})
}

// DeleteCoupon deletes a coupon
func (s *Service) DeleteCoupon(ctx context.Context, id int64) (*models.Coupon, error) {
	return run(ctx, s, "DeleteCoupon", func(ctx context.Context, conn repos.DBTX, a acl.ACL) (*models.Coupon, error) {
		return s.repos.Coupons(conn, a).Delete(ctx, id)
	})
}
