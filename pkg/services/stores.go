package services

import (
	"context"
	"database/sql"

	"github.com/platinummonkey/stores/pkg/acl"
	"github.com/platinummonkey/stores/pkg/models"
	"github.com/platinummonkey/stores/pkg/repos"
)

// GetStore returns an active store
func (s *Service) GetStore(ctx context.Context, id int64) (*models.Store, error) {
	return run(ctx, s, "GetStore", func(ctx context.Context, conn repos.DBTX, a acl.ACL) (*models.Store, error) {
		return s.repos.Stores(conn, a).Find(ctx, id)
	})
}

// GetStoreBySlug returns the active store with slug
func (s *Service) GetStoreBySlug(ctx context.Context, slug string) (*models.Store, error) {
	return run(ctx, s, "GetStoreBySlug", func(ctx context.Context, conn repos.DBTX, a acl.ACL) (*models.Store, error) {
		return s.repos.Stores(conn, a).FindBySlug(ctx, slug)
	})
}

// GetStoreByUserID returns the active store owned by userID
func (s *Service) GetStoreByUserID(ctx context.Context, userID int64) (*models.Store, error) {
	return run(ctx, s, "GetStoreByUserID", func(ctx context.Context, conn repos.DBTX, a acl.ACL) (*models.Store, error) {
		return s.repos.Stores(conn, a).FindByUserID(ctx, userID)
	})
}

// ListStores returns up to count stores starting at id from
func (s *Service) ListStores(ctx context.Context, from int64, count int) ([]models.Store, error) {
	return run(ctx, s, "ListStores", func(ctx context.Context, conn repos.DBTX, a acl.ACL) ([]models.Store, error) {
		return s.repos.Stores(conn, a).List(ctx, from, count)
	})
}

// CountStores returns the number of active stores
func (s *Service) CountStores(ctx context.Context) (int64, error) {
	return run(ctx, s, "CountStores", func(ctx context.Context, conn repos.DBTX, a acl.ACL) (int64, error) {
		return s.repos.Stores(conn, a).Count(ctx, false)
	})
}

// StoreSlugExists reports whether slug is taken
func (s *Service) StoreSlugExists(ctx context.Context, slug string) (bool, error) {
	return run(ctx, s, "StoreSlugExists", func(ctx context.Context, conn repos.DBTX, a acl.ACL) (bool, error) {
		return s.repos.Stores(conn, a).SlugExists(ctx, slug)
	})
}

// CreateStore creates a store
func (s *Service) CreateStore(ctx context.Context, payload *models.NewStore) (*models.Store, error) {
	return run(ctx, s, "CreateStore", func(ctx context.Context, conn repos.DBTX, a acl.ACL) (*models.Store, error) {
		return s.repos.Stores(conn, a).Create(ctx, payload)
	})
}

// UpdateStore applies a partial update
func (s *Service) UpdateStore(ctx context.Context, id int64, payload *models.UpdateStore) (*models.Store, error) {
	return run(ctx, s, "UpdateStore", func(ctx context.Context, conn repos.DBTX, a acl.ACL) (*models.Store, error) {
		return s.repos.Stores(conn, a).Update(ctx, id, payload)
	})
}

// ModerateStore records a moderator's status or rating decision on a store
func (s *Service) ModerateStore(ctx context.Context, id int64, payload *models.Moderation) (*models.Store, error) {
	return run(ctx, s, "ModerateStore", func(ctx context.Context, conn repos.DBTX, a acl.ACL) (*models.Store, error) {
		return s.repos.Stores(conn, a).Moderate(ctx, id, payload)
	})
}

// DeactivateStore hides a store together with its base products and variants
func (s *Service) DeactivateStore(ctx context.Context, id int64) (*models.Store, error) {
	return inTx(ctx, s, "DeactivateStore", func(ctx context.Context, tx *sql.Tx, a acl.ACL) (*models.Store, error) {
		store, err := s.repos.Stores(tx, a).Deactivate(ctx, id)
		if err != nil {
			return nil, err
		}
		baseProducts, err := s.repos.BaseProducts(tx, a).ListAllByStore(ctx, id)
		if err != nil {
			return nil, err
		}
		for _, bp := range baseProducts {
			if _, err := s.deactivateBaseProduct(ctx, tx, a, bp.ID); err != nil {
				return nil, err
			}
		}
		return store, nil
	})
}

// ListStoreProducts returns the active base products of a store
func (s *Service) ListStoreProducts(ctx context.Context, storeID, from int64, count int) ([]models.BaseProduct, error) {
	return run(ctx, s, "ListStoreProducts", func(ctx context.Context, conn repos.DBTX, a acl.ACL) ([]models.BaseProduct, error) {
		if _, err := s.repos.Stores(conn, a).Find(ctx, storeID); err != nil {
			return nil, err
		}
		return s.repos.BaseProducts(conn, a).ListByStore(ctx, storeID, from, count)
	})
}

// CountStoreProducts returns how many active base products a store has
func (s *Service) CountStoreProducts(ctx context.Context, storeID int64) (int64, error) {
	return run(ctx, s, "CountStoreProducts", func(ctx context.Context, conn repos.DBTX, a acl.ACL) (int64, error) {
		if _, err := s.repos.Stores(conn, a).Find(ctx, storeID); err != nil {
			return 0, err
		}
		return s.repos.BaseProducts(conn, a).CountByStore(ctx, storeID)
	})
}
