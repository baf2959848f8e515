package services

import (
	"context"

	"github.com/platinummonkey/stores/pkg/acl"
	"github.com/platinummonkey/stores/pkg/models"
	"github.com/platinummonkey/stores/pkg/repos"
)

// StoresCart resolves cart lines to active variants and groups them by the
// store selling them. Stores keep the order of their first line. Lines whose
// variant, base product or store is gone are dropped.
func (s *Service) StoresCart(ctx context.Context, lines []models.CartProduct) ([]models.CartStore, error) {
	for _, line := range lines {
		if err := line.Validate(); err != nil {
			return nil, err
		}
	}
	return run(ctx, s, "StoresCart", func(ctx context.Context, conn repos.DBTX, a acl.ACL) ([]models.CartStore, error) {
		out := []models.CartStore{}
		if len(lines) == 0 {
			return out, nil
		}

		ids := make([]int64, len(lines))
		for i, line := range lines {
			ids[i] = line.ProductID
		}
		products, err := s.repos.Products(conn, a).FindMany(ctx, ids)
		if err != nil {
			return nil, err
		}
		conv, err := s.newConverter(ctx, conn)
		if err != nil {
			return nil, err
		}
		conv.products(ctx, products)
		byID := make(map[int64]models.Product, len(products))
		baseIDs := make([]int64, 0, len(products))
		for _, p := range products {
			byID[p.ID] = p
			baseIDs = append(baseIDs, p.BaseProductID)
		}

		bases, err := s.repos.BaseProducts(conn, a).FindMany(ctx, baseIDs)
		if err != nil {
			return nil, err
		}
		storeOf := make(map[int64]int64, len(bases))
		storeIDs := make([]int64, 0, len(bases))
		for _, bp := range bases {
			storeOf[bp.ID] = bp.StoreID
			storeIDs = append(storeIDs, bp.StoreID)
		}

		stores, err := s.repos.Stores(conn, a).FindMany(ctx, storeIDs)
		if err != nil {
			return nil, err
		}
		storeByID := make(map[int64]models.Store, len(stores))
		for _, st := range stores {
			storeByID[st.ID] = st
		}

		index := make(map[int64]int)
		for _, line := range lines {
			p, ok := byID[line.ProductID]
			if !ok {
				continue
			}
			storeID, ok := storeOf[p.BaseProductID]
			if !ok {
				continue
			}
			st, ok := storeByID[storeID]
			if !ok {
				continue
			}
			i, seen := index[storeID]
			if !seen {
				i = len(out)
				index[storeID] = i
				out = append(out, models.CartStore{Store: st})
			}
			out[i].Items = append(out[i].Items, models.CartItem{Product: p, Quantity: line.Quantity})
		}
		return out, nil
	})
}
