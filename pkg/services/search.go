package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/platinummonkey/stores/pkg/acl"
	"github.com/platinummonkey/stores/pkg/models"
	"github.com/platinummonkey/stores/pkg/observability"
	"github.com/platinummonkey/stores/pkg/repos"
)

// SearchStores finds stores by name and options, in relevance order
func (s *Service) SearchStores(ctx context.Context, req models.StoreSearch, count, offset int) ([]models.Store, error) {
	return traced(ctx, "SearchStores", func(ctx context.Context) ([]models.Store, error) {
		ids, err := s.search.SearchStores(ctx, req, count, offset)
		if err != nil {
			return nil, err
		}
		return run(ctx, s, "HydrateStores", func(ctx context.Context, conn repos.DBTX, a acl.ACL) ([]models.Store, error) {
			return s.repos.Stores(conn, a).FindMany(ctx, ids)
		})
	})
}

// AutoCompleteStores suggests store names
func (s *Service) AutoCompleteStores(ctx context.Context, name string, count int) ([]string, error) {
	return traced(ctx, "AutoCompleteStores", func(ctx context.Context) ([]string, error) {
		return s.search.AutoCompleteStores(ctx, name, count)
	})
}

// StoreNameExists reports whether an indexed store already uses name
func (s *Service) StoreNameExists(ctx context.Context, name string) (bool, error) {
	return traced(ctx, "StoreNameExists", func(ctx context.Context) (bool, error) {
		return s.search.StoreNameExists(ctx, name)
	})
}

// SearchBaseProducts finds base products by name and options, in relevance order
func (s *Service) SearchBaseProducts(ctx context.Context, req models.ProductSearch, count, offset int) ([]models.BaseProductWithVariants, error) {
	return traced(ctx, "SearchBaseProducts", func(ctx context.Context) ([]models.BaseProductWithVariants, error) {
		ids, err := s.search.SearchBaseProducts(ctx, req, count, offset)
		if err != nil {
			return nil, err
		}
		return s.hydrate(ctx, ids)
	})
}

// AutoCompleteProducts suggests base product names, optionally within one store
func (s *Service) AutoCompleteProducts(ctx context.Context, req models.AutoCompleteRequest, count int) ([]string, error) {
	return traced(ctx, "AutoCompleteProducts", func(ctx context.Context) ([]string, error) {
		return s.search.AutoCompleteProducts(ctx, req, count)
	})
}

// MostViewedBaseProducts returns the most viewed base products matching req
func (s *Service) MostViewedBaseProducts(ctx context.Context, req models.MostViewedRequest, count, offset int) ([]models.BaseProductWithVariants, error) {
	return traced(ctx, "MostViewedBaseProducts", func(ctx context.Context) ([]models.BaseProductWithVariants, error) {
		ids, err := s.search.MostViewedBaseProducts(ctx, req.Options, count, offset)
		if err != nil {
			return nil, err
		}
		return s.hydrate(ctx, ids)
	})
}

// MostDiscountBaseProducts returns the base products with the largest variant discount
func (s *Service) MostDiscountBaseProducts(ctx context.Context, req models.MostViewedRequest, count, offset int) ([]models.BaseProductWithVariants, error) {
	return traced(ctx, "MostDiscountBaseProducts", func(ctx context.Context) ([]models.BaseProductWithVariants, error) {
		ids, err := s.search.MostDiscountBaseProducts(ctx, req.Options, count, offset)
		if err != nil {
			return nil, err
		}
		return s.hydrate(ctx, ids)
	})
}

// SearchPriceRange returns the price bounds of the variants matching req
func (s *Service) SearchPriceRange(ctx context.Context, req models.ProductSearch) (*models.PriceRange, error) {
	return traced(ctx, "SearchPriceRange", func(ctx context.Context) (*models.PriceRange, error) {
		return s.search.PriceRange(ctx, req)
	})
}

// SearchFiltersCategories returns the category tree pruned to the categories
// of the base products matching req
func (s *Service) SearchFiltersCategories(ctx context.Context, req models.ProductSearch) (*models.Category, error) {
	return traced(ctx, "SearchFiltersCategories", func(ctx context.Context) (*models.Category, error) {
		filters, err := s.search.ProductFilters(ctx, req)
		if err != nil {
			return nil, err
		}
		return s.prunedCategoryTree(ctx, filters.CategoryIDs)
	})
}

// SearchFiltersAttributes returns the attribute filters available for req
func (s *Service) SearchFiltersAttributes(ctx context.Context, req models.ProductSearch) ([]models.AttributeFilter, error) {
	return traced(ctx, "SearchFiltersAttributes", func(ctx context.Context) ([]models.AttributeFilter, error) {
		filters, err := s.search.ProductFilters(ctx, req)
		if err != nil {
			return nil, err
		}
		return filters.AttrFilters, nil
	})
}

// SearchFiltersCount counts the base products matching req
func (s *Service) SearchFiltersCount(ctx context.Context, req models.ProductSearch) (int64, error) {
	return traced(ctx, "SearchFiltersCount", func(ctx context.Context) (int64, error) {
		return s.search.CountBaseProducts(ctx, req)
	})
}

// StoreSearchFiltersCount counts the stores matching req
func (s *Service) StoreSearchFiltersCount(ctx context.Context, req models.StoreSearch) (int64, error) {
	return traced(ctx, "StoreSearchFiltersCount", func(ctx context.Context) (int64, error) {
		return s.search.CountStores(ctx, req)
	})
}

// StoreSearchFiltersCountries lists the countries of the stores matching req
func (s *Service) StoreSearchFiltersCountries(ctx context.Context, req models.StoreSearch) ([]string, error) {
	return traced(ctx, "StoreSearchFiltersCountries", func(ctx context.Context) ([]string, error) {
		return s.search.StoreCountries(ctx, req)
	})
}

// StoreSearchFiltersCategories returns the category tree pruned to the
// categories of the stores matching req
func (s *Service) StoreSearchFiltersCategories(ctx context.Context, req models.StoreSearch) (*models.Category, error) {
	return traced(ctx, "StoreSearchFiltersCategories", func(ctx context.Context) (*models.Category, error) {
		ids, err := s.search.StoreCategories(ctx, req)
		if err != nil {
			return nil, err
		}
		return s.prunedCategoryTree(ctx, ids)
	})
}

func (s *Service) prunedCategoryTree(ctx context.Context, ids []int64) (*models.Category, error) {
	tree, err := s.CategoryTree(ctx)
	if err != nil {
		return nil, err
	}
	return tree.Prune(ids), nil
}

// hydrate loads base products for index hits, keeping index order. Hits the
// caller may not read or that are no longer active are dropped.
func (s *Service) hydrate(ctx context.Context, ids []int64) ([]models.BaseProductWithVariants, error) {
	return run(ctx, s, "HydrateBaseProducts", func(ctx context.Context, conn repos.DBTX, a acl.ACL) ([]models.BaseProductWithVariants, error) {
		baseProducts, err := s.repos.BaseProducts(conn, a).FindMany(ctx, ids)
		if err != nil {
			return nil, err
		}
		conv, err := s.newConverter(ctx, conn)
		if err != nil {
			return nil, err
		}

		out := make([]models.BaseProductWithVariants, len(baseProducts))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(s.pool.Size())
		for i := range baseProducts {
			g.Go(func() (err error) {
				defer func() {
					if perr := observability.MustRecover(recover()); perr != nil {
						err = perr
					}
				}()
				variants, err := s.variants(gctx, conn, a, baseProducts[i].ID)
				if err != nil {
					return err
				}
				conv.variants(gctx, variants)
				out[i] = models.BaseProductWithVariants{BaseProduct: baseProducts[i], Variants: variants}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return out, nil
	})
}
