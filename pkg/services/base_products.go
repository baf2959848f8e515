package services

import (
	"context"
	"database/sql"

	"github.com/platinummonkey/stores/pkg/acl"
	"github.com/platinummonkey/stores/pkg/models"
	"github.com/platinummonkey/stores/pkg/repos"
)

// GetBaseProduct returns an active base product
func (s *Service) GetBaseProduct(ctx context.Context, id int64) (*models.BaseProduct, error) {
	return run(ctx, s, "GetBaseProduct", func(ctx context.Context, conn repos.DBTX, a acl.ACL) (*models.BaseProduct, error) {
		return s.repos.BaseProducts(conn, a).Find(ctx, id)
	})
}

// GetBaseProductByProduct returns the base product a variant belongs to
func (s *Service) GetBaseProductByProduct(ctx context.Context, productID int64) (*models.BaseProduct, error) {
	return run(ctx, s, "GetBaseProductByProduct", func(ctx context.Context, conn repos.DBTX, a acl.ACL) (*models.BaseProduct, error) {
		return s.repos.BaseProducts(conn, a).FindByProduct(ctx, productID)
	})
}

// ListBaseProducts returns up to count base products starting at id from
func (s *Service) ListBaseProducts(ctx context.Context, from int64, count int) ([]models.BaseProduct, error) {
	return run(ctx, s, "ListBaseProducts", func(ctx context.Context, conn repos.DBTX, a acl.ACL) ([]models.BaseProduct, error) {
		return s.repos.BaseProducts(conn, a).List(ctx, from, count)
	})
}

// GetBaseProductWithVariants returns a base product with its variants and
// their attributes, prices converted to the requested currency
func (s *Service) GetBaseProductWithVariants(ctx context.Context, id int64) (*models.BaseProductWithVariants, error) {
	return run(ctx, s, "GetBaseProductWithVariants", func(ctx context.Context, conn repos.DBTX, a acl.ACL) (*models.BaseProductWithVariants, error) {
		bp, err := s.repos.BaseProducts(conn, a).Find(ctx, id)
		if err != nil {
			return nil, err
		}
		conv, err := s.newConverter(ctx, conn)
		if err != nil {
			return nil, err
		}
		variants, err := s.variants(ctx, conn, a, bp.ID)
		if err != nil {
			return nil, err
		}
		conv.variants(ctx, variants)
		return &models.BaseProductWithVariants{BaseProduct: *bp, Variants: variants}, nil
	})
}

// variants loads the active variants of a base product with their attributes
func (s *Service) variants(ctx context.Context, conn repos.DBTX, a acl.ACL, baseProductID int64) ([]models.ProductWithAttributes, error) {
	products, err := s.repos.Products(conn, a).FindWithBaseID(ctx, baseProductID)
	if err != nil {
		return nil, err
	}
	attrs, err := s.repos.ProductAttrs(conn, a).ListByBaseProduct(ctx, baseProductID)
	if err != nil {
		return nil, err
	}

	byProduct := make(map[int64][]models.ProductAttr, len(products))
	for _, attr := range attrs {
		byProduct[attr.ProdID] = append(byProduct[attr.ProdID], attr)
	}
	out := make([]models.ProductWithAttributes, 0, len(products))
	for _, p := range products {
		pa := byProduct[p.ID]
		if pa == nil {
			pa = []models.ProductAttr{}
		}
		out = append(out, models.ProductWithAttributes{Product: p, Attributes: pa})
	}
	return out, nil
}

// CreateBaseProduct creates a base product and its initial variants in one transaction
func (s *Service) CreateBaseProduct(ctx context.Context, payload *models.NewBaseProductWithVariants) (*models.BaseProductWithVariants, error) {
	return inTx(ctx, s, "CreateBaseProduct", func(ctx context.Context, tx *sql.Tx, a acl.ACL) (*models.BaseProductWithVariants, error) {
		bp, err := s.repos.BaseProducts(tx, a).Create(ctx, &payload.NewBaseProduct)
		if err != nil {
			return nil, err
		}
		out := &models.BaseProductWithVariants{BaseProduct: *bp, Variants: []models.ProductWithAttributes{}}
		for _, v := range payload.Variants {
			v.Product.BaseProductID = bp.ID
			variant, err := s.createProduct(ctx, tx, a, &v)
			if err != nil {
				return nil, err
			}
			out.Variants = append(out.Variants, *variant)
		}
		return out, nil
	})
}

// UpdateBaseProduct applies a partial update
func (s *Service) UpdateBaseProduct(ctx context.Context, id int64, payload *models.UpdateBaseProduct) (*models.BaseProduct, error) {
	return run(ctx, s, "UpdateBaseProduct", func(ctx context.Context, conn repos.DBTX, a acl.ACL) (*models.BaseProduct, error) {
		return s.repos.BaseProducts(conn, a).Update(ctx, id, payload)
	})
}

// ModerateBaseProduct records a moderator's status or rating decision on a base product
func (s *Service) ModerateBaseProduct(ctx context.Context, id int64, payload *models.Moderation) (*models.BaseProduct, error) {
	return run(ctx, s, "ModerateBaseProduct", func(ctx context.Context, conn repos.DBTX, a acl.ACL) (*models.BaseProduct, error) {
		return s.repos.BaseProducts(conn, a).Moderate(ctx, id, payload)
	})
}

// DeactivateBaseProduct hides a base product and its variants
func (s *Service) DeactivateBaseProduct(ctx context.Context, id int64) (*models.BaseProduct, error) {
	return inTx(ctx, s, "DeactivateBaseProduct", func(ctx context.Context, tx *sql.Tx, a acl.ACL) (*models.BaseProduct, error) {
		return s.deactivateBaseProduct(ctx, tx, a, id)
	})
}

func (s *Service) deactivateBaseProduct(ctx context.Context, tx *sql.Tx, a acl.ACL, id int64) (*models.BaseProduct, error) {
	bp, err := s.repos.BaseProducts(tx, a).Deactivate(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.repos.Products(tx, a).DeactivateByBaseProduct(ctx, id); err != nil {
		return nil, err
	}
	if _, err := s.repos.ProductAttrs(tx, a).DeleteByBaseProduct(ctx, id); err != nil {
		return nil, err
	}
	return bp, nil
}

// IncrementBaseProductViews counts one view of a base product
func (s *Service) IncrementBaseProductViews(ctx context.Context, id int64) (*models.BaseProduct, error) {
	return run(ctx, s, "IncrementBaseProductViews", func(ctx context.Context, conn repos.DBTX, a acl.ACL) (*models.BaseProduct, error) {
		return s.repos.BaseProducts(conn, a).IncrementViews(ctx, id)
	})
}

// SetBaseProductCurrency changes the currency of a base product and all its active variants
func (s *Service) SetBaseProductCurrency(ctx context.Context, id int64, currency models.Currency) (*models.BaseProduct, error) {
	return inTx(ctx, s, "SetBaseProductCurrency", func(ctx context.Context, tx *sql.Tx, a acl.ACL) (*models.BaseProduct, error) {
		bp, err := s.repos.BaseProducts(tx, a).SetCurrency(ctx, id, currency)
		if err != nil {
			return nil, err
		}
		if _, err := s.repos.Products(tx, a).UpdateCurrency(ctx, currency, id); err != nil {
			return nil, err
		}
		return bp, nil
	})
}
