package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/platinummonkey/stores/pkg/acl"
	"github.com/platinummonkey/stores/pkg/models"
	"github.com/platinummonkey/stores/pkg/repos"
)

// GetProduct returns an active variant, its price in the requested currency
func (s *Service) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	return run(ctx, s, "GetProduct", func(ctx context.Context, conn repos.DBTX, a acl.ACL) (*models.Product, error) {
		p, err := s.repos.Products(conn, a).Find(ctx, id)
		if err != nil {
			return nil, err
		}
		conv, err := s.newConverter(ctx, conn)
		if err != nil {
			return nil, err
		}
		conv.product(ctx, p)
		return p, nil
	})
}

// GetProductSellerPrice returns a variant's price without currency conversion
func (s *Service) GetProductSellerPrice(ctx context.Context, id int64) (*models.ProductSellerPrice, error) {
	return run(ctx, s, "GetProductSellerPrice", func(ctx context.Context, conn repos.DBTX, a acl.ACL) (*models.ProductSellerPrice, error) {
		p, err := s.repos.Products(conn, a).Find(ctx, id)
		if err != nil {
			return nil, err
		}
		return &models.ProductSellerPrice{Price: p.Price, Currency: p.Currency}, nil
	})
}

// GetProductStoreID returns the store a variant is sold in
func (s *Service) GetProductStoreID(ctx context.Context, id int64) (int64, error) {
	return run(ctx, s, "GetProductStoreID", func(ctx context.Context, conn repos.DBTX, a acl.ACL) (int64, error) {
		p, err := s.repos.Products(conn, a).Find(ctx, id)
		if err != nil {
			return 0, err
		}
		bp, err := s.repos.BaseProducts(conn, a).Find(ctx, p.BaseProductID)
		if err != nil {
			return 0, err
		}
		return bp.StoreID, nil
	})
}

// ListProducts returns up to count variants starting at id from
func (s *Service) ListProducts(ctx context.Context, from int64, count int) ([]models.Product, error) {
	return run(ctx, s, "ListProducts", func(ctx context.Context, conn repos.DBTX, a acl.ACL) ([]models.Product, error) {
		products, err := s.repos.Products(conn, a).List(ctx, from, count)
		if err != nil {
			return nil, err
		}
		conv, err := s.newConverter(ctx, conn)
		if err != nil {
			return nil, err
		}
		conv.products(ctx, products)
		return products, nil
	})
}

// ListProductsByBaseProduct returns the active variants of a base product
func (s *Service) ListProductsByBaseProduct(ctx context.Context, baseProductID int64) ([]models.Product, error) {
	return run(ctx, s, "ListProductsByBaseProduct", func(ctx context.Context, conn repos.DBTX, a acl.ACL) ([]models.Product, error) {
		products, err := s.repos.Products(conn, a).FindWithBaseID(ctx, baseProductID)
		if err != nil {
			return nil, err
		}
		conv, err := s.newConverter(ctx, conn)
		if err != nil {
			return nil, err
		}
		conv.products(ctx, products)
		return products, nil
	})
}

// CreateProduct inserts a variant and its attribute values in one transaction
func (s *Service) CreateProduct(ctx context.Context, payload *models.NewProductWithAttributes) (*models.ProductWithAttributes, error) {
	return inTx(ctx, s, "CreateProduct", func(ctx context.Context, tx *sql.Tx, a acl.ACL) (*models.ProductWithAttributes, error) {
		return s.createProduct(ctx, tx, a, payload)
	})
}

func (s *Service) createProduct(ctx context.Context, tx *sql.Tx, a acl.ACL, payload *models.NewProductWithAttributes) (*models.ProductWithAttributes, error) {
	bp, err := s.repos.BaseProducts(tx, a).Find(ctx, payload.Product.BaseProductID)
	if err != nil {
		return nil, err
	}
	product := payload.Product
	product.Currency = bp.Currency

	products := s.repos.Products(tx, a)
	p, err := products.Create(ctx, &product)
	if err != nil {
		return nil, err
	}
	if err := checkVendorCode(ctx, products, bp.StoreID, p); err != nil {
		return nil, err
	}
	if err := s.checkAttributeValues(ctx, tx, a, p, payload.Attributes); err != nil {
		return nil, err
	}
	out := &models.ProductWithAttributes{Product: *p, Attributes: []models.ProductAttr{}}
	for _, value := range payload.Attributes {
		attr, err := s.createProductAttr(ctx, tx, a, p, value)
		if err != nil {
			return nil, err
		}
		out.Attributes = append(out.Attributes, *attr)
	}
	return out, nil
}

// checkVendorCode rejects p when another active variant of the store uses its vendor code
func checkVendorCode(ctx context.Context, products *repos.Products, storeID int64, p *models.Product) error {
	exists, err := products.VendorCodeExists(ctx, storeID, p.VendorCode, p.ID)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: vendor code %q already exists in store %d", models.ErrInvalidPayload, p.VendorCode, storeID)
	}
	return nil
}

// checkAttributeValues rejects values that use an attribute the base product
// does not allow, or that repeat the attribute combination of another variant.
// Allowed attributes a variant has no value for compare as empty.
func (s *Service) checkAttributeValues(ctx context.Context, tx *sql.Tx, a acl.ACL, p *models.Product, values []models.AttrValue) error {
	if len(values) == 0 {
		return nil
	}
	custom, err := s.repos.CustomAttributes(tx, a).ListByBaseProduct(ctx, p.BaseProductID)
	if err != nil {
		return err
	}
	allowed := make(map[int64]bool, len(custom))
	for _, c := range custom {
		allowed[c.AttributeID] = true
	}
	if len(allowed) > 0 {
		for _, v := range values {
			if !allowed[v.AttrID] {
				return fmt.Errorf("%w: attribute %d is not allowed for base product %d", models.ErrInvalidPayload, v.AttrID, p.BaseProductID)
			}
		}
	}

	existing, err := s.repos.ProductAttrs(tx, a).ListByBaseProduct(ctx, p.BaseProductID)
	if err != nil {
		return err
	}
	variants := make(map[int64]map[int64]string)
	for _, attr := range existing {
		if attr.ProdID == p.ID {
			continue
		}
		set, ok := variants[attr.ProdID]
		if !ok {
			set = make(map[int64]string, len(allowed))
			for id := range allowed {
				set[id] = ""
			}
			variants[attr.ProdID] = set
		}
		set[attr.AttrID] = attr.Value
	}

	for _, set := range variants {
		if sameValues(set, values) {
			return fmt.Errorf("%w: a variant with these attribute values already exists", models.ErrInvalidPayload)
		}
	}
	return nil
}

func sameValues(set map[int64]string, values []models.AttrValue) bool {
	for _, v := range values {
		if current, ok := set[v.AttrID]; !ok || current != v.Value {
			return false
		}
	}
	return true
}

// createProductAttr stores value with the value type of its attribute
func (s *Service) createProductAttr(ctx context.Context, tx *sql.Tx, a acl.ACL, p *models.Product, value models.AttrValue) (*models.ProductAttr, error) {
	if err := value.Validate(); err != nil {
		return nil, err
	}
	attribute, err := s.repos.Attributes(tx, a).Find(ctx, value.AttrID)
	if err != nil {
		return nil, err
	}
	return s.repos.ProductAttrs(tx, a).Create(ctx, &models.NewProductAttr{
		ProdID:     p.ID,
		BaseProdID: p.BaseProductID,
		AttrID:     attribute.ID,
		Value:      value.Value,
		ValueType:  attribute.ValueType,
	})
}

// UpdateProduct applies a partial update to a variant and upserts the given attribute values
func (s *Service) UpdateProduct(ctx context.Context, id int64, payload *models.UpdateProductWithAttributes) (*models.ProductWithAttributes, error) {
	return inTx(ctx, s, "UpdateProduct", func(ctx context.Context, tx *sql.Tx, a acl.ACL) (*models.ProductWithAttributes, error) {
		products := s.repos.Products(tx, a)
		p, err := products.Find(ctx, id)
		if err != nil {
			return nil, err
		}
		if payload.Product != nil {
			code := p.VendorCode
			if p, err = products.Update(ctx, id, payload.Product); err != nil {
				return nil, err
			}
			if p.VendorCode != code {
				bp, err := s.repos.BaseProducts(tx, a).Find(ctx, p.BaseProductID)
				if err != nil {
					return nil, err
				}
				if err := checkVendorCode(ctx, products, bp.StoreID, p); err != nil {
					return nil, err
				}
			}
		}
		if err := s.checkAttributeValues(ctx, tx, a, p, payload.Attributes); err != nil {
			return nil, err
		}
		if err := s.upsertProductAttrs(ctx, tx, a, p, payload.Attributes); err != nil {
			return nil, err
		}
		attrs, err := s.repos.ProductAttrs(tx, a).ListByProduct(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		return &models.ProductWithAttributes{Product: *p, Attributes: attrs}, nil
	})
}

// SetProductAttributes upserts attribute values of a variant
func (s *Service) SetProductAttributes(ctx context.Context, id int64, values []models.AttrValue) ([]models.ProductAttr, error) {
	return inTx(ctx, s, "SetProductAttributes", func(ctx context.Context, tx *sql.Tx, a acl.ACL) ([]models.ProductAttr, error) {
		p, err := s.repos.Products(tx, a).Find(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := s.checkAttributeValues(ctx, tx, a, p, values); err != nil {
			return nil, err
		}
		if err := s.upsertProductAttrs(ctx, tx, a, p, values); err != nil {
			return nil, err
		}
		return s.repos.ProductAttrs(tx, a).ListByProduct(ctx, p.ID)
	})
}

func (s *Service) upsertProductAttrs(ctx context.Context, tx *sql.Tx, a acl.ACL, p *models.Product, values []models.AttrValue) error {
	attrs := s.repos.ProductAttrs(tx, a)
	for _, value := range values {
		_, err := attrs.Update(ctx, p.ID, value)
		if errors.Is(err, repos.ErrNotFound) {
			_, err = s.createProductAttr(ctx, tx, a, p, value)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// ListProductAttributes returns the attribute values of a variant
func (s *Service) ListProductAttributes(ctx context.Context, id int64) ([]models.ProductAttr, error) {
	return run(ctx, s, "ListProductAttributes", func(ctx context.Context, conn repos.DBTX, a acl.ACL) ([]models.ProductAttr, error) {
		if _, err := s.repos.Products(conn, a).Find(ctx, id); err != nil {
			return nil, err
		}
		return s.repos.ProductAttrs(conn, a).ListByProduct(ctx, id)
	})
}

// DeactivateProduct hides a variant and deletes its attribute values
func (s *Service) DeactivateProduct(ctx context.Context, id int64) (*models.Product, error) {
	return inTx(ctx, s, "DeactivateProduct", func(ctx context.Context, tx *sql.Tx, a acl.ACL) (*models.Product, error) {
		p, err := s.repos.Products(tx, a).Deactivate(ctx, id)
		if err != nil {
			return nil, err
		}
		if _, err := s.repos.ProductAttrs(tx, a).DeleteByProduct(ctx, id); err != nil {
			return nil, err
		}
		return p, nil
	})
}
