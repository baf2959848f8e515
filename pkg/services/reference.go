package services

import (
	"context"
	"fmt"

	"github.com/platinummonkey/stores/pkg/acl"
	"github.com/platinummonkey/stores/pkg/models"
	"github.com/platinummonkey/stores/pkg/repos"
)

// ListAttributes returns every attribute
func (s *Service) ListAttributes(ctx context.Context) ([]models.Attribute, error) {
	return run(ctx, s, "ListAttributes", func(ctx context.Context, conn repos.DBTX, a acl.ACL) ([]models.Attribute, error) {
		return s.repos.Attributes(conn, a).List(ctx)
	})
}

// GetAttribute returns one attribute
func (s *Service) GetAttribute(ctx context.Context, id int64) (*models.Attribute, error) {
	return run(ctx, s, "GetAttribute", func(ctx context.Context, conn repos.DBTX, a acl.ACL) (*models.Attribute, error) {
		return s.repos.Attributes(conn, a).Find(ctx, id)
	})
}

// CreateAttribute creates an attribute
func (s *Service) CreateAttribute(ctx context.Context, payload *models.NewAttribute) (*models.Attribute, error) {
	return run(ctx, s, "CreateAttribute", func(ctx context.Context, conn repos.DBTX, a acl.ACL) (*models.Attribute, error) {
		return s.repos.Attributes(conn, a).Create(ctx, payload)
	})
}

// UpdateAttribute updates an attribute
func (s *Service) UpdateAttribute(ctx context.Context, id int64, payload *models.UpdateAttribute) (*models.Attribute, error) {
	return run(ctx, s, "UpdateAttribute", func(ctx context.Context, conn repos.DBTX, a acl.ACL) (*models.Attribute, error) {
		return s.repos.Attributes(conn, a).Update(ctx, id, payload)
	})
}

// CategoryTree returns the whole category tree under its synthetic root
func (s *Service) CategoryTree(ctx context.Context) (*models.Category, error) {
	return run(ctx, s, "CategoryTree", func(ctx context.Context, conn repos.DBTX, a acl.ACL) (*models.Category, error) {
		return s.repos.Categories(conn, a).Tree(ctx)
	})
}

// GetCategory returns a category with its subtree
func (s *Service) GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	return run(ctx, s, "GetCategory", func(ctx context.Context, conn repos.DBTX, a acl.ACL) (*models.Category, error) {
		return s.repos.Categories(conn, a).Find(ctx, id)
	})
}

// CreateCategory creates a category
func (s *Service) CreateCategory(ctx context.Context, payload *models.NewCategory) (*models.Category, error) {
	return run(ctx, s, "CreateCategory", func(ctx context.Context, conn repos.DBTX, a acl.ACL) (*models.Category, error) {
		return s.repos.Categories(conn, a).Create(ctx, payload)
	})
}

// UpdateCategory updates a category
func (s *Service) UpdateCategory(ctx context.Context, id int64, payload *models.UpdateCategory) (*models.Category, error) {
	return run(ctx, s, "UpdateCategory", func(ctx context.Context, conn repos.DBTX, a acl.ACL) (*models.Category, error) {
		return s.repos.Categories(conn, a).Update(ctx, id, payload)
	})
}

// ListCategoryAttributes returns the attributes attached to a category
func (s *Service) ListCategoryAttributes(ctx context.Context, categoryID int64) ([]models.Attribute, error) {
	return run(ctx, s, "ListCategoryAttributes", func(ctx context.Context, conn repos.DBTX, a acl.ACL) ([]models.Attribute, error) {
		links, err := s.repos.CategoryAttrs(conn, a).ListByCategory(ctx, categoryID)
		if err != nil {
			return nil, err
		}
		attributes := s.repos.Attributes(conn, a)
		out := make([]models.Attribute, 0, len(links))
		for _, link := range links {
			attr, err := attributes.Find(ctx, link.AttrID)
			if err != nil {
				return nil, err
			}
			out = append(out, *attr)
		}
		return out, nil
	})
}

// AddCategoryAttribute attaches an attribute to a category
func (s *Service) AddCategoryAttribute(ctx context.Context, payload *models.NewCategoryAttr) (*models.CategoryAttr, error) {
	return run(ctx, s, "AddCategoryAttribute", func(ctx context.Context, conn repos.DBTX, a acl.ACL) (*models.CategoryAttr, error) {
		return s.repos.CategoryAttrs(conn, a).Create(ctx, payload)
	})
}

// RemoveCategoryAttribute detaches an attribute from a category
func (s *Service) RemoveCategoryAttribute(ctx context.Context, payload *models.OldCategoryAttr) (*models.CategoryAttr, error) {
	return run(ctx, s, "RemoveCategoryAttribute", func(ctx context.Context, conn repos.DBTX, a acl.ACL) (*models.CategoryAttr, error) {
		return s.repos.CategoryAttrs(conn, a).Delete(ctx, payload)
	})
}

// LatestCurrencyExchange returns the newest exchange rates snapshot
func (s *Service) LatestCurrencyExchange(ctx context.Context) (*models.CurrencyExchange, error) {
	return run(ctx, s, "LatestCurrencyExchange", func(ctx context.Context, conn repos.DBTX, a acl.ACL) (*models.CurrencyExchange, error) {
		return s.repos.CurrencyExchange(conn, a).Latest(ctx)
	})
}

// UpdateCurrencyExchange stores a new exchange rates snapshot
func (s *Service) UpdateCurrencyExchange(ctx context.Context, payload *models.NewCurrencyExchange) (*models.CurrencyExchange, error) {
	return run(ctx, s, "UpdateCurrencyExchange", func(ctx context.Context, conn repos.DBTX, a acl.ACL) (*models.CurrencyExchange, error) {
		return s.repos.CurrencyExchange(conn, a).Update(ctx, payload)
	})
}

// ListAttributeValues returns the predefined values of an attribute
func (s *Service) ListAttributeValues(ctx context.Context, attrID int64) ([]models.AttributeValue, error) {
	return run(ctx, s, "ListAttributeValues", func(ctx context.Context, conn repos.DBTX, a acl.ACL) ([]models.AttributeValue, error) {
		if _, err := s.repos.Attributes(conn, a).Find(ctx, attrID); err != nil {
			return nil, err
		}
		return s.repos.AttributeValues(conn, a).ListByAttribute(ctx, attrID)
	})
}

// CreateAttributeValue adds a predefined value to a string attribute
func (s *Service) CreateAttributeValue(ctx context.Context, payload *models.NewAttributeValue) (*models.AttributeValue, error) {
	return run(ctx, s, "CreateAttributeValue", func(ctx context.Context, conn repos.DBTX, a acl.ACL) (*models.AttributeValue, error) {
		attr, err := s.repos.Attributes(conn, a).Find(ctx, payload.AttrID)
		if err != nil {
			return nil, err
		}
		if attr.ValueType != models.ValueTypeStr {
			return nil, fmt.Errorf("%w: attribute %d does not hold strings", models.ErrInvalidPayload, attr.ID)
		}
		return s.repos.AttributeValues(conn, a).Create(ctx, payload)
	})
}

// UpdateAttributeValue changes a predefined value
func (s *Service) UpdateAttributeValue(ctx context.Context, id int64, payload *models.UpdateAttributeValue) (*models.AttributeValue, error) {
	return run(ctx, s, "UpdateAttributeValue", func(ctx context.Context, conn repos.DBTX, a acl.ACL) (*models.AttributeValue, error) {
		return s.repos.AttributeValues(conn, a).Update(ctx, id, payload)
	})
}

// DeleteAttributeValue removes a predefined value
func (s *Service) DeleteAttributeValue(ctx context.Context, id int64) (*models.AttributeValue, error) {
	return run(ctx, s, "DeleteAttributeValue", func(ctx context.Context, conn repos.DBTX, a acl.ACL) (*models.AttributeValue, error) {
		return s.repos.AttributeValues(conn, a).Delete(ctx, id)
	})
}
