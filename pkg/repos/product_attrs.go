package repos

import (
	"context"
	"fmt"

	"github.com/platinummonkey/stores/pkg/acl"
	"github.com/platinummonkey/stores/pkg/models"
)

const productAttrColumns = "id, prod_id, base_prod_id, attr_id, value, value_type"

// ProductAttrs is the repository of variant attribute values
type ProductAttrs struct {
	base
}

// NewProductAttrs creates a product attribute values repository
func NewProductAttrs(db DBTX, a acl.ACL) *ProductAttrs {
	return &ProductAttrs{base{db: db, acl: a}}
}

func scanProductAttr(row scanner) (*models.ProductAttr, error) {
	var a models.ProductAttr
	if err := row.Scan(&a.ID, &a.ProdID, &a.BaseProdID, &a.AttrID, &a.Value, &a.ValueType); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *ProductAttrs) query(ctx context.Context, op, query string, args ...interface{}) ([]models.ProductAttr, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify(op, err)
	}
	defer rows.Close()

	out := []models.ProductAttr{}
	for rows.Next() {
		a, err := scanProductAttr(rows)
		if err != nil {
			return nil, classify(op, err)
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(op, err)
	}
	return out, nil
}

// ListByProduct returns the attribute values of a variant
func (r *ProductAttrs) ListByProduct(ctx context.Context, prodID int64) ([]models.ProductAttr, error) {
	attrs, err := r.query(ctx, "list product attributes",
		"SELECT "+productAttrColumns+" FROM prod_attr_values WHERE prod_id = $1 ORDER BY attr_id", prodID)
	if err != nil {
		return nil, err
	}
	attrs, err = readable(ctx, r.base, acl.ResourceProductAttrs, attrs)
	return attrs, classify("list product attributes", err)
}

// ListByBaseProduct returns the attribute values of every variant of a base product
func (r *ProductAttrs) ListByBaseProduct(ctx context.Context, baseProdID int64) ([]models.ProductAttr, error) {
	attrs, err := r.query(ctx, "list base product attributes",
		"SELECT "+productAttrColumns+" FROM prod_attr_values WHERE base_prod_id = $1 ORDER BY prod_id, attr_id", baseProdID)
	if err != nil {
		return nil, err
	}
	attrs, err = readable(ctx, r.base, acl.ResourceProductAttrs, attrs)
	return attrs, classify("list base product attributes", err)
}

// Create inserts an attribute value after checking the payload
func (r *ProductAttrs) Create(ctx context.Context, payload *models.NewProductAttr) (*models.ProductAttr, error) {
	if payload.ProdID <= 0 || payload.BaseProdID <= 0 {
		return nil, fmt.Errorf("%w: prod_id and base_prod_id must be positive", models.ErrInvalidPayload)
	}
	if err := (models.AttrValue{AttrID: payload.AttrID, Value: payload.Value}).Validate(); err != nil {
		return nil, err
	}
	if !payload.ValueType.Valid() {
		return nil, fmt.Errorf("%w: unknown value type %q", models.ErrInvalidPayload, payload.ValueType)
	}
	if err := r.allowed(ctx, acl.ResourceProductAttrs, acl.ActionCreate, payload); err != nil {
		return nil, classify("create product attribute", err)
	}

	query := `INSERT INTO prod_attr_values (prod_id, base_prod_id, attr_id, value, value_type)
		VALUES ($1, $2, $3, $4, $5) RETURNING ` + productAttrColumns
	attr, err := scanProductAttr(r.db.QueryRowContext(ctx, query,
		payload.ProdID, payload.BaseProdID, payload.AttrID, payload.Value, payload.ValueType))
	if err != nil {
		return nil, classify("create product attribute", err)
	}
	return attr, nil
}

// Update sets the value of one attribute of a variant
func (r *ProductAttrs) Update(ctx context.Context, prodID int64, value models.AttrValue) (*models.ProductAttr, error) {
	if err := value.Validate(); err != nil {
		return nil, err
	}
	current, err := scanProductAttr(r.db.QueryRowContext(ctx,
		"SELECT "+productAttrColumns+" FROM prod_attr_values WHERE prod_id = $1 AND attr_id = $2", prodID, value.AttrID))
	if err != nil {
		return nil, classify("update product attribute", err)
	}
	if err := r.visible(ctx, acl.ResourceProductAttrs, current); err != nil {
		return nil, classify("update product attribute", err)
	}
	if err := r.allowed(ctx, acl.ResourceProductAttrs, acl.ActionUpdate, current); err != nil {
		return nil, classify("update product attribute", err)
	}

	attr, err := scanProductAttr(r.db.QueryRowContext(ctx,
		"UPDATE prod_attr_values SET value = $1 WHERE id = $2 RETURNING "+productAttrColumns, value.Value, current.ID))
	if err != nil {
		return nil, classify("update product attribute", err)
	}
	return attr, nil
}

// DeleteByProduct removes every attribute value of a variant
func (r *ProductAttrs) DeleteByProduct(ctx context.Context, prodID int64) ([]models.ProductAttr, error) {
	return r.deleteWhere(ctx, "delete product attributes", "prod_id = $1", prodID)
}

// DeleteByBaseProduct removes every attribute value of a base product's variants
func (r *ProductAttrs) DeleteByBaseProduct(ctx context.Context, baseProdID int64) ([]models.ProductAttr, error) {
	return r.deleteWhere(ctx, "delete base product attributes", "base_prod_id = $1", baseProdID)
}

func (r *ProductAttrs) deleteWhere(ctx context.Context, op, where string, id int64) ([]models.ProductAttr, error) {
	current, err := r.query(ctx, op, "SELECT "+productAttrColumns+" FROM prod_attr_values WHERE "+where, id)
	if err != nil {
		return nil, err
	}
	for i := range current {
		if err := r.allowed(ctx, acl.ResourceProductAttrs, acl.ActionDelete, &current[i]); err != nil {
			return nil, classify(op, err)
		}
	}
	if len(current) == 0 {
		return current, nil
	}
	if _, err := r.db.ExecContext(ctx, "DELETE FROM prod_attr_values WHERE "+where, id); err != nil {
		return nil, classify(op, err)
	}
	return current, nil
}
