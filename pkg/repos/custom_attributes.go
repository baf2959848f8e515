package repos

import (
	"context"

	"github.com/platinummonkey/stores/pkg/acl"
	"github.com/platinummonkey/stores/pkg/models"
)

const customAttributeColumns = "id, base_product_id, attribute_id"

// CustomAttributes links extra attributes to a single base product
type CustomAttributes struct {
	base
}

// NewCustomAttributes creates a custom attributes repository
func NewCustomAttributes(db DBTX, a acl.ACL) *CustomAttributes {
	return &CustomAttributes{base{db: db, acl: a}}
}

func scanCustomAttribute(row scanner) (*models.CustomAttribute, error) {
	var c models.CustomAttribute
	if err := row.Scan(&c.ID, &c.BaseProductID, &c.AttributeID); err != nil {
		return nil, err
	}
	return &c, nil
}

// ListByBaseProduct returns the custom attributes of a base product
func (r *CustomAttributes) ListByBaseProduct(ctx context.Context, baseProductID int64) ([]models.CustomAttribute, error) {
	const op = "list custom attributes"
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+customAttributeColumns+" FROM custom_attributes WHERE base_product_id = $1 ORDER BY id", baseProductID)
	if err != nil {
		return nil, classify(op, err)
	}
	defer rows.Close()

	out := []models.CustomAttribute{}
	for rows.Next() {
		c, err := scanCustomAttribute(rows)
		if err != nil {
			return nil, classify(op, err)
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(op, err)
	}
	out, err = readable(ctx, r.base, acl.ResourceCustomAttributes, out)
	return out, classify(op, err)
}

// Create links an attribute to a base product
func (r *CustomAttributes) Create(ctx context.Context, payload *models.NewCustomAttribute) (*models.CustomAttribute, error) {
	if err := payload.Validate(); err != nil {
		return nil, err
	}
	if err := r.allowed(ctx, acl.ResourceCustomAttributes, acl.ActionCreate, payload); err != nil {
		return nil, classify("create custom attribute", err)
	}
	c, err := scanCustomAttribute(r.db.QueryRowContext(ctx,
		"INSERT INTO custom_attributes (base_product_id, attribute_id) VALUES ($1, $2) RETURNING "+customAttributeColumns,
		payload.BaseProductID, payload.AttributeID))
	if err != nil {
		return nil, classify("create custom attribute", err)
	}
	return c, nil
}

// Delete removes a custom attribute
func (r *CustomAttributes) Delete(ctx context.Context, id int64) (*models.CustomAttribute, error) {
	current, err := scanCustomAttribute(r.db.QueryRowContext(ctx,
		"SELECT "+customAttributeColumns+" FROM custom_attributes WHERE id = $1", id))
	if err != nil {
		return nil, classify("delete custom attribute", err)
	}
	if err := r.allowed(ctx, acl.ResourceCustomAttributes, acl.ActionDelete, current); err != nil {
		return nil, classify("delete custom attribute", err)
	}
	if _, err := r.db.ExecContext(ctx, "DELETE FROM custom_attributes WHERE id = $1", id); err != nil {
		return nil, classify("delete custom attribute", err)
	}
	return current, nil
}
