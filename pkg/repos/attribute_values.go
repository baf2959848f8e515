package repos

import (
	"context"

	"github.com/platinummonkey/stores/pkg/acl"
	"github.com/platinummonkey/stores/pkg/models"
)

const attributeValueColumns = "id, attr_id, code, translates"

// AttributeValues holds the predefined values of string attributes
type AttributeValues struct {
	base
}

// NewAttributeValues creates an attribute values repository
func NewAttributeValues(db DBTX, a acl.ACL) *AttributeValues {
	return &AttributeValues{base{db: db, acl: a}}
}

func scanAttributeValue(row scanner) (*models.AttributeValue, error) {
	var v models.AttributeValue
	if err := row.Scan(&v.ID, &v.AttrID, &v.Code, &v.Translates); err != nil {
		return nil, err
	}
	return &v, nil
}

// Find returns a value by id
func (r *AttributeValues) Find(ctx context.Context, id int64) (*models.AttributeValue, error) {
	const op = "find attribute value"
	if err := r.visible(ctx, acl.ResourceAttributeValues, nil); err != nil {
		return nil, classify(op, err)
	}
	v, err := scanAttributeValue(r.db.QueryRowContext(ctx,
		"SELECT "+attributeValueColumns+" FROM attribute_values WHERE id = $1", id))
	return v, classify(op, err)
}

// ListByAttribute returns the values of one attribute ordered by code
func (r *AttributeValues) ListByAttribute(ctx context.Context, attrID int64) ([]models.AttributeValue, error) {
	const op = "list attribute values"
	if err := r.allowed(ctx, acl.ResourceAttributeValues, acl.ActionRead, nil); err != nil {
		return nil, classify(op, err)
	}
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+attributeValueColumns+" FROM attribute_values WHERE attr_id = $1 ORDER BY code", attrID)
	if err != nil {
		return nil, classify(op, err)
	}
	defer rows.Close()

	out := []models.AttributeValue{}
	for rows.Next() {
		v, err := scanAttributeValue(rows)
		if err != nil {
			return nil, classify(op, err)
		}
		out = append(out, *v)
	}
	return out, classify(op, rows.Err())
}

// Create adds a value to an attribute
func (r *AttributeValues) Create(ctx context.Context, payload *models.NewAttributeValue) (*models.AttributeValue, error) {
	const op = "create attribute value"
	if err := payload.Validate(); err != nil {
		return nil, err
	}
	if err := r.allowed(ctx, acl.ResourceAttributeValues, acl.ActionCreate, nil); err != nil {
		return nil, classify(op, err)
	}
	v, err := scanAttributeValue(r.db.QueryRowContext(ctx,
		"INSERT INTO attribute_values (attr_id, code, translates) VALUES ($1, $2, $3) RETURNING "+attributeValueColumns,
		payload.AttrID, payload.Code, payload.Translates))
	return v, classify(op, err)
}

// Update changes the code or the translations of a value
func (r *AttributeValues) Update(ctx context.Context, id int64, payload *models.UpdateAttributeValue) (*models.AttributeValue, error) {
	const op = "update attribute value"
	if err := payload.Validate(); err != nil {
		return nil, err
	}
	if err := r.allowed(ctx, acl.ResourceAttributeValues, acl.ActionUpdate, nil); err != nil {
		return nil, classify(op, err)
	}
	current, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	var u update
	setString(&u, "code", payload.Code)
	if payload.Translates != nil {
		u.set("translates", payload.Translates)
	}
	if u.empty() {
		return current, nil
	}
	query, args := u.build("attribute_values", id, attributeValueColumns)
	v, err := scanAttributeValue(r.db.QueryRowContext(ctx, query, args...))
	return v, classify(op, err)
}

// Delete removes a value
func (r *AttributeValues) Delete(ctx context.Context, id int64) (*models.AttributeValue, error) {
	const op = "delete attribute value"
	if err := r.allowed(ctx, acl.ResourceAttributeValues, acl.ActionDelete, nil); err != nil {
		return nil, classify(op, err)
	}
	current, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := r.db.ExecContext(ctx, "DELETE FROM attribute_values WHERE id = $1", id); err != nil {
		return nil, classify(op, err)
	}
	return current, nil
}
