package repos

import (
	"context"
	"time"

	"github.com/platinummonkey/stores/pkg/acl"
	"github.com/platinummonkey/stores/pkg/models"
)

const (
	productCommentColumns = "id, moderator_id, base_product_id, comments, created_at"
	storeCommentColumns   = "id, moderator_id, store_id, comments, created_at"
)

// ModeratorProductComments stores moderation notes on base products
type ModeratorProductComments struct {
	base
}

// NewModeratorProductComments creates a product moderation comments repository
func NewModeratorProductComments(db DBTX, a acl.ACL) *ModeratorProductComments {
	return &ModeratorProductComments{base{db: db, acl: a}}
}

// FindByBaseProduct returns the comments on a base product, latest first
func (r *ModeratorProductComments) FindByBaseProduct(ctx context.Context, baseProductID int64) ([]models.ModeratorProductComment, error) {
	const op = "list moderator product comments"
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+productCommentColumns+" FROM moderator_product_comments WHERE base_product_id = $1 ORDER BY created_at DESC, id DESC",
		baseProductID)
	if err != nil {
		return nil, classify(op, err)
	}
	defer rows.Close()

	out := []models.ModeratorProductComment{}
	for rows.Next() {
		var c models.ModeratorProductComment
		if err := rows.Scan(&c.ID, &c.ModeratorID, &c.BaseProductID, &c.Comments, &c.CreatedAt); err != nil {
			return nil, classify(op, err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(op, err)
	}
	out, err = readableAll(ctx, r.base, acl.ResourceModeratorProductComments, out)
	return out, classify(op, err)
}

// Create records a moderation comment
func (r *ModeratorProductComments) Create(ctx context.Context, payload *models.NewModeratorProductComment) (*models.ModeratorProductComment, error) {
	if err := payload.Validate(); err != nil {
		return nil, err
	}
	if err := r.allowed(ctx, acl.ResourceModeratorProductComments, acl.ActionCreate, nil); err != nil {
		return nil, classify("create moderator product comment", err)
	}
	var c models.ModeratorProductComment
	err := r.db.QueryRowContext(ctx,
		"INSERT INTO moderator_product_comments (moderator_id, base_product_id, comments, created_at) VALUES ($1, $2, $3, $4) RETURNING "+productCommentColumns,
		payload.ModeratorID, payload.BaseProductID, payload.Comments, time.Now().UTC(),
	).Scan(&c.ID, &c.ModeratorID, &c.BaseProductID, &c.Comments, &c.CreatedAt)
	if err != nil {
		return nil, classify("create moderator product comment", err)
	}
	return &c, nil
}

// ModeratorStoreComments stores moderation notes on stores
type ModeratorStoreComments struct {
	base
}

// NewModeratorStoreComments creates a store moderation comments repository
func NewModeratorStoreComments(db DBTX, a acl.ACL) *ModeratorStoreComments {
	return &ModeratorStoreComments{base{db: db, acl: a}}
}

// FindByStore returns the comments on a store, latest first
func (r *ModeratorStoreComments) FindByStore(ctx context.Context, storeID int64) ([]models.ModeratorStoreComment, error) {
	const op = "list moderator store comments"
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+storeCommentColumns+" FROM moderator_store_comments WHERE store_id = $1 ORDER BY created_at DESC, id DESC",
		storeID)
	if err != nil {
		return nil, classify(op, err)
	}
	defer rows.Close()

	out := []models.ModeratorStoreComment{}
	for rows.Next() {
		var c models.ModeratorStoreComment
		if err := rows.Scan(&c.ID, &c.ModeratorID, &c.StoreID, &c.Comments, &c.CreatedAt); err != nil {
			return nil, classify(op, err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(op, err)
	}
	out, err = readableAll(ctx, r.base, acl.ResourceModeratorStoreComments, out)
	return out, classify(op, err)
}

// Create records a moderation comment
func (r *ModeratorStoreComments) Create(ctx context.Context, payload *models.NewModeratorStoreComment) (*models.ModeratorStoreComment, error) {
	if err := payload.Validate(); err != nil {
		return nil, err
	}
	if err := r.allowed(ctx, acl.ResourceModeratorStoreComments, acl.ActionCreate, nil); err != nil {
		return nil, classify("create moderator store comment", err)
	}
	var c models.ModeratorStoreComment
	err := r.db.QueryRowContext(ctx,
		"INSERT INTO moderator_store_comments (moderator_id, store_id, comments, created_at) VALUES ($1, $2, $3, $4) RETURNING "+storeCommentColumns,
		payload.ModeratorID, payload.StoreID, payload.Comments, time.Now().UTC(),
	).Scan(&c.ID, &c.ModeratorID, &c.StoreID, &c.Comments, &c.CreatedAt)
	if err != nil {
		return nil, classify("create moderator store comment", err)
	}
	return &c, nil
}
