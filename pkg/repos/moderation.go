package repos

import (
	"context"
	"time"

	"github.com/platinummonkey/stores/pkg/acl"
	"github.com/platinummonkey/stores/pkg/models"
)

// moderation builds the update for a moderator decision. Changing status or
// rating needs the right to update the row and to file moderation comments
// on its resource, which plain owners never hold.
func (b base) moderation(ctx context.Context, resource, comments acl.Resource, current acl.Entity, payload *models.Moderation) (*update, error) {
	if err := payload.Validate(); err != nil {
		return nil, err
	}
	if err := b.allowed(ctx, resource, acl.ActionUpdate, current); err != nil {
		return nil, err
	}
	if err := b.allowed(ctx, comments, acl.ActionCreate, nil); err != nil {
		return nil, err
	}

	u := &update{}
	if payload.Status != nil {
		u.set("status", *payload.Status)
	}
	if payload.Rating != nil {
		u.set("rating", *payload.Rating)
	}
	u.set("updated_at", time.Now().UTC())
	return u, nil
}

// Moderate sets the status or rating of a store
func (r *Stores) Moderate(ctx context.Context, id int64, payload *models.Moderation) (*models.Store, error) {
	const op = "moderate store"
	current, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	u, err := r.moderation(ctx, acl.ResourceStores, acl.ResourceModeratorStoreComments, current, payload)
	if err != nil {
		return nil, classify(op, err)
	}
	query, args := u.build("stores", id, storeColumns)
	store, err := scanStore(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, classify(op, err)
	}
	return store, nil
}

// Moderate sets the status or rating of a base product
func (r *BaseProducts) Moderate(ctx context.Context, id int64, payload *models.Moderation) (*models.BaseProduct, error) {
	const op = "moderate base product"
	current, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	u, err := r.moderation(ctx, acl.ResourceBaseProducts, acl.ResourceModeratorProductComments, current, payload)
	if err != nil {
		return nil, classify(op, err)
	}
	query, args := u.build("base_products", id, baseProductColumns)
	bp, err := scanBaseProduct(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, classify(op, err)
	}
	return bp, nil
}
