package repos

import (
	"context"
	"time"

	"github.com/platinummonkey/stores/pkg/acl"
	"github.com/platinummonkey/stores/pkg/models"
)

const storeColumns = `id, user_id, is_active, name, short_description, long_description, slug,
	cover, logo, phone, email, address, country, default_language, slogan, rating, status,
	created_at, updated_at`

// Stores is the stores table repository
type Stores struct {
	base
}

// NewStores creates a stores repository
func NewStores(db DBTX, a acl.ACL) *Stores {
	return &Stores{base{db: db, acl: a}}
}

func scanStore(row scanner) (*models.Store, error) {
	var s models.Store
	err := row.Scan(
		&s.ID, &s.UserID, &s.IsActive, &s.Name, &s.ShortDescription, &s.LongDescription, &s.Slug,
		&s.Cover, &s.Logo, &s.Phone, &s.Email, &s.Address, &s.Country, &s.DefaultLanguage, &s.Slogan,
		&s.Rating, &s.Status, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *Stores) queryOne(ctx context.Context, op, where string, args ...interface{}) (*models.Store, error) {
	query := "SELECT " + storeColumns + " FROM stores WHERE is_active = true AND " + where
	store, err := scanStore(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, classify(op, err)
	}
	if err := r.visible(ctx, acl.ResourceStores, store); err != nil {
		return nil, classify(op, err)
	}
	return store, nil
}

func (r *Stores) queryMany(ctx context.Context, op, query string, args ...interface{}) ([]models.Store, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify(op, err)
	}
	defer rows.Close()

	var stores []models.Store
	for rows.Next() {
		s, err := scanStore(rows)
		if err != nil {
			return nil, classify(op, err)
		}
		stores = append(stores, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(op, err)
	}

	stores, err = readable(ctx, r.base, acl.ResourceStores, stores)
	return stores, classify(op, err)
}

// Find returns an active store by id
func (r *Stores) Find(ctx context.Context, id int64) (*models.Store, error) {
	return r.queryOne(ctx, "find store", "id = $1", id)
}

// FindBySlug returns an active store by slug
func (r *Stores) FindBySlug(ctx context.Context, slug string) (*models.Store, error) {
	return r.queryOne(ctx, "find store by slug", "slug = $1", slug)
}

// FindByUserID returns the active store owned by a user
func (r *Stores) FindByUserID(ctx context.Context, userID int64) (*models.Store, error) {
	return r.queryOne(ctx, "find store by user", "user_id = $1 ORDER BY id LIMIT 1", userID)
}

// List returns up to count active stores with id >= from
func (r *Stores) List(ctx context.Context, from int64, count int) ([]models.Store, error) {
	query := "SELECT " + storeColumns + " FROM stores WHERE is_active = true AND id >= $1 ORDER BY id LIMIT $2"
	return r.queryMany(ctx, "list stores", query, from, count)
}

// FindMany returns active stores in the order of ids; missing ids are skipped
func (r *Stores) FindMany(ctx context.Context, ids []int64) ([]models.Store, error) {
	if len(ids) == 0 {
		return []models.Store{}, nil
	}
	query := "SELECT " + storeColumns + " FROM stores WHERE is_active = true AND id IN (" + placeholders(1, len(ids)) + ")"
	stores, err := r.queryMany(ctx, "find stores", query, idArgs(ids)...)
	if err != nil {
		return nil, err
	}
	return orderByIDs(ids, stores, func(s *models.Store) int64 { return s.ID }), nil
}

// Count returns the number of stores
func (r *Stores) Count(ctx context.Context, includeInactive bool) (int64, error) {
	if err := r.allowed(ctx, acl.ResourceStores, acl.ActionRead, nil); err != nil {
		return 0, classify("count stores", err)
	}
	query := "SELECT COUNT(*) FROM stores"
	if !includeInactive {
		query += " WHERE is_active = true"
	}
	var n int64
	if err := r.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, classify("count stores", err)
	}
	return n, nil
}

// SlugExists reports whether any store, active or not, uses slug
func (r *Stores) SlugExists(ctx context.Context, slug string) (bool, error) {
	if err := r.allowed(ctx, acl.ResourceStores, acl.ActionRead, nil); err != nil {
		return false, classify("check store slug", err)
	}
	var exists bool
	err := r.db.QueryRowContext(ctx, "SELECT EXISTS (SELECT 1 FROM stores WHERE slug = $1)", slug).Scan(&exists)
	return exists, classify("check store slug", err)
}

// Create inserts a store after checking the payload
func (r *Stores) Create(ctx context.Context, payload *models.NewStore) (*models.Store, error) {
	if err := payload.Validate(); err != nil {
		return nil, err
	}
	if err := r.allowed(ctx, acl.ResourceStores, acl.ActionCreate, payload); err != nil {
		return nil, classify("create store", err)
	}

	now := time.Now().UTC()
	query := `INSERT INTO stores (user_id, is_active, name, short_description, long_description, slug,
		cover, logo, phone, email, address, country, default_language, slogan, rating, status,
		created_at, updated_at)
		VALUES ($1, true, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, 0, $14, $15, $15)
		RETURNING ` + storeColumns

	store, err := scanStore(r.db.QueryRowContext(ctx, query,
		payload.UserID, payload.Name, payload.ShortDescription, payload.LongDescription, payload.Slug,
		payload.Cover, payload.Logo, payload.Phone, payload.Email, payload.Address, payload.Country,
		payload.DefaultLanguage, payload.Slogan, models.StatusDraft, now,
	))
	if err != nil {
		return nil, classify("create store", err)
	}
	return store, nil
}

// Update applies the non-nil fields of payload
func (r *Stores) Update(ctx context.Context, id int64, payload *models.UpdateStore) (*models.Store, error) {
	if err := payload.Validate(); err != nil {
		return nil, err
	}
	current, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.allowed(ctx, acl.ResourceStores, acl.ActionUpdate, current); err != nil {
		return nil, classify("update store", err)
	}

	var u update
	if payload.Name != nil {
		u.set("name", payload.Name)
	}
	if payload.ShortDescription != nil {
		u.set("short_description", payload.ShortDescription)
	}
	if payload.LongDescription != nil {
		u.set("long_description", payload.LongDescription)
	}
	setString(&u, "slug", payload.Slug)
	setString(&u, "cover", payload.Cover)
	setString(&u, "logo", payload.Logo)
	setString(&u, "phone", payload.Phone)
	setString(&u, "email", payload.Email)
	setString(&u, "address", payload.Address)
	setString(&u, "country", payload.Country)
	setString(&u, "default_language", payload.DefaultLanguage)
	setString(&u, "slogan", payload.Slogan)
	if u.empty() {
		return current, nil
	}
	u.set("updated_at", time.Now().UTC())

	query, args := u.build("stores", id, storeColumns)
	store, err := scanStore(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, classify("update store", err)
	}
	return store, nil
}

// Deactivate hides a store. Cascading to its products is the caller's job.
func (r *Stores) Deactivate(ctx context.Context, id int64) (*models.Store, error) {
	current, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.allowed(ctx, acl.ResourceStores, acl.ActionDelete, current); err != nil {
		return nil, classify("deactivate store", err)
	}

	query := "UPDATE stores SET is_active = false, updated_at = $1 WHERE id = $2 RETURNING " + storeColumns
	store, err := scanStore(r.db.QueryRowContext(ctx, query, time.Now().UTC(), id))
	if err != nil {
		return nil, classify("deactivate store", err)
	}
	return store, nil
}

func setString(u *update, column string, value *string) {
	if value != nil {
		u.set(column, *value)
	}
}
