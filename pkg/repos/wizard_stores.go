package repos

import (
	"context"

	"github.com/platinummonkey/stores/pkg/acl"
	"github.com/platinummonkey/stores/pkg/models"
)

const wizardStoreColumns = `id, user_id, store_id, name, short_description, default_language, slug,
	country, address, completed`

// WizardStores keeps one store creation draft per user
type WizardStores struct {
	base
}

// NewWizardStores creates a wizard stores repository
func NewWizardStores(db DBTX, a acl.ACL) *WizardStores {
	return &WizardStores{base{db: db, acl: a}}
}

func scanWizardStore(row scanner) (*models.WizardStore, error) {
	var w models.WizardStore
	err := row.Scan(&w.ID, &w.UserID, &w.StoreID, &w.Name, &w.ShortDescription, &w.DefaultLanguage,
		&w.Slug, &w.Country, &w.Address, &w.Completed)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// FindByUserID returns the draft of a user
func (r *WizardStores) FindByUserID(ctx context.Context, userID int64) (*models.WizardStore, error) {
	w, err := scanWizardStore(r.db.QueryRowContext(ctx,
		"SELECT "+wizardStoreColumns+" FROM wizard_stores WHERE user_id = $1", userID))
	if err != nil {
		return nil, classify("find wizard store", err)
	}
	if err := r.visible(ctx, acl.ResourceWizardStores, w); err != nil {
		return nil, classify("find wizard store", err)
	}
	return w, nil
}

// Create starts an empty draft. A user holds at most one.
func (r *WizardStores) Create(ctx context.Context, payload *models.NewWizardStore) (*models.WizardStore, error) {
	if err := r.allowed(ctx, acl.ResourceWizardStores, acl.ActionCreate, payload); err != nil {
		return nil, classify("create wizard store", err)
	}
	w, err := scanWizardStore(r.db.QueryRowContext(ctx,
		"INSERT INTO wizard_stores (user_id, completed) VALUES ($1, false) RETURNING "+wizardStoreColumns,
		payload.UserID))
	if err != nil {
		return nil, classify("create wizard store", err)
	}
	return w, nil
}

// Update changes the draft of a user
func (r *WizardStores) Update(ctx context.Context, userID int64, payload *models.UpdateWizardStore) (*models.WizardStore, error) {
	if err := payload.Validate(); err != nil {
		return nil, err
	}
	current, err := r.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := r.allowed(ctx, acl.ResourceWizardStores, acl.ActionUpdate, current); err != nil {
		return nil, classify("update wizard store", err)
	}

	var u update
	if payload.StoreID != nil {
		u.set("store_id", *payload.StoreID)
	}
	setString(&u, "name", payload.Name)
	setString(&u, "short_description", payload.ShortDescription)
	setString(&u, "default_language", payload.DefaultLanguage)
	setString(&u, "slug", payload.Slug)
	setString(&u, "country", payload.Country)
	setString(&u, "address", payload.Address)
	if payload.Completed != nil {
		u.set("completed", *payload.Completed)
	}
	if u.empty() {
		return current, nil
	}

	query, args := u.build("wizard_stores", current.ID, wizardStoreColumns)
	w, err := scanWizardStore(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, classify("update wizard store", err)
	}
	return w, nil
}

// Delete removes the draft of a user
func (r *WizardStores) Delete(ctx context.Context, userID int64) (*models.WizardStore, error) {
	current, err := r.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := r.allowed(ctx, acl.ResourceWizardStores, acl.ActionDelete, current); err != nil {
		return nil, classify("delete wizard store", err)
	}
	if _, err := r.db.ExecContext(ctx, "DELETE FROM wizard_stores WHERE id = $1", current.ID); err != nil {
		return nil, classify("delete wizard store", err)
	}
	return current, nil
}
