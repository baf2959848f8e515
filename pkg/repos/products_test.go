package repos

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/platinummonkey/stores/pkg/acl"
	"github.com/platinummonkey/stores/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseProducts_OwnershipThroughStore(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	c := seedCatalog(t, db, 10, "acme")

	t.Run("other user cannot add to the store", func(t *testing.T) {
		_, err := NewBaseProducts(db, userACL(t, db, 20, acl.RoleUser)).Create(ctx, newBaseProductPayload(c.store.ID))
		assert.True(t, acl.IsDenied(err))
	})

	t.Run("unknown store resolves to no owner", func(t *testing.T) {
		_, err := NewBaseProducts(db, userACL(t, db, 10, acl.RoleUser)).Create(ctx, newBaseProductPayload(999))
		assert.True(t, acl.IsDenied(err))
	})

	t.Run("owner updates", func(t *testing.T) {
		updated, err := NewBaseProducts(db, userACL(t, db, 10, acl.RoleUser)).Update(ctx, c.baseProduct.ID, &models.UpdateBaseProduct{
			SeoTitle: tr("seo"),
		})
		require.NoError(t, err)
		assert.Equal(t, tr("seo"), updated.SeoTitle)
	})

	t.Run("superuser updates any", func(t *testing.T) {
		slug := "shirt"
		updated, err := NewBaseProducts(db, userACL(t, db, 1, acl.RoleSuperuser)).Update(ctx, c.baseProduct.ID, &models.UpdateBaseProduct{
			Slug: &slug,
		})
		require.NoError(t, err)
		require.NotNil(t, updated.Slug)
		assert.Equal(t, "shirt", *updated.Slug)
	})
}

func TestBaseProducts_Reads(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	c := seedCatalog(t, db, 10, "acme")
	repo := NewBaseProducts(db, guestACL(t))

	byProduct, err := repo.FindByProduct(ctx, c.product.ID)
	require.NoError(t, err)
	assert.Equal(t, c.baseProduct.ID, byProduct.ID)

	byStore, err := repo.ListByStore(ctx, c.store.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, byStore, 1)

	viewed, err := NewBaseProducts(db, acl.SystemACL{}).IncrementViews(ctx, c.baseProduct.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), viewed.Views)
}

func TestProducts_OwnershipChain(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	c := seedCatalog(t, db, 10, "acme")
	price := 25.0

	_, err := NewProducts(db, userACL(t, db, 20, acl.RoleUser)).Update(ctx, c.product.ID, &models.UpdateProduct{Price: &price})
	assert.True(t, acl.IsDenied(err))

	updated, err := NewProducts(db, userACL(t, db, 10, acl.RoleUser)).Update(ctx, c.product.ID, &models.UpdateProduct{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, 25.0, updated.Price)

	variants, err := NewProducts(db, guestACL(t)).FindWithBaseID(ctx, c.baseProduct.ID)
	require.NoError(t, err)
	require.Len(t, variants, 1)
	assert.Equal(t, c.product.ID, variants[0].ID)
}

func TestProducts_UpdateCurrency(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	c := seedCatalog(t, db, 10, "acme")
	repo := NewProducts(db, userACL(t, db, 10, acl.RoleUser))

	_, err := repo.Create(ctx, newProductPayload(c.baseProduct.ID))
	require.NoError(t, err)

	updated, err := repo.UpdateCurrency(ctx, models.CurrencyEUR, c.baseProduct.ID)
	require.NoError(t, err)
	require.Len(t, updated, 2)
	for _, p := range updated {
		assert.Equal(t, models.CurrencyEUR, p.Currency)
	}

	_, err = repo.UpdateCurrency(ctx, models.Currency("XXX"), c.baseProduct.ID)
	assert.ErrorIs(t, err, models.ErrInvalidPayload)
}

func TestProducts_DeactivateByBaseProduct(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	c := seedCatalog(t, db, 10, "acme")

	_, err := NewProducts(db, userACL(t, db, 20, acl.RoleUser)).DeactivateByBaseProduct(ctx, c.baseProduct.ID)
	assert.True(t, acl.IsDenied(err))

	repo := NewProducts(db, userACL(t, db, 10, acl.RoleUser))
	deactivated, err := repo.DeactivateByBaseProduct(ctx, c.baseProduct.ID)
	require.NoError(t, err)
	require.Len(t, deactivated, 1)
	assert.False(t, deactivated[0].IsActive)

	_, err = repo.Find(ctx, c.product.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProductAttrs_ThreeHopChain(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	c := seedCatalog(t, db, 10, "acme")

	payload := &models.NewProductAttr{
		ProdID:     c.product.ID,
		BaseProdID: c.baseProduct.ID,
		AttrID:     3,
		Value:      "XL",
		ValueType:  models.ValueTypeStr,
	}

	_, err := NewProductAttrs(db, userACL(t, db, 20, acl.RoleUser)).Create(ctx, payload)
	assert.True(t, acl.IsDenied(err))

	owner := NewProductAttrs(db, userACL(t, db, 10, acl.RoleUser))
	created, err := owner.Create(ctx, payload)
	require.NoError(t, err)
	assert.Equal(t, "XL", created.Value)

	updated, err := owner.Update(ctx, c.product.ID, models.AttrValue{AttrID: 3, Value: "L"})
	require.NoError(t, err)
	assert.Equal(t, "L", updated.Value)

	attrs, err := NewProductAttrs(db, guestACL(t)).ListByBaseProduct(ctx, c.baseProduct.ID)
	require.NoError(t, err)
	require.Len(t, attrs, 1)

	_, err = NewProductAttrs(db, userACL(t, db, 20, acl.RoleUser)).DeleteByProduct(ctx, c.product.ID)
	assert.True(t, acl.IsDenied(err))

	deleted, err := owner.DeleteByProduct(ctx, c.product.ID)
	require.NoError(t, err)
	assert.Len(t, deleted, 1)

	attrs, err = owner.ListByProduct(ctx, c.product.ID)
	require.NoError(t, err)
	assert.Empty(t, attrs)
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	c := seedCatalog(t, db, 10, "acme")
	errAbort := errors.New("abort")

	err := WithTx(ctx, db, func(tx *sql.Tx) error {
		a := userACL(t, tx, 10, acl.RoleUser)
		if _, err := NewProducts(tx, a).Create(ctx, newProductPayload(c.baseProduct.ID)); err != nil {
			return err
		}
		return errAbort
	})
	assert.ErrorIs(t, err, errAbort)

	variants, err := NewProducts(db, guestACL(t)).FindWithBaseID(ctx, c.baseProduct.ID)
	require.NoError(t, err)
	assert.Len(t, variants, 1)
}
