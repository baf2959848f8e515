package repos

import (
	"context"
	"testing"
	"time"

	"github.com/platinummonkey/stores/pkg/acl"
	"github.com/platinummonkey/stores/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoupons_OwnedByStore(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	c := seedCatalog(t, db, 10, "acme")
	owner := NewCoupons(db, userACL(t, db, 10, acl.RoleUser))
	other := NewCoupons(db, userACL(t, db, 20, acl.RoleUser))

	payload := &models.NewCoupon{
		Code:     "SPRING10",
		Title:    "Spring sale",
		StoreID:  c.store.ID,
		Scope:    models.CouponScopeStore,
		Percent:  10,
		Quantity: 100,
	}
	_, err := other.Create(ctx, payload)
	assert.True(t, acl.IsDenied(err))

	coupon, err := owner.Create(ctx, payload)
	require.NoError(t, err)
	assert.True(t, coupon.IsActive)

	byCode, err := owner.FindByCode(ctx, "SPRING10")
	require.NoError(t, err)
	assert.Equal(t, coupon.ID, byCode.ID)

	// coupons are private to the store owner
	_, err = other.Find(ctx, coupon.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = NewCoupons(db, guestACL(t)).Find(ctx, coupon.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	listed, err := other.ListByStore(ctx, c.store.ID)
	require.NoError(t, err)
	assert.Empty(t, listed)

	expiry := time.Now().Add(24 * time.Hour).UTC().Truncate(time.Second)
	percent := 15
	updated, err := owner.Update(ctx, coupon.ID, &models.UpdateCoupon{Percent: &percent, ExpiredAt: &expiry})
	require.NoError(t, err)
	assert.Equal(t, 15, updated.Percent)
	require.NotNil(t, updated.ExpiredAt)
	assert.False(t, updated.Expired(time.Now()))

	_, err = owner.Delete(ctx, coupon.ID)
	require.NoError(t, err)
	_, err = owner.Find(ctx, coupon.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWizardStores_OnePerUser(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewWizardStores(db, userACL(t, db, 10, acl.RoleUser))

	_, err := repo.Create(ctx, &models.NewWizardStore{UserID: 20})
	assert.True(t, acl.IsDenied(err))

	created, err := repo.Create(ctx, &models.NewWizardStore{UserID: 10})
	require.NoError(t, err)
	assert.False(t, created.Completed)

	_, err = repo.Create(ctx, &models.NewWizardStore{UserID: 10})
	require.Error(t, err)

	done := true
	updated, err := repo.Update(ctx, 10, &models.UpdateWizardStore{Name: strPtr("Acme"), Completed: &done})
	require.NoError(t, err)
	require.NotNil(t, updated.Name)
	assert.Equal(t, "Acme", *updated.Name)
	assert.True(t, updated.Completed)

	_, err = NewWizardStores(db, userACL(t, db, 20, acl.RoleUser)).FindByUserID(ctx, 10)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.Delete(ctx, 10)
	require.NoError(t, err)
	_, err = repo.FindByUserID(ctx, 10)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestModeratorComments(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	c := seedCatalog(t, db, 10, "acme")

	_, err := NewModeratorProductComments(db, userACL(t, db, 10, acl.RoleUser)).Create(ctx, &models.NewModeratorProductComment{
		ModeratorID: 10, BaseProductID: c.baseProduct.ID, Comments: "looks fine",
	})
	assert.True(t, acl.IsDenied(err))

	mod := NewModeratorProductComments(db, userACL(t, db, 30, acl.RoleModerator))
	first, err := mod.Create(ctx, &models.NewModeratorProductComment{
		ModeratorID: 30, BaseProductID: c.baseProduct.ID, Comments: "missing photos",
	})
	require.NoError(t, err)
	second, err := mod.Create(ctx, &models.NewModeratorProductComment{
		ModeratorID: 30, BaseProductID: c.baseProduct.ID, Comments: "approved",
	})
	require.NoError(t, err)

	comments, err := mod.FindByBaseProduct(ctx, c.baseProduct.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, second.ID, comments[0].ID)
	assert.Equal(t, first.ID, comments[1].ID)

	// only moderators and superusers read moderation notes
	hidden, err := NewModeratorProductComments(db, guestACL(t)).FindByBaseProduct(ctx, c.baseProduct.ID)
	require.NoError(t, err)
	assert.Empty(t, hidden)

	storeMod := NewModeratorStoreComments(db, userACL(t, db, 30, acl.RoleModerator))
	_, err = storeMod.Create(ctx, &models.NewModeratorStoreComment{ModeratorID: 30, StoreID: c.store.ID, Comments: "ok"})
	require.NoError(t, err)
	storeComments, err := storeMod.FindByStore(ctx, c.store.ID)
	require.NoError(t, err)
	assert.Len(t, storeComments, 1)
}

func TestCustomAttributes(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	c := seedCatalog(t, db, 10, "acme")
	owner := NewCustomAttributes(db, userACL(t, db, 10, acl.RoleUser))

	_, err := NewCustomAttributes(db, userACL(t, db, 20, acl.RoleUser)).Create(ctx, &models.NewCustomAttribute{
		BaseProductID: c.baseProduct.ID, AttributeID: 5,
	})
	assert.True(t, acl.IsDenied(err))

	created, err := owner.Create(ctx, &models.NewCustomAttribute{BaseProductID: c.baseProduct.ID, AttributeID: 5})
	require.NoError(t, err)

	listed, err := NewCustomAttributes(db, guestACL(t)).ListByBaseProduct(ctx, c.baseProduct.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)

	_, err = NewCustomAttributes(db, userACL(t, db, 20, acl.RoleUser)).Delete(ctx, created.ID)
	assert.True(t, acl.IsDenied(err))

	_, err = owner.Delete(ctx, created.ID)
	require.NoError(t, err)
	_, err = owner.Delete(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
