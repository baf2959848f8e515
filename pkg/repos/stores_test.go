package repos

import (
	"context"
	"testing"

	"github.com/platinummonkey/stores/pkg/acl"
	"github.com/platinummonkey/stores/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStores_CreateAndFind(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	owner := NewStores(db, userACL(t, db, 10, acl.RoleUser))
	store, err := owner.Create(ctx, newStorePayload(10, "acme"))
	require.NoError(t, err)
	assert.Equal(t, int64(10), store.UserID)
	assert.Equal(t, models.StatusDraft, store.Status)
	assert.True(t, store.IsActive)
	assert.Equal(t, "Store acme", store.Name.Get("en"))

	// guests read every active store
	found, err := NewStores(db, guestACL(t)).Find(ctx, store.ID)
	require.NoError(t, err)
	assert.Equal(t, store.ID, found.ID)

	bySlug, err := owner.FindBySlug(ctx, "acme")
	require.NoError(t, err)
	assert.Equal(t, store.ID, bySlug.ID)

	byUser, err := owner.FindByUserID(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, store.ID, byUser.ID)
}

func TestStores_CreateForAnotherUserDenied(t *testing.T) {
	db := setupTestDB(t)

	_, err := NewStores(db, userACL(t, db, 10, acl.RoleUser)).Create(context.Background(), newStorePayload(20, "theirs"))
	require.Error(t, err)
	assert.True(t, acl.IsDenied(err))

	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM stores").Scan(&n))
	assert.Zero(t, n)
}

func TestStores_CreateAsGuestDenied(t *testing.T) {
	db := setupTestDB(t)

	_, err := NewStores(db, guestACL(t)).Create(context.Background(), newStorePayload(10, "anon"))
	assert.True(t, acl.IsDenied(err))
}

func TestStores_CreateInvalidPayload(t *testing.T) {
	db := setupTestDB(t)

	payload := newStorePayload(10, "Not A Slug")
	_, err := NewStores(db, userACL(t, db, 10, acl.RoleUser)).Create(context.Background(), payload)
	assert.ErrorIs(t, err, models.ErrInvalidPayload)
}

func TestStores_Update(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	c := seedCatalog(t, db, 10, "acme")

	t.Run("owner", func(t *testing.T) {
		updated, err := NewStores(db, userACL(t, db, 10, acl.RoleUser)).Update(ctx, c.store.ID, &models.UpdateStore{
			Phone: strPtr("+100"),
		})
		require.NoError(t, err)
		require.NotNil(t, updated.Phone)
		assert.Equal(t, "+100", *updated.Phone)
	})

	t.Run("other user", func(t *testing.T) {
		_, err := NewStores(db, userACL(t, db, 20, acl.RoleUser)).Update(ctx, c.store.ID, &models.UpdateStore{
			Phone: strPtr("+200"),
		})
		require.Error(t, err)
		assert.True(t, acl.IsDenied(err))
	})

	t.Run("moderator", func(t *testing.T) {
		updated, err := NewStores(db, userACL(t, db, 30, acl.RoleModerator)).Update(ctx, c.store.ID, &models.UpdateStore{
			Slogan: strPtr("checked"),
		})
		require.NoError(t, err)
		require.NotNil(t, updated.Slogan)
		assert.Equal(t, "checked", *updated.Slogan)
	})

	t.Run("empty payload returns current row", func(t *testing.T) {
		current, err := NewStores(db, userACL(t, db, 10, acl.RoleUser)).Update(ctx, c.store.ID, &models.UpdateStore{})
		require.NoError(t, err)
		assert.Equal(t, c.store.ID, current.ID)
	})
}

func TestStores_Deactivate(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	c := seedCatalog(t, db, 10, "acme")

	_, err := NewStores(db, userACL(t, db, 20, acl.RoleUser)).Deactivate(ctx, c.store.ID)
	assert.True(t, acl.IsDenied(err))

	repo := NewStores(db, userACL(t, db, 10, acl.RoleUser))
	deactivated, err := repo.Deactivate(ctx, c.store.ID)
	require.NoError(t, err)
	assert.False(t, deactivated.IsActive)

	_, err = repo.Find(ctx, c.store.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	n, err := repo.Count(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	n, err = repo.Count(ctx, false)
	require.NoError(t, err)
	assert.Zero(t, n)

	exists, err := repo.SlugExists(ctx, "acme")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestStores_ListAndFindMany(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	first := seedCatalog(t, db, 10, "one")
	second := seedCatalog(t, db, 20, "two")
	third := seedCatalog(t, db, 30, "three")

	repo := NewStores(db, guestACL(t))

	page, err := repo.List(ctx, second.store.ID, 10)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, second.store.ID, page[0].ID)
	assert.Equal(t, third.store.ID, page[1].ID)

	page, err = repo.List(ctx, 0, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, first.store.ID, page[0].ID)

	many, err := repo.FindMany(ctx, []int64{third.store.ID, 999, first.store.ID})
	require.NoError(t, err)
	require.Len(t, many, 2)
	assert.Equal(t, third.store.ID, many[0].ID)
	assert.Equal(t, first.store.ID, many[1].ID)

	empty, err := repo.FindMany(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestStores_FindMissing(t *testing.T) {
	db := setupTestDB(t)

	_, err := NewStores(db, guestACL(t)).Find(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestModeration(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	c := seedCatalog(t, db, 10, "acme")
	published := models.StatusPublished
	rating := 5.0
	decision := &models.Moderation{Status: &published, Rating: &rating}

	t.Run("owner cannot publish or rate", func(t *testing.T) {
		owner := userACL(t, db, 10, acl.RoleUser)
		_, err := NewStores(db, owner).Moderate(ctx, c.store.ID, decision)
		assert.True(t, acl.IsDenied(err))
		_, err = NewBaseProducts(db, owner).Moderate(ctx, c.baseProduct.ID, decision)
		assert.True(t, acl.IsDenied(err))

		store, err := NewStores(db, owner).Find(ctx, c.store.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusDraft, store.Status)
		assert.Zero(t, store.Rating)
	})

	t.Run("moderator publishes and rates", func(t *testing.T) {
		moderator := userACL(t, db, 30, acl.RoleModerator)
		store, err := NewStores(db, moderator).Moderate(ctx, c.store.ID, decision)
		require.NoError(t, err)
		assert.Equal(t, models.StatusPublished, store.Status)
		assert.Equal(t, 5.0, store.Rating)

		bp, err := NewBaseProducts(db, moderator).Moderate(ctx, c.baseProduct.ID, &models.Moderation{Status: &published})
		require.NoError(t, err)
		assert.Equal(t, models.StatusPublished, bp.Status)
	})

	t.Run("invalid decision", func(t *testing.T) {
		superuser := userACL(t, db, 1, acl.RoleSuperuser)
		_, err := NewStores(db, superuser).Moderate(ctx, c.store.ID, &models.Moderation{})
		assert.ErrorIs(t, err, models.ErrInvalidPayload)

		tooHigh := 6.0
		_, err = NewStores(db, superuser).Moderate(ctx, c.store.ID, &models.Moderation{Rating: &tooHigh})
		assert.ErrorIs(t, err, models.ErrInvalidPayload)
	})
}
