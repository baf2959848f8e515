package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinummonkey/stores/pkg/acl"
	"github.com/platinummonkey/stores/pkg/models"
	"github.com/platinummonkey/stores/pkg/repos"
)

func TestGrantDefaultRole_IsIdempotentAndTakesEffect(t *testing.T) {
	env := newTestEnv(t, nil)
	const newcomer int64 = 30

	store := newStore("newcomer")
	store.UserID = newcomer
	_, err := env.svc.CreateStore(as(newcomer), store)
	require.True(t, acl.IsDenied(err), "a user without roles cannot open a store")

	first, err := env.svc.GrantDefaultRole(context.Background(), newcomer)
	require.NoError(t, err)
	assert.Equal(t, acl.RoleUser, first.Name)

	again, err := env.svc.GrantDefaultRole(context.Background(), newcomer)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	roles, err := env.svc.ListUserRoles(as(newcomer), newcomer)
	require.NoError(t, err)
	assert.Len(t, roles, 1)

	_, err = env.svc.CreateStore(as(newcomer), store)
	assert.NoError(t, err)
}

func TestRoleManagement(t *testing.T) {
	env := newTestEnv(t, nil)
	const target int64 = 40

	_, err := env.svc.GrantRole(as(ownerID), &models.NewUserRole{UserID: target, Name: acl.RoleModerator})
	assert.True(t, acl.IsDenied(err))

	granted, err := env.svc.GrantRole(as(superuserID), &models.NewUserRole{UserID: target, Name: acl.RoleModerator})
	require.NoError(t, err)
	_, err = env.svc.GrantRole(as(superuserID), &models.NewUserRole{UserID: target, Name: acl.RoleUser})
	require.NoError(t, err)

	others, err := env.svc.ListUserRoles(as(ownerID), target)
	require.NoError(t, err)
	assert.Empty(t, others, "a user only sees their own grants")

	revoked, err := env.svc.RevokeRoleByID(as(superuserID), granted.ID)
	require.NoError(t, err)
	assert.Equal(t, acl.RoleModerator, revoked.Name)

	removed, err := env.svc.RevokeAllRoles(as(superuserID), target)
	require.NoError(t, err)
	assert.Len(t, removed, 1)

	_, err = env.svc.RevokeRole(as(superuserID), &models.OldUserRole{UserID: target, Name: acl.RoleUser})
	assert.ErrorIs(t, err, repos.ErrNotFound)
}
