package dao_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/basepoint-api/internal/dbtest"
	"github.com/vietanh2810/basepoint-api/internal/repository/dao"
)

func TestUserDAO(t *testing.T) {
	ctx := context.Background()
	gdb := dbtest.Open(t)
	users := dao.NewUserDAO(gdb)
	factions := dao.NewFactionDAO(gdb)

	red, err := factions.Insert(ctx, dao.Faction{Name: "Red"})
	require.NoError(t, err)

	ann, err := users.Insert(ctx, dao.User{Email: "ann@example.com", Password: "hash", Role: "member", Name: "ann"})
	require.NoError(t, err)

	_, err = users.Insert(ctx, dao.User{Email: "ann@example.com", Password: "hash", Role: "member", Name: "ann2"})
	assert.ErrorIs(t, err, dao.ErrUserEmailExists)

	require.NoError(t, users.SetFaction(ctx, ann.ID, &red.ID))
	assert.ErrorIs(t, users.SetFaction(ctx, 9999, &red.ID), dao.ErrUserNotFound)

	found, err := users.FindByEmail(ctx, "ann@example.com")
	require.NoError(t, err)
	require.NotNil(t, found.FactionID)
	assert.Equal(t, red.ID, *found.FactionID)
	require.NotNil(t, found.Faction)
	assert.Equal(t, "Red", found.Faction.Name)

	members, err := users.FindByFaction(ctx, red.ID)
	require.NoError(t, err)
	assert.Len(t, members, 1)

	_, err = users.FindByID(ctx, 9999)
	assert.ErrorIs(t, err, dao.ErrUserNotFound)
}
