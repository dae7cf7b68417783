package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/basepoint-api/internal/dbtest"
	"github.com/vietanh2810/basepoint-api/internal/domain"
	"github.com/vietanh2810/basepoint-api/internal/repository"
	"github.com/vietanh2810/basepoint-api/internal/repository/dao"
	"github.com/vietanh2810/basepoint-api/internal/service"
)

func newFactionService(t *testing.T) (*service.FactionService, *service.AuthService) {
	t.Helper()

	gdb := dbtest.Open(t)
	users := repository.NewUserRepository(dao.NewUserDAO(gdb))
	factions := service.NewFactionService(repository.NewFactionRepository(dao.NewFactionDAO(gdb)), users)

	return factions, service.NewAuthService(users)
}

func TestFactionTreasury(t *testing.T) {
	ctx := context.Background()
	svc, _ := newFactionService(t)

	red, err := svc.CreateFaction(ctx, "Red", "the red team")
	require.NoError(t, err)

	_, err = svc.CreateFaction(ctx, "Red", "")
	assert.ErrorIs(t, err, service.ErrFactionNameExists)

	balance, err := svc.CreditFaction(ctx, "Red", 6, "basepoint reward", "scheduler")
	require.NoError(t, err)
	assert.Equal(t, 6, balance)

	_, err = svc.CreditFaction(ctx, "Nobody", 6, "basepoint reward", "scheduler")
	assert.ErrorIs(t, err, service.ErrFactionNotFound)

	_, err = svc.CreditOrDebit(ctx, red.ID, 10, false, "shop", "ann#1")
	assert.ErrorIs(t, err, service.ErrInsufficientBalance)

	balance, err = svc.CreditOrDebit(ctx, red.ID, 5, false, "shop", "ann#1")
	require.NoError(t, err)
	assert.Equal(t, 1, balance)

	found, err := svc.FindFactionByName(ctx, "Red")
	require.NoError(t, err)
	assert.Equal(t, 1, found.Balance)

	transactions, err := svc.ListTransactions(ctx, red.ID, 0)
	require.NoError(t, err)
	require.Len(t, transactions, 2)
	assert.Equal(t, domain.TreasuryDebit, transactions[0].Type)
	assert.Equal(t, domain.TreasuryCredit, transactions[1].Type)
}

func TestFactionMembers(t *testing.T) {
	ctx := context.Background()
	svc, auth := newFactionService(t)

	red, err := svc.CreateFaction(ctx, "Red", "")
	require.NoError(t, err)

	ann, err := auth.Signup(ctx, domain.User{Email: "ann@example.com", Password: "Secret123!", Name: "ann"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.AssignMember(ctx, 9999, ann.ID), service.ErrFactionNotFound)
	assert.ErrorIs(t, svc.AssignMember(ctx, red.ID, 9999), service.ErrUserNotFound)
	require.NoError(t, svc.AssignMember(ctx, red.ID, ann.ID))

	members, err := svc.ListMembers(ctx, red.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, ann.ID, members[0].ID)
}
