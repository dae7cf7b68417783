package repository

import (
	"context"
	"fmt"

	"github.com/vietanh2810/basepoint-api/internal/domain"
	"github.com/vietanh2810/basepoint-api/internal/repository/dao"
)

var (
	ErrFactionNotFound     = dao.ErrFactionNotFound
	ErrFactionNameExists   = dao.ErrFactionNameExists
	ErrInsufficientBalance = dao.ErrInsufficientBalance
	ErrInvalidAmount       = dao.ErrInvalidAmount
)

type FactionDAO interface {
	Insert(ctx context.Context, faction dao.Faction) (dao.Faction, error)
	FindByID(ctx context.Context, id uint) (dao.Faction, error)
	FindByName(ctx context.Context, name string) (dao.Faction, error)
	List(ctx context.Context) ([]dao.Faction, error)
	CreditOrDebit(ctx context.Context, factionID uint, amount int, isCredit bool, memo, actor string) (int, error)
	ListTransactions(ctx context.Context, factionID uint, limit int) ([]dao.TreasuryTransaction, error)
}

type FactionRepository struct {
	dao FactionDAO
}

func NewFactionRepository(dao FactionDAO) *FactionRepository {
	return &FactionRepository{
		dao: dao,
	}
}

func (r *FactionRepository) Create(ctx context.Context, faction domain.Faction) (domain.Faction, error) {
	created, err := r.dao.Insert(ctx, dao.Faction{
		Name:        faction.Name,
		Description: faction.Description,
	})
	if err != nil {
		return domain.Faction{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *FactionRepository) FindByID(ctx context.Context, id uint) (domain.Faction, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Faction{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *FactionRepository) FindByName(ctx context.Context, name string) (domain.Faction, error) {
	found, err := r.dao.FindByName(ctx, name)
	if err != nil {
		return domain.Faction{}, fmt.Errorf("r.dao.FindByName -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *FactionRepository) List(ctx context.Context) ([]domain.Faction, error) {
	found, err := r.dao.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.List -> %w", err)
	}

	factions := make([]domain.Faction, len(found))
	for i, f := range found {
		factions[i] = r.daoToDomain(f)
	}

	return factions, nil
}

func (r *FactionRepository) CreditOrDebit(ctx context.Context, factionID uint, amount int, isCredit bool, memo, actor string) (int, error) {
	balance, err := r.dao.CreditOrDebit(ctx, factionID, amount, isCredit, memo, actor)
	if err != nil {
		return 0, fmt.Errorf("r.dao.CreditOrDebit -> %w", err)
	}

	return balance, nil
}

func (r *FactionRepository) ListTransactions(ctx context.Context, factionID uint, limit int) ([]domain.TreasuryTransaction, error) {
	found, err := r.dao.ListTransactions(ctx, factionID, limit)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListTransactions -> %w", err)
	}

	transactions := make([]domain.TreasuryTransaction, len(found))
	for i, t := range found {
		transactions[i] = domain.TreasuryTransaction{
			ID:           t.ID,
			FactionID:    t.FactionID,
			Amount:       t.Amount,
			Type:         domain.TreasuryTransactionType(t.Type),
			Memo:         t.Memo,
			Actor:        t.Actor,
			BalanceAfter: t.BalanceAfter,
			CreatedAt:    t.CreatedAt,
		}
	}

	return transactions, nil
}

func (r *FactionRepository) daoToDomain(f dao.Faction) domain.Faction {
	return domain.Faction{
		ID:          f.ID,
		Name:        f.Name,
		Description: f.Description,
		Balance:     f.Balance,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}
