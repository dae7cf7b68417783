package service

import (
	"context"
	"fmt"

	"github.com/vietanh2810/basepoint-api/internal/domain"
	"github.com/vietanh2810/basepoint-api/internal/repository"
)

var (
	ErrFactionNotFound     = repository.ErrFactionNotFound
	ErrFactionNameExists   = repository.ErrFactionNameExists
	ErrInsufficientBalance = repository.ErrInsufficientBalance
	ErrInvalidAmount       = repository.ErrInvalidAmount
)

// DefaultTransactionLimit caps treasury history listings.
const DefaultTransactionLimit = 20

type FactionRepository interface {
	Create(ctx context.Context, faction domain.Faction) (domain.Faction, error)
	FindByID(ctx context.Context, id uint) (domain.Faction, error)
	FindByName(ctx context.Context, name string) (domain.Faction, error)
	List(ctx context.Context) ([]domain.Faction, error)
	CreditOrDebit(ctx context.Context, factionID uint, amount int, isCredit bool, memo, actor string) (int, error)
	ListTransactions(ctx context.Context, factionID uint, limit int) ([]domain.TreasuryTransaction, error)
}

type FactionMemberRepository interface {
	SetFaction(ctx context.Context, userID uint, factionID *uint) error
	FindByFaction(ctx context.Context, factionID uint) ([]domain.User, error)
}

type FactionService struct {
	repo    FactionRepository
	members FactionMemberRepository
}

func NewFactionService(repo FactionRepository, members FactionMemberRepository) *FactionService {
	return &FactionService{
		repo:    repo,
		members: members,
	}
}

func (s *FactionService) CreateFaction(ctx context.Context, name, description string) (domain.Faction, error) {
	faction, err := s.repo.Create(ctx, domain.Faction{Name: name, Description: description})
	if err != nil {
		return domain.Faction{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return faction, nil
}

func (s *FactionService) ListFactions(ctx context.Context) ([]domain.Faction, error) {
	factions, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.List -> %w", err)
	}

	return factions, nil
}

func (s *FactionService) FindFactionByName(ctx context.Context, name string) (domain.Faction, error) {
	faction, err := s.repo.FindByName(ctx, name)
	if err != nil {
		return domain.Faction{}, fmt.Errorf("s.repo.FindByName -> %w", err)
	}

	return faction, nil
}

func (s *FactionService) FindFactionByID(ctx context.Context, id uint) (domain.Faction, error) {
	faction, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Faction{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return faction, nil
}

// CreditOrDebit applies an atomic balance change and returns the new balance.
// Debits that would take the balance below zero fail with
// ErrInsufficientBalance.
func (s *FactionService) CreditOrDebit(ctx context.Context, factionID uint, amount int, isCredit bool, memo, actor string) (int, error) {
	balance, err := s.repo.CreditOrDebit(ctx, factionID, amount, isCredit, memo, actor)
	if err != nil {
		return 0, fmt.Errorf("s.repo.CreditOrDebit -> %w", err)
	}

	return balance, nil
}

// CreditFaction resolves a faction by name and credits it.
func (s *FactionService) CreditFaction(ctx context.Context, factionName string, amount int, memo, actor string) (int, error) {
	faction, err := s.repo.FindByName(ctx, factionName)
	if err != nil {
		return 0, fmt.Errorf("s.repo.FindByName -> %w", err)
	}

	balance, err := s.repo.CreditOrDebit(ctx, faction.ID, amount, true, memo, actor)
	if err != nil {
		return 0, fmt.Errorf("s.repo.CreditOrDebit -> %w", err)
	}

	return balance, nil
}

func (s *FactionService) ListTransactions(ctx context.Context, factionID uint, limit int) ([]domain.TreasuryTransaction, error) {
	if limit <= 0 {
		limit = DefaultTransactionLimit
	}

	transactions, err := s.repo.ListTransactions(ctx, factionID, limit)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListTransactions -> %w", err)
	}

	return transactions, nil
}

func (s *FactionService) AssignMember(ctx context.Context, factionID, userID uint) error {
	if _, err := s.repo.FindByID(ctx, factionID); err != nil {
		return fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if err := s.members.SetFaction(ctx, userID, &factionID); err != nil {
		return fmt.Errorf("s.members.SetFaction -> %w", err)
	}

	return nil
}

func (s *FactionService) ListMembers(ctx context.Context, factionID uint) ([]domain.User, error) {
	if _, err := s.repo.FindByID(ctx, factionID); err != nil {
		return nil, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	users, err := s.members.FindByFaction(ctx, factionID)
	if err != nil {
		return nil, fmt.Errorf("s.members.FindByFaction -> %w", err)
	}

	return users, nil
}
