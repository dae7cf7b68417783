package repository

import (
	"context"
	"fmt"

	"github.com/vietanh2810/basepoint-api/internal/domain"
	"github.com/vietanh2810/basepoint-api/internal/repository/dao"
)

var (
	ErrUserEmailExists = dao.ErrUserEmailExists
	ErrUserNotFound    = dao.ErrUserNotFound
)

type UserDAO interface {
	Insert(ctx context.Context, user dao.User) (dao.User, error)
	FindByID(ctx context.Context, id uint) (dao.User, error)
	FindByEmail(ctx context.Context, email string) (dao.User, error)
	SetFaction(ctx context.Context, userID uint, factionID *uint) error
	FindByFaction(ctx context.Context, factionID uint) ([]dao.User, error)
}

type UserRepository struct {
	dao UserDAO
}

func NewUserRepository(dao UserDAO) *UserRepository {
	return &UserRepository{
		dao: dao,
	}
}

func (r *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	created, err := r.dao.Insert(ctx, dao.User{
		Email:     user.Email,
		Password:  user.Password,
		Name:      user.Name,
		Role:      user.Role,
		FactionID: user.FactionID,
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (domain.User, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *UserRepository) FindMemberByID(ctx context.Context, id uint) (domain.Member, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Member{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.memberDaoToDomain(found), nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	found, err := r.dao.FindByEmail(ctx, email)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.FindByEmail -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *UserRepository) SetFaction(ctx context.Context, userID uint, factionID *uint) error {
	if err := r.dao.SetFaction(ctx, userID, factionID); err != nil {
		return fmt.Errorf("r.dao.SetFaction -> %w", err)
	}

	return nil
}

func (r *UserRepository) FindByFaction(ctx context.Context, factionID uint) ([]domain.User, error) {
	found, err := r.dao.FindByFaction(ctx, factionID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByFaction -> %w", err)
	}

	users := make([]domain.User, len(found))
	for i, u := range found {
		users[i] = r.daoToDomain(u)
	}

	return users, nil
}

func (r *UserRepository) daoToDomain(u dao.User) domain.User {
	return domain.User{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		Password:  u.Password,
		FactionID: u.FactionID,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func (r *UserRepository) memberDaoToDomain(u dao.User) domain.Member {
	member := domain.Member{User: r.daoToDomain(u)}
	if u.Faction != nil {
		member.Faction = &domain.Faction{
			ID:          u.Faction.ID,
			Name:        u.Faction.Name,
			Description: u.Faction.Description,
			Balance:     u.Faction.Balance,
			CreatedAt:   u.Faction.CreatedAt,
			UpdatedAt:   u.Faction.UpdatedAt,
		}
	}

	return member
}
