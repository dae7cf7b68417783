package service

import (
	"context"
	"fmt"

	"github.com/vietanh2810/basepoint-api/internal/domain"
	"github.com/vietanh2810/basepoint-api/internal/repository"
)

var (
	ErrUserNotFound = repository.ErrUserNotFound
)

type UserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
	FindMemberByID(ctx context.Context, id uint) (domain.Member, error)
}

type UserService struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{
		repo: repo,
	}
}

func (s *UserService) GetUser(ctx context.Context, id uint) (domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return user, nil
}

// GetMember returns the user with its faction loaded.
func (s *UserService) GetMember(ctx context.Context, id uint) (domain.Member, error) {
	member, err := s.repo.FindMemberByID(ctx, id)
	if err != nil {
		return domain.Member{}, fmt.Errorf("s.repo.FindMemberByID -> %w", err)
	}

	return member, nil
}
