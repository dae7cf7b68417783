package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/vietanh2810/basepoint-api/internal/domain"
	"github.com/vietanh2810/basepoint-api/internal/repository/dao"
)

var (
	ErrSessionAlreadyActive = dao.ErrSessionAlreadyActive
	ErrSessionNotActive     = dao.ErrSessionNotActive
)

type SessionDAO interface {
	Get(ctx context.Context) (dao.SessionState, error)
	Start(ctx context.Context, actor string, at time.Time) (dao.SessionState, error)
	Stop(ctx context.Context, at time.Time) (dao.SessionState, error)
}

type SessionRepository struct {
	dao SessionDAO
}

func NewSessionRepository(dao SessionDAO) *SessionRepository {
	return &SessionRepository{
		dao: dao,
	}
}

func (r *SessionRepository) Get(ctx context.Context) (domain.SessionState, error) {
	state, err := r.dao.Get(ctx)
	if err != nil {
		return domain.SessionState{}, fmt.Errorf("r.dao.Get -> %w", err)
	}

	return r.daoToDomain(state), nil
}

func (r *SessionRepository) Start(ctx context.Context, actor string, at time.Time) (domain.SessionState, error) {
	state, err := r.dao.Start(ctx, actor, at)
	if err != nil {
		return domain.SessionState{}, fmt.Errorf("r.dao.Start -> %w", err)
	}

	return r.daoToDomain(state), nil
}

func (r *SessionRepository) Stop(ctx context.Context, at time.Time) (domain.SessionState, error) {
	state, err := r.dao.Stop(ctx, at)
	if err != nil {
		return domain.SessionState{}, fmt.Errorf("r.dao.Stop -> %w", err)
	}

	return r.daoToDomain(state), nil
}

func (r *SessionRepository) daoToDomain(s dao.SessionState) domain.SessionState {
	return domain.SessionState{
		IsActive:  s.IsActive,
		StartedBy: s.StartedBy,
		StartedAt: s.StartedAt,
		EndedAt:   s.EndedAt,
	}
}
