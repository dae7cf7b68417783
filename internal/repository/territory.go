package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/vietanh2810/basepoint-api/internal/domain"
	"github.com/vietanh2810/basepoint-api/internal/repository/dao"
)

var (
	ErrPointNameExists = dao.ErrPointNameExists
	ErrPointNotFound   = dao.ErrPointNotFound
	ErrCaptureNotFound = dao.ErrCaptureNotFound
)

type TerritoryDAO interface {
	InsertPoint(ctx context.Context, point dao.ContestedPoint) (dao.ContestedPoint, error)
	DeactivatePoint(ctx context.Context, id uint) (bool, error)
	ReactivatePoint(ctx context.Context, id uint) (bool, error)
	UpdatePoint(ctx context.Context, id uint, newName, newDescription string) (bool, error)
	ListPoints(ctx context.Context, includeInactive bool) ([]dao.ContestedPoint, error)
	FindPointByName(ctx context.Context, name string) (dao.ContestedPoint, error)
	FindPointByID(ctx context.Context, id uint) (dao.ContestedPoint, error)
	InsertCapture(ctx context.Context, event dao.CaptureEvent) (dao.CaptureEvent, error)
	ListActiveCaptures(ctx context.Context) ([]dao.CaptureEvent, error)
	FindCaptureByID(ctx context.Context, id uint) (dao.CaptureEvent, error)
	RemoveCapture(ctx context.Context, id uint, actor string, at time.Time) (bool, error)
}

type TerritoryRepository struct {
	dao TerritoryDAO
}

func NewTerritoryRepository(dao TerritoryDAO) *TerritoryRepository {
	return &TerritoryRepository{
		dao: dao,
	}
}

func (r *TerritoryRepository) CreatePoint(ctx context.Context, point domain.ContestedPoint) (domain.ContestedPoint, error) {
	created, err := r.dao.InsertPoint(ctx, dao.ContestedPoint{
		Name:        point.Name,
		Description: point.Description,
		CreatedBy:   point.CreatedBy,
	})
	if err != nil {
		return domain.ContestedPoint{}, fmt.Errorf("r.dao.InsertPoint -> %w", err)
	}

	return r.pointDaoToDomain(created), nil
}

func (r *TerritoryRepository) DeactivatePoint(ctx context.Context, id uint) (bool, error) {
	ok, err := r.dao.DeactivatePoint(ctx, id)
	if err != nil {
		return false, fmt.Errorf("r.dao.DeactivatePoint -> %w", err)
	}

	return ok, nil
}

func (r *TerritoryRepository) ReactivatePoint(ctx context.Context, id uint) (bool, error) {
	ok, err := r.dao.ReactivatePoint(ctx, id)
	if err != nil {
		return false, fmt.Errorf("r.dao.ReactivatePoint -> %w", err)
	}

	return ok, nil
}

func (r *TerritoryRepository) UpdatePoint(ctx context.Context, id uint, newName, newDescription string) (bool, error) {
	ok, err := r.dao.UpdatePoint(ctx, id, newName, newDescription)
	if err != nil {
		return false, fmt.Errorf("r.dao.UpdatePoint -> %w", err)
	}

	return ok, nil
}

func (r *TerritoryRepository) ListPoints(ctx context.Context, includeInactive bool) ([]domain.ContestedPoint, error) {
	found, err := r.dao.ListPoints(ctx, includeInactive)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListPoints -> %w", err)
	}

	points := make([]domain.ContestedPoint, len(found))
	for i, p := range found {
		points[i] = r.pointDaoToDomain(p)
	}

	return points, nil
}

func (r *TerritoryRepository) FindPointByName(ctx context.Context, name string) (domain.ContestedPoint, error) {
	found, err := r.dao.FindPointByName(ctx, name)
	if err != nil {
		return domain.ContestedPoint{}, fmt.Errorf("r.dao.FindPointByName -> %w", err)
	}

	return r.pointDaoToDomain(found), nil
}

func (r *TerritoryRepository) FindPointByID(ctx context.Context, id uint) (domain.ContestedPoint, error) {
	found, err := r.dao.FindPointByID(ctx, id)
	if err != nil {
		return domain.ContestedPoint{}, fmt.Errorf("r.dao.FindPointByID -> %w", err)
	}

	return r.pointDaoToDomain(found), nil
}

func (r *TerritoryRepository) AppendCapture(ctx context.Context, event domain.CaptureEvent) (domain.CaptureEvent, error) {
	created, err := r.dao.InsertCapture(ctx, dao.CaptureEvent{
		FactionName: event.FactionName,
		PointName:   event.PointName,
		CapturedBy:  event.CapturedBy,
		EvidenceURL: event.EvidenceURL,
		CapturedAt:  event.CapturedAt,
	})
	if err != nil {
		return domain.CaptureEvent{}, fmt.Errorf("r.dao.InsertCapture -> %w", err)
	}

	return r.captureDaoToDomain(created), nil
}

func (r *TerritoryRepository) ListActiveCaptures(ctx context.Context) ([]domain.CaptureEvent, error) {
	found, err := r.dao.ListActiveCaptures(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListActiveCaptures -> %w", err)
	}

	events := make([]domain.CaptureEvent, len(found))
	for i, e := range found {
		events[i] = r.captureDaoToDomain(e)
	}

	return events, nil
}

func (r *TerritoryRepository) FindCaptureByID(ctx context.Context, id uint) (domain.CaptureEvent, error) {
	found, err := r.dao.FindCaptureByID(ctx, id)
	if err != nil {
		return domain.CaptureEvent{}, fmt.Errorf("r.dao.FindCaptureByID -> %w", err)
	}

	return r.captureDaoToDomain(found), nil
}

func (r *TerritoryRepository) RemoveCapture(ctx context.Context, id uint, actor string, at time.Time) (bool, error) {
	ok, err := r.dao.RemoveCapture(ctx, id, actor, at)
	if err != nil {
		return false, fmt.Errorf("r.dao.RemoveCapture -> %w", err)
	}

	return ok, nil
}

func (r *TerritoryRepository) pointDaoToDomain(p dao.ContestedPoint) domain.ContestedPoint {
	return domain.ContestedPoint{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		IsActive:    p.IsActive,
		CreatedBy:   p.CreatedBy,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (r *TerritoryRepository) captureDaoToDomain(e dao.CaptureEvent) domain.CaptureEvent {
	return domain.CaptureEvent{
		ID:          e.ID,
		FactionName: e.FactionName,
		PointName:   e.PointName,
		CapturedBy:  e.CapturedBy,
		EvidenceURL: e.EvidenceURL,
		CapturedAt:  e.CapturedAt,
		RemovedAt:   e.RemovedAt,
		RemovedBy:   e.RemovedBy,
	}
}
