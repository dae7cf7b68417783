package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/vietanh2810/basepoint-api/internal/domain"
	"github.com/vietanh2810/basepoint-api/internal/repository"
)

var (
	ErrPointNameExists      = repository.ErrPointNameExists
	ErrPointNotFound        = repository.ErrPointNotFound
	ErrCaptureNotFound      = repository.ErrCaptureNotFound
	ErrSessionAlreadyActive = repository.ErrSessionAlreadyActive
	ErrSessionNotActive     = repository.ErrSessionNotActive
	ErrPointNotActive       = errors.New("basepoint not active")
)

type TerritoryRepository interface {
	CreatePoint(ctx context.Context, point domain.ContestedPoint) (domain.ContestedPoint, error)
	DeactivatePoint(ctx context.Context, id uint) (bool, error)
	ReactivatePoint(ctx context.Context, id uint) (bool, error)
	UpdatePoint(ctx context.Context, id uint, newName, newDescription string) (bool, error)
	ListPoints(ctx context.Context, includeInactive bool) ([]domain.ContestedPoint, error)
	FindPointByName(ctx context.Context, name string) (domain.ContestedPoint, error)
	AppendCapture(ctx context.Context, event domain.CaptureEvent) (domain.CaptureEvent, error)
	ListActiveCaptures(ctx context.Context) ([]domain.CaptureEvent, error)
	RemoveCapture(ctx context.Context, id uint, actor string, at time.Time) (bool, error)
}

type SessionRepository interface {
	Get(ctx context.Context) (domain.SessionState, error)
	Start(ctx context.Context, actor string, at time.Time) (domain.SessionState, error)
	Stop(ctx context.Context, at time.Time) (domain.SessionState, error)
}

type FactionFinder interface {
	FindByName(ctx context.Context, name string) (domain.Faction, error)
}

type Notifier interface {
	Notify(ctx context.Context, n domain.Notification) error
}

// SessionWatcher is told about session transitions so it does not have to
// wait for its next poll.
type SessionWatcher interface {
	Wake()
}

type TerritoryService struct {
	repo           TerritoryRepository
	sessions       SessionRepository
	factions       FactionFinder
	notifier       Notifier
	clock          clockwork.Clock
	captureChannel string
	watcher        SessionWatcher
}

func NewTerritoryService(
	repo TerritoryRepository,
	sessions SessionRepository,
	factions FactionFinder,
	notifier Notifier,
	clock clockwork.Clock,
	captureChannel string,
) *TerritoryService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	return &TerritoryService{
		repo:           repo,
		sessions:       sessions,
		factions:       factions,
		notifier:       notifier,
		clock:          clock,
		captureChannel: captureChannel,
	}
}

func (s *TerritoryService) SetSessionWatcher(w SessionWatcher) {
	s.watcher = w
}

func (s *TerritoryService) RegisterPoint(ctx context.Context, name, description, actor string) (domain.ContestedPoint, error) {
	point, err := s.repo.CreatePoint(ctx, domain.ContestedPoint{
		Name:        name,
		Description: description,
		CreatedBy:   actor,
	})
	if err != nil {
		return domain.ContestedPoint{}, fmt.Errorf("s.repo.CreatePoint -> %w", err)
	}

	return point, nil
}

func (s *TerritoryService) DeactivatePoint(ctx context.Context, id uint) (bool, error) {
	ok, err := s.repo.DeactivatePoint(ctx, id)
	if err != nil {
		return false, fmt.Errorf("s.repo.DeactivatePoint -> %w", err)
	}

	return ok, nil
}

func (s *TerritoryService) ReactivatePoint(ctx context.Context, id uint) (bool, error) {
	ok, err := s.repo.ReactivatePoint(ctx, id)
	if err != nil {
		return false, fmt.Errorf("s.repo.ReactivatePoint -> %w", err)
	}

	return ok, nil
}

func (s *TerritoryService) UpdatePoint(ctx context.Context, id uint, newName, newDescription string) (bool, error) {
	ok, err := s.repo.UpdatePoint(ctx, id, newName, newDescription)
	if err != nil {
		return false, fmt.Errorf("s.repo.UpdatePoint -> %w", err)
	}

	return ok, nil
}

func (s *TerritoryService) ListPoints(ctx context.Context, includeInactive bool) ([]domain.ContestedPoint, error) {
	points, err := s.repo.ListPoints(ctx, includeInactive)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListPoints -> %w", err)
	}

	return points, nil
}

func (s *TerritoryService) FindPointByName(ctx context.Context, name string) (domain.ContestedPoint, error) {
	point, err := s.repo.FindPointByName(ctx, name)
	if err != nil {
		return domain.ContestedPoint{}, fmt.Errorf("s.repo.FindPointByName -> %w", err)
	}

	return point, nil
}

// SubmitCapture records a capture if a session is running and the point is a
// registered, active basepoint. The checks are point-in-time: a capture
// accepted just before a stop stays valid.
func (s *TerritoryService) SubmitCapture(ctx context.Context, factionName, pointName, actor, evidenceURL string) (domain.CaptureEvent, error) {
	session, err := s.sessions.Get(ctx)
	if err != nil {
		return domain.CaptureEvent{}, fmt.Errorf("s.sessions.Get -> %w", err)
	}
	if !session.IsActive {
		return domain.CaptureEvent{}, ErrSessionNotActive
	}

	point, err := s.repo.FindPointByName(ctx, pointName)
	if err != nil {
		if errors.Is(err, repository.ErrPointNotFound) {
			return domain.CaptureEvent{}, ErrPointNotActive
		}
		return domain.CaptureEvent{}, fmt.Errorf("s.repo.FindPointByName -> %w", err)
	}
	if !point.IsActive {
		return domain.CaptureEvent{}, ErrPointNotActive
	}

	if _, err = s.factions.FindByName(ctx, factionName); err != nil {
		return domain.CaptureEvent{}, fmt.Errorf("s.factions.FindByName -> %w", err)
	}

	event, err := s.repo.AppendCapture(ctx, domain.CaptureEvent{
		FactionName: factionName,
		PointName:   point.Name,
		CapturedBy:  actor,
		EvidenceURL: evidenceURL,
		CapturedAt:  s.clock.Now(),
	})
	if err != nil {
		return domain.CaptureEvent{}, fmt.Errorf("s.repo.AppendCapture -> %w", err)
	}

	s.notify(ctx, domain.CaptureNotification(s.captureChannel, event))

	return event, nil
}

// RemoveCapture reports false when the capture is unknown or already removed.
func (s *TerritoryService) RemoveCapture(ctx context.Context, id uint, actor string) (bool, error) {
	ok, err := s.repo.RemoveCapture(ctx, id, actor, s.clock.Now())
	if err != nil {
		return false, fmt.Errorf("s.repo.RemoveCapture -> %w", err)
	}

	return ok, nil
}

func (s *TerritoryService) ListActiveCaptures(ctx context.Context) ([]domain.CaptureEvent, error) {
	events, err := s.repo.ListActiveCaptures(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListActiveCaptures -> %w", err)
	}

	return events, nil
}

// ActiveCounts resolves the current holders from the ledger as it is now.
func (s *TerritoryService) ActiveCounts(ctx context.Context) (map[string]int, error) {
	events, err := s.repo.ListActiveCaptures(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListActiveCaptures -> %w", err)
	}

	return domain.ActiveCounts(events), nil
}

func (s *TerritoryService) RecentCaptures(ctx context.Context, limit int) ([]domain.CaptureEvent, error) {
	events, err := s.repo.ListActiveCaptures(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListActiveCaptures -> %w", err)
	}

	return domain.RecentCaptures(events, limit), nil
}

func (s *TerritoryService) StartSession(ctx context.Context, actor string) (domain.SessionState, error) {
	state, err := s.sessions.Start(ctx, actor, s.clock.Now())
	if err != nil {
		return domain.SessionState{}, fmt.Errorf("s.sessions.Start -> %w", err)
	}
	zap.L().Info("session started", zap.String("actor", actor))
	s.wake()

	return state, nil
}

func (s *TerritoryService) StopSession(ctx context.Context, actor string) (domain.SessionState, error) {
	state, err := s.sessions.Stop(ctx, s.clock.Now())
	if err != nil {
		return domain.SessionState{}, fmt.Errorf("s.sessions.Stop -> %w", err)
	}
	zap.L().Info("session stopped", zap.String("actor", actor))
	s.wake()

	return state, nil
}

func (s *TerritoryService) SessionStatus(ctx context.Context) (domain.SessionState, error) {
	state, err := s.sessions.Get(ctx)
	if err != nil {
		return domain.SessionState{}, fmt.Errorf("s.sessions.Get -> %w", err)
	}

	return state, nil
}

// GetStatus bundles the session, the per-faction counts and the most recent
// captures from a single ledger read.
func (s *TerritoryService) GetStatus(ctx context.Context, recentLimit int) (domain.TerritoryStatus, error) {
	session, err := s.sessions.Get(ctx)
	if err != nil {
		return domain.TerritoryStatus{}, fmt.Errorf("s.sessions.Get -> %w", err)
	}

	events, err := s.repo.ListActiveCaptures(ctx)
	if err != nil {
		return domain.TerritoryStatus{}, fmt.Errorf("s.repo.ListActiveCaptures -> %w", err)
	}

	counts := domain.ActiveCounts(events)
	held := 0
	for _, n := range counts {
		held += n
	}

	return domain.TerritoryStatus{
		Session:        session,
		Counts:         domain.SortedCounts(counts),
		HeldPoints:     held,
		RecentCaptures: domain.RecentCaptures(events, recentLimit),
	}, nil
}

// GetSummary reports current and longest holders for every active registry
// point and every point that appears in the ledger.
func (s *TerritoryService) GetSummary(ctx context.Context) ([]domain.PointSummary, error) {
	session, err := s.sessions.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.sessions.Get -> %w", err)
	}

	points, err := s.repo.ListPoints(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListPoints -> %w", err)
	}

	events, err := s.repo.ListActiveCaptures(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListActiveCaptures -> %w", err)
	}

	names := make([]string, len(points))
	for i, p := range points {
		names[i] = p.Name
	}

	return domain.Summarize(events, names, session.ReferenceEnd(s.clock.Now())), nil
}

func (s *TerritoryService) notify(ctx context.Context, n domain.Notification) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, n); err != nil {
		zap.L().Warn("notification failed",
			zap.String("kind", n.Kind),
			zap.String("channel", n.Channel),
			zap.Error(err),
		)
	}
}

func (s *TerritoryService) wake() {
	if s.watcher != nil {
		s.watcher.Wake()
	}
}
