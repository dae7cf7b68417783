// Package reward turns held basepoints into periodic faction treasury credits.
//
// Two timers cooperate through the persisted session state. The supervisor
// polls the session on a short period and starts or cancels the reward cycle
// to match it; the cycle credits every holding faction on a long period.
// Cancelling a cycle only prevents the next run, a run in progress finishes.
package reward

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/vietanh2810/basepoint-api/internal/config"
	"github.com/vietanh2810/basepoint-api/internal/domain"
)

// Actor is stamped on the treasury transactions written by reward cycles.
const Actor = "reward-scheduler"

const storageTimeout = 30 * time.Second

type SessionSource interface {
	SessionStatus(ctx context.Context) (domain.SessionState, error)
}

type HoldingSource interface {
	ActiveCounts(ctx context.Context) (map[string]int, error)
}

type Treasury interface {
	CreditFaction(ctx context.Context, factionName string, amount int, memo, actor string) (int, error)
}

type Notifier interface {
	Notify(ctx context.Context, n domain.Notification) error
}

type Settings struct {
	PerPoint           int
	CycleInterval      time.Duration
	SupervisorInterval time.Duration
	InitialDelay       time.Duration
	Channel            string
}

func SettingsFromConfig(c *config.RewardConfig) Settings {
	return Settings{
		PerPoint:           c.PerPoint,
		CycleInterval:      c.CycleInterval,
		SupervisorInterval: c.SupervisorInterval,
		InitialDelay:       c.InitialDelay,
		Channel:            c.Channel,
	}
}

func (s Settings) valid() bool {
	return s.PerPoint > 0 && s.CycleInterval > 0 && s.SupervisorInterval > 0 && s.InitialDelay >= 0
}

type Options struct {
	Sessions   SessionSource
	Holdings   HoldingSource
	Treasury   Treasury
	Notifier   Notifier
	Clock      clockwork.Clock
	Logger     *zap.Logger
	Registerer prometheus.Registerer
}

type Scheduler struct {
	sessions SessionSource
	holdings HoldingSource
	treasury Treasury
	notifier Notifier
	clock    clockwork.Clock
	logger   *zap.Logger
	metrics  *metrics

	mu              sync.Mutex
	settings        Settings
	supervisorTimer clockwork.Timer
	cycleTimer      clockwork.Timer
	cycleScheduled  bool
	generation      uint64
	// checkSeq changes every time a supervisor check is scheduled. A check
	// that sees it move while reading the session leaves the decision to
	// the newer check.
	checkSeq uint64
	started         bool
	closed          bool
	wg              sync.WaitGroup

	// runMu keeps cycle bodies from overlapping.
	runMu sync.Mutex
}

func NewScheduler(settings Settings, opts Options) *Scheduler {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	return &Scheduler{
		sessions: opts.Sessions,
		holdings: opts.Holdings,
		treasury: opts.Treasury,
		notifier: opts.Notifier,
		clock:    opts.Clock,
		logger:   opts.Logger.Named("reward"),
		metrics:  newMetrics(opts.Registerer),
		settings: settings,
	}
}

// Start runs the first supervisor check right away. Calling Start twice is a
// no-op.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("reward scheduler is closed")
	}
	if !s.settings.valid() {
		return fmt.Errorf("invalid reward settings: %+v", s.settings)
	}
	if s.started {
		return nil
	}
	s.started = true
	s.scheduleSupervisorLocked(0)

	return nil
}

// Wake runs a supervisor check now instead of at the next period.
func (s *Scheduler) Wake() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started || s.closed {
		return
	}
	s.scheduleSupervisorLocked(0)
}

// UpdateSettings swaps the settings used from the next scheduled run on.
// Invalid settings are rejected and the current ones kept.
func (s *Scheduler) UpdateSettings(settings Settings) error {
	if !settings.valid() {
		return fmt.Errorf("invalid reward settings: %+v", settings)
	}

	s.mu.Lock()
	s.settings = settings
	s.mu.Unlock()

	s.logger.Info("reward settings updated",
		zap.Int("per_point", settings.PerPoint),
		zap.Duration("cycle_interval", settings.CycleInterval),
		zap.Duration("supervisor_interval", settings.SupervisorInterval),
	)

	return nil
}

func (s *Scheduler) Settings() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.settings
}

// CycleScheduled reports whether a reward cycle is pending for the session.
func (s *Scheduler) CycleScheduled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cycleScheduled
}

// Close stops both timers and waits for in-flight runs to return.
func (s *Scheduler) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.generation++
	s.cycleScheduled = false
	if s.supervisorTimer != nil {
		s.supervisorTimer.Stop()
		s.supervisorTimer = nil
	}
	if s.cycleTimer != nil {
		s.cycleTimer.Stop()
		s.cycleTimer = nil
	}
	s.metrics.scheduled.Set(0)
	s.mu.Unlock()

	s.wg.Wait()
}

// RunCycle credits every faction holding at least one point with
// count × PerPoint and sends one summary notification. A failed credit is
// logged and skipped. Only a failure to read the ledger fails the cycle.
func (s *Scheduler) RunCycle(ctx context.Context) (domain.RewardSummary, error) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	settings := s.Settings()

	counts, err := s.holdings.ActiveCounts(ctx)
	if err != nil {
		s.metrics.cycleErrors.Inc()
		return domain.RewardSummary{}, fmt.Errorf("s.holdings.ActiveCounts -> %w", err)
	}

	factions := make([]string, 0, len(counts))
	for name, n := range counts {
		if n > 0 {
			factions = append(factions, name)
		}
	}
	sort.Strings(factions)

	summary := domain.RewardSummary{
		RanAt:    s.clock.Now(),
		PerPoint: settings.PerPoint,
		Credits:  make([]domain.FactionCredit, 0, len(factions)),
	}
	for _, name := range factions {
		n := counts[name]
		amount := n * settings.PerPoint
		memo := fmt.Sprintf("basepoint reward: %d point(s) at %d", n, settings.PerPoint)

		balance, err := s.treasury.CreditFaction(ctx, name, amount, memo, Actor)
		if err != nil {
			s.logger.Error("failed to credit faction",
				zap.String("faction", name),
				zap.Int("amount", amount),
				zap.Error(err),
			)
			s.metrics.creditErrors.WithLabelValues(name).Inc()
			summary.Failed = append(summary.Failed, name)
			continue
		}

		s.metrics.credited.WithLabelValues(name).Add(float64(amount))
		summary.Credits = append(summary.Credits, domain.FactionCredit{
			FactionName: name,
			Points:      n,
			Amount:      amount,
			Balance:     balance,
		})
		summary.Total += amount
	}
	s.metrics.cycles.Inc()

	s.logger.Info("reward cycle complete",
		zap.Int("credited_factions", len(summary.Credits)),
		zap.Int("failed_factions", len(summary.Failed)),
		zap.Int("total", summary.Total),
	)

	if s.notifier != nil {
		if err := s.notifier.Notify(ctx, summary.Notification(settings.Channel)); err != nil {
			s.logger.Warn("failed to send reward notification", zap.Error(err))
		}
	}

	return summary, nil
}

func (s *Scheduler) scheduleSupervisorLocked(d time.Duration) {
	if s.supervisorTimer != nil {
		s.supervisorTimer.Stop()
	}
	s.checkSeq++
	s.supervisorTimer = s.clock.AfterFunc(d, s.tracked(s.supervise))
}

// tracked wraps f so Close can wait for it. f is dropped once the scheduler
// is closed.
func (s *Scheduler) tracked(f func()) func() {
	return func() {
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return
		}
		s.wg.Add(1)
		s.mu.Unlock()

		defer s.wg.Done()
		f()
	}
}

func (s *Scheduler) supervise() {
	s.mu.Lock()
	seq := s.checkSeq
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
	state, err := s.sessions.SessionStatus(ctx)
	cancel()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	if seq != s.checkSeq {
		// stale read; the newer check owns the supervisor timer
		return
	}
	if err != nil {
		s.logger.Error("failed to read session state", zap.Error(err))
	} else {
		s.reconcileLocked(state.IsActive)
	}
	s.scheduleSupervisorLocked(s.settings.SupervisorInterval)
}

func (s *Scheduler) reconcileLocked(active bool) {
	switch {
	case active && !s.cycleScheduled:
		s.generation++
		s.cycleScheduled = true
		s.cycleTimer = s.clock.AfterFunc(s.settings.InitialDelay, s.tracked(s.cycle(s.generation)))
		s.metrics.scheduled.Set(1)
		s.logger.Info("reward cycle scheduled", zap.Duration("initial_delay", s.settings.InitialDelay))
	case !active && s.cycleScheduled:
		s.generation++
		s.cycleScheduled = false
		if s.cycleTimer != nil {
			s.cycleTimer.Stop()
			s.cycleTimer = nil
		}
		s.metrics.scheduled.Set(0)
		s.logger.Info("reward cycle cancelled")
	}
}

// cycle returns the timer body for one generation of the reward cycle. A
// body whose generation was cancelled does not run or reschedule.
func (s *Scheduler) cycle(generation uint64) func() {
	return func() {
		if !s.current(generation) {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
		if _, err := s.RunCycle(ctx); err != nil {
			s.logger.Error("reward cycle failed", zap.Error(err))
		}
		cancel()

		s.mu.Lock()
		defer s.mu.Unlock()
		if s.closed || generation != s.generation {
			return
		}
		s.cycleTimer = s.clock.AfterFunc(s.settings.CycleInterval, s.tracked(s.cycle(generation)))
	}
}

func (s *Scheduler) current(generation uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return !s.closed && generation == s.generation
}
