package retention

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/account-service/internal/auditlog"
	"github.com/spec-kit/account-service/internal/domain"
	"github.com/spec-kit/account-service/internal/events"
	"github.com/spec-kit/account-service/internal/observability"
)

const (
	DefaultLogLimit   = 100
	reportRecentLimit = 10
)

// ErrCleanupInProgress is returned when a cleanup is requested while another run holds
// the gate. Contending requests are rejected, not queued.
var ErrCleanupInProgress = errors.New("retention cleanup already in progress")

// Report combines the current status with recent audit entries.
type Report struct {
	Status           Status           `json:"status"`
	RecentCleanups   []auditlog.Entry `json:"recent_cleanups"`
	TotalCleanupRuns int              `json:"total_cleanup_runs"`
}

// Dependencies bundles what the retention Service needs.
type Dependencies struct {
	Store      RecordStore
	Policy     Policy
	Audit      *auditlog.Log
	Schedule   ScheduleConfig
	Guard      ReminderGuard
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	Metrics    *observability.Metrics
	Contact    string
	Clock      func() time.Time
}

// Service is the programmatic surface of the retention subsystem. Scheduled and manual
// cleanups share one single-flight gate.
type Service struct {
	engine     *Engine
	reporter   *StatusReporter
	notifier   *ReviewNotifier
	audit      *auditlog.Log
	schedule   ScheduleConfig
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
	now        func() time.Time

	running atomic.Bool
}

// NewService wires the engine, status reporter and review notifier.
func NewService(deps Dependencies) *Service {
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Audit == nil {
		deps.Audit = auditlog.New(auditlog.DefaultCapacity)
	}
	return &Service{
		engine:     NewEngine(deps.Store, deps.Policy, deps.Audit, deps.Logger, deps.Metrics, deps.Clock),
		reporter:   NewStatusReporter(deps.Store, deps.Policy, deps.Schedule, deps.Clock),
		notifier:   NewReviewNotifier(deps.Audit, deps.Guard, deps.Dispatcher, deps.Logger, deps.Metrics, deps.Contact),
		audit:      deps.Audit,
		schedule:   deps.Schedule,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger.With(zap.String("component", "retention.service")),
		metrics:    deps.Metrics,
		now:        deps.Clock,
	}
}

// RunCleanup executes one engine run if no other run is in flight. The gate is
// released on every exit path, including a panic inside the engine, and before the
// completion event is published so slow subscribers never hold it.
func (s *Service) RunCleanup(ctx context.Context, trigger domain.CleanupTrigger) (domain.CleanupResult, error) {
	result, err := s.runGated(ctx, trigger)
	if err != nil {
		return result, err
	}
	s.publish(ctx, events.NewEvent(events.EventCleanupCompleted, result))
	return result, nil
}

func (s *Service) runGated(ctx context.Context, trigger domain.CleanupTrigger) (result domain.CleanupResult, err error) {
	if !s.running.CompareAndSwap(false, true) {
		s.audit.Append(fmt.Sprintf("Skipped %s cleanup: a run is already in progress", trigger))
		s.metrics.RecordCleanupRun(string(trigger), "skipped", 0)
		return domain.CleanupResult{}, ErrCleanupInProgress
	}
	defer s.running.Store(false)

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			s.audit.Append(fmt.Sprintf("Cleanup aborted by unexpected fault: %v", r))
			s.logger.Error("cleanup panicked",
				zap.String("trigger", string(trigger)),
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()),
			)
			s.metrics.RecordCleanupRun(string(trigger), "panicked", time.Since(start))
			result = domain.CleanupResult{}
			err = fmt.Errorf("retention cleanup aborted: %v", r)
		}
	}()

	result = s.engine.Run(ctx)
	s.metrics.RecordCleanupRun(string(trigger), "completed", time.Since(start))
	return result, nil
}

// IsCleanupRunning reports whether a cleanup currently holds the gate.
func (s *Service) IsCleanupRunning() bool {
	return s.running.Load()
}

// GetRetentionStatus returns a read-only snapshot.
func (s *Service) GetRetentionStatus(ctx context.Context) (Status, error) {
	return s.reporter.GetRetentionStatus(ctx)
}

// GetCleanupLogs returns the most recent limit audit entries, oldest first.
// Non-positive limits use DefaultLogLimit.
func (s *Service) GetCleanupLogs(limit int) []auditlog.Entry {
	if limit <= 0 {
		limit = DefaultLogLimit
	}
	return s.audit.ReadLast(limit)
}

// CleanupLogCount reports the number of retained audit entries.
func (s *Service) CleanupLogCount() int {
	return s.audit.Len()
}

// GetReport returns the status plus the ten most recent audit entries.
func (s *Service) GetReport(ctx context.Context) (Report, error) {
	status, err := s.reporter.GetRetentionStatus(ctx)
	if err != nil {
		return Report{}, err
	}
	return Report{
		Status:           status,
		RecentCleanups:   s.audit.ReadLast(reportRecentLimit),
		TotalCleanupRuns: s.audit.Len(),
	}, nil
}

// GetNextReviewDates computes the upcoming quarterly and annual review dates in the
// schedule's timezone, the same calendar the review check fires on.
func (s *Service) GetNextReviewDates(now time.Time) ReviewSchedule {
	now = now.In(s.schedule.location())
	return ReviewSchedule{
		Quarterly: NextQuarterlyDate(now),
		Annual:    NextAnnualDate(now),
		Schedule:  fmt.Sprintf("Reviews checked daily at %02d:00 (%s)", s.schedule.ReviewHour, s.schedule.location()),
	}
}

// Notifier exposes the review notifier for the scheduler.
func (s *Service) Notifier() *ReviewNotifier {
	return s.notifier
}

// Now returns the service clock's current time in the schedule's timezone.
func (s *Service) Now() time.Time {
	return s.now().In(s.schedule.location())
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("publish event", zap.String("type", string(event.Type)), zap.Error(err))
	}
}
