package retention

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/spec-kit/account-service/internal/domain"
	"github.com/spec-kit/account-service/internal/observability"
)

// ScheduleConfig holds the daily trigger hours.
type ScheduleConfig struct {
	CleanupHour int
	ReviewHour  int
	Location    *time.Location
}

// CleanupSpec is the cron expression for the daily cleanup.
func (c ScheduleConfig) CleanupSpec() string { return dailyAt(c.CleanupHour) }

// ReviewSpec is the cron expression for the daily review check.
func (c ScheduleConfig) ReviewSpec() string { return dailyAt(c.ReviewHour) }

func (c ScheduleConfig) CleanupDescription() string {
	return fmt.Sprintf("Daily at %02d:00 (%s)", c.CleanupHour, c.location())
}

func (c ScheduleConfig) ReviewDescription() string {
	return fmt.Sprintf("Daily at %02d:00 (%s)", c.ReviewHour, c.location())
}

func (c ScheduleConfig) location() *time.Location {
	if c.Location == nil {
		return time.Local
	}
	return c.Location
}

func (c ScheduleConfig) validate() error {
	if c.CleanupHour < 0 || c.CleanupHour > 23 {
		return fmt.Errorf("cleanup hour %d out of range", c.CleanupHour)
	}
	if c.ReviewHour < 0 || c.ReviewHour > 23 {
		return fmt.Errorf("review hour %d out of range", c.ReviewHour)
	}
	return nil
}

func dailyAt(hour int) string {
	return fmt.Sprintf("0 %d * * *", hour)
}

// CleanupRunner runs one gated cleanup.
type CleanupRunner interface {
	RunCleanup(ctx context.Context, trigger domain.CleanupTrigger) (domain.CleanupResult, error)
}

// ReviewChecker decides whether compliance reminders are due at now.
type ReviewChecker interface {
	Check(ctx context.Context, now time.Time) []domain.Reminder
}

// Scheduler fires the cleanup and review-check jobs once a day each.
type Scheduler struct {
	cfg     ScheduleConfig
	cleanup CleanupRunner
	review  ReviewChecker
	logger  *zap.Logger
	now     func() time.Time

	mu        sync.Mutex
	cron      *cron.Cron
	running   bool
	done      chan struct{}
	cleanupID cron.EntryID
	reviewID  cron.EntryID
}

// NewScheduler builds a stopped scheduler. Job panics are recovered and logged.
func NewScheduler(cfg ScheduleConfig, cleanup CleanupRunner, review ReviewChecker, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	cronLogger := observability.NewCronLogger(logger)
	return &Scheduler{
		cfg:     cfg,
		cleanup: cleanup,
		review:  review,
		logger:  logger.With(zap.String("component", "retention.scheduler")),
		now:     time.Now,
		cron: cron.New(
			cron.WithLocation(cfg.location()),
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger)),
		),
	}
}

// Start registers both jobs and starts the cron loop. The scheduler stops when ctx is
// cancelled or Stop is called.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return errors.New("scheduler already running")
	}
	if err := s.cfg.validate(); err != nil {
		return err
	}

	cleanupID, err := s.cron.AddFunc(s.cfg.CleanupSpec(), func() { s.runCleanup(ctx) })
	if err != nil {
		return fmt.Errorf("schedule cleanup %q: %w", s.cfg.CleanupSpec(), err)
	}
	reviewID, err := s.cron.AddFunc(s.cfg.ReviewSpec(), func() { s.runReview(ctx) })
	if err != nil {
		s.cron.Remove(cleanupID)
		return fmt.Errorf("schedule review check %q: %w", s.cfg.ReviewSpec(), err)
	}
	s.cleanupID, s.reviewID = cleanupID, reviewID

	s.cron.Start()
	s.running = true
	done := make(chan struct{})
	s.done = done

	s.logger.Info("retention scheduler started",
		zap.String("cleanup", s.cfg.CleanupDescription()),
		zap.String("review_check", s.cfg.ReviewDescription()),
	)

	go func() {
		select {
		case <-ctx.Done():
			s.stopRun(done)
		case <-done:
		}
	}()

	return nil
}

// Stop halts the cron loop and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

// stopRun stops the scheduler only if it is still the run started with done, so a
// context from an earlier Start cannot stop a later one.
func (s *Scheduler) stopRun(done chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done != done {
		return
	}
	s.stopLocked()
}

func (s *Scheduler) stopLocked() {
	if !s.running {
		return
	}
	<-s.cron.Stop().Done()
	s.cron.Remove(s.cleanupID)
	s.cron.Remove(s.reviewID)
	close(s.done)
	s.done = nil
	s.running = false
	s.logger.Info("retention scheduler stopped")
}

// IsRunning reports whether the cron loop is active.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// NextCleanup returns the next scheduled cleanup, or nil when stopped.
func (s *Scheduler) NextCleanup() *time.Time {
	return s.next(func() cron.EntryID { return s.cleanupID })
}

// NextReview returns the next scheduled review check, or nil when stopped.
func (s *Scheduler) NextReview() *time.Time {
	return s.next(func() cron.EntryID { return s.reviewID })
}

func (s *Scheduler) next(id func() cron.EntryID) *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return nil
	}
	entry := s.cron.Entry(id())
	if !entry.Valid() || entry.Next.IsZero() {
		return nil
	}
	next := entry.Next
	return &next
}

func (s *Scheduler) runCleanup(ctx context.Context) {
	result, err := s.cleanup.RunCleanup(ctx, domain.TriggerScheduled)
	switch {
	case errors.Is(err, ErrCleanupInProgress):
		s.logger.Warn("scheduled cleanup skipped: a run is already in progress")
	case err != nil:
		s.logger.Error("scheduled cleanup failed", zap.Error(err))
	default:
		s.logger.Info("scheduled cleanup completed",
			zap.Int("anonymized", result.Anonymized),
			zap.Int("deleted", result.Purged),
			zap.Int("anonymize_failures", result.AnonymizeFailures),
			zap.Int("purge_failures", result.PurgeFailures),
		)
	}
}

func (s *Scheduler) runReview(ctx context.Context) {
	fired := s.review.Check(ctx, s.now().In(s.cfg.location()))
	if len(fired) == 0 {
		s.logger.Debug("no compliance review due today")
	}
}
