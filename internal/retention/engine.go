package retention

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/account-service/internal/auditlog"
	"github.com/spec-kit/account-service/internal/domain"
	"github.com/spec-kit/account-service/internal/observability"
)

const (
	passAnonymize = "anonymize"
	passPurge     = "purge"
)

// Engine applies a Policy to the record store in two sequential passes.
type Engine struct {
	store   RecordStore
	policy  Policy
	audit   *auditlog.Log
	logger  *zap.Logger
	metrics *observability.Metrics
	now     func() time.Time
}

// NewEngine constructs an engine. metrics may be nil; now defaults to time.Now.
func NewEngine(store RecordStore, policy Policy, audit *auditlog.Log, logger *zap.Logger, metrics *observability.Metrics, now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		store:   store,
		policy:  policy,
		audit:   audit,
		logger:  logger.With(zap.String("component", "Data Retention")),
		metrics: metrics,
		now:     now,
	}
}

// Run performs the anonymization pass followed by the purge pass. Both passes use the
// same reference time. Per-record failures are recorded and skipped; a failed candidate
// query zeroes that pass only.
func (e *Engine) Run(ctx context.Context) domain.CleanupResult {
	now := e.now()
	result := domain.CleanupResult{StartedAt: now}

	e.record("Starting data retention cleanup...")

	result.Anonymized, result.AnonymizeFailures = e.anonymizeInactive(ctx, now)
	result.Purged, result.PurgeFailures = e.purgeDeleted(ctx, now)

	e.record(fmt.Sprintf("Cleanup completed: %d anonymized, %d deleted", result.Anonymized, result.Purged))
	result.FinishedAt = e.now()
	return result
}

func (e *Engine) anonymizeInactive(ctx context.Context, now time.Time) (done, failed int) {
	days := e.policy.InactivityThresholdDays()
	candidates, err := e.store.FindEligibleForAnonymization(ctx, e.policy.AnonymizationThreshold(now))
	if err != nil {
		e.recordError(fmt.Sprintf("Error anonymizing inactive users: %v", err), err)
		return 0, 0
	}

	for _, user := range candidates {
		err := guard(func() error {
			anonymized, err := Anonymize(user, now)
			if err != nil {
				return err
			}
			return e.store.AnonymizeAndMark(ctx, &anonymized)
		})
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			e.logger.Debug("user no longer eligible for anonymization", zap.String("user_id", user.ID))
		case err != nil:
			failed++
			e.recordError(fmt.Sprintf("Failed to anonymize user %s: %v", user.ID, err), err)
		default:
			done++
		}
	}

	e.metrics.RecordPass(passAnonymize, done, failed)
	e.record(withFailures(fmt.Sprintf("Anonymized %d inactive users (inactive > %d days)", done, days), failed))
	return done, failed
}

func (e *Engine) purgeDeleted(ctx context.Context, now time.Time) (done, failed int) {
	days := e.policy.PurgeThresholdDays()
	candidates, err := e.store.FindEligibleForPurge(ctx, e.policy.PurgeThreshold(now))
	if err != nil {
		e.recordError(fmt.Sprintf("Error deleting old users: %v", err), err)
		return 0, 0
	}

	for _, user := range candidates {
		err := guard(func() error {
			return e.store.DeletePermanently(ctx, &user)
		})
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			e.logger.Debug("user already purged", zap.String("user_id", user.ID))
		case err != nil:
			failed++
			e.recordError(fmt.Sprintf("Failed to purge user %s: %v", user.ID, err), err)
		default:
			done++
		}
	}

	e.metrics.RecordPass(passPurge, done, failed)
	e.record(withFailures(fmt.Sprintf("Permanently deleted %d users (deleted > %d days ago)", done, days), failed))
	return done, failed
}

func (e *Engine) record(message string) {
	e.audit.Append(message)
	e.logger.Info(message)
}

func (e *Engine) recordError(message string, err error) {
	e.audit.Append(message)
	e.logger.Error(message, zap.Error(err))
}

func withFailures(message string, failed int) string {
	if failed == 0 {
		return message
	}
	return fmt.Sprintf("%s, %d failed", message, failed)
}

// guard turns a panic inside one record's processing into an error.
func guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}
