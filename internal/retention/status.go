package retention

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

// Status is a point-in-time view of the retention lifecycle.
type Status struct {
	TotalActiveUsers            int64          `json:"total_active_users"`
	TotalDeletedUsers           int64          `json:"total_deleted_users"`
	UsersToBeAnonymized         int64          `json:"users_to_be_anonymized"`
	UsersToBePermanentlyDeleted int64          `json:"users_to_be_permanently_deleted"`
	RetentionPolicies           PolicySnapshot `json:"retention_policies"`
	NextScheduledCleanup        string         `json:"next_scheduled_cleanup"`
	NextReviewCheck             string         `json:"next_review_check"`
	GeneratedAt                 time.Time      `json:"generated_at"`
}

// StatusReporter computes Status without mutating anything.
type StatusReporter struct {
	store    RecordStore
	policy   Policy
	schedule ScheduleConfig
	now      func() time.Time
}

// NewStatusReporter constructs a reporter. now defaults to time.Now.
func NewStatusReporter(store RecordStore, policy Policy, schedule ScheduleConfig, now func() time.Time) *StatusReporter {
	if now == nil {
		now = time.Now
	}
	return &StatusReporter{store: store, policy: policy, schedule: schedule, now: now}
}

// GetRetentionStatus runs the four store counts concurrently.
func (r *StatusReporter) GetRetentionStatus(ctx context.Context) (Status, error) {
	now := r.now()
	status := Status{
		RetentionPolicies:    r.policy.Snapshot(),
		NextScheduledCleanup: r.schedule.CleanupDescription(),
		NextReviewCheck:      r.schedule.ReviewDescription(),
		GeneratedAt:          now,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := r.store.CountActive(gctx)
		if err != nil {
			return fmt.Errorf("count active users: %w", err)
		}
		status.TotalActiveUsers = n
		return nil
	})
	g.Go(func() error {
		n, err := r.store.CountSoftDeleted(gctx)
		if err != nil {
			return fmt.Errorf("count deleted users: %w", err)
		}
		status.TotalDeletedUsers = n
		return nil
	})
	g.Go(func() error {
		n, err := r.store.CountEligibleForAnonymization(gctx, r.policy.AnonymizationThreshold(now))
		if err != nil {
			return fmt.Errorf("count users to anonymize: %w", err)
		}
		status.UsersToBeAnonymized = n
		return nil
	})
	g.Go(func() error {
		n, err := r.store.CountEligibleForPurge(gctx, r.policy.PurgeThreshold(now))
		if err != nil {
			return fmt.Errorf("count users to purge: %w", err)
		}
		status.UsersToBePermanentlyDeleted = n
		return nil
	})

	if err := g.Wait(); err != nil {
		return Status{}, err
	}
	return status, nil
}
