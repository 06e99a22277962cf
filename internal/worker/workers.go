package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/account-service/internal/service"
)

// Scheduler is a background job loop bound to a context.
type Scheduler interface {
	Start(ctx context.Context) error
	Stop()
}

// StartNotificationWorker registers notification handlers.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}

// StartRetentionScheduler starts the retention cron loop when enabled. The returned
// stop func is always safe to call.
func StartRetentionScheduler(ctx context.Context, enabled bool, scheduler Scheduler, logger *zap.Logger) (func(), error) {
	if !enabled || scheduler == nil {
		logger.Info("retention scheduler disabled; cleanups run only on demand")
		return func() {}, nil
	}
	if err := scheduler.Start(ctx); err != nil {
		return func() {}, err
	}
	return scheduler.Stop, nil
}
