package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/account-service/internal/config"
	"github.com/spec-kit/account-service/internal/domain"
	"github.com/spec-kit/account-service/internal/events"
)

const defaultWebhookTimeout = 5 * time.Second

// NotificationService forwards retention events to operators.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger.With(zap.String("component", "notifications")),
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventCleanupCompleted, n.handleCleanupCompleted)
	n.dispatcher.Subscribe(events.EventReviewReminderDue, n.handleReviewReminderDue)
}

func (n *NotificationService) handleCleanupCompleted(ctx context.Context, event events.Event) error {
	result, ok := event.Payload.(domain.CleanupResult)
	if !ok {
		return fmt.Errorf("unexpected payload %T", event.Payload)
	}
	n.logger.Info("CleanupCompleted",
		zap.Int("anonymized", result.Anonymized),
		zap.Int("deleted", result.Purged),
		zap.Int("failures", result.AnonymizeFailures+result.PurgeFailures))
	return n.sendWebhook(ctx, event)
}

func (n *NotificationService) handleReviewReminderDue(ctx context.Context, event events.Event) error {
	reminder, ok := event.Payload.(domain.Reminder)
	if !ok {
		return fmt.Errorf("unexpected payload %T", event.Payload)
	}
	n.logger.Info("ReviewReminderDue", zap.String("kind", string(reminder.Kind)), zap.String("period", reminder.Period))
	n.sendEmailNotificationStub(ctx, event, reminder)
	return n.sendWebhook(ctx, event)
}

func (n *NotificationService) sendEmailNotificationStub(_ context.Context, event events.Event, reminder domain.Reminder) {
	to := strings.TrimSpace(n.cfg.EmailTo)
	if to == "" {
		to = reminder.Contact
	}
	if strings.TrimSpace(n.cfg.EmailFrom) == "" || to == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("to", to),
		zap.String("subject", reminderSubject(reminder)),
		zap.String("event_type", string(event.Type)))
}

// sendWebhook posts the event as JSON. Delivery is bounded by the configured timeout
// (defaultWebhookTimeout when unset) and by ctx. Non-2xx responses are errors.
func (n *NotificationService) sendWebhook(ctx context.Context, event events.Event) error {
	url := strings.TrimSpace(n.cfg.WebhookURL)
	if url == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}

	timeout := n.cfg.WebhookTimeout
	if timeout <= 0 {
		timeout = defaultWebhookTimeout
	}

	type response struct {
		status int
		errs   []error
	}
	done := make(chan response, 1)
	go func() {
		status, _, errs := fiber.Post(url).JSON(event).Timeout(timeout).Bytes()
		done <- response{status: status, errs: errs}
	}()

	var resp response
	select {
	case <-ctx.Done():
		return fmt.Errorf("post webhook: %w", ctx.Err())
	case resp = <-done:
	}

	if len(resp.errs) > 0 {
		return fmt.Errorf("post webhook: %w", errors.Join(resp.errs...))
	}
	if resp.status < fiber.StatusOK || resp.status >= fiber.StatusMultipleChoices {
		return fmt.Errorf("post webhook: unexpected status %d", resp.status)
	}

	n.logger.Debug("webhook delivered", zap.String("event_type", string(event.Type)), zap.Int("status", resp.status))
	return nil
}

func reminderSubject(r domain.Reminder) string {
	if r.Kind == domain.ReviewAnnual {
		return "Annual GDPR Review Due: " + r.Period
	}
	return "Quarterly GDPR Review Due: " + r.Period
}
