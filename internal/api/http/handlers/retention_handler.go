package handlers

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/account-service/internal/api/dto"
	"github.com/spec-kit/account-service/internal/auditlog"
	"github.com/spec-kit/account-service/internal/domain"
	"github.com/spec-kit/account-service/internal/retention"
	apperrors "github.com/spec-kit/account-service/pkg/util/errorutil"
)

// RetentionService is the retention surface the admin API needs.
type RetentionService interface {
	RunCleanup(ctx context.Context, trigger domain.CleanupTrigger) (domain.CleanupResult, error)
	GetRetentionStatus(ctx context.Context) (retention.Status, error)
	GetReport(ctx context.Context) (retention.Report, error)
	GetCleanupLogs(limit int) []auditlog.Entry
	CleanupLogCount() int
	GetNextReviewDates(now time.Time) retention.ReviewSchedule
	Now() time.Time
}

// RetentionHandler exposes the admin retention endpoints.
type RetentionHandler struct {
	service RetentionService
}

// NewRetentionHandler constructs handler.
func NewRetentionHandler(service RetentionService) *RetentionHandler {
	return &RetentionHandler{service: service}
}

// Cleanup handles POST /admin/retention/cleanup.
func (h *RetentionHandler) Cleanup(c *fiber.Ctx) error {
	result, err := h.service.RunCleanup(c.UserContext(), domain.TriggerManual)
	if err != nil {
		if errors.Is(err, retention.ErrCleanupInProgress) {
			return apperrors.NewConflict("CLEANUP_IN_PROGRESS", "a retention cleanup is already running", nil)
		}
		return apperrors.NewInternalError(err)
	}

	return c.JSON(fiber.Map{
		"data": dto.CleanupResponse{
			Message: "Manual cleanup completed successfully",
			Result:  result,
		},
	})
}

// Status handles GET /admin/retention/status.
func (h *RetentionHandler) Status(c *fiber.Ctx) error {
	status, err := h.service.GetRetentionStatus(c.UserContext())
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	return c.JSON(fiber.Map{"data": status})
}

// Report handles GET /admin/retention/report.
func (h *RetentionHandler) Report(c *fiber.Ctx) error {
	report, err := h.service.GetReport(c.UserContext())
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	return c.JSON(fiber.Map{"data": report})
}

// Logs handles GET /admin/retention/logs?limit=N. A missing or invalid limit falls
// back to the default.
func (h *RetentionHandler) Logs(c *fiber.Ctx) error {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit <= 0 {
		limit = retention.DefaultLogLimit
	}

	return c.JSON(fiber.Map{
		"data": dto.LogsResponse{
			Logs:  h.service.GetCleanupLogs(limit),
			Total: h.service.CleanupLogCount(),
		},
	})
}

// ReviewDates handles GET /admin/retention/next-review and its /review-dates alias.
func (h *RetentionHandler) ReviewDates(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.service.GetNextReviewDates(h.service.Now())})
}
