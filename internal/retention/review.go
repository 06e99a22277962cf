package retention

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/account-service/internal/auditlog"
	"github.com/spec-kit/account-service/internal/domain"
	"github.com/spec-kit/account-service/internal/events"
	"github.com/spec-kit/account-service/internal/observability"
)

// reminderTTL outlives the firing day so a restart on the same day finds the marker.
const reminderTTL = 48 * time.Hour

var quarterStartMonths = []time.Month{time.January, time.April, time.July, time.October}

var quarterDeadlines = map[int]string{
	1: "March",
	2: "June",
	3: "September",
	4: "December",
}

var quarterlyTasks = []string{
	"Review and update GDPR compliance documentation",
	"Review and update data retention documentation",
	"Review and update security documentation",
	"Update privacy policy if needed",
	"Check for new GDPR regulations",
	"Review consent logs and audit trails",
	"Test all GDPR endpoints",
	"Update \"Last Updated\" dates in documentation",
}

var annualTasks = []string{
	"Full legal review of all GDPR documentation",
	"Update privacy policy version",
	"Review third-party processors",
	"Audit all data retention periods",
	"Review security measures and encryption",
	"Test breach notification procedures",
	"Review user consent mechanisms",
	"Update all \"Last Updated\" and \"Version\" fields",
	"Send policy updates to users if needed",
	"Document all changes for audit trail",
}

// ReviewDate is the next occurrence of a compliance review.
type ReviewDate struct {
	Date       time.Time `json:"-"`
	NextReview string    `json:"next_review"`
	Label      string    `json:"label"`
	DaysUntil  int       `json:"days_until"`
}

// ReviewSchedule pairs the next quarterly and annual reviews.
type ReviewSchedule struct {
	Quarterly ReviewDate `json:"quarterly"`
	Annual    ReviewDate `json:"annual"`
	Schedule  string     `json:"schedule"`
}

// ReviewNotifier emits quarterly and annual compliance review reminders.
type ReviewNotifier struct {
	audit      *auditlog.Log
	guard      ReminderGuard
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
	contact    string
}

// NewReviewNotifier constructs a notifier. A nil guard disables de-duplication and a nil
// dispatcher disables event publication.
func NewReviewNotifier(audit *auditlog.Log, guard ReminderGuard, dispatcher events.Dispatcher, logger *zap.Logger, metrics *observability.Metrics, contact string) *ReviewNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReviewNotifier{
		audit:      audit,
		guard:      guard,
		dispatcher: dispatcher,
		logger:     logger.With(zap.String("component", "Compliance Review")),
		metrics:    metrics,
		contact:    contact,
	}
}

// Check runs both reminder checks for now and returns whatever fired.
func (n *ReviewNotifier) Check(ctx context.Context, now time.Time) []domain.Reminder {
	var fired []domain.Reminder
	if r, ok := n.CheckQuarterlyReview(ctx, now); ok {
		fired = append(fired, *r)
	}
	if r, ok := n.CheckAnnualReview(ctx, now); ok {
		fired = append(fired, *r)
	}
	return fired
}

// CheckQuarterlyReview fires on the first day of January, April, July and October.
func (n *ReviewNotifier) CheckQuarterlyReview(ctx context.Context, now time.Time) (*domain.Reminder, bool) {
	if now.Day() != 1 || !isQuarterStart(now.Month()) {
		return nil, false
	}
	quarter := quarterOf(now.Month())
	period := fmt.Sprintf("Q%d %d", quarter, now.Year())
	reminder := &domain.Reminder{
		Kind:     domain.ReviewQuarterly,
		Period:   period,
		Deadline: "End of " + quarterDeadlines[quarter],
		Tasks:    quarterlyTasks,
		Contact:  n.contact,
		IssuedAt: now,
	}
	key := fmt.Sprintf("review:quarterly:%d-Q%d", now.Year(), quarter)
	if !n.claim(ctx, key) {
		return nil, false
	}
	n.fire(ctx, reminder, "GDPR Review Reminder sent for "+period)
	return reminder, true
}

// CheckAnnualReview fires on January 1.
func (n *ReviewNotifier) CheckAnnualReview(ctx context.Context, now time.Time) (*domain.Reminder, bool) {
	if now.Month() != time.January || now.Day() != 1 {
		return nil, false
	}
	year := strconv.Itoa(now.Year())
	reminder := &domain.Reminder{
		Kind:     domain.ReviewAnnual,
		Period:   year,
		Deadline: "End of January " + year,
		Tasks:    annualTasks,
		Contact:  n.contact,
		IssuedAt: now,
	}
	if !n.claim(ctx, "review:annual:"+year) {
		return nil, false
	}
	n.fire(ctx, reminder, "Annual GDPR Review Reminder sent for "+year)
	return reminder, true
}

// claim fails open: if the guard errors the reminder still fires.
func (n *ReviewNotifier) claim(ctx context.Context, key string) bool {
	if n.guard == nil {
		return true
	}
	first, err := n.guard.MarkFired(ctx, key, reminderTTL)
	if err != nil {
		n.logger.Warn("reminder guard unavailable; firing anyway", zap.String("key", key), zap.Error(err))
		return true
	}
	if !first {
		n.logger.Debug("reminder already sent for period", zap.String("key", key))
	}
	return first
}

func (n *ReviewNotifier) fire(ctx context.Context, reminder *domain.Reminder, message string) {
	n.logger.Warn("compliance review due",
		zap.String("kind", string(reminder.Kind)),
		zap.String("period", reminder.Period),
		zap.String("deadline", reminder.Deadline),
		zap.String("contact", reminder.Contact),
		zap.Strings("tasks", reminder.Tasks),
	)
	n.audit.Append(message)
	n.metrics.RecordReviewReminder(string(reminder.Kind))

	if n.dispatcher == nil {
		return
	}
	event := events.NewEvent(events.EventReviewReminderDue, *reminder)
	if err := n.dispatcher.Publish(ctx, event); err != nil {
		n.logger.Error("publish review reminder", zap.Error(err))
	}
}

// NextQuarterlyDate returns the first quarter-start month strictly after now's month.
func NextQuarterlyDate(now time.Time) ReviewDate {
	year := now.Year()
	next := time.January
	found := false
	for _, m := range quarterStartMonths {
		if m > now.Month() {
			next = m
			found = true
			break
		}
	}
	if !found {
		year++
	}
	date := time.Date(year, next, 1, 0, 0, 0, 0, now.Location())
	return newReviewDate(now, date, fmt.Sprintf("Q%d %d", quarterOf(next), year))
}

// NextAnnualDate returns January 1 of the following year.
func NextAnnualDate(now time.Time) ReviewDate {
	year := now.Year() + 1
	date := time.Date(year, time.January, 1, 0, 0, 0, 0, now.Location())
	return newReviewDate(now, date, strconv.Itoa(year))
}

func newReviewDate(now, date time.Time, label string) ReviewDate {
	return ReviewDate{
		Date:       date,
		NextReview: date.Format(time.DateOnly),
		Label:      label,
		DaysUntil:  daysUntil(now, date),
	}
}

// daysUntil rounds partial days up.
func daysUntil(from, to time.Time) int {
	return int(math.Ceil(to.Sub(from).Hours() / 24))
}

func isQuarterStart(m time.Month) bool {
	for _, q := range quarterStartMonths {
		if q == m {
			return true
		}
	}
	return false
}

func quarterOf(m time.Month) int {
	return (int(m)-1)/3 + 1
}
