package retention

import "time"

const (
	DefaultInactivityThresholdDays = 1095
	DefaultPurgeThresholdDays      = 30
)

// Policy holds the retention thresholds. It is a value type and is never mutated after
// construction.
type Policy struct {
	inactivityDays int
	purgeDays      int
}

// PolicyOption sets one threshold.
type PolicyOption func(*Policy)

// WithInactivityThresholdDays sets the days of inactivity before anonymization.
// Non-positive values keep the default.
func WithInactivityThresholdDays(days int) PolicyOption {
	return func(p *Policy) {
		if days > 0 {
			p.inactivityDays = days
		}
	}
}

// WithPurgeThresholdDays sets the days after soft-deletion before permanent removal.
// Non-positive values keep the default.
func WithPurgeThresholdDays(days int) PolicyOption {
	return func(p *Policy) {
		if days > 0 {
			p.purgeDays = days
		}
	}
}

// NewPolicy builds a Policy from defaults and options.
func NewPolicy(opts ...PolicyOption) Policy {
	p := Policy{
		inactivityDays: DefaultInactivityThresholdDays,
		purgeDays:      DefaultPurgeThresholdDays,
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

func (p Policy) InactivityThresholdDays() int { return p.inactivityDays }
func (p Policy) PurgeThresholdDays() int      { return p.purgeDays }

// AnonymizationThreshold is the instant before which last activity makes an active
// account eligible for anonymization.
func (p Policy) AnonymizationThreshold(now time.Time) time.Time {
	return now.AddDate(0, 0, -p.inactivityDays)
}

// PurgeThreshold is the instant before which a soft-deletion makes an account eligible
// for permanent removal.
func (p Policy) PurgeThreshold(now time.Time) time.Time {
	return now.AddDate(0, 0, -p.purgeDays)
}

// PolicySnapshot is the serializable view of a Policy.
type PolicySnapshot struct {
	InactiveUsersDays int `json:"inactive_users_days"`
	DeletedUsersDays  int `json:"deleted_users_days"`
}

// Snapshot returns the thresholds for reporting.
func (p Policy) Snapshot() PolicySnapshot {
	return PolicySnapshot{InactiveUsersDays: p.inactivityDays, DeletedUsersDays: p.purgeDays}
}
