package domain

import "time"

// CleanupTrigger identifies what started a cleanup run.
type CleanupTrigger string

const (
	TriggerScheduled CleanupTrigger = "scheduled"
	TriggerManual    CleanupTrigger = "manual"
)

// CleanupResult is the outcome of one lifecycle engine run.
type CleanupResult struct {
	Anonymized        int       `json:"anonymized"`
	Purged            int       `json:"deleted"`
	AnonymizeFailures int       `json:"anonymize_failures"`
	PurgeFailures     int       `json:"purge_failures"`
	StartedAt         time.Time `json:"started_at"`
	FinishedAt        time.Time `json:"finished_at"`
}

// ReviewKind distinguishes compliance review cadences.
type ReviewKind string

const (
	ReviewQuarterly ReviewKind = "quarterly"
	ReviewAnnual    ReviewKind = "annual"
)

// Reminder is the payload emitted when a compliance review is due.
type Reminder struct {
	Kind     ReviewKind `json:"kind"`
	Period   string     `json:"period"`
	Deadline string     `json:"deadline"`
	Tasks    []string   `json:"tasks"`
	Contact  string     `json:"contact"`
	IssuedAt time.Time  `json:"issued_at"`
}
