// Package retention moves account records through the data retention lifecycle.
//
// Active accounts whose last activity is older than the inactivity threshold are
// anonymized: identity fields are overwritten with irreversible placeholders and the
// record is soft-deleted. Soft-deleted accounts older than the purge threshold are then
// removed permanently. A record is never purged in the run that anonymized it.
//
// The package also owns the cleanup scheduler, the compliance review reminders and the
// point-in-time status report. All comparisons against thresholds are strict: a record
// whose timestamp equals the threshold is not yet eligible.
package retention
