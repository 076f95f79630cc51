// Package jobs holds the scheduled maintenance work and the signature-request
// notifier. Every job is safe to run again: a second run over the same data
// finds nothing left to do.
package jobs

// DateLayout and MonthLayout are the string formats stored on daily status
// and checklist records.
const (
	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"
)

// DefaultBatchSize bounds the number of ids written by one update command
// and so by one transaction.
const DefaultBatchSize = 500
