package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/dalemusser/daycarehub/internal/domain/models"
	"go.uber.org/zap"
)

// ChecklistStore finds and submits monthly checklist records.
type ChecklistStore interface {
	ListUnsubmittedIDs(ctx context.Context, month string) ([]any, error)
	Submit(ctx context.Context, ids []any, at time.Time, by string) (int64, error)
}

// ChecklistSubmit submits every open checklist of the month on its last day.
// The cron schedule fires on days 28 to 31; the job itself decides whether
// today is the last day.
type ChecklistSubmit struct {
	Records   ChecklistStore
	Location  *time.Location
	BatchSize int
	Tx        Transactor
	Log       *zap.Logger
	Now       func() time.Time
}

// ChecklistSubmitResult summarizes one run.
type ChecklistSubmitResult struct {
	Skipped        bool   `json:"skipped,omitempty"`
	Month          string `json:"month,omitempty"`
	SubmittedCount int64  `json:"submittedCount"`
	Batches        int    `json:"batches"`
}

// IsLastDayOfMonth reports whether the day after t falls in another month.
func IsLastDayOfMonth(t time.Time) bool {
	return t.AddDate(0, 0, 1).Month() != t.Month()
}

// Run submits the month's open records, or skips when today is not month end.
// Each chunk is written in its own transaction through Tx.
func (j *ChecklistSubmit) Run(ctx context.Context) (ChecklistSubmitResult, error) {
	now := localNow(j.Now, j.Location)
	if !IsLastDayOfMonth(now) {
		j.Log.Debug("not the last day of the month, skipping checklist submit",
			zap.String("date", now.Format(DateLayout)))
		return ChecklistSubmitResult{Skipped: true}, nil
	}

	res := ChecklistSubmitResult{Month: now.Format(MonthLayout)}
	ids, err := j.Records.ListUnsubmittedIDs(ctx, res.Month)
	if err != nil {
		return res, fmt.Errorf("list open checklists for %s: %w", res.Month, err)
	}

	at := now.UTC()
	for _, chunk := range Chunks(ids, j.BatchSize) {
		var n int64
		err := inTx(ctx, j.Tx, func(ctx context.Context) error {
			var err error
			n, err = j.Records.Submit(ctx, chunk, at, models.SubmittedBySystem)
			return err
		})
		if err != nil {
			return res, fmt.Errorf("submit checklists (batch %d): %w", res.Batches+1, err)
		}
		res.SubmittedCount += n
		res.Batches++
	}

	j.Log.Info("checklist auto-submit complete",
		zap.String("month", res.Month),
		zap.Int64("submitted", res.SubmittedCount),
		zap.Int("batches", res.Batches))
	return res, nil
}
