package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/dalemusser/daycarehub/internal/domain/models"
	"go.uber.org/zap"
)

// StudentStore lists students and resets their daily status.
type StudentStore interface {
	ListIDsByRole(ctx context.Context, role string) ([]string, error)
	ResetDailyStatus(ctx context.Context, uids []string, date string) (int64, error)
}

// StatusReset puts every student back to NotArrived at the start of the tenant's day.
type StatusReset struct {
	Users     StudentStore
	Location  *time.Location
	BatchSize int
	Tx        Transactor
	Log       *zap.Logger
	Now       func() time.Time
}

// StatusResetResult summarizes one run.
type StatusResetResult struct {
	ResetCount int64  `json:"resetCount"`
	ResetDate  string `json:"resetDate"`
	Batches    int    `json:"batches"`
}

// Run resets all students in chunks. Each chunk is written in its own
// transaction through Tx; a failed chunk aborts the run and earlier chunks
// stay applied.
func (j *StatusReset) Run(ctx context.Context) (StatusResetResult, error) {
	res := StatusResetResult{ResetDate: localNow(j.Now, j.Location).Format(DateLayout)}

	ids, err := j.Users.ListIDsByRole(ctx, models.RoleStudent)
	if err != nil {
		return res, fmt.Errorf("list students: %w", err)
	}

	for _, chunk := range Chunks(ids, j.BatchSize) {
		var n int64
		err := inTx(ctx, j.Tx, func(ctx context.Context) error {
			var err error
			n, err = j.Users.ResetDailyStatus(ctx, chunk, res.ResetDate)
			return err
		})
		if err != nil {
			return res, fmt.Errorf("reset daily status (batch %d): %w", res.Batches+1, err)
		}
		res.ResetCount += n
		res.Batches++
	}

	j.Log.Info("daily status reset complete",
		zap.Int64("reset_count", res.ResetCount),
		zap.Int("batches", res.Batches),
		zap.String("date", res.ResetDate))
	return res, nil
}

// localNow returns the current time in loc (UTC when loc is nil).
func localNow(now func() time.Time, loc *time.Location) time.Time {
	t := time.Now()
	if now != nil {
		t = now()
	}
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc)
}
