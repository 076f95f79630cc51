package tasks

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/daycarehub/internal/app/jobs"
	"github.com/dalemusser/daycarehub/internal/testutil"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

func TestJobSchedules(t *testing.T) {
	loc, err := time.LoadLocation("America/Denver")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	mem := testutil.NewMemStore()

	built := []Job{
		PhotoCleanupJob(&jobs.PhotoCleanup{Records: mem.DailyStatus(), Blobs: &testutil.FakeBlobs{}, Log: zap.NewNop()}),
		StatusResetJob(&jobs.StatusReset{Users: mem.Users(), Location: loc, Log: zap.NewNop()}),
		ChecklistSubmitJob(&jobs.ChecklistSubmit{Records: mem.Checklists(), Location: loc, Log: zap.NewNop()}),
	}
	want := map[string]string{
		PhotoCleanupJobName:    "CRON_TZ=UTC 0 0 * * *",
		StatusResetJobName:     "CRON_TZ=America/Denver 0 0 * * *",
		ChecklistSubmitJobName: "CRON_TZ=America/Denver 59 23 28-31 * *",
	}

	for _, j := range built {
		if j.Schedule != want[j.Name] {
			t.Errorf("%s: schedule = %q, want %q", j.Name, j.Schedule, want[j.Name])
		}
		if _, err := cron.ParseStandard(j.Schedule); err != nil {
			t.Errorf("%s: schedule does not parse: %v", j.Name, err)
		}
	}
}

func TestStatusResetJob_RunsThroughScheduler(t *testing.T) {
	mem := testutil.NewMemStore()
	s := NewScheduler(zap.NewNop(), time.Minute)
	if err := s.Add(StatusResetJob(&jobs.StatusReset{Users: mem.Users(), Location: time.UTC, Log: zap.NewNop()})); err != nil {
		t.Fatalf("Add: %v", err)
	}

	res, err := s.RunNow(context.Background(), StatusResetJobName)
	if err != nil {
		t.Fatalf("RunNow: %v", err)
	}
	if _, ok := res.(jobs.StatusResetResult); !ok {
		t.Errorf("result type = %T", res)
	}
}
