// internal/app/system/tasks/jobs.go
package tasks

import (
	"context"
	"time"

	"github.com/dalemusser/daycarehub/internal/app/jobs"
)

// Job names, also used as the {name} segment of POST /jobs/{name}.
const (
	PhotoCleanupJobName    = "photo-cleanup"
	StatusResetJobName     = "status-reset"
	ChecklistSubmitJobName = "checklist-submit"
)

// PhotoCleanupJob runs photo retention cleanup every day at midnight UTC.
func PhotoCleanupJob(j *jobs.PhotoCleanup) Job {
	return Job{
		Name:     PhotoCleanupJobName,
		Schedule: "CRON_TZ=UTC 0 0 * * *",
		Run: func(ctx context.Context) (any, error) {
			return j.Run(ctx)
		},
	}
}

// StatusResetJob resets student attendance at local midnight in the tenant zone.
func StatusResetJob(j *jobs.StatusReset) Job {
	return Job{
		Name:     StatusResetJobName,
		Schedule: inZone(j.Location, "0 0 * * *"),
		Run: func(ctx context.Context) (any, error) {
			return j.Run(ctx)
		},
	}
}

// ChecklistSubmitJob fires at 23:59 on days 28-31; the job itself decides
// whether the day is the last of the month.
func ChecklistSubmitJob(j *jobs.ChecklistSubmit) Job {
	return Job{
		Name:     ChecklistSubmitJobName,
		Schedule: inZone(j.Location, "59 23 28-31 * *"),
		Run: func(ctx context.Context) (any, error) {
			return j.Run(ctx)
		},
	}
}

func inZone(loc *time.Location, spec string) string {
	if loc == nil {
		return spec
	}
	return "CRON_TZ=" + loc.String() + " " + spec
}
