// internal/app/bootstrap/backends.go
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/dalemusser/daycarehub/internal/app/jobs"
	"github.com/dalemusser/daycarehub/internal/app/store/audit"
	checkliststore "github.com/dalemusser/daycarehub/internal/app/store/checklists"
	dailystatusstore "github.com/dalemusser/daycarehub/internal/app/store/dailystatus"
	documentstore "github.com/dalemusser/daycarehub/internal/app/store/documents"
	signaturerequeststore "github.com/dalemusser/daycarehub/internal/app/store/signaturerequests"
	userstore "github.com/dalemusser/daycarehub/internal/app/store/users"
	"github.com/dalemusser/daycarehub/internal/app/system/auditlog"
	"github.com/dalemusser/daycarehub/internal/app/system/blobstore"
	"github.com/dalemusser/daycarehub/internal/app/system/push"
	"github.com/dalemusser/daycarehub/internal/app/system/ratelimit"
	"github.com/dalemusser/daycarehub/internal/app/system/tasks"
	"github.com/dalemusser/daycarehub/internal/app/system/txn"
	"github.com/dalemusser/daycarehub/internal/app/system/workers"
	"github.com/dalemusser/daycarehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// watcherBackoff is the first delay before a failed change stream is reopened.
const watcherBackoff = 2 * time.Second

// openBackends fills in the blob store, the push sender, the job scheduler,
// the audit logger, the acceptInvitation limiter and the signature request
// watcher. Nothing is started here.
func openBackends(ctx context.Context, appCfg AppConfig, deps *DBDeps, logger *zap.Logger) error {
	blobs, err := blobstore.Open(ctx, blobstore.Config{
		Type:      appCfg.StorageType,
		Bucket:    appCfg.StorageBucket,
		S3Region:  appCfg.StorageS3Region,
		LocalPath: appCfg.StorageLocalPath,
	})
	if err != nil {
		logger.Error("blob store init failed", zap.String("type", appCfg.StorageType), zap.Error(err))
		return fmt.Errorf("open blob store: %w", err)
	}
	deps.Blobs = blobs

	sender, err := openPush(ctx, appCfg, logger)
	if err != nil {
		return err
	}
	deps.Push = sender

	loc, err := time.LoadLocation(appCfg.TenantTimeZone)
	if err != nil {
		return fmt.Errorf("load tenant time zone: %w", err)
	}
	sched, err := buildScheduler(deps.MongoDatabase, deps.Blobs, loc, appCfg, logger)
	if err != nil {
		return err
	}
	deps.Scheduler = sched

	deps.Audit = auditlog.New(audit.New(deps.MongoDatabase), logger.Named("audit"), auditlog.Config{
		Auth:  appCfg.AuditLogAuth,
		Admin: appCfg.AuditLogAdmin,
	})

	if appCfg.AcceptRateLimit > 0 {
		deps.AcceptLimiter = ratelimit.New(appCfg.AcceptRateLimit, time.Minute)
	}

	if appCfg.NotifyEnabled {
		deps.Watcher = buildWatcher(deps.MongoDatabase, deps.Push, logger)
	}
	return nil
}

func openPush(ctx context.Context, appCfg AppConfig, logger *zap.Logger) (push.Sender, error) {
	if appCfg.FCMProjectID == "" {
		logger.Info("fcm_project_id not set; push messages will be logged only")
		return push.LogSender{Log: logger}, nil
	}
	fcm, err := push.NewFCM(ctx, appCfg.FCMProjectID, appCfg.FCMCredentialsFile)
	if err != nil {
		logger.Error("FCM init failed", zap.Error(err))
		return nil, err
	}
	return fcm, nil
}

// buildScheduler registers the three maintenance jobs.
func buildScheduler(db *mongo.Database, blobs blobstore.Deleter, loc *time.Location, appCfg AppConfig, logger *zap.Logger) (*tasks.Scheduler, error) {
	sched := tasks.NewScheduler(logger, appCfg.JobTimeout)
	tx := txn.NewRunner(db.Client(), logger.Named("txn"))

	cleanup := &jobs.PhotoCleanup{
		Records:       dailystatusstore.New(db),
		Blobs:         blobs,
		RetentionDays: appCfg.PhotoRetentionDays,
		Log:           logger.Named(tasks.PhotoCleanupJobName),
	}
	reset := &jobs.StatusReset{
		Users:     userstore.New(db),
		Location:  loc,
		BatchSize: appCfg.BatchSize,
		Tx:        tx,
		Log:       logger.Named(tasks.StatusResetJobName),
	}
	submit := &jobs.ChecklistSubmit{
		Records:   checkliststore.New(db),
		Location:  loc,
		BatchSize: appCfg.BatchSize,
		Tx:        tx,
		Log:       logger.Named(tasks.ChecklistSubmitJobName),
	}

	for _, job := range []tasks.Job{
		tasks.PhotoCleanupJob(cleanup),
		tasks.StatusResetJob(reset),
		tasks.ChecklistSubmitJob(submit),
	} {
		if err := sched.Add(job); err != nil {
			return nil, err
		}
	}
	return sched, nil
}

// buildWatcher wires the signature_requests change stream to the notifier.
func buildWatcher(db *mongo.Database, sender push.Sender, logger *zap.Logger) *workers.SignatureWatcher {
	requests := signaturerequeststore.New(db)
	notifier := &jobs.SignatureNotifier{
		Documents: documentstore.New(db),
		Users:     userstore.New(db),
		Push:      sender,
		Log:       logger.Named("signature-notify"),
	}

	open := func(ctx context.Context, resume bson.Raw) (workers.InsertStream, error) {
		st, err := requests.WatchInserts(ctx, resume)
		if err != nil {
			return nil, err
		}
		return st, nil
	}
	notify := func(ctx context.Context, req models.SignatureRequest) {
		notifier.Notify(ctx, req)
	}
	return workers.NewSignatureWatcher(open, notify, logger, watcherBackoff)
}
