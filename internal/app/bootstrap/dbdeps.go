// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/daycarehub/internal/app/system/auditlog"
	"github.com/dalemusser/daycarehub/internal/app/system/blobstore"
	"github.com/dalemusser/daycarehub/internal/app/system/push"
	"github.com/dalemusser/daycarehub/internal/app/system/ratelimit"
	"github.com/dalemusser/daycarehub/internal/app/system/tasks"
	"github.com/dalemusser/daycarehub/internal/app/system/workers"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
// Every client is built once in ConnectDB and shared by handlers and jobs.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	Blobs blobstore.Deleter
	Push  push.Sender

	// Scheduler is always built so POST /jobs/{name} works; it is only
	// started when scheduler_enabled is set.
	Scheduler *tasks.Scheduler

	// Watcher is nil when notify_enabled is off.
	Watcher *workers.SignatureWatcher

	Audit *auditlog.Logger

	// AcceptLimiter is nil when accept_rate_limit is 0.
	AcceptLimiter *ratelimit.Limiter
}
