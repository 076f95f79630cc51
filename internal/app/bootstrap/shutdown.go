// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"
	"io"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Shutdown stops background work first, then releases the backends.
func Shutdown(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if deps.Watcher != nil {
		deps.Watcher.Stop()
	}
	if deps.Scheduler != nil && appCfg.SchedulerEnabled {
		deps.Scheduler.Stop()
	}

	if deps.AcceptLimiter != nil {
		deps.AcceptLimiter.Close()
	}

	if c, ok := deps.Blobs.(io.Closer); ok {
		if err := c.Close(); err != nil {
			logger.Warn("blob store close failed", zap.Error(err))
		}
	}

	if deps.MongoClient != nil {
		logger.Info("disconnecting MongoDB client")
		if err := deps.MongoClient.Disconnect(ctx); err != nil {
			logger.Error("MongoDB disconnect failed", zap.Error(err))
			return err
		}
	}
	return nil
}
