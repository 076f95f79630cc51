// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	accountstore "github.com/dalemusser/daycarehub/internal/app/store/accounts"
	"github.com/dalemusser/daycarehub/internal/app/system/auditlog"
	"github.com/dalemusser/daycarehub/internal/app/system/identity"
	"github.com/dalemusser/daycarehub/internal/app/system/timeouts"
	"github.com/dalemusser/daycarehub/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built. It applies
// timeout overrides, grants the configured super-admin claim, and starts the
// job scheduler and the signature request watcher.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{
		Callable: appCfg.CallableTimeout,
		Job:      appCfg.JobTimeout,
	})

	if appCfg.SuperAdminEmail != "" {
		accounts := identity.New(accountstore.New(deps.MongoDatabase))
		if err := ensureSuperAdmin(ctx, accounts, deps.Audit, appCfg.SuperAdminEmail, logger); err != nil {
			return err
		}
	}

	if appCfg.SchedulerEnabled && deps.Scheduler != nil {
		deps.Scheduler.Start()
	} else {
		logger.Info("job scheduler disabled; jobs run only via POST /jobs/{name}")
	}

	if deps.Watcher != nil {
		deps.Watcher.Start()
	}
	return nil
}

// superAdminGranter is the identity surface ensureSuperAdmin needs.
type superAdminGranter interface {
	LookupByEmail(ctx context.Context, email string) (models.Account, identity.Lookup, error)
	SetSuperAdmin(ctx context.Context, uid string, on bool) error
}

// ensureSuperAdmin sets the super-admin claim on the account registered under
// email. Accounts are created by the identity provider, so an unknown email
// is logged and skipped rather than treated as fatal.
func ensureSuperAdmin(ctx context.Context, accounts superAdminGranter, auditLog *auditlog.Logger, email string, logger *zap.Logger) error {
	acct, found, err := accounts.LookupByEmail(ctx, email)
	if err != nil {
		logger.Error("superadmin lookup failed", zap.String("email", email), zap.Error(err))
		return err
	}
	if found == identity.NotFound {
		logger.Warn("superadmin_email has no account yet; skipping grant", zap.String("email", email))
		return nil
	}
	if acct.SuperAdmin {
		return nil
	}
	if err := accounts.SetSuperAdmin(ctx, acct.ID, true); err != nil {
		logger.Error("superadmin grant failed", zap.String("uid", acct.ID), zap.Error(err))
		return err
	}
	logger.Info("granted super-admin claim", zap.String("uid", acct.ID), zap.String("email", acct.Email))
	auditLog.SuperAdminGranted(ctx, acct.ID, "superadmin_email")
	return nil
}
