// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	healthfeature "github.com/dalemusser/daycarehub/internal/app/features/health"
	invitationsfeature "github.com/dalemusser/daycarehub/internal/app/features/invitations"
	jobtriggerfeature "github.com/dalemusser/daycarehub/internal/app/features/jobtrigger"
	tenantsfeature "github.com/dalemusser/daycarehub/internal/app/features/tenants"
	usersfeature "github.com/dalemusser/daycarehub/internal/app/features/users"
	accountstore "github.com/dalemusser/daycarehub/internal/app/store/accounts"
	invitationstore "github.com/dalemusser/daycarehub/internal/app/store/invitations"
	membershipstore "github.com/dalemusser/daycarehub/internal/app/store/memberships"
	organizationstore "github.com/dalemusser/daycarehub/internal/app/store/organizations"
	schoolstore "github.com/dalemusser/daycarehub/internal/app/store/schools"
	userstore "github.com/dalemusser/daycarehub/internal/app/store/users"
	"github.com/dalemusser/daycarehub/internal/app/system/auditlog"
	"github.com/dalemusser/daycarehub/internal/app/system/auth"
	"github.com/dalemusser/daycarehub/internal/app/system/identity"
	"github.com/dalemusser/daycarehub/internal/app/system/metrics"
	"github.com/dalemusser/daycarehub/internal/app/system/txn"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. At this point you have access to:
//   - coreCfg: WAFFLE core configuration (ports, env, timeouts, etc.)
//   - appCfg: app-specific configuration defined in AppConfig
//   - deps: the Mongo client, blob and push backends, and the job scheduler
//   - logger: the fully configured zap.Logger for this app
//
// The router serves the callables under /callable, plus /health, /metrics
// and the super-admin job trigger under /jobs.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	verifier, err := auth.NewVerifier(appCfg.JWTSecret, appCfg.JWTIssuer, logger)
	if err != nil {
		logger.Error("token verifier init failed", zap.Error(err))
		return nil, err
	}

	db := deps.MongoDatabase
	accounts := identity.New(accountstore.New(db))
	profiles := userstore.New(db)
	schools := schoolstore.New(db)
	invitations := invitationstore.New(db)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: appCfg.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Use(auditlog.CaptureIP)

	// Attaches the verified caller, if any; handlers decide whether one is required.
	r.Use(verifier.LoadCaller)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	r.Handle("/metrics", metrics.Handler())

	usersHandler := usersfeature.NewHandler(accounts, profiles, appCfg.LoginDomain, logger)
	usersHandler.Audit = deps.Audit

	invitationsHandler := invitationsfeature.NewHandler(
		membershipstore.New(db),
		schools,
		invitations,
		accounts,
		profiles,
		txn.NewRunner(deps.MongoClient, logger),
		logger,
	)
	invitationsHandler.Audit = deps.Audit
	invitationsHandler.AcceptLimiter = deps.AcceptLimiter

	tenantsHandler := tenantsfeature.NewHandler(
		schools,
		organizationstore.New(db),
		invitations,
		accounts,
		profiles,
		appCfg.TrialDays,
		logger,
	)
	tenantsHandler.Audit = deps.Audit

	r.Route("/callable", func(cr chi.Router) {
		usersfeature.Mount(cr, usersHandler)
		invitationsfeature.Mount(cr, invitationsHandler)
		tenantsfeature.Mount(cr, tenantsHandler)
	})

	jobsHandler := jobtriggerfeature.NewHandler(deps.Scheduler, logger)
	jobsHandler.Audit = deps.Audit
	r.Mount("/jobs", jobtriggerfeature.Routes(jobsHandler))

	return r, nil
}
