// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/daycarehub/internal/app/features/tenants"
	"github.com/dalemusser/daycarehub/internal/app/features/users"
	"github.com/dalemusser/daycarehub/internal/app/jobs"
	"github.com/dalemusser/daycarehub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for the daycare backend.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, jwt_secret, etc.
//   - Environment variables: DAYCARE_MONGO_URI, DAYCARE_JWT_SECRET, etc.
//   - Command-line flags: --mongo_uri, --jwt_secret, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "daycare", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// Caller identity
	{Name: "jwt_secret", Default: "", Desc: "HS256 secret used to verify bearer tokens (required)"},
	{Name: "jwt_issuer", Default: "", Desc: "Expected token issuer (blank skips the check)"},
	{Name: "login_domain", Default: users.DefaultLoginDomain, Desc: "Domain appended to usernames for sign-in addresses"},

	// Maintenance jobs
	{Name: "tenant_time_zone", Default: "America/Denver", Desc: "Time zone for the daily reset and month-end checklist jobs"},
	{Name: "photo_retention_days", Default: jobs.DefaultRetentionDays, Desc: "Days daily status photos are kept"},
	{Name: "batch_size", Default: jobs.DefaultBatchSize, Desc: "Max ids per chunk; each chunk is one transaction"},
	{Name: "job_timeout", Default: "10m", Desc: "Upper bound for one job run (e.g., 10m, 1h)"},
	{Name: "callable_timeout", Default: "30s", Desc: "Upper bound for one callable invocation"},
	{Name: "scheduler_enabled", Default: true, Desc: "Run maintenance jobs on their cron schedules"},
	{Name: "accept_rate_limit", Default: 10, Desc: "acceptInvitation calls allowed per client IP per minute (0 disables)"},
	{Name: "trial_days", Default: tenants.DefaultTrialDays, Desc: "Trial subscription length for new schools"},

	// Push notifications
	{Name: "notify_enabled", Default: true, Desc: "Push a notification for each new signature request"},
	{Name: "fcm_project_id", Default: "", Desc: "Firebase project id (blank logs messages instead of sending)"},
	{Name: "fcm_credentials_file", Default: "", Desc: "Service account JSON for FCM (blank uses default credentials)"},

	// Blob storage
	{Name: "storage_type", Default: "local", Desc: "Storage backend: 'gcs', 's3' or 'local'"},
	{Name: "storage_bucket", Default: "", Desc: "Bucket holding daily status photos (gcs and s3)"},
	{Name: "storage_s3_region", Default: "", Desc: "AWS region for S3"},
	{Name: "storage_local_path", Default: "./uploads", Desc: "Local storage root"},

	// Audit logging settings
	{Name: "audit_log_auth", Default: "all", Desc: "Identity event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_admin", Default: "all", Desc: "Admin event logging: 'all' (db+log), 'db', 'log', or 'off'"},

	{Name: "cors_allowed_origins", Default: "*", Desc: "Comma-separated origins allowed to call the API"},

	// SuperAdmin bootstrap
	{Name: "superadmin_email", Default: "", Desc: "Email of an account granted the super-admin claim on startup"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before any backends or handlers are built.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, DAYCARE_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "DAYCARE", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		JWTSecret:   appValues.String("jwt_secret"),
		JWTIssuer:   appValues.String("jwt_issuer"),
		LoginDomain: appValues.String("login_domain"),

		TenantTimeZone:     appValues.String("tenant_time_zone"),
		PhotoRetentionDays: appValues.Int("photo_retention_days"),
		BatchSize:          appValues.Int("batch_size"),
		JobTimeout:         appValues.Duration("job_timeout", timeouts.DefaultJob),
		CallableTimeout:    appValues.Duration("callable_timeout", timeouts.DefaultCallable),
		SchedulerEnabled:   appValues.Bool("scheduler_enabled"),
		TrialDays:          appValues.Int("trial_days"),
		AcceptRateLimit:    appValues.Int("accept_rate_limit"),

		NotifyEnabled:      appValues.Bool("notify_enabled"),
		FCMProjectID:       appValues.String("fcm_project_id"),
		FCMCredentialsFile: appValues.String("fcm_credentials_file"),

		StorageType:      strings.ToLower(appValues.String("storage_type")),
		StorageBucket:    appValues.String("storage_bucket"),
		StorageS3Region:  appValues.String("storage_s3_region"),
		StorageLocalPath: appValues.String("storage_local_path"),

		AuditLogAuth:  appValues.String("audit_log_auth"),
		AuditLogAdmin: appValues.String("audit_log_admin"),

		CORSAllowedOrigins: splitList(appValues.String("cors_allowed_origins")),

		SuperAdminEmail: appValues.String("superadmin_email"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// The MongoDB URI, time zone and storage backend are checked here so that
// typos fail fast instead of at the first scheduled run.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if appCfg.JWTSecret == "" {
		return fmt.Errorf("jwt_secret is required")
	}

	if _, err := time.LoadLocation(appCfg.TenantTimeZone); err != nil {
		return fmt.Errorf("invalid tenant_time_zone %q: %w", appCfg.TenantTimeZone, err)
	}

	switch appCfg.StorageType {
	case "gcs", "s3":
		if appCfg.StorageBucket == "" {
			return fmt.Errorf("storage_type %q requires storage_bucket", appCfg.StorageType)
		}
		if appCfg.StorageType == "s3" && appCfg.StorageS3Region == "" {
			return fmt.Errorf("storage_type \"s3\" requires storage_s3_region")
		}
	case "local":
		if appCfg.StorageLocalPath == "" {
			return fmt.Errorf("storage_type \"local\" requires storage_local_path")
		}
	default:
		return fmt.Errorf("unknown storage_type %q (want gcs, s3 or local)", appCfg.StorageType)
	}

	for key, v := range map[string]string{"audit_log_auth": appCfg.AuditLogAuth, "audit_log_admin": appCfg.AuditLogAdmin} {
		switch v {
		case "", "all", "db", "log", "off":
		default:
			return fmt.Errorf("%s must be one of all, db, log, off (got %q)", key, v)
		}
	}

	if appCfg.PhotoRetentionDays <= 0 {
		return fmt.Errorf("photo_retention_days must be positive")
	}
	if appCfg.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be positive")
	}

	if coreCfg.Env == "prod" && appCfg.FCMProjectID == "" && appCfg.NotifyEnabled {
		logger.Warn("fcm_project_id is empty; signature request notifications will only be logged")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
