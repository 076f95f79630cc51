// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like ports, TLS,
// logging and request limits. AppConfig carries everything specific to the
// daycare backend: the document store, token verification, the blob and
// push backends, and the knobs of the maintenance jobs.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Caller identity (bearer tokens issued by the identity provider)
	JWTSecret string // HS256 signing secret shared with the issuer
	JWTIssuer string // Expected iss claim; blank skips the check

	// LoginDomain is appended to usernames to form sign-in addresses.
	LoginDomain string

	// Maintenance jobs
	TenantTimeZone     string        // IANA zone for the reset and checklist schedules (e.g., America/Denver)
	PhotoRetentionDays int           // Daily status records older than this are deleted with their photos
	BatchSize          int           // Max ids per chunk; each chunk is one transaction
	JobTimeout         time.Duration // Upper bound for one job run
	CallableTimeout    time.Duration // Upper bound for one callable invocation
	SchedulerEnabled   bool          // Run jobs on their cron schedules (the /jobs trigger works either way)

	// AcceptRateLimit caps acceptInvitation calls per client IP per minute. 0 disables it.
	AcceptRateLimit int

	// TrialDays is the length of the trial subscription given to new schools.
	TrialDays int

	// Push notifications
	NotifyEnabled      bool   // Follow signature_requests and push a notification per insert
	FCMProjectID       string // Firebase project; blank logs messages instead of sending
	FCMCredentialsFile string // Service account JSON; blank uses Application Default Credentials

	// Blob storage for daily status photos
	StorageType      string // Storage backend: "gcs", "s3" or "local"
	StorageBucket    string // Bucket name (gcs and s3)
	StorageS3Region  string // AWS region (s3 only)
	StorageLocalPath string // Root directory (local only)

	// Audit logging: "all" (db+log), "db", "log", or "off"
	AuditLogAuth  string
	AuditLogAdmin string

	// CORSAllowedOrigins lists the origins allowed to call the API.
	CORSAllowedOrigins []string

	// SuperAdminEmail names an account granted the super-admin claim on startup.
	SuperAdminEmail string
}
