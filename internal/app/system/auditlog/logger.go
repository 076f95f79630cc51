// internal/app/system/auditlog/logger.go
package auditlog

// Terminology: identifiers
//   - actor: the uid of the verified caller who performed the action
//   - target: the account, invitation, school or organization acted upon

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/dalemusser/daycarehub/internal/app/store/audit"
	"github.com/dalemusser/daycarehub/internal/app/system/ratelimit"
	"go.uber.org/zap"
)

// Config holds audit logging configuration.
type Config struct {
	// Auth controls logging for identity events (invitation acceptance, super-admin grants).
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	Auth string
	// Admin controls logging for admin action events (user provisioning, invitations, tenants)
	// and on-demand job runs.
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	Admin string
}

// Sink persists audit events. *audit.Store satisfies it.
type Sink interface {
	Log(ctx context.Context, event audit.Event) error
}

// Logger provides convenience methods for logging audit events.
// It logs to both MongoDB (via the sink) and structured logs (via zap).
type Logger struct {
	sink   Sink
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(sink Sink, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{
		sink:   sink,
		zapLog: zapLog,
		config: config,
	}
}

type ctxKey struct{}

// CaptureIP stores the client IP in the request context so that callables,
// which only see a context, can attribute their audit events.
func CaptureIP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), ctxKey{}, ratelimit.ClientIP(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func clientIP(ctx context.Context) string {
	ip, _ := ctx.Value(ctxKey{}).(string)
	return ip
}

// logToZap logs the event to zap with consistent structure.
func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
	}
	for _, f := range []struct{ k, v string }{
		{"ip", event.IP},
		{"actor_id", event.ActorID},
		{"target_id", event.TargetID},
		{"school_id", event.SchoolID},
		{"organization_id", event.OrganizationID},
		{"failure_reason", event.FailureReason},
	} {
		if f.v != "" {
			fields = append(fields, zap.String(f.k, f.v))
		}
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event based on configuration.
// If the logger is nil, this is a no-op (allows tests to use nil audit logger).
// Audit failures are logged and never returned: the audited action has
// already happened.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	var setting string
	switch event.Category {
	case audit.CategoryAuth:
		setting = l.config.Auth
	case audit.CategoryAdmin, audit.CategorySystem:
		setting = l.config.Admin
	default:
		setting = "all"
	}
	if setting == "" {
		setting = "all"
	}
	if setting == "off" {
		return
	}

	if event.IP == "" {
		event.IP = clientIP(ctx)
	}

	if setting == "all" || setting == "log" {
		l.logToZap(event)
	}

	if (setting == "all" || setting == "db") && l.sink != nil {
		if err := l.sink.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

// --- Identity Events ---

// InvitationAccepted logs the redemption of an invitation token.
func (l *Logger) InvitationAccepted(ctx context.Context, uid, invitationID, schoolID, role string, newAccount bool) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventInvitationAccepted,
		ActorID:   uid,
		TargetID:  invitationID,
		SchoolID:  schoolID,
		Success:   true,
		Details: map[string]string{
			"role":        role,
			"new_account": strconv.FormatBool(newAccount),
		},
	})
}

// SuperAdminGranted logs a super-admin claim being set on an account.
func (l *Logger) SuperAdminGranted(ctx context.Context, uid, source string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventSuperAdminGranted,
		TargetID:  uid,
		Success:   true,
		Details:   map[string]string{"source": source},
	})
}

// --- Admin Events ---

// UserCreated logs an account and profile provisioned by an admin.
func (l *Logger) UserCreated(ctx context.Context, actorID, uid, role, orgID string) {
	l.Log(ctx, audit.Event{
		Category:       audit.CategoryAdmin,
		EventType:      audit.EventUserCreated,
		ActorID:        actorID,
		TargetID:       uid,
		OrganizationID: orgID,
		Success:        true,
		Details:        map[string]string{"role": role},
	})
}

// UserUpdated logs an admin change to another user.
func (l *Logger) UserUpdated(ctx context.Context, actorID, uid string, fieldsChanged []string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventUserUpdated,
		ActorID:   actorID,
		TargetID:  uid,
		Success:   true,
		Details:   map[string]string{"fields_changed": strings.Join(fieldsChanged, ",")},
	})
}

// InvitationCreated logs a new invitation.
func (l *Logger) InvitationCreated(ctx context.Context, actorID, invitationID, schoolID, role string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventInvitationCreated,
		ActorID:   actorID,
		TargetID:  invitationID,
		SchoolID:  schoolID,
		Success:   true,
		Details:   map[string]string{"role": role},
	})
}

// SchoolCreated logs a new school (dayhome).
func (l *Logger) SchoolCreated(ctx context.Context, actorID, schoolID, orgID, schoolName string) {
	l.Log(ctx, audit.Event{
		Category:       audit.CategoryAdmin,
		EventType:      audit.EventSchoolCreated,
		ActorID:        actorID,
		TargetID:       schoolID,
		SchoolID:       schoolID,
		OrganizationID: orgID,
		Success:        true,
		Details:        map[string]string{"school_name": schoolName},
	})
}

// OrgCreated logs a new organization and its admin.
func (l *Logger) OrgCreated(ctx context.Context, actorID, orgID, adminUID, orgName string) {
	l.Log(ctx, audit.Event{
		Category:       audit.CategoryAdmin,
		EventType:      audit.EventOrgCreated,
		ActorID:        actorID,
		TargetID:       orgID,
		OrganizationID: orgID,
		Success:        true,
		Details: map[string]string{
			"org_name":  orgName,
			"admin_uid": adminUID,
		},
	})
}

// --- System Events ---

// JobTriggered logs an on-demand job run and its outcome.
func (l *Logger) JobTriggered(ctx context.Context, actorID, job string, runErr error) {
	ev := audit.Event{
		Category:  audit.CategorySystem,
		EventType: audit.EventJobTriggered,
		ActorID:   actorID,
		TargetID:  job,
		Success:   runErr == nil,
	}
	if runErr != nil {
		ev.FailureReason = runErr.Error()
	}
	l.Log(ctx, ev)
}
