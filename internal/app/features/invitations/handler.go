// internal/app/features/invitations/handler.go
package invitations

import (
	"context"
	"time"

	"github.com/dalemusser/daycarehub/internal/app/system/auditlog"
	"github.com/dalemusser/daycarehub/internal/app/system/identity"
	"github.com/dalemusser/daycarehub/internal/app/system/ratelimit"
	"github.com/dalemusser/daycarehub/internal/app/system/tokens"
	"github.com/dalemusser/daycarehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Members reads and writes school memberships.
type Members interface {
	Get(ctx context.Context, schoolID, uid string) (*models.SchoolMember, error)
	Put(ctx context.Context, m models.SchoolMember) error
}

// Schools reads schools.
type Schools interface {
	GetByID(ctx context.Context, id string) (*models.School, error)
}

// Invitations is the invitation store surface.
type Invitations interface {
	Create(ctx context.Context, inv models.Invitation) (models.Invitation, error)
	HasPending(ctx context.Context, email, schoolID string) (bool, error)
	FindPendingByToken(ctx context.Context, token string) (*models.Invitation, error)
	MarkAccepted(ctx context.Context, id primitive.ObjectID, at time.Time) error
}

// Accounts is the identity provider surface used during acceptance.
type Accounts interface {
	LookupByEmail(ctx context.Context, email string) (models.Account, identity.Lookup, error)
	Create(ctx context.Context, na identity.NewAccount) (models.Account, error)
}

// Profiles writes user profiles.
type Profiles interface {
	Put(ctx context.Context, u models.User) error
	AddSchool(ctx context.Context, uid, schoolID string) error
}

// Transactor runs fn atomically when the backing store allows it.
type Transactor interface {
	Run(ctx context.Context, fn func(ctx context.Context) error) error
}

// Handler is the feature-level entry point for the invitation workflow.
type Handler struct {
	Members     Members
	Schools     Schools
	Invitations Invitations
	Accounts    Accounts
	Profiles    Profiles
	Tx          Transactor
	Log         *zap.Logger
	Audit       *auditlog.Logger

	// AcceptLimiter throttles acceptInvitation per client IP. Nil disables it.
	AcceptLimiter *ratelimit.Limiter

	NewToken func() (string, error)
	Now      func() time.Time
}

// NewHandler constructs an invitations Handler.
func NewHandler(members Members, schools Schools, invitations Invitations, accounts Accounts, profiles Profiles, tx Transactor, logger *zap.Logger) *Handler {
	return &Handler{
		Members:     members,
		Schools:     schools,
		Invitations: invitations,
		Accounts:    accounts,
		Profiles:    profiles,
		Tx:          tx,
		Log:         logger,
		NewToken:    tokens.NewInviteToken,
		Now:         time.Now,
	}
}
