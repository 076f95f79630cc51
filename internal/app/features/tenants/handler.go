// internal/app/features/tenants/handler.go
package tenants

import (
	"context"
	"time"

	"github.com/dalemusser/daycarehub/internal/app/system/auditlog"
	"github.com/dalemusser/daycarehub/internal/app/system/identity"
	"github.com/dalemusser/daycarehub/internal/app/system/tokens"
	"github.com/dalemusser/daycarehub/internal/domain/models"
	"go.uber.org/zap"
)

// DefaultTrialDays is the length of the trial subscription given to new schools.
const DefaultTrialDays = 30

type Schools interface {
	Create(ctx context.Context, s models.School) (models.School, error)
}

type Organizations interface {
	Exists(ctx context.Context, id string) (bool, error)
	Create(ctx context.Context, o models.Organization) (models.Organization, error)
}

type Invitations interface {
	Create(ctx context.Context, inv models.Invitation) (models.Invitation, error)
}

type Accounts interface {
	LookupByEmail(ctx context.Context, email string) (models.Account, identity.Lookup, error)
	Create(ctx context.Context, na identity.NewAccount) (models.Account, error)
}

type Profiles interface {
	GetByID(ctx context.Context, uid string) (*models.User, error)
	Put(ctx context.Context, u models.User) error
	MakeOrganizationAdmin(ctx context.Context, uid, orgID string) error
}

// Handler creates organizations and schools.
type Handler struct {
	Schools       Schools
	Organizations Organizations
	Invitations   Invitations
	Accounts      Accounts
	Profiles      Profiles
	TrialDays     int
	Log           *zap.Logger
	Audit         *auditlog.Logger

	NewToken func() (string, error)
	Now      func() time.Time
}

// NewHandler constructs a tenants Handler. trialDays <= 0 selects DefaultTrialDays.
func NewHandler(schools Schools, orgs Organizations, invitations Invitations, accounts Accounts, profiles Profiles, trialDays int, logger *zap.Logger) *Handler {
	if trialDays <= 0 {
		trialDays = DefaultTrialDays
	}
	return &Handler{
		Schools:       schools,
		Organizations: orgs,
		Invitations:   invitations,
		Accounts:      accounts,
		Profiles:      profiles,
		TrialDays:     trialDays,
		Log:           logger,
		NewToken:      tokens.NewInviteToken,
		Now:           time.Now,
	}
}
