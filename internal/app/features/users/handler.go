// internal/app/features/users/handler.go
package users

import (
	"context"
	"time"

	userstore "github.com/dalemusser/daycarehub/internal/app/store/users"
	"github.com/dalemusser/daycarehub/internal/app/system/auditlog"
	"github.com/dalemusser/daycarehub/internal/app/system/identity"
	"github.com/dalemusser/daycarehub/internal/domain/models"
	"go.uber.org/zap"
)

// DefaultLoginDomain is appended to usernames to form sign-in addresses.
const DefaultLoginDomain = "daycare.local"

// Accounts is the identity provider surface used by admin provisioning.
type Accounts interface {
	Create(ctx context.Context, na identity.NewAccount) (models.Account, error)
	Update(ctx context.Context, uid string, ch identity.Changes) error
}

// Profiles is the user profile store surface used by admin provisioning.
type Profiles interface {
	GetByID(ctx context.Context, uid string) (*models.User, error)
	Put(ctx context.Context, u models.User) error
	Update(ctx context.Context, uid string, upd userstore.Update) error
}

// Handler is the feature-level entry point for admin user provisioning.
type Handler struct {
	Accounts    Accounts
	Profiles    Profiles
	LoginDomain string
	Log         *zap.Logger
	Audit       *auditlog.Logger
	Now         func() time.Time
}

// NewHandler constructs a users Handler.
func NewHandler(accounts Accounts, profiles Profiles, loginDomain string, logger *zap.Logger) *Handler {
	if loginDomain == "" {
		loginDomain = DefaultLoginDomain
	}
	return &Handler{
		Accounts:    accounts,
		Profiles:    profiles,
		LoginDomain: loginDomain,
		Log:         logger,
		Now:         time.Now,
	}
}
