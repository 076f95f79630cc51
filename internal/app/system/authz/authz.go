// internal/app/system/authz/authz.go
package authz

import (
	"context"
	"errors"

	membershipstore "github.com/dalemusser/daycarehub/internal/app/store/memberships"
	userstore "github.com/dalemusser/daycarehub/internal/app/store/users"
	"github.com/dalemusser/daycarehub/internal/app/system/auth"
	"github.com/dalemusser/daycarehub/internal/app/system/callable"
	"github.com/dalemusser/daycarehub/internal/domain/models"
)

// ProfileReader loads stored user profiles.
type ProfileReader interface {
	GetByID(ctx context.Context, uid string) (*models.User, error)
}

// MembershipReader loads school memberships.
type MembershipReader interface {
	Get(ctx context.Context, schoolID, uid string) (*models.SchoolMember, error)
}

// RequireCaller returns the verified caller or an Unauthenticated error.
func RequireCaller(ctx context.Context, msg string) (auth.Caller, error) {
	c, ok := auth.CallerFrom(ctx)
	if !ok || c.UID == "" {
		return auth.Caller{}, callable.Errorf(callable.Unauthenticated, "%s", msg)
	}
	return c, nil
}

// Profile returns the caller's stored profile, or nil when none exists.
func Profile(ctx context.Context, users ProfileReader, uid string) (*models.User, error) {
	u, err := users.GetByID(ctx, uid)
	if errors.Is(err, userstore.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// HasStoredRole reports whether uid's stored profile carries role.
// A missing profile has no role.
func HasStoredRole(ctx context.Context, users ProfileReader, uid, role string) (bool, error) {
	u, err := Profile(ctx, users, uid)
	if err != nil || u == nil {
		return false, err
	}
	return u.Role == role, nil
}

// IsAdminCaller reports whether c is a super-admin or has the stored admin role.
func IsAdminCaller(ctx context.Context, users ProfileReader, c auth.Caller) (bool, error) {
	if c.SuperAdmin {
		return true, nil
	}
	return HasStoredRole(ctx, users, c.UID, models.RoleAdmin)
}

// IsSchoolAdmin reports whether uid holds the admin role in schoolID.
func IsSchoolAdmin(ctx context.Context, members MembershipReader, schoolID, uid string) (bool, error) {
	m, err := members.Get(ctx, schoolID, uid)
	if errors.Is(err, membershipstore.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return m.Role == models.RoleAdmin, nil
}

// IsOrganizationAdmin reports whether uid's stored profile is the admin of orgID.
// Teachers and students placed in the organization do not qualify.
func IsOrganizationAdmin(ctx context.Context, users ProfileReader, uid, orgID string) (bool, error) {
	if orgID == "" {
		return false, nil
	}
	u, err := Profile(ctx, users, uid)
	if err != nil || u == nil {
		return false, err
	}
	return u.Role == models.RoleAdmin && u.OrganizationID == orgID, nil
}
