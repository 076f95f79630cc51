// internal/app/features/tenants/organization.go
package tenants

import (
	"context"
	"errors"

	organizationstore "github.com/dalemusser/daycarehub/internal/app/store/organizations"
	"github.com/dalemusser/daycarehub/internal/app/system/authz"
	"github.com/dalemusser/daycarehub/internal/app/system/callable"
	"github.com/dalemusser/daycarehub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/daycarehub/internal/app/system/identity"
	"github.com/dalemusser/daycarehub/internal/app/system/inputval"
	"github.com/dalemusser/daycarehub/internal/app/system/normalize"
	"github.com/dalemusser/daycarehub/internal/app/system/slug"
	"github.com/dalemusser/daycarehub/internal/domain/models"
	"go.uber.org/zap"
)

const (
	orgAdminName = "Admin"
	errOrgExists = "An organization with this name already exists"
)

// CreateOrganization handles createOrganization. Unlike schools, the
// organization owner is made admin directly with the supplied password.
func (h *Handler) CreateOrganization(ctx context.Context, req createOrganizationRequest) (createOrganizationResponse, error) {
	caller, err := authz.RequireCaller(ctx, "User must be authenticated")
	if err != nil {
		return createOrganizationResponse{}, err
	}
	if !caller.SuperAdmin {
		return createOrganizationResponse{}, callable.Errorf(callable.PermissionDenied, "Only super admins can create organizations")
	}

	req.Name = normalize.Name(htmlsanitize.PlainText(req.Name))
	req.AdminEmail = normalize.Email(req.AdminEmail)
	if err := inputval.Struct(req); err != nil {
		return createOrganizationResponse{}, callable.Invalid(err,
			"Organization name, admin email, and password are required",
			"Organization name, admin email, and password are required")
	}

	orgID := slug.Make(req.Name)
	if orgID == "" {
		return createOrganizationResponse{}, callable.Errorf(callable.InvalidArgument, "Organization name must contain letters or digits")
	}

	exists, err := h.Organizations.Exists(ctx, orgID)
	if err != nil {
		return createOrganizationResponse{}, callable.Wrap("create organization", err)
	}
	if exists {
		return createOrganizationResponse{}, callable.Errorf(callable.AlreadyExists, errOrgExists)
	}

	// The account is settled before the organization is written, so a
	// rejected password or email leaves nothing behind to block a retry.
	acct, found, err := h.Accounts.LookupByEmail(ctx, req.AdminEmail)
	if err != nil {
		return createOrganizationResponse{}, callable.Wrap("create organization", err)
	}
	if found != identity.Found {
		name := orgAdminName
		acct, err = h.Accounts.Create(ctx, identity.NewAccount{
			Email:       req.AdminEmail,
			Password:    req.Password,
			DisplayName: &name,
		})
		if err != nil {
			return createOrganizationResponse{}, callable.Wrap("create organization", err)
		}
	}

	now := h.Now().UTC()
	if _, err := h.Organizations.Create(ctx, models.Organization{
		ID:        orgID,
		Name:      req.Name,
		CreatedBy: caller.UID,
		CreatedAt: now,
	}); err != nil {
		if errors.Is(err, organizationstore.ErrDuplicateOrganization) {
			return createOrganizationResponse{}, callable.Errorf(callable.AlreadyExists, errOrgExists)
		}
		return createOrganizationResponse{}, callable.Wrap("create organization", err)
	}

	if found == identity.Found {
		if err := h.Profiles.MakeOrganizationAdmin(ctx, acct.ID, orgID); err != nil {
			return createOrganizationResponse{}, callable.Wrap("create organization", err)
		}
	} else {
		if err := h.Profiles.Put(ctx, models.User{
			ID:             acct.ID,
			Email:          acct.Email,
			Username:       normalize.LocalPart(acct.Email),
			Name:           orgAdminName,
			Role:           models.RoleAdmin,
			OrganizationID: orgID,
			SchoolIDs:      []string{},
			CreatedAt:      now,
		}); err != nil {
			return createOrganizationResponse{}, callable.Wrap("create organization", err)
		}
	}

	h.Log.Info("created organization",
		zap.String("organization_id", orgID),
		zap.String("admin_uid", acct.ID),
		zap.Bool("existing_account", found == identity.Found),
		zap.String("created_by", caller.UID))
	h.Audit.OrgCreated(ctx, caller.UID, orgID, acct.ID, req.Name)

	return createOrganizationResponse{Success: true, OrganizationID: orgID, UID: acct.ID}, nil
}
