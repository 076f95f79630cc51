// internal/app/features/tenants/school.go
package tenants

import (
	"context"
	"errors"
	"time"

	schoolstore "github.com/dalemusser/daycarehub/internal/app/store/schools"
	"github.com/dalemusser/daycarehub/internal/app/system/authz"
	"github.com/dalemusser/daycarehub/internal/app/system/callable"
	"github.com/dalemusser/daycarehub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/daycarehub/internal/app/system/inputval"
	"github.com/dalemusser/daycarehub/internal/app/system/normalize"
	"github.com/dalemusser/daycarehub/internal/app/system/slug"
	"github.com/dalemusser/daycarehub/internal/domain/models"
	"go.uber.org/zap"
)

// CreateSchool handles createSchool. The school's first admin is not
// provisioned directly; an admin invitation is issued instead.
func (h *Handler) CreateSchool(ctx context.Context, req createSchoolRequest) (createSchoolResponse, error) {
	caller, err := authz.RequireCaller(ctx, "User must be authenticated")
	if err != nil {
		return createSchoolResponse{}, err
	}

	req.Name = normalize.Name(htmlsanitize.PlainText(req.Name))
	req.AdminEmail = normalize.Email(req.AdminEmail)
	if err := inputval.Struct(req); err != nil {
		return createSchoolResponse{}, callable.Invalid(err,
			"School name and admin email are required",
			"School name and admin email are required")
	}

	if !caller.SuperAdmin {
		if req.OrganizationID == "" {
			return createSchoolResponse{}, callable.Errorf(callable.PermissionDenied, "Only super admins can create standalone schools.")
		}
		ok, err := authz.IsOrganizationAdmin(ctx, h.Profiles, caller.UID, req.OrganizationID)
		if err != nil {
			return createSchoolResponse{}, callable.Wrap("create school", err)
		}
		if !ok {
			return createSchoolResponse{}, callable.Errorf(callable.PermissionDenied, "You are not authorized to create a dayhome for this organization.")
		}
	}

	base := slug.Make(req.Name)
	if base == "" {
		return createSchoolResponse{}, callable.Errorf(callable.InvalidArgument, "School name must contain letters or digits")
	}
	schoolID := slug.Scoped(base, req.OrganizationID)

	now := h.Now().UTC()
	cfg := req.Config
	if cfg == nil {
		cfg = map[string]any{}
	}
	school, err := h.Schools.Create(ctx, models.School{
		ID:     schoolID,
		Name:   req.Name,
		Config: cfg,
		Subscription: models.Subscription{
			Status:      models.SubscriptionTrial,
			TrialEndsAt: now.Add(time.Duration(h.TrialDays) * 24 * time.Hour),
		},
		OrganizationID: req.OrganizationID,
		CreatedAt:      now,
	})
	if errors.Is(err, schoolstore.ErrDuplicateSchool) {
		return createSchoolResponse{}, callable.Errorf(callable.AlreadyExists, "A school with this name already exists")
	}
	if err != nil {
		return createSchoolResponse{}, callable.Wrap("create school", err)
	}

	token, err := h.NewToken()
	if err != nil {
		return createSchoolResponse{}, callable.Wrap("create school", err)
	}
	inv, err := h.Invitations.Create(ctx, models.Invitation{
		Email:          req.AdminEmail,
		SchoolID:       school.ID,
		SchoolName:     school.Name,
		OrganizationID: req.OrganizationID,
		Role:           models.RoleAdmin,
		Token:          token,
		Status:         models.InvitationPending,
		CreatedBy:      caller.UID,
		CreatedAt:      now,
	})
	if err != nil {
		return createSchoolResponse{}, callable.Wrap("create school", err)
	}

	h.Log.Info("created school",
		zap.String("school_id", school.ID),
		zap.String("organization_id", req.OrganizationID),
		zap.String("invitation_id", inv.ID.Hex()),
		zap.String("created_by", caller.UID))
	h.Audit.SchoolCreated(ctx, caller.UID, school.ID, req.OrganizationID, school.Name)

	return createSchoolResponse{
		Success:          true,
		SchoolID:         school.ID,
		InvitationID:     inv.ID.Hex(),
		AdminInviteToken: token,
	}, nil
}
