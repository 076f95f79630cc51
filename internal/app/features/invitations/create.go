// internal/app/features/invitations/create.go
package invitations

import (
	"context"
	"errors"

	invitationstore "github.com/dalemusser/daycarehub/internal/app/store/invitations"
	schoolstore "github.com/dalemusser/daycarehub/internal/app/store/schools"
	"github.com/dalemusser/daycarehub/internal/app/system/authz"
	"github.com/dalemusser/daycarehub/internal/app/system/callable"
	"github.com/dalemusser/daycarehub/internal/app/system/inputval"
	"github.com/dalemusser/daycarehub/internal/app/system/normalize"
	"github.com/dalemusser/daycarehub/internal/domain/models"
	"go.uber.org/zap"
)

const errPendingExists = "A pending invitation already exists for this email"

// CreateInvitation handles createInvitation: a school admin invites an email
// address into their school with a role.
func (h *Handler) CreateInvitation(ctx context.Context, req createInvitationRequest) (createInvitationResponse, error) {
	caller, err := authz.RequireCaller(ctx, "User must be authenticated")
	if err != nil {
		return createInvitationResponse{}, err
	}

	if err := inputval.Struct(req); err != nil {
		return createInvitationResponse{}, callable.Invalid(err,
			"Email, role, and schoolId are required",
			"Invalid role. Must be admin, teacher, or parent")
	}

	ok, err := authz.IsSchoolAdmin(ctx, h.Members, req.SchoolID, caller.UID)
	if err != nil {
		return createInvitationResponse{}, callable.Wrap("create invitation", err)
	}
	if !ok {
		return createInvitationResponse{}, callable.Errorf(callable.PermissionDenied, "Only school admins can create invitations")
	}

	school, err := h.Schools.GetByID(ctx, req.SchoolID)
	if errors.Is(err, schoolstore.ErrNotFound) {
		return createInvitationResponse{}, callable.Errorf(callable.NotFound, "School not found")
	}
	if err != nil {
		return createInvitationResponse{}, callable.Wrap("create invitation", err)
	}

	email := normalize.Email(req.Email)
	pending, err := h.Invitations.HasPending(ctx, email, req.SchoolID)
	if err != nil {
		return createInvitationResponse{}, callable.Wrap("create invitation", err)
	}
	if pending {
		return createInvitationResponse{}, callable.Errorf(callable.AlreadyExists, errPendingExists)
	}

	token, err := h.NewToken()
	if err != nil {
		return createInvitationResponse{}, callable.Wrap("create invitation", err)
	}
	inv, err := h.Invitations.Create(ctx, models.Invitation{
		Email:      email,
		SchoolID:   req.SchoolID,
		SchoolName: school.Name,
		Role:       req.Role,
		Token:      token,
		Status:     models.InvitationPending,
		CreatedBy:  caller.UID,
		CreatedAt:  h.Now().UTC(),
	})
	if errors.Is(err, invitationstore.ErrDuplicatePending) {
		// Lost a race with a concurrent request for the same pair.
		return createInvitationResponse{}, callable.Errorf(callable.AlreadyExists, errPendingExists)
	}
	if err != nil {
		return createInvitationResponse{}, callable.Wrap("create invitation", err)
	}

	h.Log.Info("created invitation",
		zap.String("invitation_id", inv.ID.Hex()),
		zap.String("school_id", req.SchoolID),
		zap.String("role", req.Role),
		zap.String("created_by", caller.UID))
	h.Audit.InvitationCreated(ctx, caller.UID, inv.ID.Hex(), req.SchoolID, req.Role)

	return createInvitationResponse{Success: true, InvitationID: inv.ID.Hex(), Token: token}, nil
}
