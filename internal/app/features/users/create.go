// internal/app/features/users/create.go
package users

import (
	"context"

	"github.com/dalemusser/daycarehub/internal/app/system/authz"
	"github.com/dalemusser/daycarehub/internal/app/system/callable"
	"github.com/dalemusser/daycarehub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/daycarehub/internal/app/system/identity"
	"github.com/dalemusser/daycarehub/internal/app/system/inputval"
	"github.com/dalemusser/daycarehub/internal/app/system/normalize"
	"github.com/dalemusser/daycarehub/internal/domain/models"
	"go.uber.org/zap"
)

// CreateUser handles adminCreateUser: it creates a username-based account
// and its profile. A profile write failure leaves the account in place.
func (h *Handler) CreateUser(ctx context.Context, req createUserRequest) (createUserResponse, error) {
	caller, err := authz.RequireCaller(ctx, "User must be authenticated")
	if err != nil {
		return createUserResponse{}, err
	}
	ok, err := authz.IsAdminCaller(ctx, h.Profiles, caller)
	if err != nil {
		return createUserResponse{}, callable.Wrap("create user", err)
	}
	if !ok {
		return createUserResponse{}, callable.Errorf(callable.PermissionDenied, "Only admins can create users")
	}

	if err := inputval.Struct(req); err != nil {
		return createUserResponse{}, callable.Invalid(err,
			"Username, password, and role are required",
			"Invalid role. Must be teacher, student, or admin")
	}

	acct, err := h.Accounts.Create(ctx, identity.NewAccount{
		Email:    normalize.LoginEmail(req.Username, h.LoginDomain),
		Password: req.Password,
	})
	if err != nil {
		return createUserResponse{}, callable.Wrap("create user", err)
	}
	h.Log.Info("created account", zap.String("uid", acct.ID), zap.String("created_by", caller.UID))

	profile := models.User{
		ID:             acct.ID,
		Username:       req.Username,
		Role:           req.Role,
		Name:           htmlsanitize.PlainText(req.Name),
		OrganizationID: req.OrganizationID,
		CreatedAt:      h.Now().UTC(),
	}
	if err := h.Profiles.Put(ctx, profile); err != nil {
		h.Log.Error("profile write failed after account creation",
			zap.String("uid", acct.ID), zap.Error(err))
		return createUserResponse{}, callable.Wrap("create user", err)
	}
	h.Log.Info("created user profile", zap.String("uid", acct.ID), zap.String("role", req.Role))
	h.Audit.UserCreated(ctx, caller.UID, acct.ID, req.Role, req.OrganizationID)

	return createUserResponse{Success: true, UID: acct.ID, Username: req.Username}, nil
}
