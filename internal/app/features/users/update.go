// internal/app/features/users/update.go
package users

import (
	"context"
	"errors"
	"fmt"

	userstore "github.com/dalemusser/daycarehub/internal/app/store/users"
	"github.com/dalemusser/daycarehub/internal/app/system/authz"
	"github.com/dalemusser/daycarehub/internal/app/system/callable"
	"github.com/dalemusser/daycarehub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/daycarehub/internal/app/system/identity"
	"github.com/dalemusser/daycarehub/internal/app/system/inputval"
	"github.com/dalemusser/daycarehub/internal/app/system/normalize"
	"go.uber.org/zap"
)

// UpdateUser handles adminUpdateUser. Credentials change only when a
// username or password is given; the profile changes only when a username
// or name is given. Updating a uid without a profile fails.
func (h *Handler) UpdateUser(ctx context.Context, req updateUserRequest) (updateUserResponse, error) {
	caller, err := authz.RequireCaller(ctx, "User must be authenticated")
	if err != nil {
		return updateUserResponse{}, err
	}
	ok, err := authz.IsAdminCaller(ctx, h.Profiles, caller)
	if err != nil {
		return updateUserResponse{}, callable.Wrap("update user", err)
	}
	if !ok {
		return updateUserResponse{}, callable.Errorf(callable.PermissionDenied, "Only admins can update users")
	}

	if err := inputval.Struct(req); err != nil {
		return updateUserResponse{}, callable.Invalid(err, "User UID is required", "User UID is required")
	}

	var creds identity.Changes
	var profile userstore.Update
	if req.Username != "" {
		email := normalize.LoginEmail(req.Username, h.LoginDomain)
		creds.Email = &email
		username := req.Username
		profile.Username = &username
	}
	if req.Password != "" {
		pw := req.Password
		creds.Password = &pw
	}
	if req.Name != "" {
		name := htmlsanitize.PlainText(req.Name)
		profile.Name = &name
	}

	if creds.Email != nil || creds.Password != nil {
		if err := h.Accounts.Update(ctx, req.UID, creds); err != nil {
			return updateUserResponse{}, callable.Wrap("update user", accountErr(req.UID, err))
		}
		h.Log.Info("updated account", zap.String("uid", req.UID), zap.String("updated_by", caller.UID))
	}

	if !profile.Empty() {
		if err := h.Profiles.Update(ctx, req.UID, profile); err != nil {
			if errors.Is(err, userstore.ErrNotFound) {
				err = fmt.Errorf("no profile exists for uid %s", req.UID)
			}
			return updateUserResponse{}, callable.Wrap("update user", err)
		}
		h.Log.Info("updated user profile", zap.String("uid", req.UID))
	}

	h.Audit.UserUpdated(ctx, caller.UID, req.UID, changedFields(req))
	return updateUserResponse{Success: true, UID: req.UID}, nil
}

func changedFields(req updateUserRequest) []string {
	var out []string
	if req.Username != "" {
		out = append(out, "username")
	}
	if req.Password != "" {
		out = append(out, "password")
	}
	if req.Name != "" {
		out = append(out, "name")
	}
	return out
}

// accountErr names the uid when the account does not exist.
func accountErr(uid string, err error) error {
	if errors.Is(err, identity.ErrNotFound) {
		return fmt.Errorf("no account exists for uid %s", uid)
	}
	return err
}
