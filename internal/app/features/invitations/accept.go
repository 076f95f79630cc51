// internal/app/features/invitations/accept.go
package invitations

import (
	"context"
	"errors"
	"fmt"

	invitationstore "github.com/dalemusser/daycarehub/internal/app/store/invitations"
	"github.com/dalemusser/daycarehub/internal/app/system/callable"
	"github.com/dalemusser/daycarehub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/daycarehub/internal/app/system/identity"
	"github.com/dalemusser/daycarehub/internal/app/system/inputval"
	"github.com/dalemusser/daycarehub/internal/app/system/normalize"
	"github.com/dalemusser/daycarehub/internal/domain/models"
	"go.uber.org/zap"
)

const errInvalidInvitation = "Invalid or expired invitation"

// AcceptInvitation handles acceptInvitation. No caller identity is needed:
// possession of the token is the credential. An existing account with the
// invited email is reused and its password is left alone.
func (h *Handler) AcceptInvitation(ctx context.Context, req acceptInvitationRequest) (acceptInvitationResponse, error) {
	if err := inputval.Struct(req); err != nil {
		return acceptInvitationResponse{}, callable.Invalid(err,
			"Token and password are required",
			"Token and password are required")
	}

	inv, err := h.Invitations.FindPendingByToken(ctx, req.Token)
	if errors.Is(err, invitationstore.ErrNotFound) {
		return acceptInvitationResponse{}, callable.Errorf(callable.NotFound, errInvalidInvitation)
	}
	if err != nil {
		return acceptInvitationResponse{}, callable.Wrap("accept invitation", err)
	}

	var displayName *string
	if req.DisplayName != "" {
		displayName = htmlsanitize.PlainTextPtr(&req.DisplayName)
	}

	acct, created, err := h.resolveAccount(ctx, inv.Email, req.Password, displayName)
	if err != nil {
		return acceptInvitationResponse{}, callable.Wrap("accept invitation", err)
	}

	now := h.Now().UTC()
	err = h.Tx.Run(ctx, func(ctx context.Context) error {
		if created {
			if err := h.Profiles.Put(ctx, models.User{
				ID:          acct.ID,
				Email:       inv.Email,
				Username:    normalize.LocalPart(inv.Email),
				DisplayName: displayName,
				Role:        models.RoleUser,
				SchoolIDs:   []string{inv.SchoolID},
				CreatedAt:   now,
			}); err != nil {
				return fmt.Errorf("write profile: %w", err)
			}
		}
		if err := h.Members.Put(ctx, models.SchoolMember{
			UID:         acct.ID,
			SchoolID:    inv.SchoolID,
			Role:        inv.Role,
			DisplayName: displayName,
			InvitedAt:   now,
		}); err != nil {
			return fmt.Errorf("write membership: %w", err)
		}
		if err := h.Profiles.AddSchool(ctx, acct.ID, inv.SchoolID); err != nil {
			return fmt.Errorf("add school to profile: %w", err)
		}
		return h.Invitations.MarkAccepted(ctx, inv.ID, now)
	})
	if errors.Is(err, invitationstore.ErrNotPending) {
		// Another request accepted the same token first.
		return acceptInvitationResponse{}, callable.Errorf(callable.NotFound, errInvalidInvitation)
	}
	if err != nil {
		return acceptInvitationResponse{}, callable.Wrap("accept invitation", err)
	}

	h.Log.Info("invitation accepted",
		zap.String("uid", acct.ID),
		zap.String("school_id", inv.SchoolID),
		zap.String("role", inv.Role),
		zap.Bool("new_account", created))
	h.Audit.InvitationAccepted(ctx, acct.ID, inv.ID.Hex(), inv.SchoolID, inv.Role, created)

	return acceptInvitationResponse{Success: true, UID: acct.ID, SchoolID: inv.SchoolID, Role: inv.Role}, nil
}

// resolveAccount finds the account for email, creating it when none exists.
// It reports whether the account was created by this call.
func (h *Handler) resolveAccount(ctx context.Context, email, password string, displayName *string) (models.Account, bool, error) {
	acct, res, err := h.Accounts.LookupByEmail(ctx, email)
	if err != nil {
		return models.Account{}, false, err
	}
	if res == identity.Found {
		return acct, false, nil
	}

	acct, err = h.Accounts.Create(ctx, identity.NewAccount{
		Email:       email,
		Password:    password,
		DisplayName: displayName,
	})
	if errors.Is(err, identity.ErrEmailExists) {
		// Created concurrently; use that account.
		acct, res, err = h.Accounts.LookupByEmail(ctx, email)
		if err == nil && res != identity.Found {
			err = identity.ErrEmailExists
		}
		return acct, false, err
	}
	if err != nil {
		return models.Account{}, false, err
	}
	return acct, true, nil
}
