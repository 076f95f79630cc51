package invitations

import (
	"context"
	"errors"
	"strings"
	"testing"

	invitationstore "github.com/dalemusser/daycarehub/internal/app/store/invitations"
	"github.com/dalemusser/daycarehub/internal/app/system/auth"
	"github.com/dalemusser/daycarehub/internal/app/system/callable"
	"github.com/dalemusser/daycarehub/internal/app/system/identity"
	"github.com/dalemusser/daycarehub/internal/app/system/tokens"
	"github.com/dalemusser/daycarehub/internal/app/system/txn"
	"github.com/dalemusser/daycarehub/internal/domain/models"
	"github.com/dalemusser/daycarehub/internal/testutil"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func newTestHandler() (*Handler, *testutil.MemStore) {
	mem := testutil.NewMemStore()
	accounts := identity.New(mem.Accounts()).WithCost(bcrypt.MinCost)
	h := NewHandler(mem.Members(), mem.Schools(), mem.Invitations(), accounts, mem.Users(),
		txn.NewRunner(nil, zap.NewNop()), zap.NewNop())
	return h, mem
}

func asCaller(uid string) context.Context {
	return auth.WithCaller(context.Background(), auth.Caller{UID: uid})
}

// seedSchool creates school s1 with uid "admin-1" as its admin.
func seedSchool(mem *testutil.MemStore) {
	mem.SeedSchool(models.School{ID: "s1", Name: "Sunny Days"})
	mem.SeedMember(models.SchoolMember{SchoolID: "s1", UID: "admin-1", Role: models.RoleAdmin})
}

/*─────────────────────────────────────────────────────────────────────────────*
| createInvitation                                                            |
*─────────────────────────────────────────────────────────────────────────────*/

func TestCreateInvitation_Success(t *testing.T) {
	h, mem := newTestHandler()
	seedSchool(mem)

	resp, err := h.CreateInvitation(asCaller("admin-1"), createInvitationRequest{
		Email: "  New.Teacher@Example.COM ", Role: "teacher", SchoolID: "s1",
	})
	if err != nil {
		t.Fatalf("CreateInvitation: %v", err)
	}
	if !resp.Success || resp.InvitationID == "" {
		t.Fatalf("unexpected response %+v", resp)
	}
	if len(resp.Token) != tokens.InviteLength {
		t.Errorf("token length = %d, want %d", len(resp.Token), tokens.InviteLength)
	}

	all := mem.AllInvitations()
	if len(all) != 1 {
		t.Fatalf("want 1 invitation, got %d", len(all))
	}
	inv := all[0]
	if inv.ID.Hex() != resp.InvitationID {
		t.Errorf("id = %s, want %s", inv.ID.Hex(), resp.InvitationID)
	}
	if inv.Email != "new.teacher@example.com" {
		t.Errorf("email = %q, want lowercase trimmed", inv.Email)
	}
	if inv.SchoolName != "Sunny Days" || inv.Role != "teacher" || inv.CreatedBy != "admin-1" {
		t.Errorf("unexpected invitation %+v", inv)
	}
	if inv.Status != models.InvitationPending || inv.Token != resp.Token {
		t.Errorf("status/token mismatch: %+v", inv)
	}
}

func TestCreateInvitation_Unauthenticated(t *testing.T) {
	h, mem := newTestHandler()
	seedSchool(mem)

	_, err := h.CreateInvitation(context.Background(), createInvitationRequest{Email: "a@b.com", Role: "teacher", SchoolID: "s1"})
	if !callable.Is(err, callable.Unauthenticated) {
		t.Fatalf("expected Unauthenticated, got %v", err)
	}
}

func TestCreateInvitation_InvalidArgument(t *testing.T) {
	h, mem := newTestHandler()
	seedSchool(mem)

	tests := []struct {
		name string
		req  createInvitationRequest
		msg  string
	}{
		{"missing email", createInvitationRequest{Role: "teacher", SchoolID: "s1"}, "Email, role, and schoolId are required"},
		{"missing role", createInvitationRequest{Email: "a@b.com", SchoolID: "s1"}, "Email, role, and schoolId are required"},
		{"missing school", createInvitationRequest{Email: "a@b.com", Role: "teacher"}, "Email, role, and schoolId are required"},
		{"bad role", createInvitationRequest{Email: "a@b.com", Role: "student", SchoolID: "s1"}, "Invalid role. Must be admin, teacher, or parent"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.CreateInvitation(asCaller("admin-1"), tt.req)
			if !callable.Is(err, callable.InvalidArgument) {
				t.Fatalf("expected InvalidArgument, got %v", err)
			}
			if err.Error() != tt.msg {
				t.Errorf("message = %q, want %q", err.Error(), tt.msg)
			}
		})
	}
	if n := len(mem.AllInvitations()); n != 0 {
		t.Errorf("no invitation should be written, got %d", n)
	}
}

func TestCreateInvitation_PermissionDenied(t *testing.T) {
	h, mem := newTestHandler()
	seedSchool(mem)
	mem.SeedMember(models.SchoolMember{SchoolID: "s1", UID: "teacher-1", Role: models.RoleTeacher})

	for _, uid := range []string{"teacher-1", "stranger"} {
		_, err := h.CreateInvitation(asCaller(uid), createInvitationRequest{Email: "a@b.com", Role: "parent", SchoolID: "s1"})
		if !callable.Is(err, callable.PermissionDenied) {
			t.Errorf("%s: expected PermissionDenied, got %v", uid, err)
		}
	}
	if n := len(mem.AllInvitations()); n != 0 {
		t.Errorf("no invitation should be written, got %d", n)
	}
}

func TestCreateInvitation_SchoolNotFound(t *testing.T) {
	h, mem := newTestHandler()
	// Membership exists but the school document does not.
	mem.SeedMember(models.SchoolMember{SchoolID: "gone", UID: "admin-1", Role: models.RoleAdmin})

	_, err := h.CreateInvitation(asCaller("admin-1"), createInvitationRequest{Email: "a@b.com", Role: "parent", SchoolID: "gone"})
	if !callable.Is(err, callable.NotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
	if err.Error() != "School not found" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestCreateInvitation_PendingExists(t *testing.T) {
	h, mem := newTestHandler()
	seedSchool(mem)

	ctx := asCaller("admin-1")
	if _, err := h.CreateInvitation(ctx, createInvitationRequest{Email: "dup@example.com", Role: "parent", SchoolID: "s1"}); err != nil {
		t.Fatalf("first invitation: %v", err)
	}
	_, err := h.CreateInvitation(ctx, createInvitationRequest{Email: "DUP@example.com", Role: "teacher", SchoolID: "s1"})
	if !callable.Is(err, callable.AlreadyExists) {
		t.Fatalf("expected AlreadyExists, got %v", err)
	}
	if err.Error() != errPendingExists {
		t.Errorf("message = %q", err.Error())
	}
	if n := len(mem.AllInvitations()); n != 1 {
		t.Errorf("want 1 invitation, got %d", n)
	}
}

func TestCreateInvitation_AcceptedDoesNotBlock(t *testing.T) {
	h, mem := newTestHandler()
	seedSchool(mem)
	mem.SeedInvitation(models.Invitation{Email: "back@example.com", SchoolID: "s1", Role: "parent", Token: "old", Status: models.InvitationAccepted})

	if _, err := h.CreateInvitation(asCaller("admin-1"), createInvitationRequest{Email: "back@example.com", Role: "parent", SchoolID: "s1"}); err != nil {
		t.Fatalf("CreateInvitation: %v", err)
	}
}

func TestCreateInvitation_StoreFailure(t *testing.T) {
	h, mem := newTestHandler()
	seedSchool(mem)
	mem.Fail["invitations.Create"] = errors.New("disk full")

	_, err := h.CreateInvitation(asCaller("admin-1"), createInvitationRequest{Email: "a@b.com", Role: "parent", SchoolID: "s1"})
	if !callable.Is(err, callable.Internal) {
		t.Fatalf("expected Internal, got %v", err)
	}
	if !strings.Contains(err.Error(), "Failed to create invitation") || !strings.Contains(err.Error(), "disk full") {
		t.Errorf("message = %q", err.Error())
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| acceptInvitation                                                            |
*─────────────────────────────────────────────────────────────────────────────*/

func seedInvitation(mem *testutil.MemStore, email, role string) models.Invitation {
	seedSchool(mem)
	return mem.SeedInvitation(models.Invitation{
		Email: email, SchoolID: "s1", SchoolName: "Sunny Days", Role: role,
		Token: "tok-123", Status: models.InvitationPending, CreatedBy: "admin-1",
	})
}

func TestAcceptInvitation_NewAccount(t *testing.T) {
	h, mem := newTestHandler()
	inv := seedInvitation(mem, "parent@example.com", "parent")

	resp, err := h.AcceptInvitation(context.Background(), acceptInvitationRequest{
		Token: "tok-123", Password: "secret1", DisplayName: "<b>Pat</b> Parent",
	})
	if err != nil {
		t.Fatalf("AcceptInvitation: %v", err)
	}
	if !resp.Success || resp.SchoolID != "s1" || resp.Role != "parent" || resp.UID == "" {
		t.Fatalf("unexpected response %+v", resp)
	}

	acct, ok := mem.Account(resp.UID)
	if !ok {
		t.Fatal("account not created")
	}
	if !identity.CheckPassword(acct, "secret1") {
		t.Error("password not set on new account")
	}

	u, ok := mem.User(resp.UID)
	if !ok {
		t.Fatal("profile not created")
	}
	if u.Role != models.RoleUser || u.Username != "parent" || u.Email != "parent@example.com" {
		t.Errorf("unexpected profile %+v", u)
	}
	if u.DisplayName == nil || *u.DisplayName != "Pat Parent" {
		t.Errorf("display name = %v, want sanitized %q", u.DisplayName, "Pat Parent")
	}
	if len(u.SchoolIDs) != 1 || u.SchoolIDs[0] != "s1" {
		t.Errorf("school ids = %v", u.SchoolIDs)
	}

	m, ok := mem.Member("s1", resp.UID)
	if !ok || m.Role != "parent" {
		t.Errorf("membership = %+v, %v", m, ok)
	}

	got, _ := mem.Invitation(inv.ID)
	if got.Status != models.InvitationAccepted || got.AcceptedAt == nil {
		t.Errorf("invitation not accepted: %+v", got)
	}
}

func TestAcceptInvitation_ExistingAccount(t *testing.T) {
	h, mem := newTestHandler()
	inv := seedInvitation(mem, "teach@example.com", "teacher")

	provider := identity.New(mem.Accounts()).WithCost(bcrypt.MinCost)
	existing, err := provider.Create(context.Background(), identity.NewAccount{Email: "teach@example.com", Password: "original"})
	if err != nil {
		t.Fatalf("seed account: %v", err)
	}
	mem.SeedUser(models.User{ID: existing.ID, Role: models.RoleTeacher, SchoolIDs: []string{"s0"}})

	resp, err := h.AcceptInvitation(context.Background(), acceptInvitationRequest{Token: "tok-123", Password: "different"})
	if err != nil {
		t.Fatalf("AcceptInvitation: %v", err)
	}
	if resp.UID != existing.ID {
		t.Fatalf("uid = %q, want existing %q", resp.UID, existing.ID)
	}
	if mem.AccountCount() != 1 {
		t.Errorf("no new account should be created, have %d", mem.AccountCount())
	}

	acct, _ := mem.Account(existing.ID)
	if !identity.CheckPassword(acct, "original") {
		t.Error("existing password must be left unchanged")
	}

	u, _ := mem.User(existing.ID)
	if u.Role != models.RoleTeacher {
		t.Errorf("existing profile role overwritten: %q", u.Role)
	}
	if len(u.SchoolIDs) != 2 || u.SchoolIDs[0] != "s0" || u.SchoolIDs[1] != "s1" {
		t.Errorf("school ids = %v, want [s0 s1]", u.SchoolIDs)
	}
	if m, ok := mem.Member("s1", existing.ID); !ok || m.Role != "teacher" {
		t.Errorf("membership = %+v, %v", m, ok)
	}
	if got, _ := mem.Invitation(inv.ID); got.Status != models.InvitationAccepted {
		t.Errorf("invitation status = %q", got.Status)
	}
}

func TestAcceptInvitation_InvalidArgument(t *testing.T) {
	h, mem := newTestHandler()
	seedInvitation(mem, "a@example.com", "parent")

	for _, req := range []acceptInvitationRequest{{Password: "secret1"}, {Token: "tok-123"}} {
		_, err := h.AcceptInvitation(context.Background(), req)
		if !callable.Is(err, callable.InvalidArgument) {
			t.Fatalf("expected InvalidArgument, got %v", err)
		}
		if err.Error() != "Token and password are required" {
			t.Errorf("message = %q", err.Error())
		}
	}
}

func TestAcceptInvitation_UnknownToken(t *testing.T) {
	h, mem := newTestHandler()
	seedInvitation(mem, "a@example.com", "parent")

	_, err := h.AcceptInvitation(context.Background(), acceptInvitationRequest{Token: "nope", Password: "secret1"})
	if !callable.Is(err, callable.NotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
	if err.Error() != errInvalidInvitation {
		t.Errorf("message = %q", err.Error())
	}
	if mem.AccountCount() != 0 {
		t.Error("no account should be created")
	}
}

func TestAcceptInvitation_SingleUse(t *testing.T) {
	h, mem := newTestHandler()
	seedInvitation(mem, "once@example.com", "parent")

	req := acceptInvitationRequest{Token: "tok-123", Password: "secret1"}
	if _, err := h.AcceptInvitation(context.Background(), req); err != nil {
		t.Fatalf("first accept: %v", err)
	}
	_, err := h.AcceptInvitation(context.Background(), req)
	if !callable.Is(err, callable.NotFound) {
		t.Fatalf("second accept: expected NotFound, got %v", err)
	}
}

func TestAcceptInvitation_LostRace(t *testing.T) {
	h, mem := newTestHandler()
	seedInvitation(mem, "race@example.com", "parent")
	mem.Fail["invitations.MarkAccepted"] = invitationstore.ErrNotPending

	_, err := h.AcceptInvitation(context.Background(), acceptInvitationRequest{Token: "tok-123", Password: "secret1"})
	if !callable.Is(err, callable.NotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestAcceptInvitation_WeakPasswordForNewAccount(t *testing.T) {
	h, mem := newTestHandler()
	seedInvitation(mem, "weak@example.com", "parent")

	_, err := h.AcceptInvitation(context.Background(), acceptInvitationRequest{Token: "tok-123", Password: "123"})
	if !callable.Is(err, callable.Internal) {
		t.Fatalf("expected Internal, got %v", err)
	}
	if !strings.HasPrefix(err.Error(), "Failed to accept invitation: ") {
		t.Errorf("message = %q", err.Error())
	}
}
