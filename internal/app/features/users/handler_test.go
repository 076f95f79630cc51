package users

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/daycarehub/internal/app/store/audit"
	"github.com/dalemusser/daycarehub/internal/app/system/auditlog"
	"github.com/dalemusser/daycarehub/internal/app/system/auth"
	"github.com/dalemusser/daycarehub/internal/app/system/callable"
	"github.com/dalemusser/daycarehub/internal/app/system/identity"
	"github.com/dalemusser/daycarehub/internal/domain/models"
	"github.com/dalemusser/daycarehub/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func newTestHandler() (*Handler, *testutil.MemStore) {
	mem := testutil.NewMemStore()
	accounts := identity.New(mem.Accounts()).WithCost(bcrypt.MinCost)
	return NewHandler(accounts, mem.Users(), "", zap.NewNop()), mem
}

func asCaller(c auth.Caller) context.Context {
	return auth.WithCaller(context.Background(), c)
}

func seedAdmin(mem *testutil.MemStore) auth.Caller {
	mem.SeedUser(models.User{ID: "admin-1", Role: models.RoleAdmin})
	return auth.Caller{UID: "admin-1"}
}

func TestCreateUser_Unauthenticated(t *testing.T) {
	h, mem := newTestHandler()
	_, err := h.CreateUser(context.Background(), createUserRequest{Username: "a", Password: "123456", Role: "teacher"})
	if !callable.Is(err, callable.Unauthenticated) {
		t.Fatalf("expected Unauthenticated, got %v", err)
	}
	if mem.AccountCount() != 0 {
		t.Error("no account should be created")
	}
}

func TestCreateUser_PermissionDenied(t *testing.T) {
	h, mem := newTestHandler()
	mem.SeedUser(models.User{ID: "teacher-1", Role: models.RoleTeacher})

	for _, c := range []auth.Caller{{UID: "teacher-1"}, {UID: "no-profile"}} {
		_, err := h.CreateUser(asCaller(c), createUserRequest{Username: "a", Password: "123456", Role: "teacher"})
		if !callable.Is(err, callable.PermissionDenied) {
			t.Errorf("caller %q: expected PermissionDenied, got %v", c.UID, err)
		}
	}
	if mem.AccountCount() != 0 {
		t.Error("no account should be created")
	}
}

func TestCreateUser_InvalidArgument(t *testing.T) {
	h, mem := newTestHandler()
	ctx := asCaller(seedAdmin(mem))

	tests := []struct {
		name string
		req  createUserRequest
		msg  string
	}{
		{"missing username", createUserRequest{Password: "123456", Role: "teacher"}, "Username, password, and role are required"},
		{"missing password", createUserRequest{Username: "a", Role: "teacher"}, "Username, password, and role are required"},
		{"missing role", createUserRequest{Username: "a", Password: "123456"}, "Username, password, and role are required"},
		{"bad role", createUserRequest{Username: "a", Password: "123456", Role: "parent"}, "Invalid role. Must be teacher, student, or admin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.CreateUser(ctx, tt.req)
			if !callable.Is(err, callable.InvalidArgument) {
				t.Fatalf("expected InvalidArgument, got %v", err)
			}
			if err.Error() != tt.msg {
				t.Errorf("expected %q, got %q", tt.msg, err.Error())
			}
		})
	}
	if mem.AccountCount() != 0 {
		t.Error("no account should be created")
	}
}

func TestCreateUser_Success(t *testing.T) {
	h, mem := newTestHandler()
	ctx := asCaller(seedAdmin(mem))

	resp, err := h.CreateUser(ctx, createUserRequest{
		Username:       "Alice",
		Password:       "secret1",
		Name:           "Alice <b>Smith</b>",
		Role:           "teacher",
		OrganizationID: "acme",
	})
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if !resp.Success || resp.UID == "" || resp.Username != "Alice" {
		t.Errorf("unexpected response %+v", resp)
	}

	acct, ok := mem.Account(resp.UID)
	if !ok {
		t.Fatal("expected account")
	}
	if acct.Email != "alice@daycare.local" {
		t.Errorf("expected login email alice@daycare.local, got %q", acct.Email)
	}
	if !identity.CheckPassword(acct, "secret1") {
		t.Error("expected password to verify")
	}

	u, ok := mem.User(resp.UID)
	if !ok {
		t.Fatal("expected profile")
	}
	if u.Username != "Alice" || u.Role != "teacher" || u.OrganizationID != "acme" {
		t.Errorf("unexpected profile %+v", u)
	}
	if u.Name != "Alice Smith" {
		t.Errorf("expected sanitized name, got %q", u.Name)
	}
	if u.CreatedAt.IsZero() {
		t.Error("expected CreatedAt")
	}
}

func TestCreateUser_SuperAdminWithoutProfile(t *testing.T) {
	h, _ := newTestHandler()
	ctx := asCaller(auth.Caller{UID: "root", SuperAdmin: true})
	if _, err := h.CreateUser(ctx, createUserRequest{Username: "bob", Password: "123456", Role: "student"}); err != nil {
		t.Fatalf("expected super admin to pass, got %v", err)
	}
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	h, mem := newTestHandler()
	ctx := asCaller(seedAdmin(mem))
	req := createUserRequest{Username: "carol", Password: "123456", Role: "student"}

	if _, err := h.CreateUser(ctx, req); err != nil {
		t.Fatalf("first CreateUser failed: %v", err)
	}
	req.Username = "CAROL"
	_, err := h.CreateUser(ctx, req)
	if !callable.Is(err, callable.Internal) {
		t.Fatalf("expected Internal, got %v", err)
	}
	if !strings.HasPrefix(err.Error(), "Failed to create user: ") {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestCreateUser_ProfileFailureKeepsAccount(t *testing.T) {
	h, mem := newTestHandler()
	ctx := asCaller(seedAdmin(mem))
	mem.Fail["users.Put"] = errors.New("disk full")

	_, err := h.CreateUser(ctx, createUserRequest{Username: "dan", Password: "123456", Role: "student"})
	if !callable.Is(err, callable.Internal) {
		t.Fatalf("expected Internal, got %v", err)
	}
	if err.Error() != "Failed to create user: disk full" {
		t.Errorf("unexpected message %q", err.Error())
	}
	if _, ok := mem.AccountByEmail("dan@daycare.local"); !ok {
		t.Error("account should remain after profile failure")
	}
}

func TestUpdateUser_Checks(t *testing.T) {
	h, mem := newTestHandler()
	mem.SeedUser(models.User{ID: "teacher-1", Role: models.RoleTeacher})

	if _, err := h.UpdateUser(context.Background(), updateUserRequest{UID: "x"}); !callable.Is(err, callable.Unauthenticated) {
		t.Errorf("expected Unauthenticated, got %v", err)
	}
	_, err := h.UpdateUser(asCaller(auth.Caller{UID: "teacher-1"}), updateUserRequest{UID: "x"})
	if !callable.Is(err, callable.PermissionDenied) || err.Error() != "Only admins can update users" {
		t.Errorf("expected PermissionDenied, got %v", err)
	}
	_, err = h.UpdateUser(asCaller(seedAdmin(mem)), updateUserRequest{})
	if !callable.Is(err, callable.InvalidArgument) || err.Error() != "User UID is required" {
		t.Errorf("expected InvalidArgument, got %v", err)
	}
}

func TestUpdateUser_UsernameAndPassword(t *testing.T) {
	h, mem := newTestHandler()
	ctx := asCaller(seedAdmin(mem))
	created, err := h.CreateUser(ctx, createUserRequest{Username: "erin", Password: "123456", Role: "teacher"})
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	resp, err := h.UpdateUser(ctx, updateUserRequest{UID: created.UID, Username: "Erin2", Password: "abcdef", Name: "Erin Two"})
	if err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}
	if !resp.Success || resp.UID != created.UID {
		t.Errorf("unexpected response %+v", resp)
	}

	acct, _ := mem.Account(created.UID)
	if acct.Email != "erin2@daycare.local" {
		t.Errorf("expected email to follow username, got %q", acct.Email)
	}
	if !identity.CheckPassword(acct, "abcdef") {
		t.Error("expected new password")
	}
	u, _ := mem.User(created.UID)
	if u.Username != "Erin2" || u.Name != "Erin Two" {
		t.Errorf("unexpected profile %+v", u)
	}
}

func TestUpdateUser_NameOnlySkipsAccount(t *testing.T) {
	h, mem := newTestHandler()
	ctx := asCaller(seedAdmin(mem))
	mem.SeedUser(models.User{ID: "u1", Role: models.RoleStudent, Name: "Old"})

	if _, err := h.UpdateUser(ctx, updateUserRequest{UID: "u1", Name: "New"}); err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}
	if mem.Calls["accounts.Update"] != 0 {
		t.Error("account should not be touched for a name-only change")
	}
	u, _ := mem.User("u1")
	if u.Name != "New" {
		t.Errorf("expected name New, got %q", u.Name)
	}
}

func TestUpdateUser_PasswordOnlySkipsProfile(t *testing.T) {
	h, mem := newTestHandler()
	ctx := asCaller(seedAdmin(mem))
	created, _ := h.CreateUser(ctx, createUserRequest{Username: "finn", Password: "123456", Role: "student"})

	if _, err := h.UpdateUser(ctx, updateUserRequest{UID: created.UID, Password: "zyxwvu"}); err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}
	if mem.Calls["users.Update"] != 0 {
		t.Error("profile should not be touched for a password-only change")
	}
}

func TestUpdateUser_MissingProfileIsInternal(t *testing.T) {
	h, mem := newTestHandler()
	ctx := asCaller(seedAdmin(mem))

	_, err := h.UpdateUser(ctx, updateUserRequest{UID: "ghost", Name: "Nobody"})
	if !callable.Is(err, callable.Internal) {
		t.Fatalf("expected Internal, got %v", err)
	}
	if !strings.HasPrefix(err.Error(), "Failed to update user: ") {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestMount_CallableProtocol(t *testing.T) {
	h, mem := newTestHandler()
	seedAdmin(mem)
	r := chi.NewRouter()
	Mount(r, h)

	body, _ := json.Marshal(map[string]any{"data": map[string]any{
		"username": "gail", "password": "123456", "role": "admin",
	}})
	req := httptest.NewRequest(http.MethodPost, "/adminCreateUser", bytes.NewReader(body))
	req = req.WithContext(auth.WithCaller(req.Context(), auth.Caller{UID: "admin-1"}))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var out struct {
		Result createUserResponse `json:"result"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !out.Result.Success || out.Result.Username != "gail" {
		t.Errorf("unexpected result %+v", out.Result)
	}

	req = httptest.NewRequest(http.MethodPost, "/adminUpdateUser", strings.NewReader(`{"data":{}}`))
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"UNAUTHENTICATED"`) {
		t.Errorf("unexpected body %s", rec.Body.String())
	}
}

type auditSink struct{ events []audit.Event }

func (s *auditSink) Log(_ context.Context, e audit.Event) error {
	s.events = append(s.events, e)
	return nil
}

func TestCreateUser_RecordsAuditEvent(t *testing.T) {
	h, mem := newTestHandler()
	sink := &auditSink{}
	h.Audit = auditlog.New(sink, zap.NewNop(), auditlog.Config{Admin: "db"})
	caller := seedAdmin(mem)

	resp, err := h.CreateUser(asCaller(caller), createUserRequest{Username: "jane", Password: "123456", Role: "teacher"})
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	if len(sink.events) != 1 {
		t.Fatalf("expected 1 audit event, got %d", len(sink.events))
	}
	ev := sink.events[0]
	if ev.EventType != audit.EventUserCreated || ev.ActorID != "admin-1" || ev.TargetID != resp.UID {
		t.Errorf("unexpected audit event: %+v", ev)
	}
	if ev.Details["role"] != "teacher" {
		t.Errorf("role detail = %q", ev.Details["role"])
	}
}
