package bootstrap

import (
	"context"
	"errors"
	"testing"

	"github.com/dalemusser/daycarehub/internal/app/system/identity"
	"github.com/dalemusser/daycarehub/internal/domain/models"
	"github.com/dalemusser/daycarehub/internal/testutil"
	"go.uber.org/zap"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func TestEnsureSuperAdmin_GrantsClaim(t *testing.T) {
	mem := testutil.NewMemStore()
	mem.SeedAccount(models.Account{ID: "uid-1", Email: "owner@test.com"})

	err := ensureSuperAdmin(context.Background(), identity.New(mem.Accounts()), nil, "Owner@Test.com", testLogger())
	if err != nil {
		t.Fatalf("ensureSuperAdmin failed: %v", err)
	}

	a, _ := mem.Account("uid-1")
	if !a.SuperAdmin {
		t.Error("expected super_admin claim to be set")
	}
}

func TestEnsureSuperAdmin_AlreadySuperAdmin(t *testing.T) {
	mem := testutil.NewMemStore()
	mem.SeedAccount(models.Account{ID: "uid-1", Email: "owner@test.com", SuperAdmin: true})

	err := ensureSuperAdmin(context.Background(), identity.New(mem.Accounts()), nil, "owner@test.com", testLogger())
	if err != nil {
		t.Fatalf("ensureSuperAdmin failed: %v", err)
	}
	if n := mem.Calls["accounts.Update"]; n != 0 {
		t.Errorf("expected no update for an existing super admin, got %d", n)
	}
}

func TestEnsureSuperAdmin_UnknownEmailIsSkipped(t *testing.T) {
	mem := testutil.NewMemStore()

	err := ensureSuperAdmin(context.Background(), identity.New(mem.Accounts()), nil, "nobody@test.com", testLogger())
	if err != nil {
		t.Fatalf("expected unknown email to be skipped, got %v", err)
	}
	if mem.AccountCount() != 0 {
		t.Error("expected no account to be created")
	}
}

func TestEnsureSuperAdmin_LookupFailure(t *testing.T) {
	mem := testutil.NewMemStore()
	boom := errors.New("boom")
	mem.Fail["accounts.GetByEmail"] = boom

	err := ensureSuperAdmin(context.Background(), identity.New(mem.Accounts()), nil, "owner@test.com", testLogger())
	if !errors.Is(err, boom) {
		t.Fatalf("expected lookup error, got %v", err)
	}
}
