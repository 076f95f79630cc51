package invitationstore_test

import (
	"errors"
	"testing"
	"time"

	invitationstore "github.com/dalemusser/daycarehub/internal/app/store/invitations"
	"github.com/dalemusser/daycarehub/internal/app/system/indexes"
	"github.com/dalemusser/daycarehub/internal/domain/models"
	"github.com/dalemusser/daycarehub/internal/testutil"
	"go.uber.org/zap"
)

func TestStore_Lifecycle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := invitationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	inv, err := store.Create(ctx, models.Invitation{Email: "a@example.com", SchoolID: "s1", Role: "parent", Token: "tok"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if inv.ID.IsZero() || inv.Status != models.InvitationPending {
		t.Fatalf("unexpected invitation %+v", inv)
	}

	pending, err := store.HasPending(ctx, "a@example.com", "s1")
	if err != nil || !pending {
		t.Errorf("HasPending = %v, %v", pending, err)
	}

	found, err := store.FindPendingByToken(ctx, "tok")
	if err != nil {
		t.Fatalf("FindPendingByToken failed: %v", err)
	}
	if found.ID != inv.ID {
		t.Errorf("found %s, want %s", found.ID.Hex(), inv.ID.Hex())
	}

	if err := store.MarkAccepted(ctx, inv.ID, time.Now().UTC()); err != nil {
		t.Fatalf("MarkAccepted failed: %v", err)
	}
	if err := store.MarkAccepted(ctx, inv.ID, time.Now().UTC()); !errors.Is(err, invitationstore.ErrNotPending) {
		t.Errorf("second MarkAccepted: expected ErrNotPending, got %v", err)
	}
	if _, err := store.FindPendingByToken(ctx, "tok"); !errors.Is(err, invitationstore.ErrNotFound) {
		t.Errorf("accepted token: expected ErrNotFound, got %v", err)
	}
	if pending, _ := store.HasPending(ctx, "a@example.com", "s1"); pending {
		t.Error("accepted invitation still reported as pending")
	}
}

func TestStore_Create_DuplicatePending(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	store := invitationstore.New(db)

	if _, err := store.Create(ctx, models.Invitation{Email: "b@example.com", SchoolID: "s1", Token: "t1"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	_, err := store.Create(ctx, models.Invitation{Email: "b@example.com", SchoolID: "s1", Token: "t2"})
	if !errors.Is(err, invitationstore.ErrDuplicatePending) {
		t.Errorf("expected ErrDuplicatePending, got %v", err)
	}

	// A different school is a different pair.
	if _, err := store.Create(ctx, models.Invitation{Email: "b@example.com", SchoolID: "s2", Token: "t3"}); err != nil {
		t.Errorf("other school: %v", err)
	}
}
