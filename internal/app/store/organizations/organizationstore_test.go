package organizationstore_test

import (
	"errors"
	"testing"

	organizationstore "github.com/dalemusser/daycarehub/internal/app/store/organizations"
	"github.com/dalemusser/daycarehub/internal/domain/models"
	"github.com/dalemusser/daycarehub/internal/testutil"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := organizationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.Organization{ID: "acme-care", Name: "Acme Care", CreatedBy: "root"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.NameCI != "acme care" {
		t.Errorf("NameCI = %q", created.NameCI)
	}
	if created.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}

	got, err := store.GetByID(ctx, "acme-care")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Name != "Acme Care" || got.CreatedBy != "root" {
		t.Errorf("unexpected organization %+v", got)
	}

	ok, err := store.Exists(ctx, "acme-care")
	if err != nil || !ok {
		t.Errorf("Exists = %v, %v", ok, err)
	}
}

func TestStore_Create_Duplicate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := organizationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, models.Organization{ID: "dup", Name: "Dup"}); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	_, err := store.Create(ctx, models.Organization{ID: "dup", Name: "DUP"})
	if !errors.Is(err, organizationstore.ErrDuplicateOrganization) {
		t.Errorf("expected ErrDuplicateOrganization, got %v", err)
	}
}

func TestStore_GetByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := organizationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.GetByID(ctx, "nope"); !errors.Is(err, organizationstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if ok, err := store.Exists(ctx, "nope"); err != nil || ok {
		t.Errorf("Exists = %v, %v", ok, err)
	}
}
