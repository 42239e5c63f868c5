package adminstore_test

import (
	"errors"
	"testing"

	adminstore "github.com/dalemusser/ekaahub/internal/app/store/admins"
	"github.com/dalemusser/ekaahub/internal/app/system/indexes"
	"github.com/dalemusser/ekaahub/internal/domain/models"
	"github.com/dalemusser/ekaahub/internal/testutil"
)

func TestStore_CreateAndLookup(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := adminstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	a, err := store.Create(ctx, models.Admin{Name: "Ops", Email: " Ops@Example.com ", PasswordHash: "x", IsActive: true})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if a.Email != "ops@example.com" || a.Role != models.RoleAdmin {
		t.Errorf("created = %+v", a)
	}

	got, err := store.GetByEmail(ctx, "OPS@example.com")
	if err != nil || got.ID != a.ID {
		t.Fatalf("GetByEmail = %v, %v", got.ID, err)
	}

	if _, err := store.Create(ctx, models.Admin{Email: "ops@example.com"}); !errors.Is(err, adminstore.ErrDuplicateEmail) {
		t.Errorf("duplicate Create: %v", err)
	}
	if _, err := store.GetByEmail(ctx, "nobody@example.com"); !errors.Is(err, adminstore.ErrNotFound) {
		t.Errorf("GetByEmail unknown: %v", err)
	}
}

func TestStore_EnsureSuperAdmin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := adminstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a, created, err := store.EnsureSuperAdmin(ctx, "Root", "root@example.com", "hash")
	if err != nil || !created {
		t.Fatalf("first EnsureSuperAdmin: created=%v err=%v", created, err)
	}
	if a.Role != models.RoleSuperAdmin || !a.IsActive {
		t.Errorf("created admin = %+v", a)
	}

	_, created, err = store.EnsureSuperAdmin(ctx, "Root", "root@example.com", "other")
	if err != nil || created {
		t.Fatalf("second EnsureSuperAdmin: created=%v err=%v", created, err)
	}

	// An existing plain admin is promoted and reactivated.
	plain, err := store.Create(ctx, models.Admin{Email: "plain@example.com", PasswordHash: "h"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	promoted, created, err := store.EnsureSuperAdmin(ctx, "", "plain@example.com", "ignored")
	if err != nil || created {
		t.Fatalf("promote: created=%v err=%v", created, err)
	}
	if promoted.ID != plain.ID || promoted.Role != models.RoleSuperAdmin || !promoted.IsActive {
		t.Errorf("promoted = %+v", promoted)
	}
	stored, _ := store.GetByID(ctx, plain.ID)
	if stored.PasswordHash != "h" {
		t.Error("promotion must not change the password")
	}
}
