package registrationstore_test

import (
	"errors"
	"testing"
	"time"

	registrationstore "github.com/dalemusser/ekaahub/internal/app/store/registrations"
	"github.com/dalemusser/ekaahub/internal/app/system/paging"
	"github.com/dalemusser/ekaahub/internal/app/system/search"
	"github.com/dalemusser/ekaahub/internal/domain/models"
	"github.com/dalemusser/ekaahub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_CreateGetDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := registrationstore.New(db, "decoderegistrations")
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.Registration{FirstName: "Asha", Email: "asha@example.com"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID.IsZero() || created.CreatedAt.IsZero() {
		t.Error("expected ID and CreatedAt to be set")
	}
	if created.Status != registrationstore.StatusPending {
		t.Errorf("status = %q, want pending", created.Status)
	}

	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Email != "asha@example.com" {
		t.Errorf("email = %q", got.Email)
	}

	deleted, err := store.Delete(ctx, created.ID)
	if err != nil || deleted.ID != created.ID {
		t.Fatalf("Delete = %v, %v", deleted.ID, err)
	}
	if _, err := store.GetByID(ctx, created.ID); !errors.Is(err, registrationstore.ErrNotFound) {
		t.Errorf("GetByID after delete: %v", err)
	}
	if _, err := store.Delete(ctx, primitive.NewObjectID()); !errors.Is(err, registrationstore.ErrNotFound) {
		t.Errorf("Delete unknown: %v", err)
	}
}

func TestStore_ListAndExport(t *testing.T) {
	db := testutil.SetupTestDB(t)
	const coll = "tassoregistrations"
	store := registrationstore.New(db, coll)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	base := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	for i, name := range []string{"Anita", "Bharat", "Chitra", "Anand"} {
		fx.CreateRegistration(ctx, coll, models.Registration{
			FirstName: name,
			Email:     name + "@example.com",
			CreatedAt: base.AddDate(0, 0, i),
		})
	}

	filter := search.Contains("an", "firstName", "email")
	items, total, err := store.List(ctx, filter, paging.Params{Page: 1, Limit: 1}, paging.NewestFirst)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 2 {
		t.Errorf("total = %d, want 2", total)
	}
	if len(items) != 1 || items[0].FirstName != "Anand" {
		t.Errorf("first page = %+v", items)
	}

	from := base.AddDate(0, 0, 1)
	to := base.AddDate(0, 0, 2)
	rg := search.Range{From: &from, To: &to}
	rows, err := store.Export(ctx, rg.Filter("createdAt"))
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if len(rows) != 2 || rows[0].FirstName != "Chitra" || rows[1].FirstName != "Bharat" {
		t.Errorf("Export = %+v", rows)
	}

	none, err := store.Export(ctx, bson.M{"firstName": "Nobody"})
	if err != nil || len(none) != 0 {
		t.Errorf("Export(none) = %v, %v", none, err)
	}
}

func TestStore_FindByEmailPhone(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := registrationstore.New(db, "registrationforms")
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, found, err := store.FindByEmailPhone(ctx, "x@example.com", "555"); err != nil || found {
		t.Fatalf("empty collection: found=%v err=%v", found, err)
	}
	reg, err := store.Create(ctx, models.Registration{Name: "X", Email: "x@example.com", Phone: "555"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	got, found, err := store.FindByEmailPhone(ctx, "x@example.com", "555")
	if err != nil || !found || got.ID != reg.ID {
		t.Errorf("FindByEmailPhone = %v, %v, %v", got.ID, found, err)
	}
}

func TestStore_ListEqualTimestampsKeepInsertionOrder(t *testing.T) {
	db := testutil.SetupTestDB(t)
	const coll = "ichregistrations"
	store := registrationstore.New(db, coll)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	at := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	names := []string{"First", "Second", "Third"}
	for _, name := range names {
		fx.CreateRegistration(ctx, coll, models.Registration{
			FirstName: name,
			Email:     name + "@example.com",
			CreatedAt: at,
		})
	}

	for _, sort := range []bson.D{paging.NewestFirst, {{Key: "createdAt", Value: 1}}} {
		items, _, err := store.List(ctx, bson.M{}, paging.Params{Page: 1, Limit: 10}, sort)
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(items) != len(names) {
			t.Fatalf("got %d items, want %d", len(items), len(names))
		}
		for i, want := range names {
			if items[i].FirstName != want {
				t.Errorf("sort %v: items[%d] = %q, want %q", sort, i, items[i].FirstName, want)
			}
		}
	}
}
