package managedeventstore_test

import (
	"errors"
	"testing"
	"time"

	managedeventstore "github.com/dalemusser/ekaahub/internal/app/store/managedevents"
	"github.com/dalemusser/ekaahub/internal/app/system/paging"
	"github.com/dalemusser/ekaahub/internal/domain/models"
	"github.com/dalemusser/ekaahub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
)

func TestStore_SoftDeleteHidesEvent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := managedeventstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	start := time.Now().Add(48 * time.Hour)
	ev, err := store.Create(ctx, models.ManagedEvent{
		Event:     "TASSO",
		Level:     "Module 1",
		StartDate: start,
		EndDate:   start.Add(3 * time.Hour),
		Location:  "Houston",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if ev.Status != models.StatusOpen {
		t.Errorf("default status = %q, want Open", ev.Status)
	}

	if err := store.SoftDelete(ctx, ev.ID); err != nil {
		t.Fatalf("SoftDelete failed: %v", err)
	}

	if _, err := store.GetByID(ctx, ev.ID); !errors.Is(err, managedeventstore.ErrNotFound) {
		t.Errorf("GetByID after delete: err = %v, want ErrNotFound", err)
	}
	items, total, err := store.List(ctx, bson.M{}, paging.Params{Page: 1, Limit: 10}, paging.NewestFirst)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 0 || len(items) != 0 {
		t.Errorf("List after delete: total=%d items=%d, want 0", total, len(items))
	}
	if err := store.SoftDelete(ctx, ev.ID); !errors.Is(err, managedeventstore.ErrNotFound) {
		t.Errorf("second SoftDelete: err = %v, want ErrNotFound", err)
	}

	// The document itself is still present.
	n, err := db.Collection(managedeventstore.Collection).CountDocuments(ctx, bson.M{"_id": ev.ID, "isDeleted": true})
	if err != nil || n != 1 {
		t.Errorf("raw count = %d (%v), want 1", n, err)
	}
}

func TestStore_Upcoming(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := managedeventstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	today := time.Now().Truncate(24 * time.Hour)
	later := fx.CreateManagedEvent(ctx, models.FamilyConstellation, "", today.Add(72*time.Hour))
	sooner := fx.CreateManagedEvent(ctx, "Decode", "Decode Your Mind", today.Add(24*time.Hour))
	fx.CreateManagedEvent(ctx, "Decode", "Decode Your Mind", today.Add(-48*time.Hour))

	all, err := store.Upcoming(ctx, today, "")
	if err != nil {
		t.Fatalf("Upcoming failed: %v", err)
	}
	if len(all) != 2 || all[0].ID != sooner.ID || all[1].ID != later.ID {
		t.Fatalf("Upcoming = %+v, want [sooner, later]", all)
	}

	fc, err := store.Upcoming(ctx, today, models.FamilyConstellation)
	if err != nil {
		t.Fatalf("Upcoming(fc) failed: %v", err)
	}
	if len(fc) != 1 || fc[0].ID != later.ID {
		t.Errorf("Upcoming(fc) = %+v", fc)
	}
}

func TestStore_Update(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := managedeventstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ev := fx.CreateManagedEvent(ctx, "TASSO", "Module 2", time.Now().Add(time.Hour))
	ev.Location = "Dallas"
	ev.Status = models.StatusClosed

	got, err := store.Update(ctx, ev)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if got.Location != "Dallas" || got.Status != models.StatusClosed || got.UpdatedAt == nil {
		t.Errorf("Update result = %+v", got)
	}
}
