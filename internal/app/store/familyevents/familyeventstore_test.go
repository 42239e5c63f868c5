package familyeventstore_test

import (
	"errors"
	"testing"
	"time"

	familyeventstore "github.com/dalemusser/ekaahub/internal/app/store/familyevents"
	"github.com/dalemusser/ekaahub/internal/domain/models"
	"github.com/dalemusser/ekaahub/internal/testutil"
)

func TestStore_CreateForcesEventName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := familyeventstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	start := time.Now().Add(24 * time.Hour)
	ev, err := store.Create(ctx, models.FamilyEvent{Event: "Something else", StartDate: start, EndDate: start.Add(time.Hour)})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if ev.Event != models.FamilyConstellation {
		t.Errorf("event = %q", ev.Event)
	}
	if err := store.Delete(ctx, ev.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.GetByID(ctx, ev.ID); !errors.Is(err, familyeventstore.ErrNotFound) {
		t.Errorf("GetByID after delete: %v", err)
	}
}

func TestStore_ListOpenEndingAfter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := familyeventstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	today := time.Date(2025, 8, 10, 0, 0, 0, 0, time.UTC)
	running := fx.CreateFamilyEvent(ctx, today.AddDate(0, 0, -1), today.AddDate(0, 0, 1), models.StatusOpen)
	upcoming := fx.CreateFamilyEvent(ctx, today.AddDate(0, 0, 5), today.AddDate(0, 0, 6), models.StatusOpen)
	fx.CreateFamilyEvent(ctx, today.AddDate(0, 0, -5), today.AddDate(0, 0, -4), models.StatusOpen)
	fx.CreateFamilyEvent(ctx, today.AddDate(0, 0, 2), today.AddDate(0, 0, 3), models.StatusClosed)

	evs, err := store.ListOpenEndingAfter(ctx, today)
	if err != nil {
		t.Fatalf("ListOpenEndingAfter failed: %v", err)
	}
	if len(evs) != 2 || evs[0].ID != running.ID || evs[1].ID != upcoming.ID {
		t.Errorf("got %d events, want [running, upcoming]", len(evs))
	}
}
