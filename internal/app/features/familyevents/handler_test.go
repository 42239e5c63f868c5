package familyevents_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/ekaahub/internal/app/features/familyevents"
	"github.com/dalemusser/ekaahub/internal/domain/models"
	"github.com/dalemusser/ekaahub/internal/testutil"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newRouter(t *testing.T) (chi.Router, *familyevents.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	h := familyevents.NewHandler(db, true, zap.NewNop())
	r := chi.NewRouter()
	r.Mount("/api/familyEvent", familyevents.Routes(h, nil))
	return r, h, testutil.NewFixtures(t, db)
}

func do(r chi.Router, req *http.Request) *testutil.ResponseRecorder {
	rec := testutil.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func validBody() map[string]any {
	return map[string]any{
		"startDate":      "2030-06-01T10:00:00Z",
		"endDate":        "2030-06-02T17:00:00Z",
		"location":       "Houston",
		"capacity":       "12 Seats",
		"organisedby":    "Jane Doe",
		"organiserEmail": "Jane@Example.com",
		"price":          "$375.00",
		"paymentLink":    "https://pay.example.com/fc",
		"event":          "Something Else",
	}
}

func TestHandleCreate(t *testing.T) {
	r, _, _ := newRouter(t)

	rec := do(r, testutil.NewJSONRequest(http.MethodPost, "/api/familyEvent", validBody()))
	rec.AssertStatus(t, http.StatusCreated)

	data := rec.JSON(t)["data"].(map[string]any)
	assert.Equal(t, models.FamilyConstellation, data["event"])
	assert.Equal(t, "jane@example.com", data["organiserEmail"])
	assert.Equal(t, models.StatusOpen, data["status"])
}

func TestHandleCreate_Rejections(t *testing.T) {
	r, _, _ := newRouter(t)

	tests := []struct {
		name   string
		mutate func(b map[string]any)
		want   int
		msg    string
	}{
		{"bad start", func(b map[string]any) { b["startDate"] = "tomorrow" }, http.StatusBadRequest, "Invalid start date format"},
		{"bad end", func(b map[string]any) { b["endDate"] = "later" }, http.StatusBadRequest, "Invalid end date format"},
		{"end equals start", func(b map[string]any) { b["endDate"] = b["startDate"] }, http.StatusBadRequest, "End date must be after start date"},
		{"capacity format", func(b map[string]any) { b["capacity"] = "twelve" }, http.StatusUnprocessableEntity, "valid capacity format"},
		{"price format", func(b map[string]any) { b["price"] = "375" }, http.StatusUnprocessableEntity, "valid price format"},
		{"legacy date format", func(b map[string]any) { b["date"] = "2030-06-01" }, http.StatusUnprocessableEntity, "MMM DD, YYYY"},
		{"missing start", func(b map[string]any) { delete(b, "startDate") }, http.StatusUnprocessableEntity, "Start date is required"},
		{"bad status", func(b map[string]any) { b["status"] = "pending" }, http.StatusUnprocessableEntity, "Status must be Open or Closed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := validBody()
			tt.mutate(b)
			rec := do(r, testutil.NewJSONRequest(http.MethodPost, "/api/familyEvent", b))
			rec.AssertStatus(t, tt.want)
			rec.AssertContains(t, tt.msg)
		})
	}

	rec := do(r, testutil.NewJSONRequest(http.MethodPost, "/api/familyEvent", "{nope"))
	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestServeList_SortedWithLegacyDate(t *testing.T) {
	r, _, fx := newRouter(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	later := time.Date(2030, 9, 5, 10, 0, 0, 0, time.UTC)
	sooner := time.Date(2030, 7, 4, 10, 0, 0, 0, time.UTC)
	fx.CreateFamilyEvent(ctx, later, later.Add(48*time.Hour), models.StatusOpen)
	fx.CreateFamilyEvent(ctx, sooner, sooner.Add(48*time.Hour), models.StatusClosed)

	rec := do(r, testutil.NewRequest(http.MethodGet, "/api/familyEvent"))
	rec.AssertStatus(t, http.StatusOK)

	list := rec.JSON(t)["data"].([]any)
	require.Len(t, list, 2)
	assert.Equal(t, "Jul 4, 2030", list[0].(map[string]any)["date"])
	assert.Equal(t, "Sep 5, 2030", list[1].(map[string]any)["date"])

	rec = do(r, testutil.NewRequest(http.MethodGet, "/api/familyEvent?search=closed"))
	rec.AssertStatus(t, http.StatusOK)
	assert.Len(t, rec.JSON(t)["data"].([]any), 1)
}

func TestServeGet(t *testing.T) {
	r, _, fx := newRouter(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	start := time.Date(2030, 7, 4, 10, 0, 0, 0, time.UTC)
	ev := fx.CreateFamilyEvent(ctx, start, start.Add(time.Hour), models.StatusOpen)

	rec := do(r, testutil.NewRequest(http.MethodGet, "/api/familyEvent/"+ev.ID.Hex()))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "Jul 4, 2030")

	do(r, testutil.NewRequest(http.MethodGet, "/api/familyEvent/nope")).AssertStatus(t, http.StatusBadRequest)
	do(r, testutil.NewRequest(http.MethodGet, "/api/familyEvent/"+primitive.NewObjectID().Hex())).AssertStatus(t, http.StatusNotFound)
}

func TestHandleUpdate_DateRules(t *testing.T) {
	r, h, fx := newRouter(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	start := time.Date(2030, 7, 4, 10, 0, 0, 0, time.UTC)
	end := start.Add(48 * time.Hour)
	ev := fx.CreateFamilyEvent(ctx, start, end, models.StatusOpen)
	path := "/api/familyEvent/" + ev.ID.Hex()

	tests := []struct {
		name string
		body map[string]any
		want int
	}{
		{"both equal allowed", map[string]any{"startDate": "2030-08-01T10:00:00Z", "endDate": "2030-08-01T10:00:00Z"}, http.StatusOK},
		{"both reversed", map[string]any{"startDate": "2030-08-02T10:00:00Z", "endDate": "2030-08-01T10:00:00Z"}, http.StatusBadRequest},
		{"start at existing end", map[string]any{"startDate": "2030-08-01T10:00:00Z"}, http.StatusBadRequest},
		{"start before existing end", map[string]any{"startDate": "2030-07-30T10:00:00Z"}, http.StatusOK},
		{"end before existing start", map[string]any{"endDate": "2030-07-29T10:00:00Z"}, http.StatusBadRequest},
		{"end after existing start", map[string]any{"endDate": "2030-08-03T10:00:00Z"}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(r, testutil.NewJSONRequest(http.MethodPut, path, tt.body))
			rec.AssertStatus(t, tt.want)
		})
	}

	got, err := h.Store.GetByID(ctx, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2030, 7, 30, 10, 0, 0, 0, time.UTC), got.StartDate.UTC())
	assert.Equal(t, time.Date(2030, 8, 3, 10, 0, 0, 0, time.UTC), got.EndDate.UTC())
	assert.Equal(t, "Austin", got.Location)
}

func TestHandleUpdate_MergesFields(t *testing.T) {
	r, h, fx := newRouter(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	start := time.Date(2030, 7, 4, 10, 0, 0, 0, time.UTC)
	ev := fx.CreateFamilyEvent(ctx, start, start.Add(time.Hour), models.StatusOpen)
	path := "/api/familyEvent/" + ev.ID.Hex()

	rec := do(r, testutil.NewJSONRequest(http.MethodPut, path, map[string]any{"status": "closed", "location": "Dallas"}))
	rec.AssertStatus(t, http.StatusOK)

	got, err := h.Store.GetByID(ctx, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusClosed, got.Status)
	assert.Equal(t, "Dallas", got.Location)
	assert.Equal(t, "20 Seats", got.Capacity)
	assert.NotNil(t, got.UpdatedAt)

	rec = do(r, testutil.NewJSONRequest(http.MethodPut, path, map[string]any{"capacity": "many"}))
	rec.AssertStatus(t, http.StatusUnprocessableEntity)

	rec = do(r, testutil.NewJSONRequest(http.MethodPut, "/api/familyEvent/"+primitive.NewObjectID().Hex(), map[string]any{"location": "Dallas"}))
	rec.AssertStatus(t, http.StatusNotFound)
}

func TestHandleDelete(t *testing.T) {
	r, h, fx := newRouter(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	start := time.Date(2030, 7, 4, 10, 0, 0, 0, time.UTC)
	ev := fx.CreateFamilyEvent(ctx, start, start.Add(time.Hour), models.StatusOpen)

	rec := do(r, testutil.NewRequest(http.MethodDelete, "/api/familyEvent/"+ev.ID.Hex()))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "Event removed")

	_, err := h.Store.GetByID(ctx, ev.ID)
	assert.Error(t, err)

	rec = do(r, testutil.NewRequest(http.MethodDelete, "/api/familyEvent/"+ev.ID.Hex()))
	rec.AssertStatus(t, http.StatusNotFound)
}
