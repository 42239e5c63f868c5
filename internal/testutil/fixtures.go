package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/ekaahub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
		r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	}
	rctx.URLParams.Add(key, value)
	return r
}

// Fixtures inserts documents directly, bypassing stores, so tests can set
// fields the stores would normally assign.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

func (f *Fixtures) insert(ctx context.Context, coll string, doc any) {
	f.t.Helper()
	if _, err := f.db.Collection(coll).InsertOne(ctx, doc); err != nil {
		f.t.Fatalf("insert into %s: %v", coll, err)
	}
}

// CreateAdmin inserts an active admin with the given password.
func (f *Fixtures) CreateAdmin(ctx context.Context, email, password, role string) models.Admin {
	f.t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		f.t.Fatalf("hash password: %v", err)
	}
	a := models.Admin{
		ID:           primitive.NewObjectID(),
		Name:         "Test Admin",
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}
	f.insert(ctx, "admins", a)
	return a
}

// CreateManagedEvent inserts an Open managed event spanning start..start+2h.
func (f *Fixtures) CreateManagedEvent(ctx context.Context, event, level string, start time.Time) models.ManagedEvent {
	f.t.Helper()
	ev := models.ManagedEvent{
		ID:          primitive.NewObjectID(),
		Event:       event,
		Level:       level,
		StartDate:   start.UTC(),
		EndDate:     start.Add(2 * time.Hour).UTC(),
		Location:    "Houston",
		ConductedBy: "Dr. Test",
		Status:      models.StatusOpen,
		CreatedAt:   time.Now().UTC(),
	}
	f.insert(ctx, "managedevents", ev)
	return ev
}

// CreateFamilyEvent inserts a family event with the given window and status.
func (f *Fixtures) CreateFamilyEvent(ctx context.Context, start, end time.Time, status string) models.FamilyEvent {
	f.t.Helper()
	ev := models.FamilyEvent{
		ID:             primitive.NewObjectID(),
		Event:          models.FamilyConstellation,
		StartDate:      start.UTC(),
		EndDate:        end.UTC(),
		Location:       "Austin",
		Capacity:       "20 Seats",
		OrganisedBy:    "Organiser",
		OrganiserEmail: "organiser@example.com",
		Price:          "$150",
		PaymentLink:    "https://pay.example.com/fc",
		Status:         status,
		CreatedAt:      time.Now().UTC(),
	}
	f.insert(ctx, "familyevents", ev)
	return ev
}

// CreateContact inserts a contact with the given status and creation time.
func (f *Fixtures) CreateContact(ctx context.Context, email, status string, createdAt time.Time) models.Contact {
	f.t.Helper()
	ct := models.Contact{
		ID:          primitive.NewObjectID(),
		FirstName:   "Test",
		LastName:    "Person",
		Email:       email,
		PhoneNumber: "5551234567",
		Message:     "Hello",
		Status:      status,
		CreatedAt:   createdAt.UTC(),
	}
	f.insert(ctx, "contacts", ct)
	return ct
}

// CreateRegistration inserts a registration into coll.
func (f *Fixtures) CreateRegistration(ctx context.Context, coll string, reg models.Registration) models.Registration {
	f.t.Helper()
	if reg.ID.IsZero() {
		reg.ID = primitive.NewObjectID()
	}
	if reg.CreatedAt.IsZero() {
		reg.CreatedAt = time.Now().UTC()
	}
	f.insert(ctx, coll, reg)
	return reg
}

// CreateProgram inserts a program into coll with one embedded event per
// window in events.
func (f *Fixtures) CreateProgram(ctx context.Context, coll, title, status string, events ...[2]time.Time) models.Program {
	f.t.Helper()
	p := models.Program{
		ID:               primitive.NewObjectID(),
		Title:            title,
		Subtitle:         "A test subtitle",
		Duration:         "3 days",
		CardPoints:       []string{},
		LearningSections: []models.LearningSection{},
		UpcomingEvents:   []models.ProgramEvent{},
		Status:           status,
		CreatedAt:        time.Now().UTC(),
	}
	for i, win := range events {
		p.UpcomingEvents = append(p.UpcomingEvents, models.ProgramEvent{
			ID:          primitive.NewObjectID(),
			StartDate:   win[0].UTC(),
			EndDate:     win[1].UTC(),
			EventName:   title + " session " + string(rune('A'+i)),
			Location:    "Chicago",
			Organiser:   "Dr. Rao",
			PaymentLink: "https://pay.example.com/p",
			Status:      models.StatusOpen,
		})
	}
	f.insert(ctx, coll, p)
	return p
}
