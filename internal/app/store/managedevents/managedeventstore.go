// internal/app/store/managedevents/managedeventstore.go
package managedeventstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/ekaahub/internal/app/system/paging"
	"github.com/dalemusser/ekaahub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection is the managed-event collection name.
const Collection = "managedevents"

var ErrNotFound = errors.New("managed event not found")

// Store never removes documents; Delete only sets isDeleted, and every read
// skips deleted events.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

// live restricts filter to events that are not soft-deleted.
func live(filter bson.M) bson.M {
	out := bson.M{"isDeleted": bson.M{"$ne": true}}
	for k, v := range filter {
		out[k] = v
	}
	return out
}

func (s *Store) Create(ctx context.Context, ev models.ManagedEvent) (models.ManagedEvent, error) {
	ev.ID = primitive.NewObjectID()
	ev.IsDeleted = false
	ev.CreatedAt = time.Now().UTC()
	ev.UpdatedAt = nil
	if ev.Status == "" {
		ev.Status = models.StatusOpen
	}
	if _, err := s.c.InsertOne(ctx, ev); err != nil {
		return models.ManagedEvent{}, err
	}
	return ev, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.ManagedEvent, error) {
	var ev models.ManagedEvent
	err := s.c.FindOne(ctx, live(bson.M{"_id": id})).Decode(&ev)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.ManagedEvent{}, ErrNotFound
	}
	if err != nil {
		return models.ManagedEvent{}, err
	}
	return ev, nil
}

// GetOpen returns the event only when it is Open and not deleted.
func (s *Store) GetOpen(ctx context.Context, id primitive.ObjectID) (models.ManagedEvent, error) {
	var ev models.ManagedEvent
	err := s.c.FindOne(ctx, live(bson.M{"_id": id, "status": models.StatusOpen})).Decode(&ev)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.ManagedEvent{}, ErrNotFound
	}
	if err != nil {
		return models.ManagedEvent{}, err
	}
	return ev, nil
}

// Update overwrites the mutable fields of ev.ID and returns the stored
// result. Deleted events are not found.
func (s *Store) Update(ctx context.Context, ev models.ManagedEvent) (models.ManagedEvent, error) {
	set := bson.M{
		"event":             ev.Event,
		"level":             ev.Level,
		"startDate":         ev.StartDate,
		"endDate":           ev.EndDate,
		"location":          ev.Location,
		"conductedBy":       ev.ConductedBy,
		"totalParticipants": ev.TotalParticipants,
		"programFees":       ev.ProgramFees,
		"status":            ev.Status,
		"updatedAt":         time.Now().UTC(),
	}
	var out models.ManagedEvent
	err := s.c.FindOneAndUpdate(ctx, live(bson.M{"_id": ev.ID}), bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.ManagedEvent{}, ErrNotFound
	}
	if err != nil {
		return models.ManagedEvent{}, err
	}
	return out, nil
}

// SoftDelete marks the event deleted.
func (s *Store) SoftDelete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx, live(bson.M{"_id": id}),
		bson.M{"$set": bson.M{"isDeleted": true, "updatedAt": time.Now().UTC()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns a page of live events and the total match count.
func (s *Store) List(ctx context.Context, filter bson.M, p paging.Params, sort bson.D) ([]models.ManagedEvent, int64, error) {
	filter = live(filter)
	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	evs, err := s.find(ctx, filter, paging.FindOptions(p, sort))
	if err != nil {
		return nil, 0, err
	}
	return evs, total, nil
}

// Upcoming returns Open live events starting at or after from, soonest
// first. An empty event matches every event type.
func (s *Store) Upcoming(ctx context.Context, from time.Time, event string) ([]models.ManagedEvent, error) {
	filter := bson.M{"status": models.StatusOpen, "startDate": bson.M{"$gte": from}}
	if event != "" {
		filter["event"] = event
	}
	return s.find(ctx, live(filter),
		options.Find().SetSort(bson.D{{Key: "startDate", Value: 1}, {Key: "_id", Value: 1}}))
}

func (s *Store) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.ManagedEvent, error) {
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	evs := []models.ManagedEvent{}
	if err := cur.All(ctx, &evs); err != nil {
		return nil, err
	}
	return evs, nil
}
