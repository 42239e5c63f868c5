// internal/app/store/familyevents/familyeventstore.go
package familyeventstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/ekaahub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection is the family-event collection name.
const Collection = "familyevents"

var ErrNotFound = errors.New("family event not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

// ByStartAsc orders events soonest first.
var ByStartAsc = bson.D{{Key: "startDate", Value: 1}, {Key: "_id", Value: 1}}

// Create stores ev. The event name is always Family Constellation.
func (s *Store) Create(ctx context.Context, ev models.FamilyEvent) (models.FamilyEvent, error) {
	ev.ID = primitive.NewObjectID()
	ev.Event = models.FamilyConstellation
	ev.CreatedAt = time.Now().UTC()
	ev.UpdatedAt = nil
	if ev.Status == "" {
		ev.Status = models.StatusOpen
	}
	if _, err := s.c.InsertOne(ctx, ev); err != nil {
		return models.FamilyEvent{}, err
	}
	return ev, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.FamilyEvent, error) {
	var ev models.FamilyEvent
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&ev)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.FamilyEvent{}, ErrNotFound
	}
	if err != nil {
		return models.FamilyEvent{}, err
	}
	return ev, nil
}

// Update overwrites the mutable fields of ev.ID with ev and returns the
// stored result.
func (s *Store) Update(ctx context.Context, ev models.FamilyEvent) (models.FamilyEvent, error) {
	set := bson.M{
		"event":          models.FamilyConstellation,
		"date":           ev.Date,
		"startDate":      ev.StartDate,
		"endDate":        ev.EndDate,
		"location":       ev.Location,
		"capacity":       ev.Capacity,
		"organisedby":    ev.OrganisedBy,
		"organiserEmail": ev.OrganiserEmail,
		"price":          ev.Price,
		"paymentLink":    ev.PaymentLink,
		"status":         ev.Status,
		"facilitator":    ev.Facilitator,
		"externalLink":   ev.ExternalLink,
		"updatedAt":      time.Now().UTC(),
	}
	var out models.FamilyEvent
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": ev.ID}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.FamilyEvent{}, ErrNotFound
	}
	if err != nil {
		return models.FamilyEvent{}, err
	}
	return out, nil
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns every event matching filter, soonest first.
func (s *Store) List(ctx context.Context, filter bson.M) ([]models.FamilyEvent, error) {
	return s.find(ctx, filter, options.Find().SetSort(ByStartAsc))
}

// ListOpenEndingAfter returns Open events whose end is at or after from.
func (s *Store) ListOpenEndingAfter(ctx context.Context, from time.Time) ([]models.FamilyEvent, error) {
	return s.List(ctx, bson.M{"status": models.StatusOpen, "endDate": bson.M{"$gte": from}})
}

// GetOpen returns the event only when it is Open.
func (s *Store) GetOpen(ctx context.Context, id primitive.ObjectID) (models.FamilyEvent, error) {
	var ev models.FamilyEvent
	err := s.c.FindOne(ctx, bson.M{"_id": id, "status": models.StatusOpen}).Decode(&ev)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.FamilyEvent{}, ErrNotFound
	}
	if err != nil {
		return models.FamilyEvent{}, err
	}
	return ev, nil
}

func (s *Store) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.FamilyEvent, error) {
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	evs := []models.FamilyEvent{}
	if err := cur.All(ctx, &evs); err != nil {
		return nil, err
	}
	return evs, nil
}
