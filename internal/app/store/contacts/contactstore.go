// internal/app/store/contacts/contactstore.go
package contactstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/ekaahub/internal/app/system/paging"
	"github.com/dalemusser/ekaahub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection is the contact-form collection name.
const Collection = "contacts"

var (
	ErrNotFound  = errors.New("contact not found")
	ErrDuplicate = errors.New("duplicate contact submission")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

func (s *Store) Create(ctx context.Context, ct models.Contact) (models.Contact, error) {
	ct.ID = primitive.NewObjectID()
	ct.CreatedAt = time.Now().UTC()
	ct.UpdatedAt = nil
	if ct.Status == "" {
		ct.Status = models.ContactPending
	}
	if _, err := s.c.InsertOne(ctx, ct); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Contact{}, ErrDuplicate
		}
		return models.Contact{}, err
	}
	return ct, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Contact, error) {
	var ct models.Contact
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&ct)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Contact{}, ErrNotFound
	}
	if err != nil {
		return models.Contact{}, err
	}
	return ct, nil
}

// UpdateStatus sets the workflow status and returns the updated contact.
// The caller validates status.
func (s *Store) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) (models.Contact, error) {
	var ct models.Contact
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&ct)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Contact{}, ErrNotFound
	}
	if err != nil {
		return models.Contact{}, err
	}
	return ct, nil
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

// List returns a page of contacts and the total match count.
func (s *Store) List(ctx context.Context, filter bson.M, p paging.Params, sort bson.D) ([]models.Contact, int64, error) {
	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	cur, err := s.c.Find(ctx, filter, paging.FindOptions(p, sort))
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	cts := []models.Contact{}
	if err := cur.All(ctx, &cts); err != nil {
		return nil, 0, err
	}
	return cts, total, nil
}

// Stats summarizes the contact inbox.
type Stats struct {
	Total     int64            `json:"total"`
	Today     int64            `json:"today"`
	ThisMonth int64            `json:"thisMonth"`
	ByStatus  map[string]int64 `json:"byStatus"`
}

// Stats counts contacts overall, since the start of now's day, since the
// start of now's month, and per status. Every known status is present in
// ByStatus even when its count is zero.
func (s *Store) Stats(ctx context.Context, now time.Time) (Stats, error) {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var st Stats
	var err error
	if st.Total, err = s.c.CountDocuments(ctx, bson.M{}); err != nil {
		return Stats{}, err
	}
	if st.Today, err = s.c.CountDocuments(ctx, bson.M{"createdAt": bson.M{"$gte": dayStart}}); err != nil {
		return Stats{}, err
	}
	if st.ThisMonth, err = s.c.CountDocuments(ctx, bson.M{"createdAt": bson.M{"$gte": monthStart}}); err != nil {
		return Stats{}, err
	}

	st.ByStatus = make(map[string]int64, len(models.ContactStatuses))
	for _, status := range models.ContactStatuses {
		st.ByStatus[status] = 0
	}
	cur, err := s.c.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.D{{Key: "_id", Value: "$status"}, {Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}}}}},
	})
	if err != nil {
		return Stats{}, err
	}
	defer cur.Close(ctx)
	var groups []struct {
		Status string `bson:"_id"`
		Count  int64  `bson:"count"`
	}
	if err := cur.All(ctx, &groups); err != nil {
		return Stats{}, err
	}
	for _, g := range groups {
		if _, known := st.ByStatus[g.Status]; known {
			st.ByStatus[g.Status] = g.Count
		}
	}
	return st, nil
}
