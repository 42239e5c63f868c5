// internal/app/store/registrations/registrationstore.go
package registrationstore

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

// StatusPending is assigned to new registrations without a status.
const StatusPending = "pending"

var (
	ErrNotFound  = errors.New("registration not found")
	ErrDuplicate = errors.New("registration already exists")
)

// Store is one program's registration collection. Every program shares
// this implementation; only the collection name differs.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database, collection string) *Store {
	return &Store{c: db.Collection(collection)}
}

// Collection returns the collection name.
func (s *Store) Collection() string { return s.c.Name() }

func (s *Store) Create(ctx context.Context, reg models.Registration) (models.Registration, error) {
	reg.ID = primitive.NewObjectID()
	reg.CreatedAt = time.Now().UTC()
	reg.UpdatedAt = nil
	if reg.Status == "" {
		reg.Status = StatusPending
	}
	if _, err := s.c.InsertOne(ctx, reg); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Registration{}, ErrDuplicate
		}
		return models.Registration{}, err
	}
	return reg, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Registration, error) {
	var reg models.Registration
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&reg)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Registration{}, ErrNotFound
	}
	if err != nil {
		return models.Registration{}, err
	}
	return reg, nil
}

// FindByEmailPhone returns an existing registration with the same email and
// phone, used by programs that reject repeat submissions.
func (s *Store) FindByEmailPhone(ctx context.Context, email, phone string) (models.Registration, bool, error) {
	var reg models.Registration
	err := s.c.FindOne(ctx, bson.M{"email": email, "phone": phone}).Decode(&reg)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Registration{}, false, nil
	}
	if err != nil {
		return models.Registration{}, false, err
	}
	return reg, true, nil
}

// Delete removes a registration and returns it so the caller can clean up
// its uploaded images.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (models.Registration, error) {
	var reg models.Registration
	err := s.c.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&reg)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Registration{}, ErrNotFound
	}
	if err != nil {
		return models.Registration{}, err
	}
	return reg, nil
}

// List returns one page of registrations matching filter and the total
// match count.
func (s *Store) List(ctx context.Context, filter bson.M, p paging.Params, sort bson.D) ([]models.Registration, int64, error) {
	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	regs, err := s.find(ctx, filter, paging.FindOptions(p, sort))
	if err != nil {
		return nil, 0, err
	}
	return regs, total, nil
}

// Export returns every registration matching filter, newest first.
func (s *Store) Export(ctx context.Context, filter bson.M) ([]models.Registration, error) {
	return s.find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}}))
}

func (s *Store) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Registration, error) {
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	regs := []models.Registration{}
	if err := cur.All(ctx, &regs); err != nil {
		return nil, err
	}
	return regs, nil
}
