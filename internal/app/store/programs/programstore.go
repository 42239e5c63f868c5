// internal/app/store/programs/programstore.go
package programstore

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

var (
	ErrNotFound  = errors.New("program not found")
	ErrDuplicate = errors.New("a program with this title already exists")
)

// Store is one program catalog (hypnotherapy, decode, tasso).
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database, collection string) *Store {
	return &Store{c: db.Collection(collection)}
}

// assignIDs gives embedded sections and events an id when they lack one.
func assignIDs(p *models.Program) {
	for i := range p.LearningSections {
		if p.LearningSections[i].ID.IsZero() {
			p.LearningSections[i].ID = primitive.NewObjectID()
		}
	}
	for i := range p.UpcomingEvents {
		if p.UpcomingEvents[i].ID.IsZero() {
			p.UpcomingEvents[i].ID = primitive.NewObjectID()
		}
	}
}

func (s *Store) Create(ctx context.Context, p models.Program) (models.Program, error) {
	p.ID = primitive.NewObjectID()
	p.CreatedAt = time.Now().UTC()
	p.UpdatedAt = nil
	if p.Status == "" {
		p.Status = models.StatusOpen
	}
	assignIDs(&p)
	if _, err := s.c.InsertOne(ctx, p); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Program{}, ErrDuplicate
		}
		return models.Program{}, err
	}
	return p, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Program, error) {
	var p models.Program
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Program{}, ErrNotFound
	}
	if err != nil {
		return models.Program{}, err
	}
	return p, nil
}

// Update overwrites the mutable fields of the program p.ID and returns the
// stored result.
func (s *Store) Update(ctx context.Context, p models.Program) (models.Program, error) {
	now := time.Now().UTC()
	assignIDs(&p)
	set := bson.M{
		"title":            p.Title,
		"subtitle":         p.Subtitle,
		"duration":         p.Duration,
		"videoUrl":         p.VideoURL,
		"thumbnail":        p.Thumbnail,
		"cardPoints":       p.CardPoints,
		"learningSections": p.LearningSections,
		"upcomingEvents":   p.UpcomingEvents,
		"status":           p.Status,
		"updatedAt":        now,
	}
	var out models.Program
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": p.ID}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Program{}, ErrNotFound
	}
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.Program{}, ErrDuplicate
		}
		return models.Program{}, err
	}
	return out, nil
}

// Delete removes a program and returns it so the thumbnail can be cleaned up.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (models.Program, error) {
	var p models.Program
	err := s.c.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Program{}, ErrNotFound
	}
	if err != nil {
		return models.Program{}, err
	}
	return p, nil
}

// List returns a page of programs and the total match count.
func (s *Store) List(ctx context.Context, filter bson.M, p paging.Params, sort bson.D) ([]models.Program, int64, error) {
	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	progs, err := s.Find(ctx, filter, paging.FindOptions(p, sort))
	if err != nil {
		return nil, 0, err
	}
	return progs, total, nil
}

// ListOpen returns every Open program, newest first.
func (s *Store) ListOpen(ctx context.Context) ([]models.Program, error) {
	return s.Find(ctx, bson.M{"status": models.StatusOpen},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}}))
}

// GetOpen returns the program only when it is Open.
func (s *Store) GetOpen(ctx context.Context, id primitive.ObjectID) (models.Program, error) {
	var p models.Program
	err := s.c.FindOne(ctx, bson.M{"_id": id, "status": models.StatusOpen}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Program{}, ErrNotFound
	}
	if err != nil {
		return models.Program{}, err
	}
	return p, nil
}

// Find returns programs matching filter. The caller builds sort and paging
// options.
func (s *Store) Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Program, error) {
	cur, err := s.c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	progs := []models.Program{}
	if err := cur.All(ctx, &progs); err != nil {
		return nil, err
	}
	return progs, nil
}
