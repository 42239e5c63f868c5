// internal/app/store/admins/adminstore.go
package adminstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/ekaahub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection is the admin collection name.
const Collection = "admins"

var (
	ErrNotFound       = errors.New("admin not found")
	ErrDuplicateEmail = errors.New("an admin with this email already exists")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

func normEmail(e string) string { return strings.ToLower(strings.TrimSpace(e)) }

// Create inserts a. PasswordHash must already be a bcrypt hash.
func (s *Store) Create(ctx context.Context, a models.Admin) (models.Admin, error) {
	a.ID = primitive.NewObjectID()
	a.Email = normEmail(a.Email)
	a.CreatedAt = time.Now().UTC()
	a.UpdatedAt = nil
	if a.Role == "" {
		a.Role = models.RoleAdmin
	}
	if _, err := s.c.InsertOne(ctx, a); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Admin{}, ErrDuplicateEmail
		}
		return models.Admin{}, err
	}
	return a, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Admin, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *Store) GetByEmail(ctx context.Context, email string) (models.Admin, error) {
	return s.findOne(ctx, bson.M{"email": normEmail(email)})
}

func (s *Store) findOne(ctx context.Context, filter bson.M) (models.Admin, error) {
	var a models.Admin
	err := s.c.FindOne(ctx, filter).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Admin{}, ErrNotFound
	}
	if err != nil {
		return models.Admin{}, err
	}
	return a, nil
}

// TouchLastLogin records a successful login.
func (s *Store) TouchLastLogin(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{"lastLogin": at.UTC()}})
	return err
}

// UpdateDetails changes name and email. Empty values are left unchanged.
func (s *Store) UpdateDetails(ctx context.Context, id primitive.ObjectID, name, email string) (models.Admin, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if name = strings.TrimSpace(name); name != "" {
		set["name"] = name
	}
	if email = normEmail(email); email != "" {
		set["email"] = email
	}
	var a models.Admin
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Admin{}, ErrNotFound
	}
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.Admin{}, ErrDuplicateEmail
		}
		return models.Admin{}, err
	}
	return a, nil
}

// UpdatePassword stores a new bcrypt hash.
func (s *Store) UpdatePassword(ctx context.Context, id primitive.ObjectID, hash string) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{"password": hash, "updatedAt": time.Now().UTC()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// EnsureSuperAdmin creates an active superadmin for email, or promotes and
// reactivates the existing account. The password hash is only set on
// creation. created reports which happened.
func (s *Store) EnsureSuperAdmin(ctx context.Context, name, email, hash string) (a models.Admin, created bool, err error) {
	existing, err := s.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, ErrNotFound):
		a, err = s.Create(ctx, models.Admin{
			Name:         name,
			Email:        email,
			PasswordHash: hash,
			Role:         models.RoleSuperAdmin,
			IsActive:     true,
		})
		return a, err == nil, err
	case err != nil:
		return models.Admin{}, false, err
	}

	if existing.Role == models.RoleSuperAdmin && existing.IsActive {
		return existing, false, nil
	}
	now := time.Now().UTC()
	_, err = s.c.UpdateByID(ctx, existing.ID, bson.M{"$set": bson.M{
		"role":      models.RoleSuperAdmin,
		"isActive":  true,
		"updatedAt": now,
	}})
	if err != nil {
		return models.Admin{}, false, err
	}
	existing.Role = models.RoleSuperAdmin
	existing.IsActive = true
	existing.UpdatedAt = &now
	return existing, false, nil
}

// List returns every admin ordered by email.
func (s *Store) List(ctx context.Context) ([]models.Admin, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "email", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []models.Admin{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
