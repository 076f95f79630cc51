// internal/app/store/schools/schoolstore.go
package schoolstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/daycarehub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrDuplicateSchool = errors.New("a school with this name already exists")
	ErrNotFound        = errors.New("school not found")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("schools")}
}

// Create inserts a school under its slug id. An existing id yields ErrDuplicateSchool.
func (s *Store) Create(ctx context.Context, sch models.School) (models.School, error) {
	sch.NameCI = text.Fold(sch.Name)
	if sch.Config == nil {
		sch.Config = map[string]any{}
	}
	if sch.CreatedAt.IsZero() {
		sch.CreatedAt = time.Now().UTC()
	}
	if _, err := s.c.InsertOne(ctx, sch); err != nil {
		if wafflemongo.IsDup(err) {
			return models.School{}, ErrDuplicateSchool
		}
		return models.School{}, err
	}
	return sch, nil
}

// GetByID loads a school by id.
func (s *Store) GetByID(ctx context.Context, id string) (*models.School, error) {
	var sch models.School
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&sch); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &sch, nil
}

// Exists reports whether a school with the given id exists.
func (s *Store) Exists(ctx context.Context, id string) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
