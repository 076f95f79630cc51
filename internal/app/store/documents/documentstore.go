// internal/app/store/documents/documentstore.go
package documentstore

import (
	"context"
	"errors"

	"github.com/dalemusser/daycarehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var ErrNotFound = errors.New("document not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("documents")}
}

// GetByID loads a document. Client-written documents may carry either a string
// or an ObjectID _id, so a hex id is tried both ways.
func (s *Store) GetByID(ctx context.Context, id string) (*models.Document, error) {
	ids := []any{id}
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		ids = append(ids, oid)
	}

	var raw struct {
		Title string `bson:"title"`
	}
	err := s.c.FindOne(ctx, bson.M{"_id": bson.M{"$in": ids}}).Decode(&raw)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &models.Document{ID: id, Title: raw.Title}, nil
}
