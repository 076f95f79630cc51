// internal/app/store/dailystatus/dailystatusstore.go
package dailystatusstore

import (
	"context"

	"github.com/dalemusser/daycarehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("daily_status")}
}

// ListBefore returns records whose date is non-empty and sorts before cutoff.
// Dates are YYYY-MM-DD strings, so lexical order is chronological order.
func (s *Store) ListBefore(ctx context.Context, cutoff string) ([]models.DailyStatus, error) {
	filter := bson.M{"date": bson.M{"$gt": "", "$lt": cutoff}}
	opts := options.Find().SetProjection(bson.M{"_id": 1, "date": 1, "photos": 1})

	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.DailyStatus
	for cur.Next(ctx) {
		var ds models.DailyStatus
		if err := cur.Decode(&ds); err != nil {
			return nil, err
		}
		out = append(out, ds)
	}
	return out, cur.Err()
}

// Delete removes one record. Deleting a record that is already gone is not an error.
func (s *Store) Delete(ctx context.Context, id any) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
