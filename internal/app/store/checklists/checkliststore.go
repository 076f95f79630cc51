// internal/app/store/checklists/checkliststore.go
package checkliststore

import (
	"context"
	"time"

	"github.com/dalemusser/daycarehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("checklist_records")}
}

// ListUnsubmittedIDs returns the ids of records for month that are not yet submitted.
func (s *Store) ListUnsubmittedIDs(ctx context.Context, month string) ([]any, error) {
	filter := bson.M{"month": month, "is_submitted": false}
	cur, err := s.c.Find(ctx, filter, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var ids []any
	for cur.Next(ctx) {
		var rec models.ChecklistRecord
		if err := cur.Decode(&rec); err != nil {
			return nil, err
		}
		ids = append(ids, rec.ID)
	}
	return ids, cur.Err()
}

// Submit marks the given records submitted. Records already submitted by a
// concurrent writer are left untouched and not counted.
func (s *Store) Submit(ctx context.Context, ids []any, at time.Time, by string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := s.c.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": ids}, "is_submitted": false},
		bson.M{"$set": bson.M{
			"is_submitted": true,
			"submitted_at": at,
			"submitted_by": by,
		}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
