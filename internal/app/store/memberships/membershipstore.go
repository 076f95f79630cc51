// internal/app/store/memberships/membershipstore.go
package membershipstore

import (
	"context"
	"errors"

	"github.com/dalemusser/daycarehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when the user is not a member of the school.
var ErrNotFound = errors.New("membership not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("school_members")}
}

// Get loads the membership of uid in schoolID.
func (s *Store) Get(ctx context.Context, schoolID, uid string) (*models.SchoolMember, error) {
	var m models.SchoolMember
	err := s.c.FindOne(ctx, bson.M{"_id": models.SchoolMemberID(schoolID, uid)}).Decode(&m)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// Put writes the membership, overwriting any existing record for the same
// (school, user) pair.
func (s *Store) Put(ctx context.Context, m models.SchoolMember) error {
	m.ID = models.SchoolMemberID(m.SchoolID, m.UID)
	_, err := s.c.ReplaceOne(ctx, bson.M{"_id": m.ID}, m, options.Replace().SetUpsert(true))
	return err
}

// ListBySchool returns every membership of a school, optionally filtered by role.
func (s *Store) ListBySchool(ctx context.Context, schoolID, role string) ([]models.SchoolMember, error) {
	filter := bson.M{"school_id": schoolID}
	if role != "" {
		filter["role"] = role
	}
	cur, err := s.c.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var members []models.SchoolMember
	if err := cur.All(ctx, &members); err != nil {
		return nil, err
	}
	return members, nil
}
