package userstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/daycarehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when no profile exists for a uid.
var ErrNotFound = errors.New("user not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// GetByID loads a profile by uid.
func (s *Store) GetByID(ctx context.Context, uid string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": uid}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Put writes the whole profile, replacing any existing document with the same uid.
func (s *Store) Put(ctx context.Context, u models.User) error {
	u.UID = u.ID
	_, err := s.c.ReplaceOne(ctx, bson.M{"_id": u.ID}, u, options.Replace().SetUpsert(true))
	return err
}

// Update holds the profile fields an admin may change. Nil fields are left alone.
type Update struct {
	Username *string
	Name     *string
}

// Empty reports whether the update changes nothing.
func (u Update) Empty() bool {
	return u.Username == nil && u.Name == nil
}

// Update applies upd to an existing profile. Returns ErrNotFound when the
// profile does not exist; it never creates one.
func (s *Store) Update(ctx context.Context, uid string, upd Update) error {
	if upd.Empty() {
		return nil
	}
	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.Username != nil {
		set["username"] = *upd.Username
	}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": uid}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// AddSchool adds schoolID to the profile's school set. Adding a school that is
// already present is a no-op.
func (s *Store) AddSchool(ctx context.Context, uid, schoolID string) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": uid}, bson.M{
		"$addToSet": bson.M{"school_ids": schoolID},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// MakeOrganizationAdmin merges organization-admin fields into the profile,
// creating a minimal profile if none exists.
func (s *Store) MakeOrganizationAdmin(ctx context.Context, uid, orgID string) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": uid}, bson.M{
		"$set": bson.M{
			"organization_id": orgID,
			"role":            models.RoleAdmin,
			"updated_at":      time.Now().UTC(),
		},
		"$setOnInsert": bson.M{"uid": uid},
	}, options.Update().SetUpsert(true))
	return err
}

// ListIDsByRole returns the uids of every profile with the given role.
func (s *Store) ListIDsByRole(ctx context.Context, role string) ([]string, error) {
	cur, err := s.c.Find(ctx, bson.M{"role": role}, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var ids []string
	for cur.Next(ctx) {
		var row struct {
			ID string `bson:"_id"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		ids = append(ids, row.ID)
	}
	return ids, cur.Err()
}

// ResetDailyStatus puts the given students back to NotArrived for date and
// clears their unread flag. The uids are written with one command, which is
// atomic per document; callers wanting the chunk atomic run it in a transaction.
func (s *Store) ResetDailyStatus(ctx context.Context, uids []string, date string) (int64, error) {
	if len(uids) == 0 {
		return 0, nil
	}
	res, err := s.c.UpdateMany(ctx, bson.M{"_id": bson.M{"$in": uids}}, bson.M{
		"$set": bson.M{
			"today_status":            models.StatusNotArrived,
			"today_date":              date,
			"today_display_status":    models.DisplayStatus{},
			"has_unread_from_student": false,
		},
	})
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}
