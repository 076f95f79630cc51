// internal/app/store/invitations/invitationstore.go
package invitationstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/daycarehub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	// ErrNotFound is returned when no pending invitation matches.
	ErrNotFound = errors.New("invitation not found")
	// ErrDuplicatePending is returned when a pending invitation already exists
	// for the same (email, school) pair.
	ErrDuplicatePending = errors.New("a pending invitation already exists for this email")
	// ErrNotPending is returned when an invitation has already left the pending state.
	ErrNotPending = errors.New("invitation is no longer pending")
)

// Store manages invitation records.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("invitations")}
}

// Create inserts a pending invitation and returns it with its new id.
// The partial unique index on (email, school_id, status=pending) turns a
// concurrent duplicate into ErrDuplicatePending.
func (s *Store) Create(ctx context.Context, inv models.Invitation) (models.Invitation, error) {
	inv.ID = primitive.NewObjectID()
	if inv.Status == "" {
		inv.Status = models.InvitationPending
	}
	if inv.CreatedAt.IsZero() {
		inv.CreatedAt = time.Now().UTC()
	}
	if _, err := s.c.InsertOne(ctx, inv); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Invitation{}, ErrDuplicatePending
		}
		return models.Invitation{}, err
	}
	return inv, nil
}

// HasPending reports whether a pending invitation exists for (email, schoolID).
func (s *Store) HasPending(ctx context.Context, email, schoolID string) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{
		"email":     email,
		"school_id": schoolID,
		"status":    models.InvitationPending,
	}).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// FindPendingByToken returns the pending invitation carrying token.
func (s *Store) FindPendingByToken(ctx context.Context, token string) (*models.Invitation, error) {
	var inv models.Invitation
	err := s.c.FindOne(ctx, bson.M{"token": token, "status": models.InvitationPending}).Decode(&inv)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &inv, nil
}

// MarkAccepted moves the invitation from pending to accepted. The status is
// part of the filter, so only one caller can win; the others get ErrNotPending.
func (s *Store) MarkAccepted(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.InvitationPending},
		bson.M{"$set": bson.M{"status": models.InvitationAccepted, "accepted_at": at}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotPending
	}
	return nil
}
