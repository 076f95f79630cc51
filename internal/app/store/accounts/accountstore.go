// internal/app/store/accounts/accountstore.go
package accountstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/daycarehub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	// ErrNotFound is returned when no account matches.
	ErrNotFound = errors.New("account not found")
	// ErrDuplicateEmail is returned when another account already uses the email.
	ErrDuplicateEmail = errors.New("an account with this email already exists")
)

// Store persists identity accounts in the accounts collection.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("accounts")}
}

// Create inserts a new account. The caller supplies the uid and password hash.
func (s *Store) Create(ctx context.Context, a models.Account) error {
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, a); err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

// GetByID loads an account by uid.
func (s *Store) GetByID(ctx context.Context, uid string) (*models.Account, error) {
	return s.findOne(ctx, bson.M{"_id": uid})
}

// GetByEmail loads an account by its (already normalized) email.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

func (s *Store) findOne(ctx context.Context, filter bson.M) (*models.Account, error) {
	var a models.Account
	if err := s.c.FindOne(ctx, filter).Decode(&a); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// Update holds the account fields that can change. Nil fields are left alone.
type Update struct {
	Email        *string
	PasswordHash *string
	SuperAdmin   *bool
}

// Update applies upd to the account with the given uid.
func (s *Store) Update(ctx context.Context, uid string, upd Update) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.Email != nil {
		set["email"] = *upd.Email
	}
	if upd.PasswordHash != nil {
		set["password_hash"] = *upd.PasswordHash
	}
	if upd.SuperAdmin != nil {
		set["super_admin"] = *upd.SuperAdmin
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": uid}, bson.M{"$set": set})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
