package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/daycarehub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures inserts documents directly into a test database, bypassing the stores.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

func (f *Fixtures) insert(ctx context.Context, coll string, doc any) {
	f.t.Helper()
	if _, err := f.db.Collection(coll).InsertOne(ctx, doc); err != nil {
		f.t.Fatalf("insert into %s: %v", coll, err)
	}
}

// CreateOrganization inserts an organization with the given slug id.
func (f *Fixtures) CreateOrganization(ctx context.Context, id, name string) models.Organization {
	f.t.Helper()
	org := models.Organization{
		ID:        id,
		Name:      name,
		NameCI:    text.Fold(name),
		CreatedBy: "fixture",
		CreatedAt: time.Now().UTC(),
	}
	f.insert(ctx, "organizations", org)
	return org
}

// CreateSchool inserts a school on a 30-day trial.
func (f *Fixtures) CreateSchool(ctx context.Context, id, name, orgID string) models.School {
	f.t.Helper()
	now := time.Now().UTC()
	s := models.School{
		ID:     id,
		Name:   name,
		NameCI: text.Fold(name),
		Config: map[string]any{},
		Subscription: models.Subscription{
			Status:      models.SubscriptionTrial,
			TrialEndsAt: now.AddDate(0, 0, 30),
		},
		OrganizationID: orgID,
		CreatedAt:      now,
	}
	f.insert(ctx, "schools", s)
	return s
}

// CreateUser inserts a profile with the given uid and role.
func (f *Fixtures) CreateUser(ctx context.Context, uid, role string, schoolIDs ...string) models.User {
	f.t.Helper()
	u := models.User{
		ID:        uid,
		UID:       uid,
		Username:  uid,
		Email:     uid + "@daycare.test",
		Role:      role,
		SchoolIDs: schoolIDs,
		CreatedAt: time.Now().UTC(),
	}
	f.insert(ctx, "users", u)
	return u
}

// CreateStudent inserts a student whose attendance was last touched on date.
func (f *Fixtures) CreateStudent(ctx context.Context, uid, date string) models.User {
	f.t.Helper()
	u := models.User{
		ID:                   uid,
		UID:                  uid,
		Role:                 models.RoleStudent,
		TodayStatus:          "Arrived",
		TodayDate:            date,
		TodayDisplayStatus:   models.DisplayStatus{MealStatus: true, PhotosCount: 2},
		HasUnreadFromStudent: true,
		CreatedAt:            time.Now().UTC(),
	}
	f.insert(ctx, "users", u)
	return u
}

// CreateMember binds uid to schoolID with role.
func (f *Fixtures) CreateMember(ctx context.Context, schoolID, uid, role string) models.SchoolMember {
	f.t.Helper()
	m := models.SchoolMember{
		ID:        models.SchoolMemberID(schoolID, uid),
		UID:       uid,
		SchoolID:  schoolID,
		Role:      role,
		InvitedAt: time.Now().UTC(),
	}
	f.insert(ctx, "school_members", m)
	return m
}
