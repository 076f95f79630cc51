// internal/app/store/audit/store.go
package audit

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Event categories
const (
	CategoryAuth   = "auth"
	CategoryAdmin  = "admin"
	CategorySystem = "system"
)

// Auth event types
const (
	EventInvitationAccepted = "invitation_accepted"
	EventSuperAdminGranted  = "superadmin_granted"
)

// Admin event types
const (
	EventUserCreated       = "user_created"
	EventUserUpdated       = "user_updated"
	EventInvitationCreated = "invitation_created"
	EventSchoolCreated     = "school_created"
	EventOrgCreated        = "org_created"
)

// System event types
const (
	EventJobTriggered = "job_triggered"
)

// Event represents an audit event. Ids are account uids and document ids
// as stored, so any of them may be empty when not applicable.
type Event struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Timestamp time.Time          `bson:"timestamp"`

	// Event classification
	Category  string `bson:"category"`
	EventType string `bson:"event_type"`

	// Who
	ActorID  string `bson:"actor_id,omitempty"`  // caller who performed the action
	TargetID string `bson:"target_id,omitempty"` // affected account, invitation or tenant

	// Where
	SchoolID       string `bson:"school_id,omitempty"`
	OrganizationID string `bson:"organization_id,omitempty"`
	IP             string `bson:"ip,omitempty"`

	// Outcome
	Success       bool   `bson:"success"`
	FailureReason string `bson:"failure_reason,omitempty"`

	// Additional details (varies by event type)
	Details map[string]string `bson:"details,omitempty"`
}

// QueryFilter defines filters for querying audit events.
type QueryFilter struct {
	ActorID        string
	TargetID       string
	SchoolID       string
	OrganizationID string
	Category       string
	EventType      string
	StartTime      *time.Time
	EndTime        *time.Time
	Limit          int64
	Offset         int64
}

// Store manages audit event records.
type Store struct {
	c *mongo.Collection
}

// New creates a new audit Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("audit_events")}
}

// Log records an audit event.
func (s *Store) Log(ctx context.Context, event Event) error {
	if event.ID.IsZero() {
		event.ID = primitive.NewObjectID()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	_, err := s.c.InsertOne(ctx, event)
	return err
}

// Query retrieves audit events matching the filter, newest first.
func (s *Store) Query(ctx context.Context, filter QueryFilter) ([]Event, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(limit).
		SetSkip(filter.Offset)

	cursor, err := s.c.Find(ctx, filter.query(), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []Event
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// CountByFilter returns the count of events matching the filter.
func (s *Store) CountByFilter(ctx context.Context, filter QueryFilter) (int64, error) {
	return s.c.CountDocuments(ctx, filter.query())
}

// GetRecent retrieves the most recent audit events.
func (s *Store) GetRecent(ctx context.Context, limit int64) ([]Event, error) {
	return s.Query(ctx, QueryFilter{Limit: limit})
}

func (f QueryFilter) query() bson.M {
	q := bson.M{}
	for field, v := range map[string]string{
		"actor_id":        f.ActorID,
		"target_id":       f.TargetID,
		"school_id":       f.SchoolID,
		"organization_id": f.OrganizationID,
		"category":        f.Category,
		"event_type":      f.EventType,
	} {
		if v != "" {
			q[field] = v
		}
	}

	if f.StartTime != nil || f.EndTime != nil {
		tq := bson.M{}
		if f.StartTime != nil {
			tq["$gte"] = *f.StartTime
		}
		if f.EndTime != nil {
			tq["$lte"] = *f.EndTime
		}
		q["timestamp"] = tq
	}
	return q
}
