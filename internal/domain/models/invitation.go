// internal/domain/models/invitation.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Invitation statuses. An invitation moves from pending to accepted exactly once.
const (
	InvitationPending  = "pending"
	InvitationAccepted = "accepted"
)

// Invitation is a single-use token that grants its bearer a role in a school.
type Invitation struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email          string             `bson:"email" json:"email"` // always lowercase
	SchoolID       string             `bson:"school_id" json:"school_id"`
	SchoolName     string             `bson:"school_name" json:"school_name"`
	OrganizationID string             `bson:"organization_id,omitempty" json:"organization_id,omitempty"`
	Role           string             `bson:"role" json:"role"`
	Token          string             `bson:"token" json:"-"`
	Status         string             `bson:"status" json:"status"`
	CreatedBy      string             `bson:"created_by" json:"created_by"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
	AcceptedAt     *time.Time         `bson:"accepted_at,omitempty" json:"accepted_at,omitempty"`
}
