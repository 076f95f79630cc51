// internal/domain/models/school.go
package models

import "time"

// Subscription statuses.
const (
	SubscriptionTrial = "trial"
)

// School is a tenant scoped under an organization, or standalone when
// OrganizationID is empty. Its _id is a slug of the name, suffixed with
// "_<organizationId>" when the school belongs to an organization.
type School struct {
	ID             string         `bson:"_id" json:"id"`
	Name           string         `bson:"name" json:"name"`
	NameCI         string         `bson:"name_ci" json:"-"`
	Config         map[string]any `bson:"config" json:"config"`
	Subscription   Subscription   `bson:"subscription" json:"subscription"`
	OrganizationID string         `bson:"organization_id,omitempty" json:"organization_id,omitempty"`
	CreatedAt      time.Time      `bson:"created_at" json:"created_at"`
}

// Subscription tracks the billing state of a school.
type Subscription struct {
	Status      string    `bson:"status" json:"status"`
	TrialEndsAt time.Time `bson:"trial_ends_at" json:"trial_ends_at"`
}
