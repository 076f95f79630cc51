// internal/domain/models/checklist.go
package models

import "time"

// SubmittedBySystem marks checklist records submitted by the month-end job.
const SubmittedBySystem = "system"

// ChecklistRecord is a monthly compliance checklist. Month is YYYY-MM.
// Like DailyStatus, ID keeps the client-chosen _id type.
type ChecklistRecord struct {
	ID          any        `bson:"_id" json:"id"`
	Month       string     `bson:"month" json:"month"`
	IsSubmitted bool       `bson:"is_submitted" json:"is_submitted"`
	SubmittedAt *time.Time `bson:"submitted_at,omitempty" json:"submitted_at,omitempty"`
	SubmittedBy string     `bson:"submitted_by,omitempty" json:"submitted_by,omitempty"`
}
