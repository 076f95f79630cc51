// internal/domain/models/schoolmember.go
package models

import "time"

// SchoolMember binds a user to a school with a school-specific role.
// Exactly one document per (school_id, uid); the _id is "<schoolId>/<uid>".
type SchoolMember struct {
	ID          string    `bson:"_id" json:"id"`
	UID         string    `bson:"uid" json:"uid"`
	SchoolID    string    `bson:"school_id" json:"school_id"`
	Role        string    `bson:"role" json:"role"` // admin | teacher | parent
	DisplayName *string   `bson:"display_name" json:"display_name"`
	InvitedAt   time.Time `bson:"invited_at" json:"invited_at"`
}

// SchoolMemberID returns the document id of the membership for (schoolID, uid).
func SchoolMemberID(schoolID, uid string) string {
	return schoolID + "/" + uid
}
