// internal/domain/models/user.go
package models

import "time"

// Profile roles. Teacher, student and admin are provisioned by admins;
// "user" is the generic role given to accounts created through an invitation,
// whose school-specific role lives on their SchoolMember records.
const (
	RoleTeacher = "teacher"
	RoleStudent = "student"
	RoleAdmin   = "admin"
	RoleParent  = "parent"
	RoleUser    = "user"
)

// Daily status values written to student profiles.
const (
	StatusNotArrived = "NotArrived"
)

// User is the profile document that shadows an identity account.
// The document _id is the account uid.
//
// NOTE:
//   - School-specific roles are not stored here. SchoolIDs only records which
//     schools the user belongs to; see the school_members collection.
type User struct {
	ID             string   `bson:"_id" json:"uid"`
	UID            string   `bson:"uid" json:"-"`
	Username       string   `bson:"username,omitempty" json:"username,omitempty"`
	Email          string   `bson:"email,omitempty" json:"email,omitempty"`
	Name           string   `bson:"name,omitempty" json:"name,omitempty"`
	DisplayName    *string  `bson:"display_name,omitempty" json:"display_name,omitempty"`
	Role           string   `bson:"role" json:"role"` // teacher | student | admin | parent | user
	OrganizationID string   `bson:"organization_id,omitempty" json:"organization_id,omitempty"`
	SchoolIDs      []string `bson:"school_ids,omitempty" json:"school_ids,omitempty"`
	FCMToken       string   `bson:"fcm_token,omitempty" json:"-"`

	// Per-day attendance state (students only).
	TodayStatus          string        `bson:"today_status,omitempty" json:"today_status,omitempty"`
	TodayDate            string        `bson:"today_date,omitempty" json:"today_date,omitempty"`
	TodayDisplayStatus   DisplayStatus `bson:"today_display_status,omitempty" json:"today_display_status,omitempty"`
	HasUnreadFromStudent bool          `bson:"has_unread_from_student,omitempty" json:"has_unread_from_student,omitempty"`

	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt *time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// DisplayStatus is the summary of a student's day shown on dashboards.
type DisplayStatus struct {
	MealStatus   bool `bson:"meal_status" json:"meal_status"`
	ToiletStatus bool `bson:"toilet_status" json:"toilet_status"`
	SleepStatus  bool `bson:"sleep_status" json:"sleep_status"`
	PhotosCount  int  `bson:"photos_count" json:"photos_count"`
	IsAbsent     bool `bson:"is_absent" json:"is_absent"`
}
