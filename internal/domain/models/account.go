// internal/domain/models/account.go
package models

import "time"

// Account is an identity-provider record: the credentials a person signs in with.
// Profiles (User) and memberships reference it by uid.
type Account struct {
	ID           string    `bson:"_id" json:"uid"`
	Email        string    `bson:"email" json:"email"` // unique, lowercase
	PasswordHash string    `bson:"password_hash" json:"-"`
	DisplayName  *string   `bson:"display_name,omitempty" json:"display_name,omitempty"`
	Disabled     bool      `bson:"disabled" json:"disabled"`
	SuperAdmin   bool      `bson:"super_admin,omitempty" json:"super_admin,omitempty"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updated_at"`
}
