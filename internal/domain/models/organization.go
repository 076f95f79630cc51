// internal/domain/models/organization.go
package models

import "time"

// Organization is the top-level tenant. Its _id is a slug derived from the name.
type Organization struct {
	ID        string    `bson:"_id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	NameCI    string    `bson:"name_ci" json:"-"` // lowercase, diacritics-stripped
	CreatedBy string    `bson:"created_by" json:"created_by"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
