// internal/domain/models/dailystatus.go
package models

// DailyStatus is a per-student, per-day attendance record with its photos.
// Date is stored as YYYY-MM-DD so records can be compared as strings.
// Records are written by the mobile clients, so ID keeps whatever _id type
// they used (ObjectID or string).
type DailyStatus struct {
	ID     any     `bson:"_id" json:"id"`
	Date   string  `bson:"date" json:"date"`
	Photos []Photo `bson:"photos,omitempty" json:"photos,omitempty"`
}

// Photo references an uploaded image by its download URL.
type Photo struct {
	URL string `bson:"url" json:"url"`
}
