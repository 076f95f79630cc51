// internal/domain/models/signature.go
package models

// SignatureRequest asks a user to sign a document.
type SignatureRequest struct {
	ID         string `bson:"_id" json:"id"`
	UserID     string `bson:"user_id" json:"user_id"`
	DocumentID string `bson:"document_id" json:"document_id"`
}

// Document is a signable document. Only the fields the backend reads are mapped.
type Document struct {
	ID    string `bson:"_id" json:"id"`
	Title string `bson:"title" json:"title"`
}
