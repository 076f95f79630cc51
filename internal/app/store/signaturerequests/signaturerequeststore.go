// internal/app/store/signaturerequests/signaturerequeststore.go
package signaturerequeststore

import (
	"context"
	"fmt"

	"github.com/dalemusser/daycarehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("signature_requests")}
}

// Insert writes a signature request. Used by tests and tooling; the mobile
// clients normally create these records.
func (s *Store) Insert(ctx context.Context, req models.SignatureRequest) error {
	_, err := s.c.InsertOne(ctx, req)
	return err
}

// InsertStream is an open change stream over newly inserted signature requests.
type InsertStream struct {
	cs *mongo.ChangeStream
}

// WatchInserts opens a change stream that yields only inserts. When resume is
// non-nil the stream picks up after that token.
func (s *Store) WatchInserts(ctx context.Context, resume bson.Raw) (*InsertStream, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "operationType", Value: "insert"}}}},
	}
	opts := options.ChangeStream()
	if resume != nil {
		opts.SetStartAfter(resume)
	}
	cs, err := s.c.Watch(ctx, pipeline, opts)
	if err != nil {
		return nil, err
	}
	return &InsertStream{cs: cs}, nil
}

// Next blocks until the next insert arrives. It returns false when the stream
// is closed or ctx is done; check Err afterwards.
func (st *InsertStream) Next(ctx context.Context) (models.SignatureRequest, bool, error) {
	if !st.cs.Next(ctx) {
		return models.SignatureRequest{}, false, st.cs.Err()
	}
	var ev struct {
		FullDocument bson.Raw `bson:"fullDocument"`
	}
	if err := st.cs.Decode(&ev); err != nil {
		return models.SignatureRequest{}, true, fmt.Errorf("decode change event: %w", err)
	}
	req, err := decodeRequest(ev.FullDocument)
	return req, true, err
}

// ResumeToken returns the token of the last event read.
func (st *InsertStream) ResumeToken() bson.Raw {
	return st.cs.ResumeToken()
}

func (st *InsertStream) Close(ctx context.Context) error {
	return st.cs.Close(ctx)
}

// decodeRequest reads a signature request whose _id may be a string or an ObjectID.
func decodeRequest(doc bson.Raw) (models.SignatureRequest, error) {
	var raw struct {
		ID         any    `bson:"_id"`
		UserID     string `bson:"user_id"`
		DocumentID string `bson:"document_id"`
	}
	if err := bson.Unmarshal(doc, &raw); err != nil {
		return models.SignatureRequest{}, fmt.Errorf("decode signature request: %w", err)
	}
	req := models.SignatureRequest{UserID: raw.UserID, DocumentID: raw.DocumentID}
	switch id := raw.ID.(type) {
	case string:
		req.ID = id
	case primitive.ObjectID:
		req.ID = id.Hex()
	default:
		req.ID = fmt.Sprint(id)
	}
	return req, nil
}
