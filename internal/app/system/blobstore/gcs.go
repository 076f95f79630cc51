package blobstore

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/storage"
)

// GCS deletes objects from a Google Cloud Storage bucket.
type GCS struct {
	client *storage.Client
	bucket string
}

// NewGCS connects using Application Default Credentials.
func NewGCS(ctx context.Context, bucket string) (*GCS, error) {
	if bucket == "" {
		return nil, errors.New("gcs: bucket is required")
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("gcs: new client: %w", err)
	}
	return &GCS{client: client, bucket: bucket}, nil
}

func (g *GCS) Delete(ctx context.Context, path string) error {
	if err := g.client.Bucket(g.bucket).Object(path).Delete(ctx); err != nil {
		return fmt.Errorf("gcs: delete %s: %w", path, err)
	}
	return nil
}

func (g *GCS) Close() error {
	return g.client.Close()
}
