// Package blobstore deletes uploaded objects from the configured backend.
// Photos are referenced by their public download URL; ObjectPath recovers the
// object path from such a URL.
package blobstore

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Deleter removes objects by path.
type Deleter interface {
	Delete(ctx context.Context, path string) error
}

// ErrNoObjectPath is returned when a URL does not carry an object path.
var ErrNoObjectPath = errors.New("url has no object path")

// ObjectPath extracts the object path from a download URL of the form
// https://<host>/v0/b/<bucket>/o/<escaped path>?alt=media&token=...
// The segment after "/o/" is cut at the query string and percent-decoded.
func ObjectPath(downloadURL string) (string, error) {
	_, rest, ok := strings.Cut(downloadURL, "/o/")
	if !ok {
		return "", ErrNoObjectPath
	}
	rest, _, _ = strings.Cut(rest, "?")
	p, err := url.PathUnescape(rest)
	if err != nil {
		return "", fmt.Errorf("decode object path: %w", err)
	}
	return p, nil
}

// Config selects and configures a backend.
type Config struct {
	Type      string // gcs | s3 | local
	Bucket    string
	S3Region  string
	LocalPath string
}

// Open builds the Deleter named by cfg.Type.
func Open(ctx context.Context, cfg Config) (Deleter, error) {
	switch strings.ToLower(cfg.Type) {
	case "gcs":
		return NewGCS(ctx, cfg.Bucket)
	case "s3":
		return NewS3(ctx, cfg.Bucket, cfg.S3Region)
	case "local", "":
		return NewLocal(cfg.LocalPath)
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.Type)
	}
}
