package blobstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Local deletes files below a root directory. Used in development.
type Local struct {
	root string
}

func NewLocal(root string) (*Local, error) {
	if root == "" {
		return nil, errors.New("local: storage path is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("local: resolve %s: %w", root, err)
	}
	return &Local{root: abs}, nil
}

func (l *Local) Delete(_ context.Context, path string) error {
	full := filepath.Join(l.root, filepath.FromSlash(path))
	if full != l.root && !strings.HasPrefix(full, l.root+string(filepath.Separator)) {
		return fmt.Errorf("local: path %q escapes storage root", path)
	}
	if err := os.Remove(full); err != nil {
		return fmt.Errorf("local: delete %s: %w", path, err)
	}
	return nil
}
