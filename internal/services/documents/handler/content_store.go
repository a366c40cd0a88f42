package handler

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// ContentStore writes and removes opaque blobs. Store must return a
// collision-free reference; the backing mechanism is swappable without
// touching the document records.
type ContentStore interface {
	Store(data []byte, suggestedName string) (string, error)
	Delete(ref string) error
}

// LocalContentStore keeps blobs in a single directory, prefixing each file
// name with a random token to avoid collisions between identically named
// uploads.
type LocalContentStore struct {
	dir string
}

func NewLocalContentStore(dir string) (*LocalContentStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %s: %w", dir, err)
	}
	return &LocalContentStore{dir: dir}, nil
}

func (s *LocalContentStore) Store(data []byte, suggestedName string) (string, error) {
	ref := fmt.Sprintf("%s_%s", uuid.New().String(), filepath.Base(suggestedName))
	if err := os.WriteFile(filepath.Join(s.dir, ref), data, 0o644); err != nil {
		return "", fmt.Errorf("write blob %s: %w", ref, err)
	}
	return ref, nil
}

func (s *LocalContentStore) Delete(ref string) error {
	err := os.Remove(filepath.Join(s.dir, filepath.Base(ref)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete blob %s: %w", ref, err)
	}
	return nil
}
