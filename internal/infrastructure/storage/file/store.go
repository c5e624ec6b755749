// Package file implements the snapshot store on local disk: one JSON file
// per snapshot key, replaced atomically via a temp file and rename. This is
// the "local device storage" backend.
package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/craftlink/marketplace-core/internal/core/ports"
)

// Store persists snapshots as files under a directory.
type Store struct {
	dir string
}

// New creates the directory when missing and returns the store.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Save replaces the snapshot atomically: write to a temp file, then rename
// over the previous one.
func (s *Store) Save(_ context.Context, key string, data []byte) error {
	path := s.path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write snapshot %s: %w", key, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace snapshot %s: %w", key, err)
	}
	return nil
}

func (s *Store) Load(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ports.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("read snapshot %s: %w", key, err)
	}
	return data, nil
}

// Delete removes the snapshot; a missing file is not an error.
func (s *Store) Delete(_ context.Context, key string) error {
	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete snapshot %s: %w", key, err)
	}
	return nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}
