package checkpoint

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileStore keeps the checkpoint in a single JSON file.
type FileStore struct {
	path string
}

// NewFileStore creates a store backed by path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Init creates the parent directory.
func (s *FileStore) Init(ctx context.Context) error {
	if s.path == "" {
		return errors.New("checkpoint path is required")
	}
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating checkpoint directory: %w", err)
		}
	}
	return nil
}

// Save writes the checkpoint to a temporary file and renames it into place.
func (s *FileStore) Save(ctx context.Context, cp Checkpoint) error {
	data, err := encode(cp)
	if err != nil {
		return fmt.Errorf("marshaling checkpoint: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing checkpoint: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replacing checkpoint: %w", err)
	}
	return nil
}

// Load reads the checkpoint file.
func (s *FileStore) Load(ctx context.Context) (Checkpoint, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Checkpoint{}, ErrNoCheckpoint
	}
	if err != nil {
		return Checkpoint{}, fmt.Errorf("reading checkpoint: %w", err)
	}
	return decode(data)
}

// Close is a no-op.
func (s *FileStore) Close() error {
	return nil
}
