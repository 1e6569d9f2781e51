package mirror

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/gofrs/flock"

	"github.com/taskmirror/taskmirror/internal/utils"
)

// FileStore persists the TaskIndex as a human-inspectable JSON file. Writes
// go to a temp file in the same directory and are renamed into place, so a
// crash mid-write leaves the previous index intact. A file lock guards
// against a second process writing the same index.
type FileStore struct {
	path string
	lock *flock.Flock
}

func NewFileStore(path string) *FileStore {
	return &FileStore{
		path: path,
		lock: flock.New(path + ".lock"),
	}
}

// Load reads the index from disk. A missing file is an empty index, not an
// error; a corrupt file is logged and discarded.
func (s *FileStore) Load() *TaskIndex {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("index read failed, starting empty", "path", s.path, "error", err)
		}
		return EmptyTaskIndex()
	}

	var idx TaskIndex
	if err := json.Unmarshal(data, &idx); err != nil {
		slog.Warn("index corrupt, starting empty", "path", s.path, "error", err)
		return EmptyTaskIndex()
	}
	if err := validateIndex(&idx); err != nil {
		slog.Warn("index invalid, starting empty", "path", s.path, "error", err)
		return EmptyTaskIndex()
	}

	return &idx
}

// Save replaces the index file wholesale.
func (s *FileStore) Save(idx *TaskIndex) error {
	if err := validateIndex(idx); err != nil {
		return err
	}

	if err := utils.EnsureParent(s.path); err != nil {
		return fmt.Errorf("index save: %w", err)
	}

	locked, err := s.lock.TryLock()
	if err != nil {
		return fmt.Errorf("index lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("index lock: held by another process")
	}
	defer s.lock.Unlock()

	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return fmt.Errorf("index marshal: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("index write: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("index rename: %w", err)
	}

	return nil
}

var _ Store = (*FileStore)(nil)
