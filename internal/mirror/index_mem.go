package mirror

import (
	"sync"
)

// MemStore is an in-memory Store, selected deliberately (tests, ephemeral
// runs) rather than being a silent fallback when file I/O fails.
type MemStore struct {
	mu  sync.Mutex
	idx *TaskIndex
}

func NewMemStore() *MemStore {
	return &MemStore{}
}

func (s *MemStore) Load() *TaskIndex {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.idx == nil {
		return EmptyTaskIndex()
	}

	// copy so callers cannot mutate the stored index
	cp := *s.idx
	cp.Tasks = append([]TaskRecord(nil), s.idx.Tasks...)
	return &cp
}

func (s *MemStore) Save(idx *TaskIndex) error {
	if err := validateIndex(idx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *idx
	cp.Tasks = append([]TaskRecord(nil), idx.Tasks...)
	s.idx = &cp
	return nil
}

var _ Store = (*MemStore)(nil)
