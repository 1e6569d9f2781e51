package mirror

import (
	"fmt"
)

// Store persists the TaskIndex. Load never fails: a missing or unreadable
// index is an empty one. Save replaces the whole index or leaves the
// previous one intact.
type Store interface {
	Load() *TaskIndex
	Save(idx *TaskIndex) error
}

// validateIndex enforces the index invariants before anything is written:
// the count matches and external item ids are unique.
func validateIndex(idx *TaskIndex) error {
	if idx.TotalTasks != len(idx.Tasks) {
		return fmt.Errorf("index: total_tasks %d does not match %d tasks", idx.TotalTasks, len(idx.Tasks))
	}
	seen := make(map[string]struct{}, len(idx.Tasks))
	for _, rec := range idx.Tasks {
		if rec.ExternalItemID == "" {
			return fmt.Errorf("index: task %s has no external item id", rec.TaskID)
		}
		if _, dup := seen[rec.ExternalItemID]; dup {
			return fmt.Errorf("index: duplicate external item id %s", rec.ExternalItemID)
		}
		seen[rec.ExternalItemID] = struct{}{}
	}
	return nil
}
