package mirror

import (
	"sort"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
)

// RemoteItem is an immutable snapshot of a discovered file as observed
// during one fetch. Identity is the stable external id.
type RemoteItem struct {
	ID         string
	Name       string
	Kind       string
	Tags       mapset.Set[string]
	Location   string
	CreatedAt  time.Time
	ModifiedAt time.Time
	SizeBytes  int64
	SourceLink string
}

// SortedTags returns the item's tags as a sorted slice, empty when the
// item has none.
func (i *RemoteItem) SortedTags() []string {
	if i.Tags == nil {
		return nil
	}
	tags := i.Tags.ToSlice()
	sort.Strings(tags)
	return tags
}

// TaskRecord is the persisted mirror of one remote item.
type TaskRecord struct {
	TaskID         string   `json:"task_id"`
	ExternalItemID string   `json:"external_item_id"`
	Name           string   `json:"name"`
	Description    string   `json:"description,omitempty"`
	Tags           []string `json:"tags,omitempty"`
}

// TaskIndex is the on-disk reconciliation ledger, rewritten wholesale at
// the end of each successful pass.
type TaskIndex struct {
	GeneratedAt time.Time    `json:"generated_at"`
	TotalTasks  int          `json:"total_tasks"`
	Tasks       []TaskRecord `json:"tasks"`
}

// NewTaskIndex builds an index over records, stamping the generation time
// and count.
func NewTaskIndex(records []TaskRecord) *TaskIndex {
	return &TaskIndex{
		GeneratedAt: time.Now().UTC(),
		TotalTasks:  len(records),
		Tasks:       records,
	}
}

// EmptyTaskIndex is what a missing or unreadable index file loads as.
func EmptyTaskIndex() *TaskIndex {
	return NewTaskIndex([]TaskRecord{})
}

// ByExternalID builds a lookup from external item id to record.
func (idx *TaskIndex) ByExternalID() map[string]TaskRecord {
	m := make(map[string]TaskRecord, len(idx.Tasks))
	for _, rec := range idx.Tasks {
		m[rec.ExternalItemID] = rec
	}
	return m
}

// Action classifies the outcome of processing one remote item.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionFailed  Action = "failed"
)

// SyncResult is the outcome for one processed remote item.
type SyncResult struct {
	Action         Action `json:"action"`
	ExternalItemID string `json:"external_item_id"`
	TaskID         string `json:"task_id,omitempty"`
	Error          string `json:"error,omitempty"`
}

// Summary aggregates one pass's results.
type Summary struct {
	Total   int `json:"total"`
	Created int `json:"created"`
	Updated int `json:"updated"`
	Failed  int `json:"failed"`
}

// Summarize counts results by action.
func Summarize(results []SyncResult) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		switch r.Action {
		case ActionCreated:
			s.Created++
		case ActionUpdated:
			s.Updated++
		case ActionFailed:
			s.Failed++
		}
	}
	return s
}
