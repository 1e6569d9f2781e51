package mirror

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_LoadMissingFileIsEmpty(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "task_index.json"))
	idx := store.Load()
	assert.Equal(t, 0, idx.TotalTasks)
	assert.Empty(t, idx.Tasks)
}

func TestFileStore_LoadCorruptFileIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "task_index.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	idx := NewFileStore(path).Load()
	assert.Equal(t, 0, idx.TotalTasks)
	assert.Empty(t, idx.Tasks)
}

func TestFileStore_SaveLoadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "task_index.json")
	store := NewFileStore(path)

	idx := NewTaskIndex([]TaskRecord{
		{TaskID: "t-100", ExternalItemID: "f1", Name: "Doc A", Tags: []string{"mirror"}},
		{TaskID: "t-101", ExternalItemID: "f2", Name: "Doc B"},
	})
	require.NoError(t, store.Save(idx))

	loaded := store.Load()
	assert.Equal(t, idx.Tasks, loaded.Tasks)
	assert.Equal(t, 2, loaded.TotalTasks)

	// a second save of the loaded index is a content no-op
	require.NoError(t, store.Save(loaded))
	assert.Equal(t, idx.Tasks, store.Load().Tasks)
}

func TestFileStore_SaveRejectsInvariantViolations(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "task_index.json"))

	t.Run("count mismatch", func(t *testing.T) {
		idx := &TaskIndex{TotalTasks: 5, Tasks: []TaskRecord{{TaskID: "t1", ExternalItemID: "f1"}}}
		assert.ErrorContains(t, store.Save(idx), "total_tasks")
	})

	t.Run("duplicate external id", func(t *testing.T) {
		idx := NewTaskIndex([]TaskRecord{
			{TaskID: "t1", ExternalItemID: "f1"},
			{TaskID: "t2", ExternalItemID: "f1"},
		})
		assert.ErrorContains(t, store.Save(idx), "duplicate")
	})

	t.Run("missing external id", func(t *testing.T) {
		idx := NewTaskIndex([]TaskRecord{{TaskID: "t1"}})
		assert.ErrorContains(t, store.Save(idx), "no external item id")
	})
}

func TestFileStore_SaveLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "task_index.json")
	store := NewFileStore(path)

	require.NoError(t, store.Save(NewTaskIndex([]TaskRecord{{TaskID: "t1", ExternalItemID: "f1"}})))

	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file should be renamed away")
}

func TestMemStore_Isolation(t *testing.T) {
	store := NewMemStore()
	assert.Equal(t, 0, store.Load().TotalTasks)

	idx := NewTaskIndex([]TaskRecord{{TaskID: "t1", ExternalItemID: "f1", Name: "Doc"}})
	require.NoError(t, store.Save(idx))

	loaded := store.Load()
	loaded.Tasks[0].Name = "mutated"
	assert.Equal(t, "Doc", store.Load().Tasks[0].Name)
}

func TestSummarize(t *testing.T) {
	s := Summarize([]SyncResult{
		{Action: ActionCreated},
		{Action: ActionCreated},
		{Action: ActionUpdated},
		{Action: ActionFailed},
	})
	assert.Equal(t, Summary{Total: 4, Created: 2, Updated: 1, Failed: 1}, s)
}
