package mirror

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	lru "github.com/hashicorp/golang-lru/v2"
)

var (
	// ErrListNotFound is returned by a TaskStore when the destination list
	// id it was handed no longer resolves. The reconciler reacts by
	// dropping its memoized handle and resolving again.
	ErrListNotFound = errors.New("mirror: destination list not found")
)

// TaskDraft is the payload for creating or updating a mirrored task.
type TaskDraft struct {
	Name        string
	Description string
	Tags        []string
}

// TaskStore is the task-tracker contract the reconciler consumes,
// independent of transport.
type TaskStore interface {
	// ResolveList resolves (or creates) the container hierarchy named by
	// path and returns the destination list id. Idempotent.
	ResolveList(ctx context.Context, path []string) (string, error)

	// CreateTask creates a task under listID and returns its id.
	CreateTask(ctx context.Context, listID string, draft *TaskDraft) (string, error)

	// UpdateTask updates an existing task's name/description/tags.
	UpdateTask(ctx context.Context, taskID string, draft *TaskDraft) error
}

// Source enumerates the discoverable remote items for one pass.
type Source interface {
	Fetch(ctx context.Context) ([]RemoteItem, error)
}

// Reconciler runs one sync pass: classify each remote item as create or
// update against the index, invoke the task store, and rewrite the index.
type Reconciler struct {
	tasks         TaskStore
	index         Store
	containerPath []string
	listCache     *lru.Cache[string, string]
}

func NewReconciler(tasks TaskStore, index Store, containerPath []string) (*Reconciler, error) {
	cache, err := lru.New[string, string](8)
	if err != nil {
		return nil, fmt.Errorf("reconciler: %w", err)
	}
	return &Reconciler{
		tasks:         tasks,
		index:         index,
		containerPath: containerPath,
		listCache:     cache,
	}, nil
}

// Reconcile processes items in input order. Individual item failures are
// logged and recorded, never fatal to the pass; the pass itself fails only
// when container resolution or the final index write fails. On an index
// write failure the returned results are still complete and remain
// authoritative over the stale on-disk index.
func (r *Reconciler) Reconcile(ctx context.Context, items []RemoteItem) ([]SyncResult, error) {
	listID, err := r.destinationList(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve destination: %w", err)
	}

	idx := r.index.Load()
	prior := idx.ByExternalID()

	results := make([]SyncResult, 0, len(items))
	successes := make(map[string]TaskRecord, len(items))

	for _, item := range items {
		// a pass being shut down finishes its current item, then stops
		if ctx.Err() != nil {
			slog.Info("pass interrupted", "processed", len(results), "remaining", len(items)-len(results))
			break
		}

		draft := draftFromItem(item)

		if rec, exists := prior[item.ID]; exists {
			results = append(results, r.updateItem(ctx, rec, item, draft, successes))
		} else {
			results = append(results, r.createItem(ctx, listID, item, draft, successes))
		}
	}

	newIdx := r.buildIndex(idx, items, successes)
	if err := r.index.Save(newIdx); err != nil {
		// remote side effects already happened; report and let the next
		// successful pass restore consistency
		return results, fmt.Errorf("save index: %w", err)
	}

	return results, nil
}

func (r *Reconciler) updateItem(ctx context.Context, rec TaskRecord, item RemoteItem, draft *TaskDraft, successes map[string]TaskRecord) SyncResult {
	if err := r.tasks.UpdateTask(ctx, rec.TaskID, draft); err != nil {
		slog.Warn("task update failed", "item", item.Name, "id", item.ID, "task", rec.TaskID, "error", err)
		return SyncResult{Action: ActionFailed, ExternalItemID: item.ID, TaskID: rec.TaskID, Error: err.Error()}
	}

	successes[item.ID] = TaskRecord{
		TaskID:         rec.TaskID,
		ExternalItemID: item.ID,
		Name:           draft.Name,
		Description:    draft.Description,
		Tags:           draft.Tags,
	}
	return SyncResult{Action: ActionUpdated, ExternalItemID: item.ID, TaskID: rec.TaskID}
}

func (r *Reconciler) createItem(ctx context.Context, listID string, item RemoteItem, draft *TaskDraft, successes map[string]TaskRecord) SyncResult {
	taskID, err := r.tasks.CreateTask(ctx, listID, draft)
	if errors.Is(err, ErrListNotFound) {
		// cached destination went away; resolve again and retry once
		r.listCache.Purge()
		freshList, rerr := r.destinationList(ctx)
		if rerr == nil {
			taskID, err = r.tasks.CreateTask(ctx, freshList, draft)
		} else {
			err = rerr
		}
	}
	if err != nil {
		slog.Warn("task create failed", "item", item.Name, "id", item.ID, "error", err)
		return SyncResult{Action: ActionFailed, ExternalItemID: item.ID, Error: err.Error()}
	}

	successes[item.ID] = TaskRecord{
		TaskID:         taskID,
		ExternalItemID: item.ID,
		Name:           draft.Name,
		Description:    draft.Description,
		Tags:           draft.Tags,
	}
	return SyncResult{Action: ActionCreated, ExternalItemID: item.ID, TaskID: taskID}
}

// buildIndex assembles the next index: prior records are preserved unless
// superseded by this pass's successes, so an item missing from one listing
// (or failing one update) keeps its mirrored-task memory. Failed creates
// were never in the index and stay out, which is what makes them retry.
func (r *Reconciler) buildIndex(prev *TaskIndex, items []RemoteItem, successes map[string]TaskRecord) *TaskIndex {
	records := make([]TaskRecord, 0, len(prev.Tasks)+len(successes))
	inPrev := make(map[string]struct{}, len(prev.Tasks))

	for _, rec := range prev.Tasks {
		inPrev[rec.ExternalItemID] = struct{}{}
		if updated, ok := successes[rec.ExternalItemID]; ok {
			records = append(records, updated)
		} else {
			records = append(records, rec)
		}
	}

	// new creations, in listing order
	for _, item := range items {
		if _, existed := inPrev[item.ID]; existed {
			continue
		}
		if created, ok := successes[item.ID]; ok {
			records = append(records, created)
		}
	}

	return NewTaskIndex(records)
}

// destinationList resolves the configured container path, memoized for the
// process lifetime.
func (r *Reconciler) destinationList(ctx context.Context) (string, error) {
	key := strings.Join(r.containerPath, "/")
	if listID, ok := r.listCache.Get(key); ok {
		return listID, nil
	}

	listID, err := r.tasks.ResolveList(ctx, r.containerPath)
	if err != nil {
		return "", err
	}

	r.listCache.Add(key, listID)
	return listID, nil
}

func draftFromItem(item RemoteItem) *TaskDraft {
	var b strings.Builder
	fmt.Fprintf(&b, "Mirrored from %s\n", item.SourceLink)
	fmt.Fprintf(&b, "Location: %s\n", item.Location)
	fmt.Fprintf(&b, "Type: %s\n", item.Kind)
	if item.SizeBytes > 0 {
		fmt.Fprintf(&b, "Size: %s\n", humanize.IBytes(uint64(item.SizeBytes)))
	}
	if !item.ModifiedAt.IsZero() {
		fmt.Fprintf(&b, "Modified: %s\n", item.ModifiedAt.UTC().Format(time.RFC3339))
	}

	return &TaskDraft{
		Name:        item.Name,
		Description: b.String(),
		Tags:        item.SortedTags(),
	}
}
