package client

import (
	"context"
	"fmt"

	"github.com/taskmirror/taskmirror/internal/drive"
	"github.com/taskmirror/taskmirror/internal/mirror"
	"github.com/taskmirror/taskmirror/internal/tracker"
)

// driveSource adapts the file source scanner to the reconciler's Source
// contract.
type driveSource struct {
	scanner *drive.Scanner
}

func (s *driveSource) Fetch(ctx context.Context) ([]mirror.RemoteItem, error) {
	items, err := s.scanner.Scan(ctx)
	if err != nil {
		return nil, err
	}

	remote := make([]mirror.RemoteItem, 0, len(items))
	for _, it := range items {
		remote = append(remote, mirror.RemoteItem{
			ID:         it.ID,
			Name:       it.Name,
			Kind:       it.Kind,
			Tags:       it.Tags,
			Location:   it.Location,
			CreatedAt:  it.CreatedAt,
			ModifiedAt: it.ModifiedAt,
			SizeBytes:  it.SizeBytes,
			SourceLink: it.WebLink,
		})
	}
	return remote, nil
}

// trackerStore adapts the tracker SDK to the reconciler's TaskStore
// contract. A not-found on task creation means the cached list id went
// stale, surfaced as ErrListNotFound so the reconciler can re-resolve.
type trackerStore struct {
	client *tracker.Client
	// extraTags are appended to every draft, on top of the item's own tags.
	extraTags []string
}

func (s *trackerStore) ResolveList(ctx context.Context, path []string) (string, error) {
	return s.client.ResolveList(ctx, path)
}

func (s *trackerStore) CreateTask(ctx context.Context, listID string, draft *mirror.TaskDraft) (string, error) {
	task, err := s.client.CreateTask(ctx, listID, s.trackerDraft(draft))
	if err != nil {
		if tracker.IsNotFound(err) {
			return "", fmt.Errorf("%w: list %s: %s", mirror.ErrListNotFound, listID, err)
		}
		return "", err
	}
	return task.ID, nil
}

func (s *trackerStore) UpdateTask(ctx context.Context, taskID string, draft *mirror.TaskDraft) error {
	_, err := s.client.UpdateTask(ctx, taskID, s.trackerDraft(draft))
	return err
}

func (s *trackerStore) trackerDraft(draft *mirror.TaskDraft) *tracker.TaskDraft {
	tags := draft.Tags
	if len(s.extraTags) > 0 {
		seen := make(map[string]bool, len(tags))
		for _, t := range tags {
			seen[t] = true
		}
		tags = append([]string(nil), tags...)
		for _, t := range s.extraTags {
			if !seen[t] {
				tags = append(tags, t)
			}
		}
	}
	return &tracker.TaskDraft{
		Name:        draft.Name,
		Description: draft.Description,
		Tags:        tags,
	}
}

var (
	_ mirror.Source    = (*driveSource)(nil)
	_ mirror.TaskStore = (*trackerStore)(nil)
)
