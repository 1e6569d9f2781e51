package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/taskmirror/taskmirror/internal/mirror"
)

func openJournal(t *testing.T) *Journal {
	t.Helper()
	j := NewJournal(filepath.Join(t.TempDir(), "history.db"))
	if err := j.Open(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}

func run(id string, started time.Time, summary mirror.Summary) *mirror.PassRun {
	return &mirror.PassRun{
		ID:         id,
		Trigger:    mirror.TriggerScheduled,
		StartedAt:  started,
		FinishedAt: started.Add(3 * time.Second),
		Summary:    summary,
		Status:     mirror.PassStatusOK,
	}
}

func TestJournal_RecordAndRecent(t *testing.T) {
	j := openJournal(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	if err := j.Record(ctx, run("run-1", base, mirror.Summary{Total: 2, Created: 2})); err != nil {
		t.Fatal(err)
	}
	if err := j.Record(ctx, run("run-2", base.Add(15*time.Minute), mirror.Summary{Total: 2, Updated: 2})); err != nil {
		t.Fatal(err)
	}

	runs, err := j.Recent(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != "run-2" {
		t.Fatalf("expected most recent run first, got %s", runs[0].ID)
	}
	if runs[1].Summary.Created != 2 {
		t.Fatalf("unexpected summary %+v", runs[1].Summary)
	}
	if !runs[1].StartedAt.Equal(base) {
		t.Fatalf("expected started_at %v, got %v", base, runs[1].StartedAt)
	}
}

func TestJournal_RecentLimit(t *testing.T) {
	j := openJournal(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		if err := j.Record(ctx, run(string(rune('a'+i)), base.Add(time.Duration(i)*time.Minute), mirror.Summary{})); err != nil {
			t.Fatal(err)
		}
	}

	runs, err := j.Recent(ctx, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(runs))
	}

	count, err := j.Count(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if count != 5 {
		t.Fatalf("expected count 5, got %d", count)
	}
}

func TestJournal_RecordFailedRun(t *testing.T) {
	j := openJournal(t)
	ctx := context.Background()

	failed := run("run-err", time.Now().UTC().Truncate(time.Second), mirror.Summary{})
	failed.Status = mirror.PassStatusFailed
	failed.Error = "source unreachable"
	if err := j.Record(ctx, failed); err != nil {
		t.Fatal(err)
	}

	runs, err := j.Recent(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if runs[0].Status != mirror.PassStatusFailed || runs[0].Error != "source unreachable" {
		t.Fatalf("unexpected run %+v", runs[0])
	}
}

func TestJournal_OpenTwiceFails(t *testing.T) {
	j := openJournal(t)
	if err := j.Open(); err == nil {
		t.Fatal("expected error on double open")
	}
}
