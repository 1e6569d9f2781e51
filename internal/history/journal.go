package history

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/taskmirror/taskmirror/internal/mirror"
	"github.com/taskmirror/taskmirror/internal/utils"
)

const schema = `
CREATE TABLE IF NOT EXISTS pass_runs (
    id TEXT PRIMARY KEY,
    trigger_type TEXT NOT NULL,
    started_at TEXT NOT NULL, -- RFC3339
    finished_at TEXT NOT NULL,
    total INTEGER NOT NULL,
    created INTEGER NOT NULL,
    updated INTEGER NOT NULL,
    failed INTEGER NOT NULL,
    status TEXT NOT NULL,
    error TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_pass_runs_started ON pass_runs(started_at);
`

// dbPassRun is the row shape; timestamps are stored as TEXT.
type dbPassRun struct {
	ID         string `db:"id"`
	Trigger    string `db:"trigger_type"`
	StartedAt  string `db:"started_at"`
	FinishedAt string `db:"finished_at"`
	Total      int    `db:"total"`
	Created    int    `db:"created"`
	Updated    int    `db:"updated"`
	Failed     int    `db:"failed"`
	Status     string `db:"status"`
	Error      string `db:"error"`
}

// Journal persists pass runs in SQLite so the control plane can report
// history across restarts.
type Journal struct {
	db     *sqlx.DB
	dbPath string
}

func NewJournal(dbPath string) *Journal {
	return &Journal{dbPath: dbPath}
}

// Open the journal and initialize the schema.
func (j *Journal) Open() error {
	if j.db != nil {
		return fmt.Errorf("history journal already open")
	}

	dbDir := filepath.Dir(j.dbPath)
	if err := utils.EnsureDir(dbDir); err != nil {
		return fmt.Errorf("failed to create journal directory %s: %w", dbDir, err)
	}

	db, err := sqlx.Connect("sqlite3", j.dbPath)
	if err != nil {
		return fmt.Errorf("failed to open history journal: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return fmt.Errorf("failed to initialize journal schema: %w", err)
	}

	j.db = db
	return nil
}

// Close closes the underlying database connection.
func (j *Journal) Close() error {
	if j.db == nil {
		return fmt.Errorf("history journal not open")
	}
	if err := j.db.Close(); err != nil {
		slog.Error("failed to close history journal", "error", err)
		return err
	}
	slog.Debug("history journal closed")
	return nil
}

// Record inserts one pass run.
func (j *Journal) Record(ctx context.Context, run *mirror.PassRun) error {
	if run == nil {
		return fmt.Errorf("cannot record nil run")
	}

	row := dbPassRun{
		ID:         run.ID,
		Trigger:    string(run.Trigger),
		StartedAt:  run.StartedAt.Format(time.RFC3339),
		FinishedAt: run.FinishedAt.Format(time.RFC3339),
		Total:      run.Summary.Total,
		Created:    run.Summary.Created,
		Updated:    run.Summary.Updated,
		Failed:     run.Summary.Failed,
		Status:     run.Status,
		Error:      run.Error,
	}

	query := `INSERT OR REPLACE INTO pass_runs (id, trigger_type, started_at, finished_at, total, created, updated, failed, status, error)
	          VALUES (:id, :trigger_type, :started_at, :finished_at, :total, :created, :updated, :failed, :status, :error)`
	if _, err := j.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("failed to record run %s: %w", run.ID, err)
	}
	return nil
}

// Recent returns up to limit runs, most recent first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]mirror.PassRun, error) {
	if limit <= 0 {
		limit = 20
	}

	var rows []dbPassRun
	err := j.db.SelectContext(ctx, &rows,
		"SELECT id, trigger_type, started_at, finished_at, total, created, updated, failed, status, error FROM pass_runs ORDER BY started_at DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}

	runs := make([]mirror.PassRun, 0, len(rows))
	for _, row := range rows {
		startedAt, err := time.Parse(time.RFC3339, row.StartedAt)
		if err != nil {
			slog.Error("failed to parse started_at", "run", row.ID, "value", row.StartedAt, "error", err)
			continue // skip corrupt rows
		}
		finishedAt, err := time.Parse(time.RFC3339, row.FinishedAt)
		if err != nil {
			slog.Error("failed to parse finished_at", "run", row.ID, "value", row.FinishedAt, "error", err)
			continue
		}

		runs = append(runs, mirror.PassRun{
			ID:         row.ID,
			Trigger:    mirror.Trigger(row.Trigger),
			StartedAt:  startedAt,
			FinishedAt: finishedAt,
			Summary: mirror.Summary{
				Total:   row.Total,
				Created: row.Created,
				Updated: row.Updated,
				Failed:  row.Failed,
			},
			Status: row.Status,
			Error:  row.Error,
		})
	}
	return runs, nil
}

// Count returns the number of recorded runs.
func (j *Journal) Count(ctx context.Context) (int, error) {
	var count int
	if err := j.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM pass_runs"); err != nil {
		return 0, fmt.Errorf("failed to count runs: %w", err)
	}
	return count, nil
}

var _ mirror.PassRecorder = (*Journal)(nil)
