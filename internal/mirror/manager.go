package mirror

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrPassRunning = errors.New("mirror: a pass is already running")

// Trigger names what started a pass.
type Trigger string

const (
	TriggerScheduled Trigger = "scheduled"
	TriggerManual    Trigger = "manual"
)

// PassRun describes one completed (or failed) pass.
type PassRun struct {
	ID         string    `json:"id"`
	Trigger    Trigger   `json:"trigger"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Summary    Summary   `json:"summary"`
	Status     string    `json:"status"`
	Error      string    `json:"error,omitempty"`
}

const (
	PassStatusOK     = "ok"
	PassStatusFailed = "failed"
)

// PassRecorder persists pass runs for later inspection.
type PassRecorder interface {
	Record(ctx context.Context, run *PassRun) error
}

// Manager owns the pass lifecycle: it fires the reconciler on a schedule,
// serves manual triggers, and guarantees at most one in-flight pass.
type Manager struct {
	source     Source
	reconciler *Reconciler
	recorder   PassRecorder
	schedule   Schedule

	passMu  sync.Mutex // held for the duration of a pass
	stateMu sync.RWMutex
	lastRun *PassRun

	wg sync.WaitGroup
}

func NewManager(source Source, reconciler *Reconciler, recorder PassRecorder, schedule Schedule) *Manager {
	return &Manager{
		source:     source,
		reconciler: reconciler,
		recorder:   recorder,
		schedule:   schedule,
	}
}

func (m *Manager) Schedule() Schedule {
	return m.schedule
}

// Start runs one pass immediately, then keeps passing on the configured
// interval until ctx is cancelled.
func (m *Manager) Start(ctx context.Context) error {
	slog.Info("mirror manager start", "schedule", m.schedule.String())

	if _, _, err := m.RunPass(ctx, TriggerScheduled); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("initial pass failed", "error", err)
	}

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()

		// a timer, not a ticker, so a pass that overruns the interval
		// doesn't queue up extra ticks
		timer := time.NewTimer(m.schedule.Interval())
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
				if _, _, err := m.RunPass(ctx, TriggerScheduled); err != nil && !errors.Is(err, context.Canceled) {
					slog.Error("scheduled pass failed", "error", err)
				}
				timer.Reset(m.schedule.Interval())
			}
		}
	}()

	return nil
}

// Stop waits for the scheduler goroutine and any in-flight pass to finish.
func (m *Manager) Stop() {
	slog.Info("mirror manager stop")
	m.wg.Wait()
	m.passMu.Lock()
	m.passMu.Unlock()
}

// RunPass executes one full pass. Returns ErrPassRunning when another pass
// holds the lock; overlapping passes would race on the index file.
func (m *Manager) RunPass(ctx context.Context, trigger Trigger) (*PassRun, []SyncResult, error) {
	if !m.passMu.TryLock() {
		return nil, nil, ErrPassRunning
	}
	defer m.passMu.Unlock()

	run := &PassRun{
		ID:        uuid.NewString(),
		Trigger:   trigger,
		StartedAt: time.Now().UTC(),
	}

	items, err := m.source.Fetch(ctx)
	if err != nil {
		// source unreachable: abort before any task-store call, leave the
		// index untouched, retry on the next scheduled pass
		m.finishRun(ctx, run, nil, err)
		return run, nil, err
	}

	results, err := m.reconciler.Reconcile(ctx, items)
	m.finishRun(ctx, run, results, err)
	return run, results, err
}

// LastRun returns the most recent pass, or nil before the first one.
func (m *Manager) LastRun() *PassRun {
	m.stateMu.RLock()
	defer m.stateMu.RUnlock()
	if m.lastRun == nil {
		return nil
	}
	cp := *m.lastRun
	return &cp
}

func (m *Manager) finishRun(ctx context.Context, run *PassRun, results []SyncResult, err error) {
	run.FinishedAt = time.Now().UTC()
	run.Summary = Summarize(results)
	if err != nil {
		run.Status = PassStatusFailed
		run.Error = err.Error()
	} else {
		run.Status = PassStatusOK
	}

	m.stateMu.Lock()
	m.lastRun = run
	m.stateMu.Unlock()

	if m.recorder != nil {
		if recErr := m.recorder.Record(ctx, run); recErr != nil {
			slog.Error("pass history record failed", "run", run.ID, "error", recErr)
		}
	}

	slog.Info("pass finished",
		"run", run.ID,
		"trigger", run.Trigger,
		"status", run.Status,
		"created", run.Summary.Created,
		"updated", run.Summary.Updated,
		"failed", run.Summary.Failed,
		"took", run.FinishedAt.Sub(run.StartedAt),
	)
}
