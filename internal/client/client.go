package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/taskmirror/taskmirror/internal/config"
	"github.com/taskmirror/taskmirror/internal/drive"
	"github.com/taskmirror/taskmirror/internal/history"
	"github.com/taskmirror/taskmirror/internal/mirror"
	"github.com/taskmirror/taskmirror/internal/tracker"
	"github.com/taskmirror/taskmirror/internal/utils"
)

// Client is the daemon: source scanner, reconciler, pass journal and the
// local control plane, wired together from one config.
type Client struct {
	config  *config.Config
	tracker *tracker.Client
	drive   *drive.Client
	journal *history.Journal
	index   mirror.Store
	manager *mirror.Manager
	cps     *ControlPlaneServer
}

func New(cfg *config.Config) (*Client, error) {
	trackerClient, err := tracker.New(&tracker.Config{
		BaseURL:   cfg.Tracker.BaseURL,
		APIToken:  cfg.Tracker.APIToken,
		Workspace: cfg.Tracker.Workspace,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create tracker client: %w", err)
	}

	driveClient, err := drive.New(&drive.Config{
		BaseURL:  cfg.Source.BaseURL,
		APIToken: cfg.Source.APIToken,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create source client: %w", err)
	}

	scanner, err := drive.NewScanner(driveClient, drive.ScanConfig{
		RootFolderID: cfg.Source.RootFolderID,
		Depth:        cfg.Source.ScanDepth,
		MirrorTag:    cfg.Source.MirrorTag,
		Include:      cfg.Source.Include,
		Exclude:      cfg.Source.Exclude,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create scanner: %w", err)
	}

	index := mirror.NewFileStore(cfg.IndexPath)

	reconciler, err := mirror.NewReconciler(
		&trackerStore{client: trackerClient, extraTags: cfg.Tracker.TaskTags},
		index,
		cfg.Tracker.ContainerPath(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create reconciler: %w", err)
	}

	schedule, err := mirror.NewSchedule(cfg.IntervalMinutes)
	if err != nil {
		return nil, fmt.Errorf("failed to create schedule: %w", err)
	}

	journal := history.NewJournal(cfg.HistoryDBPath)

	manager := mirror.NewManager(&driveSource{scanner: scanner}, reconciler, journal, schedule)

	cps, err := NewControlPlaneServer(&ControlPlaneConfig{
		Addr:      cfg.HTTP.Addr,
		AuthToken: cfg.HTTP.AuthToken,
	}, manager, journal, index)
	if err != nil {
		return nil, fmt.Errorf("failed to create control plane: %w", err)
	}

	return &Client{
		config:  cfg,
		tracker: trackerClient,
		drive:   driveClient,
		journal: journal,
		index:   index,
		manager: manager,
		cps:     cps,
	}, nil
}

func (c *Client) Start(ctx context.Context) error {
	slog.Info("taskmirror daemon start",
		"workspace", c.config.Tracker.Workspace,
		"destination", c.config.Tracker.ContainerPath(),
		"schedule", c.manager.Schedule().String(),
		"tracker_token", utils.MaskSecret(c.config.Tracker.APIToken),
		"source_token", utils.MaskSecret(c.config.Source.APIToken),
	)

	if err := c.journal.Open(); err != nil {
		return fmt.Errorf("failed to open pass journal: %w", err)
	}

	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		if err := c.manager.Start(egCtx); err != nil {
			return fmt.Errorf("failed to start mirror manager: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		if err := c.cps.Start(egCtx); err != nil {
			return fmt.Errorf("failed to start control plane: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egCtx.Done()
		slog.Info("received interrupt signal, stopping daemon")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		return c.Stop(shutdownCtx)
	})

	if err := eg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("daemon failure", "error", err)
		return err
	}

	slog.Info("taskmirror daemon stopped")
	return nil
}

func (c *Client) Stop(ctx context.Context) error {
	c.manager.Stop()
	if err := c.cps.Stop(ctx); err != nil {
		return fmt.Errorf("failed to stop control plane: %w", err)
	}
	if err := c.journal.Close(); err != nil {
		slog.Warn("failed to close pass journal", "error", err)
	}
	c.tracker.Close()
	c.drive.Close()
	return nil
}
