package sync

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/calderw/mirrorsync/internal/domain"
	"github.com/calderw/mirrorsync/internal/logger"
	"github.com/calderw/mirrorsync/internal/metrics"
	"github.com/calderw/mirrorsync/internal/notion"
	"github.com/calderw/mirrorsync/internal/repository"
)

// Service defines the interface for sync operations
type Service interface {
	// Run executes one full sync pass for a config and returns the
	// completed run record.
	Run(ctx context.Context, configID int64, kind string) (*domain.SyncRun, error)
	Status(ctx context.Context, configID int64) (*SyncStatus, error)
	Runs(ctx context.Context, configID int64, limit int) ([]domain.SyncRun, error)
	SetEnabled(ctx context.Context, configID int64, enabled bool) error
}

// SyncStatus is the scheduling state and most recent run for a config.
type SyncStatus struct {
	ConfigID    int64           `json:"config_id"`
	SyncEnabled bool            `json:"sync_enabled"`
	LastSyncAt  *time.Time      `json:"last_sync_at,omitempty"`
	LatestRun   *domain.SyncRun `json:"latest_run,omitempty"`
}

type service struct {
	repo    repository.Sync
	clients notion.Factory
	now     func() time.Time
}

// NewService creates a new sync service. clients produces one API client
// per run so nothing (schema cache, pacing state) leaks across runs with
// different credentials.
func NewService(repo repository.Sync, clients notion.Factory) Service {
	return &service{
		repo:    repo,
		clients: clients,
		now:     time.Now,
	}
}

// viewerTotals accumulates row counters across viewers within one run.
type viewerTotals struct {
	created int
	updated int
	deleted int
}

func (t *viewerTotals) add(other viewerTotals) {
	t.created += other.created
	t.updated += other.updated
	t.deleted += other.deleted
}

func (s *service) Run(ctx context.Context, configID int64, kind string) (*domain.SyncRun, error) {
	log := logger.FromContext(ctx)

	cfg, err := s.repo.GetConfig(ctx, configID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToLoadConfig, err)
	}
	if cfg.OwnerAccessToken == "" {
		return nil, domain.ErrCredentialMissing
	}

	// The run record is flushed before any remote call so a crash
	// mid-run leaves a running row as evidence.
	run := &domain.SyncRun{ConfigID: configID, Kind: kind}
	if err := s.repo.CreateSyncRun(ctx, run); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToRecordRun, err)
	}

	log.Info(LogMsgRunStarted, "config_id", configID, "run_id", run.ID, "kind", kind, "viewers", len(cfg.Viewers))
	started := s.now()

	var totals viewerTotals
	var viewerErrs []string

	client := s.clients(cfg.OwnerAccessToken)

	for i := range cfg.Viewers {
		viewer := &cfg.Viewers[i]

		if err := s.syncViewer(ctx, client, cfg, viewer, &totals); err != nil {
			log.Error(LogMsgViewerSkipped, "config_id", configID, "viewer", viewer.Email, "error", err)
			viewerErrs = append(viewerErrs, fmt.Sprintf("%s: %v", viewer.Email, err))
		}
	}

	run.RowsCreated = totals.created
	run.RowsUpdated = totals.updated
	run.RowsDeleted = totals.deleted
	run.Status = domain.RunStatusSuccess
	if len(cfg.Viewers) > 0 && len(viewerErrs) == len(cfg.Viewers) {
		// Nothing synced at all; surface the run as failed.
		run.Status = domain.RunStatusError
	}
	run.ErrorMessage = strings.Join(viewerErrs, "; ")

	if err := s.repo.CompleteSyncRun(ctx, *run); err != nil {
		log.Error(ErrMsgFailedToCompleteRun, "run_id", run.ID, "error", err)
		return nil, err
	}
	if run.Status == domain.RunStatusSuccess {
		if err := s.repo.UpdateLastSyncAt(ctx, configID, s.now()); err != nil {
			log.Error(ErrMsgFailedToUpdateLastSync, "config_id", configID, "error", err)
		}
	}

	duration := s.now().Sub(started)
	metrics.RecordSyncRun(kind, run.Status, duration)
	metrics.RecordRowsSynced(totals.created, totals.updated, totals.deleted)

	if run.Status == domain.RunStatusError {
		log.Error(LogMsgRunFailed, "config_id", configID, "run_id", run.ID, "error", run.ErrorMessage)
	} else {
		log.Info(LogMsgRunCompleted,
			"config_id", configID,
			"run_id", run.ID,
			"rows_created", run.RowsCreated,
			"rows_updated", run.RowsUpdated,
			"rows_deleted", run.RowsDeleted,
			"duration_ms", duration.Milliseconds())
	}

	return run, nil
}

// syncViewer runs the full per-viewer pipeline: provision, forward sync,
// reverse sync, share. Row-level failures inside the passes are logged and
// counted without failing the viewer; a provisioning or whole-query failure
// fails this viewer only.
func (s *service) syncViewer(ctx context.Context, client notion.Client, cfg *domain.Config, viewer *domain.ViewerPermission, totals *viewerTotals) error {
	if err := s.provisionViewer(ctx, client, cfg, viewer); err != nil {
		return err
	}

	forward, err := s.forwardSync(ctx, client, cfg, viewer)
	if err != nil {
		return err
	}
	totals.add(forward)

	if viewer.CanWrite() {
		updated, err := s.reverseSync(ctx, client, cfg, viewer)
		if err != nil {
			return err
		}
		totals.updated += updated
	}

	s.ensureShared(ctx, client, viewer)
	return nil
}

func (s *service) Status(ctx context.Context, configID int64) (*SyncStatus, error) {
	cfg, err := s.repo.GetConfig(ctx, configID)
	if err != nil {
		return nil, err
	}
	latest, err := s.repo.LatestSyncRun(ctx, configID)
	if err != nil {
		return nil, err
	}
	return &SyncStatus{
		ConfigID:    configID,
		SyncEnabled: cfg.SyncEnabled,
		LastSyncAt:  cfg.LastSyncAt,
		LatestRun:   latest,
	}, nil
}

func (s *service) Runs(ctx context.Context, configID int64, limit int) ([]domain.SyncRun, error) {
	if limit <= 0 {
		limit = DefaultRunsLimit
	}
	if _, err := s.repo.GetConfig(ctx, configID); err != nil {
		return nil, err
	}
	return s.repo.ListSyncRuns(ctx, configID, limit)
}

func (s *service) SetEnabled(ctx context.Context, configID int64, enabled bool) error {
	log := logger.FromContext(ctx)
	log.Info("Sync enablement changed", "config_id", configID, "enabled", enabled)
	return s.repo.SetSyncEnabled(ctx, configID, enabled)
}
