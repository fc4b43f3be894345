package repository

import (
	"context"
	"time"

	"github.com/calderw/mirrorsync/internal/domain"
)

// Sync defines the interface for sync configuration and run persistence
type Sync interface {
	// GetConfig loads a config snapshot with its property mappings, row
	// filters, viewers (with their filter selections), page mappings and
	// the owner's API credential.
	GetConfig(ctx context.Context, configID int64) (*domain.Config, error)
	ListDueConfigIDs(ctx context.Context, now time.Time) ([]int64, error)
	SetSyncEnabled(ctx context.Context, configID int64, enabled bool) error
	UpdateLastSyncAt(ctx context.Context, configID int64, at time.Time) error

	UpsertPageMapping(ctx context.Context, mapping domain.PageMapping) error
	TouchPageMapping(ctx context.Context, configID int64, targetDatabaseID, sourcePageID string, at time.Time) error
	DeletePageMapping(ctx context.Context, configID int64, targetDatabaseID, sourcePageID string) error

	// Provisioning writebacks. Each field is persisted as soon as the
	// remote object exists so a crash never loses a created id.
	SetViewerPage(ctx context.Context, viewerID int64, pageID string) error
	SetViewerTargetDatabase(ctx context.Context, viewerID int64, databaseID string) error
	MarkViewerNotified(ctx context.Context, viewerID int64) error

	CreateSyncRun(ctx context.Context, run *domain.SyncRun) error
	CompleteSyncRun(ctx context.Context, run domain.SyncRun) error
	ListSyncRuns(ctx context.Context, configID int64, limit int) ([]domain.SyncRun, error)
	LatestSyncRun(ctx context.Context, configID int64) (*domain.SyncRun, error)
}
