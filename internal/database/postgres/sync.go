package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/calderw/mirrorsync/internal/domain"
	"github.com/calderw/mirrorsync/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type syncRepository struct {
	db *pgxpool.Pool
}

// NewSyncRepository creates a new PostgreSQL sync repository
func NewSyncRepository(db *pgxpool.Pool) repository.Sync {
	return &syncRepository{db: db}
}

// GetConfig loads one config and all of its children in a handful of
// queries. The result is a snapshot; later writes do not mutate it.
func (r *syncRepository) GetConfig(ctx context.Context, configID int64) (*domain.Config, error) {
	query := `
		SELECT c.id, c.owner_user_id, c.source_database_id, c.parent_page_id,
		       c.target_page_id, c.target_database_id, c.config_name,
		       c.sync_enabled, c.sync_interval_minutes, c.last_sync_at,
		       c.created_at, COALESCE(u.notion_access_token, '')
		FROM database_configs c
		JOIN users u ON u.id = c.owner_user_id
		WHERE c.id = $1
	`

	var cfg domain.Config
	err := r.db.QueryRow(ctx, query, configID).Scan(
		&cfg.ID,
		&cfg.OwnerUserID,
		&cfg.SourceDatabaseID,
		&cfg.ParentPageID,
		&cfg.TargetPageID,
		&cfg.TargetDatabaseID,
		&cfg.Name,
		&cfg.SyncEnabled,
		&cfg.SyncIntervalMinutes,
		&cfg.LastSyncAt,
		&cfg.CreatedAt,
		&cfg.OwnerAccessToken,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrConfigNotFound
		}
		return nil, fmt.Errorf("failed to load config %d: %w", configID, err)
	}

	if cfg.PropertyMappings, err = r.propertyMappings(ctx, configID); err != nil {
		return nil, err
	}
	if cfg.RowFilters, err = r.rowFilters(ctx, configID); err != nil {
		return nil, err
	}
	if cfg.Viewers, err = r.viewers(ctx, configID); err != nil {
		return nil, err
	}
	if cfg.PageMappings, err = r.pageMappings(ctx, configID); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (r *syncRepository) propertyMappings(ctx context.Context, configID int64) ([]domain.PropertyMapping, error) {
	query := `
		SELECT id, config_id, property_name, property_type, is_visible, is_writable, created_at
		FROM property_mappings
		WHERE config_id = $1
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query, configID)
	if err != nil {
		return nil, fmt.Errorf("failed to load property mappings: %w", err)
	}
	defer rows.Close()

	var mappings []domain.PropertyMapping
	for rows.Next() {
		var pm domain.PropertyMapping
		if err := rows.Scan(&pm.ID, &pm.ConfigID, &pm.PropertyName, &pm.PropertyType, &pm.Visible, &pm.Writable, &pm.CreatedAt); err != nil {
			return nil, err
		}
		mappings = append(mappings, pm)
	}
	return mappings, rows.Err()
}

func (r *syncRepository) rowFilters(ctx context.Context, configID int64) ([]domain.RowFilter, error) {
	query := `
		SELECT id, config_id, filter_kind, property_name, property_type, operator, value, formula, created_at
		FROM row_filters
		WHERE config_id = $1
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query, configID)
	if err != nil {
		return nil, fmt.Errorf("failed to load row filters: %w", err)
	}
	defer rows.Close()

	var filters []domain.RowFilter
	for rows.Next() {
		var rf domain.RowFilter
		if err := rows.Scan(&rf.ID, &rf.ConfigID, &rf.FilterKind, &rf.PropertyName, &rf.PropertyType, &rf.Operator, &rf.Value, &rf.Formula, &rf.CreatedAt); err != nil {
			return nil, err
		}
		filters = append(filters, rf)
	}
	return filters, rows.Err()
}

func (r *syncRepository) viewers(ctx context.Context, configID int64) ([]domain.ViewerPermission, error) {
	query := `
		SELECT id, config_id, viewer_email, access_level, page_id, target_database_id, notified, created_at
		FROM viewer_permissions
		WHERE config_id = $1
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query, configID)
	if err != nil {
		return nil, fmt.Errorf("failed to load viewer permissions: %w", err)
	}
	defer rows.Close()

	var viewers []domain.ViewerPermission
	byID := make(map[int64]int)
	for rows.Next() {
		var v domain.ViewerPermission
		if err := rows.Scan(&v.ID, &v.ConfigID, &v.Email, &v.AccessLevel, &v.PageID, &v.TargetDatabaseID, &v.Notified, &v.CreatedAt); err != nil {
			return nil, err
		}
		byID[v.ID] = len(viewers)
		viewers = append(viewers, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(viewers) == 0 {
		return nil, nil
	}

	selectionQuery := `
		SELECT vprf.viewer_permission_id, vprf.row_filter_id
		FROM viewer_permission_row_filters vprf
		JOIN viewer_permissions vp ON vp.id = vprf.viewer_permission_id
		WHERE vp.config_id = $1
		ORDER BY vprf.row_filter_id
	`

	selRows, err := r.db.Query(ctx, selectionQuery, configID)
	if err != nil {
		return nil, fmt.Errorf("failed to load viewer filter selections: %w", err)
	}
	defer selRows.Close()

	for selRows.Next() {
		var viewerID, filterID int64
		if err := selRows.Scan(&viewerID, &filterID); err != nil {
			return nil, err
		}
		if idx, ok := byID[viewerID]; ok {
			viewers[idx].RowFilterIDs = append(viewers[idx].RowFilterIDs, filterID)
		}
	}
	return viewers, selRows.Err()
}

func (r *syncRepository) pageMappings(ctx context.Context, configID int64) ([]domain.PageMapping, error) {
	query := `
		SELECT id, config_id, source_page_id, target_page_id, target_database_id, last_synced_at
		FROM page_mappings
		WHERE config_id = $1
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query, configID)
	if err != nil {
		return nil, fmt.Errorf("failed to load page mappings: %w", err)
	}
	defer rows.Close()

	var mappings []domain.PageMapping
	for rows.Next() {
		var pm domain.PageMapping
		if err := rows.Scan(&pm.ID, &pm.ConfigID, &pm.SourcePageID, &pm.TargetPageID, &pm.TargetDatabaseID, &pm.LastSyncedAt); err != nil {
			return nil, err
		}
		mappings = append(mappings, pm)
	}
	return mappings, rows.Err()
}

// ListDueConfigIDs returns enabled configs whose interval has elapsed since
// their last completed sync. Never-synced configs are always due.
func (r *syncRepository) ListDueConfigIDs(ctx context.Context, now time.Time) ([]int64, error) {
	query := `
		SELECT id
		FROM database_configs
		WHERE sync_enabled = TRUE
		  AND (last_sync_at IS NULL
		       OR last_sync_at + sync_interval_minutes * INTERVAL '1 minute' <= $1)
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list due configs: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *syncRepository) SetSyncEnabled(ctx context.Context, configID int64, enabled bool) error {
	query := `UPDATE database_configs SET sync_enabled = $2 WHERE id = $1`

	result, err := r.db.Exec(ctx, query, configID, enabled)
	if err != nil {
		return fmt.Errorf("failed to set sync_enabled: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrConfigNotFound
	}
	return nil
}

func (r *syncRepository) UpdateLastSyncAt(ctx context.Context, configID int64, at time.Time) error {
	query := `UPDATE database_configs SET last_sync_at = $2 WHERE id = $1`

	_, err := r.db.Exec(ctx, query, configID, at)
	if err != nil {
		return fmt.Errorf("failed to update last_sync_at: %w", err)
	}
	return nil
}

// UpsertPageMapping inserts or refreshes the row identity for one
// (config, mirror, source page) triple.
func (r *syncRepository) UpsertPageMapping(ctx context.Context, mapping domain.PageMapping) error {
	query := `
		INSERT INTO page_mappings (config_id, source_page_id, target_page_id, target_database_id, last_synced_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (config_id, target_database_id, source_page_id)
		DO UPDATE SET target_page_id = EXCLUDED.target_page_id,
		              last_synced_at = EXCLUDED.last_synced_at
	`

	_, err := r.db.Exec(ctx, query, mapping.ConfigID, mapping.SourcePageID, mapping.TargetPageID, mapping.TargetDatabaseID, mapping.LastSyncedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert page mapping: %w", err)
	}
	return nil
}

func (r *syncRepository) TouchPageMapping(ctx context.Context, configID int64, targetDatabaseID, sourcePageID string, at time.Time) error {
	query := `
		UPDATE page_mappings
		SET last_synced_at = $4
		WHERE config_id = $1 AND target_database_id = $2 AND source_page_id = $3
	`

	_, err := r.db.Exec(ctx, query, configID, targetDatabaseID, sourcePageID, at)
	if err != nil {
		return fmt.Errorf("failed to touch page mapping: %w", err)
	}
	return nil
}

func (r *syncRepository) DeletePageMapping(ctx context.Context, configID int64, targetDatabaseID, sourcePageID string) error {
	query := `
		DELETE FROM page_mappings
		WHERE config_id = $1 AND target_database_id = $2 AND source_page_id = $3
	`

	_, err := r.db.Exec(ctx, query, configID, targetDatabaseID, sourcePageID)
	if err != nil {
		return fmt.Errorf("failed to delete page mapping: %w", err)
	}
	return nil
}

func (r *syncRepository) SetViewerPage(ctx context.Context, viewerID int64, pageID string) error {
	query := `UPDATE viewer_permissions SET page_id = $2 WHERE id = $1`

	_, err := r.db.Exec(ctx, query, viewerID, pageID)
	if err != nil {
		return fmt.Errorf("failed to set viewer page: %w", err)
	}
	return nil
}

func (r *syncRepository) SetViewerTargetDatabase(ctx context.Context, viewerID int64, databaseID string) error {
	query := `UPDATE viewer_permissions SET target_database_id = $2 WHERE id = $1`

	_, err := r.db.Exec(ctx, query, viewerID, databaseID)
	if err != nil {
		return fmt.Errorf("failed to set viewer target database: %w", err)
	}
	return nil
}

func (r *syncRepository) MarkViewerNotified(ctx context.Context, viewerID int64) error {
	query := `UPDATE viewer_permissions SET notified = TRUE WHERE id = $1`

	_, err := r.db.Exec(ctx, query, viewerID)
	if err != nil {
		return fmt.Errorf("failed to mark viewer notified: %w", err)
	}
	return nil
}

// CreateSyncRun inserts the run in running state and fills in its id and
// start time.
func (r *syncRepository) CreateSyncRun(ctx context.Context, run *domain.SyncRun) error {
	query := `
		INSERT INTO sync_runs (config_id, sync_type, status)
		VALUES ($1, $2, $3)
		RETURNING id, started_at
	`

	err := r.db.QueryRow(ctx, query, run.ConfigID, run.Kind, domain.RunStatusRunning).Scan(&run.ID, &run.StartedAt)
	if err != nil {
		return fmt.Errorf("failed to create sync run: %w", err)
	}
	run.Status = domain.RunStatusRunning
	return nil
}

// CompleteSyncRun writes the terminal status and counters for a run.
func (r *syncRepository) CompleteSyncRun(ctx context.Context, run domain.SyncRun) error {
	query := `
		UPDATE sync_runs
		SET status = $2, rows_created = $3, rows_updated = $4, rows_deleted = $5,
		    error_message = NULLIF($6, ''), completed_at = NOW()
		WHERE id = $1
	`

	_, err := r.db.Exec(ctx, query, run.ID, run.Status, run.RowsCreated, run.RowsUpdated, run.RowsDeleted, run.ErrorMessage)
	if err != nil {
		return fmt.Errorf("failed to complete sync run: %w", err)
	}
	return nil
}

func (r *syncRepository) ListSyncRuns(ctx context.Context, configID int64, limit int) ([]domain.SyncRun, error) {
	query := `
		SELECT id, config_id, sync_type, status, rows_created, rows_updated, rows_deleted,
		       COALESCE(error_message, ''), started_at, completed_at
		FROM sync_runs
		WHERE config_id = $1
		ORDER BY started_at DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, configID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sync runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.SyncRun
	for rows.Next() {
		var run domain.SyncRun
		if err := rows.Scan(&run.ID, &run.ConfigID, &run.Kind, &run.Status, &run.RowsCreated, &run.RowsUpdated, &run.RowsDeleted, &run.ErrorMessage, &run.StartedAt, &run.CompletedAt); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (r *syncRepository) LatestSyncRun(ctx context.Context, configID int64) (*domain.SyncRun, error) {
	runs, err := r.ListSyncRuns(ctx, configID, 1)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return &runs[0], nil
}
