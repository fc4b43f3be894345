package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/calderw/mirrorsync/internal/database"
	"github.com/calderw/mirrorsync/internal/database/schema"
	"github.com/calderw/mirrorsync/internal/domain"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestSyncRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	var pgContainer *postgres.PostgresContainer
	var err error

	func() {
		defer func() {
			if r := recover(); r != nil {
				t.Skipf("Skipping integration test due to panic (likely Docker issue): %v", r)
			}
		}()
		pgContainer, err = postgres.Run(ctx,
			"postgres:15-alpine",
			postgres.WithDatabase("testdb"),
			postgres.WithUsername("testuser"),
			postgres.WithPassword("testpass"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(5*time.Second)),
		)
	}()

	if pgContainer == nil {
		if err != nil {
			t.Fatalf("failed to start postgres container: %v", err)
		}
		return
	}
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}
	defer func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Fatalf("failed to terminate container: %v", err)
		}
	}()

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	pool, err := database.NewPool(connStr, 5, 5*time.Minute, 30*time.Minute)
	if err != nil {
		t.Fatalf("failed to connect to database: %v", err)
	}
	defer pool.Close()

	if _, err := pool.Exec(ctx, schema.SchemaSQL); err != nil {
		t.Fatalf("failed to apply schema: %v", err)
	}

	repo := NewSyncRepository(pool)

	// Seed an owner, a config with children, and two viewers.
	var ownerID int64
	err = pool.QueryRow(ctx,
		`INSERT INTO users (email, notion_access_token) VALUES ($1, $2) RETURNING id`,
		"owner@example.com", "secret-token").Scan(&ownerID)
	if err != nil {
		t.Fatalf("failed to seed owner: %v", err)
	}

	var configID int64
	err = pool.QueryRow(ctx,
		`INSERT INTO database_configs (owner_user_id, source_database_id, parent_page_id, config_name, sync_interval_minutes)
		 VALUES ($1, 'src-db', 'parent-page', 'Project Tracker', 30) RETURNING id`,
		ownerID).Scan(&configID)
	if err != nil {
		t.Fatalf("failed to seed config: %v", err)
	}

	var filterID int64
	err = pool.QueryRow(ctx,
		`INSERT INTO row_filters (config_id, filter_kind, property_name, property_type, operator, value)
		 VALUES ($1, 'property_match', 'Status', 'select', 'equals', 'Active') RETURNING id`,
		configID).Scan(&filterID)
	if err != nil {
		t.Fatalf("failed to seed row filter: %v", err)
	}

	_, err = pool.Exec(ctx,
		`INSERT INTO property_mappings (config_id, property_name, property_type, is_visible, is_writable)
		 VALUES ($1, 'Status', 'select', TRUE, TRUE), ($1, 'Budget', 'number', FALSE, FALSE)`,
		configID)
	if err != nil {
		t.Fatalf("failed to seed property mappings: %v", err)
	}

	var readerID, writerID int64
	err = pool.QueryRow(ctx,
		`INSERT INTO viewer_permissions (config_id, viewer_email, access_level)
		 VALUES ($1, 'reader@example.com', 'read') RETURNING id`, configID).Scan(&readerID)
	if err != nil {
		t.Fatalf("failed to seed reader: %v", err)
	}
	err = pool.QueryRow(ctx,
		`INSERT INTO viewer_permissions (config_id, viewer_email, access_level)
		 VALUES ($1, 'writer@example.com', 'write') RETURNING id`, configID).Scan(&writerID)
	if err != nil {
		t.Fatalf("failed to seed writer: %v", err)
	}
	_, err = pool.Exec(ctx,
		`INSERT INTO viewer_permission_row_filters (viewer_permission_id, row_filter_id) VALUES ($1, $2)`,
		writerID, filterID)
	if err != nil {
		t.Fatalf("failed to seed viewer filter selection: %v", err)
	}

	t.Run("GetConfig", func(t *testing.T) {
		cfg, err := repo.GetConfig(ctx, configID)
		if err != nil {
			t.Fatalf("GetConfig failed: %v", err)
		}

		if cfg.Name != "Project Tracker" {
			t.Errorf("expected config name Project Tracker, got %s", cfg.Name)
		}
		if cfg.OwnerAccessToken != "secret-token" {
			t.Error("expected owner access token to be loaded")
		}
		if len(cfg.PropertyMappings) != 2 {
			t.Fatalf("expected 2 property mappings, got %d", len(cfg.PropertyMappings))
		}
		if len(cfg.RowFilters) != 1 {
			t.Fatalf("expected 1 row filter, got %d", len(cfg.RowFilters))
		}
		if len(cfg.Viewers) != 2 {
			t.Fatalf("expected 2 viewers, got %d", len(cfg.Viewers))
		}

		// The writer selected the filter, the reader did not.
		for _, v := range cfg.Viewers {
			switch v.Email {
			case "reader@example.com":
				if len(v.RowFilterIDs) != 0 {
					t.Errorf("expected reader to have no filter selection, got %v", v.RowFilterIDs)
				}
			case "writer@example.com":
				if len(v.RowFilterIDs) != 1 || v.RowFilterIDs[0] != filterID {
					t.Errorf("expected writer selection [%d], got %v", filterID, v.RowFilterIDs)
				}
			}
		}
	})

	t.Run("GetConfig not found", func(t *testing.T) {
		_, err := repo.GetConfig(ctx, 999999)
		if err != domain.ErrConfigNotFound {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("Viewer provisioning writebacks", func(t *testing.T) {
		if err := repo.SetViewerPage(ctx, readerID, "page-abc"); err != nil {
			t.Fatalf("SetViewerPage failed: %v", err)
		}
		if err := repo.SetViewerTargetDatabase(ctx, readerID, "mirror-db"); err != nil {
			t.Fatalf("SetViewerTargetDatabase failed: %v", err)
		}
		if err := repo.MarkViewerNotified(ctx, readerID); err != nil {
			t.Fatalf("MarkViewerNotified failed: %v", err)
		}

		cfg, err := repo.GetConfig(ctx, configID)
		if err != nil {
			t.Fatalf("GetConfig failed: %v", err)
		}
		for _, v := range cfg.Viewers {
			if v.ID != readerID {
				continue
			}
			if v.PageID != "page-abc" || v.TargetDatabaseID != "mirror-db" || !v.Notified {
				t.Errorf("expected provisioned notified viewer, got %+v", v)
			}
			if !v.Provisioned() {
				t.Error("expected Provisioned() to be true")
			}
		}
	})

	t.Run("Page mapping lifecycle", func(t *testing.T) {
		mapping := domain.PageMapping{
			ConfigID:         configID,
			SourcePageID:     "src-page-1",
			TargetPageID:     "tgt-page-1",
			TargetDatabaseID: "mirror-db",
			LastSyncedAt:     time.Now().UTC(),
		}
		if err := repo.UpsertPageMapping(ctx, mapping); err != nil {
			t.Fatalf("UpsertPageMapping failed: %v", err)
		}

		// Upsert again with a new target page id; must not duplicate.
		mapping.TargetPageID = "tgt-page-1b"
		if err := repo.UpsertPageMapping(ctx, mapping); err != nil {
			t.Fatalf("second UpsertPageMapping failed: %v", err)
		}

		cfg, err := repo.GetConfig(ctx, configID)
		if err != nil {
			t.Fatalf("GetConfig failed: %v", err)
		}
		if len(cfg.PageMappings) != 1 {
			t.Fatalf("expected 1 page mapping, got %d", len(cfg.PageMappings))
		}
		if cfg.PageMappings[0].TargetPageID != "tgt-page-1b" {
			t.Errorf("expected updated target page id, got %s", cfg.PageMappings[0].TargetPageID)
		}

		if err := repo.TouchPageMapping(ctx, configID, "mirror-db", "src-page-1", time.Now().UTC()); err != nil {
			t.Fatalf("TouchPageMapping failed: %v", err)
		}

		if err := repo.DeletePageMapping(ctx, configID, "mirror-db", "src-page-1"); err != nil {
			t.Fatalf("DeletePageMapping failed: %v", err)
		}
		cfg, err = repo.GetConfig(ctx, configID)
		if err != nil {
			t.Fatalf("GetConfig failed: %v", err)
		}
		if len(cfg.PageMappings) != 0 {
			t.Errorf("expected no page mappings after delete, got %d", len(cfg.PageMappings))
		}
	})

	t.Run("Sync run lifecycle", func(t *testing.T) {
		run := &domain.SyncRun{ConfigID: configID, Kind: domain.RunKindManual}
		if err := repo.CreateSyncRun(ctx, run); err != nil {
			t.Fatalf("CreateSyncRun failed: %v", err)
		}
		if run.ID == 0 {
			t.Fatal("expected run id to be set")
		}
		if run.Status != domain.RunStatusRunning {
			t.Errorf("expected running status, got %s", run.Status)
		}

		latest, err := repo.LatestSyncRun(ctx, configID)
		if err != nil {
			t.Fatalf("LatestSyncRun failed: %v", err)
		}
		if latest == nil || latest.ID != run.ID {
			t.Fatalf("expected latest run %d, got %+v", run.ID, latest)
		}

		run.Status = domain.RunStatusSuccess
		run.RowsCreated = 3
		run.RowsUpdated = 2
		run.RowsDeleted = 1
		if err := repo.CompleteSyncRun(ctx, *run); err != nil {
			t.Fatalf("CompleteSyncRun failed: %v", err)
		}

		runs, err := repo.ListSyncRuns(ctx, configID, 10)
		if err != nil {
			t.Fatalf("ListSyncRuns failed: %v", err)
		}
		if len(runs) != 1 {
			t.Fatalf("expected 1 run, got %d", len(runs))
		}
		got := runs[0]
		if got.Status != domain.RunStatusSuccess || got.RowsCreated != 3 || got.RowsUpdated != 2 || got.RowsDeleted != 1 {
			t.Errorf("unexpected completed run: %+v", got)
		}
		if got.CompletedAt == nil {
			t.Error("expected completed_at to be set")
		}
		if !got.Terminal() {
			t.Error("expected run to be terminal")
		}
	})

	t.Run("Due configs", func(t *testing.T) {
		now := time.Now().UTC()

		// Never synced: due.
		ids, err := repo.ListDueConfigIDs(ctx, now)
		if err != nil {
			t.Fatalf("ListDueConfigIDs failed: %v", err)
		}
		if !containsID(ids, configID) {
			t.Errorf("expected config %d to be due, got %v", configID, ids)
		}

		// Just synced: not due within the interval.
		if err := repo.UpdateLastSyncAt(ctx, configID, now); err != nil {
			t.Fatalf("UpdateLastSyncAt failed: %v", err)
		}
		ids, err = repo.ListDueConfigIDs(ctx, now)
		if err != nil {
			t.Fatalf("ListDueConfigIDs failed: %v", err)
		}
		if containsID(ids, configID) {
			t.Errorf("expected config %d not due right after sync, got %v", configID, ids)
		}

		// Interval elapsed: due again.
		ids, err = repo.ListDueConfigIDs(ctx, now.Add(31*time.Minute))
		if err != nil {
			t.Fatalf("ListDueConfigIDs failed: %v", err)
		}
		if !containsID(ids, configID) {
			t.Errorf("expected config %d due after interval, got %v", configID, ids)
		}

		// Disabled: never due.
		if err := repo.SetSyncEnabled(ctx, configID, false); err != nil {
			t.Fatalf("SetSyncEnabled failed: %v", err)
		}
		ids, err = repo.ListDueConfigIDs(ctx, now.Add(31*time.Minute))
		if err != nil {
			t.Fatalf("ListDueConfigIDs failed: %v", err)
		}
		if containsID(ids, configID) {
			t.Errorf("expected disabled config %d not due, got %v", configID, ids)
		}

		if err := repo.SetSyncEnabled(ctx, configID, true); err != nil {
			t.Fatalf("SetSyncEnabled failed: %v", err)
		}
	})

	t.Run("SetSyncEnabled not found", func(t *testing.T) {
		err := repo.SetSyncEnabled(ctx, 999999, true)
		if err != domain.ErrConfigNotFound {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
