package sync

import (
	"context"
	"fmt"

	"github.com/calderw/mirrorsync/internal/domain"
	"github.com/calderw/mirrorsync/internal/logger"
	"github.com/calderw/mirrorsync/internal/notion"
)

// forwardSync propagates source rows into one viewer's mirror database.
//
// Rows matching the viewer's filter are created or updated in the mirror;
// mirror rows whose source no longer matches are archived and their mapping
// dropped, so re-matching later creates a fresh mirror row. Row-level
// failures are logged and skipped; only a source query failure aborts the
// pass.
func (s *service) forwardSync(ctx context.Context, client notion.Client, cfg *domain.Config, viewer *domain.ViewerPermission) (viewerTotals, error) {
	log := logger.FromContext(ctx)

	var totals viewerTotals

	filter := CompileFilter(cfg.EffectiveFilters(viewer))
	rows, err := client.QueryDatabase(ctx, cfg.SourceDatabaseID, filter)
	if err != nil {
		return totals, fmt.Errorf("%s: %w", ErrMsgFailedToQuerySource, err)
	}

	mappings := cfg.MappingsForTarget(viewer.TargetDatabaseID)

	matched := make(map[string]bool, len(rows))
	for _, row := range rows {
		matched[row.ID] = true

		props := ProjectVisible(row.Properties, cfg.PropertyMappings)

		if mapping, ok := mappings[row.ID]; ok {
			if err := client.UpdatePage(ctx, mapping.TargetPageID, props); err != nil {
				log.Error(LogMsgRowUpdateFailed, "source_page_id", row.ID, "target_page_id", mapping.TargetPageID, "error", err)
				continue
			}
			totals.updated++

			if err := s.repo.TouchPageMapping(ctx, cfg.ID, viewer.TargetDatabaseID, row.ID, s.now()); err != nil {
				log.Error("Failed to refresh page mapping", "source_page_id", row.ID, "error", err)
			}
			continue
		}

		targetID, err := client.CreatePage(ctx, viewer.TargetDatabaseID, props)
		if err != nil {
			log.Error(LogMsgRowCreateFailed, "source_page_id", row.ID, "error", err)
			continue
		}
		totals.created++

		err = s.repo.UpsertPageMapping(ctx, domain.PageMapping{
			ConfigID:         cfg.ID,
			SourcePageID:     row.ID,
			TargetPageID:     targetID,
			TargetDatabaseID: viewer.TargetDatabaseID,
			LastSyncedAt:     s.now(),
		})
		if err != nil {
			log.Error("Failed to record page mapping", "source_page_id", row.ID, "target_page_id", targetID, "error", err)
		}
	}

	for sourceID, mapping := range mappings {
		if matched[sourceID] {
			continue
		}

		if err := client.ArchivePage(ctx, mapping.TargetPageID); err != nil {
			log.Error(LogMsgRowArchiveFailed, "target_page_id", mapping.TargetPageID, "error", err)
			continue
		}
		if err := s.repo.DeletePageMapping(ctx, cfg.ID, viewer.TargetDatabaseID, sourceID); err != nil {
			log.Error("Failed to delete page mapping", "source_page_id", sourceID, "error", err)
			continue
		}
		totals.deleted++
	}

	return totals, nil
}
