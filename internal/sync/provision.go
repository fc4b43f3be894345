package sync

import (
	"context"
	"fmt"

	"github.com/calderw/mirrorsync/internal/domain"
	"github.com/calderw/mirrorsync/internal/logger"
	"github.com/calderw/mirrorsync/internal/naming"
	"github.com/calderw/mirrorsync/internal/notion"
)

// provisionViewer ensures the viewer's subpage and mirror database exist.
// The two checks are independent: a viewer left half-provisioned by an
// earlier failure gets the missing piece on the next run. Each created id
// is persisted immediately, never batched, so a later crash cannot orphan
// a remote object.
func (s *service) provisionViewer(ctx context.Context, client notion.Client, cfg *domain.Config, viewer *domain.ViewerPermission) error {
	if viewer.PageID == "" {
		title := naming.SharedPageTitle(cfg.Name, viewer.Email)
		pageID, err := client.CreatePageInParent(ctx, cfg.ParentPageID, title)
		if err != nil {
			return fmt.Errorf("%s: %w: %w", ErrMsgFailedToCreateSubpage, domain.ErrProvisioningFailed, err)
		}
		if err := s.repo.SetViewerPage(ctx, viewer.ID, pageID); err != nil {
			return fmt.Errorf("%s: %w", ErrMsgFailedToPersistViewer, err)
		}
		viewer.PageID = pageID
	}

	if viewer.TargetDatabaseID == "" {
		schema, err := client.GetDatabaseSchema(ctx, cfg.SourceDatabaseID)
		if err != nil {
			return fmt.Errorf("%s: %w: %w", ErrMsgFailedToCreateMirror, domain.ErrProvisioningFailed, err)
		}

		properties, err := MirrorSchemaProperties(schema, cfg.PropertyMappings)
		if err != nil {
			return fmt.Errorf("%s: %w: %w", ErrMsgFailedToCreateMirror, domain.ErrProvisioningFailed, err)
		}

		title := naming.MirrorDatabaseTitle(schema.Title, notion.UntitledFallback)
		databaseID, err := client.CreateDatabase(ctx, viewer.PageID, title, properties)
		if err != nil {
			return fmt.Errorf("%s: %w: %w", ErrMsgFailedToCreateMirror, domain.ErrProvisioningFailed, err)
		}
		if err := s.repo.SetViewerTargetDatabase(ctx, viewer.ID, databaseID); err != nil {
			return fmt.Errorf("%s: %w", ErrMsgFailedToPersistViewer, err)
		}
		viewer.TargetDatabaseID = databaseID
	}

	return nil
}

// ensureShared shares the viewer's subpage with their email once. Sharing
// failures never fail the run; the attempt repeats next run until it
// succeeds.
func (s *service) ensureShared(ctx context.Context, client notion.Client, viewer *domain.ViewerPermission) {
	if viewer.Notified {
		return
	}

	log := logger.FromContext(ctx)

	if err := client.SharePage(ctx, viewer.PageID, viewer.Email); err != nil {
		log.Error(LogMsgSharingFailed, "viewer", viewer.Email, "page_id", viewer.PageID, "error", err)
		return
	}
	if err := s.repo.MarkViewerNotified(ctx, viewer.ID); err != nil {
		log.Error(LogMsgSharingFailed, "viewer", viewer.Email, "error", err)
		return
	}
	viewer.Notified = true
}
