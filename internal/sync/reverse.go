package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/calderw/mirrorsync/internal/domain"
	"github.com/calderw/mirrorsync/internal/logger"
	"github.com/calderw/mirrorsync/internal/notion"
)

// reverseSync pushes a writer's mirror edits back to the source.
//
// Only properties explicitly marked writable are considered, and only
// values that actually differ from the source are pushed. Mirror rows
// without a mapping (added by hand in the mirror) are ignored. Returns the
// number of source rows updated.
func (s *service) reverseSync(ctx context.Context, client notion.Client, cfg *domain.Config, viewer *domain.ViewerPermission) (int, error) {
	writable := WritableNames(cfg.PropertyMappings)
	if len(writable) == 0 {
		return 0, nil
	}

	log := logger.FromContext(ctx)

	// Unfiltered: the writer may edit any row in their mirror.
	mirrorRows, err := client.QueryDatabase(ctx, viewer.TargetDatabaseID, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToQueryMirror, err)
	}

	targetToSource := make(map[string]string)
	for _, pm := range cfg.PageMappings {
		if pm.TargetDatabaseID == viewer.TargetDatabaseID {
			targetToSource[pm.TargetPageID] = pm.SourcePageID
		}
	}

	updated := 0
	for _, mirrorRow := range mirrorRows {
		sourceID, ok := targetToSource[mirrorRow.ID]
		if !ok {
			continue
		}

		sourceRow, err := client.GetPage(ctx, sourceID)
		if err != nil {
			log.Error(LogMsgReverseRowFailed, "source_page_id", sourceID, "error", err)
			continue
		}

		changes := changedWritable(mirrorRow.Properties, sourceRow.Properties, writable)
		if len(changes) == 0 {
			continue
		}

		if err := client.UpdatePage(ctx, sourceID, changes); err != nil {
			log.Error(LogMsgReverseRowFailed, "source_page_id", sourceID, "error", err)
			continue
		}
		updated++
	}

	return updated, nil
}

// changedWritable returns the writable properties whose mirror value
// differs from the source value. Values are compared structurally so
// formatting differences in the raw JSON do not register as edits.
func changedWritable(mirror, source map[string]json.RawMessage, writable map[string]bool) map[string]json.RawMessage {
	changes := make(map[string]json.RawMessage)
	for name := range writable {
		mirrorValue, ok := mirror[name]
		if !ok {
			continue
		}
		if !jsonEqual(mirrorValue, source[name]) {
			changes[name] = mirrorValue
		}
	}
	return changes
}

func jsonEqual(a, b json.RawMessage) bool {
	if b == nil {
		return false
	}
	if bytes.Equal(a, b) {
		return true
	}
	var av, bv interface{}
	if err := json.Unmarshal(a, &av); err != nil {
		return false
	}
	if err := json.Unmarshal(b, &bv); err != nil {
		return false
	}
	return reflect.DeepEqual(av, bv)
}
