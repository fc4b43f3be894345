package domain

import "time"

// Config binds one source database to N viewer mirrors. The engine treats a
// loaded Config as an immutable snapshot; fields it needs to persist
// (provisioning ids, notified flags, last-sync time) are written back through
// the repository, never mutated in place.
type Config struct {
	ID                  int64      `json:"id" db:"id"`
	OwnerUserID         int64      `json:"owner_user_id" db:"owner_user_id"`
	SourceDatabaseID    string     `json:"source_database_id" db:"source_database_id"`
	ParentPageID        string     `json:"parent_page_id" db:"parent_page_id"`
	TargetPageID        string     `json:"target_page_id" db:"target_page_id"`         // legacy single-target field, unused by the engine
	TargetDatabaseID    string     `json:"target_database_id" db:"target_database_id"` // legacy single-target field, unused by the engine
	Name                string     `json:"name" db:"config_name"`
	SyncEnabled         bool       `json:"sync_enabled" db:"sync_enabled"`
	SyncIntervalMinutes int        `json:"sync_interval_minutes" db:"sync_interval_minutes"`
	LastSyncAt          *time.Time `json:"last_sync_at" db:"last_sync_at"`
	CreatedAt           time.Time  `json:"created_at" db:"created_at"`

	// OwnerAccessToken is the owner's remote API credential, loaded alongside
	// the config. Empty means the owner never connected their workspace.
	OwnerAccessToken string `json:"-" db:"-"`

	PropertyMappings []PropertyMapping  `json:"property_mappings"`
	RowFilters       []RowFilter        `json:"row_filters"`
	Viewers          []ViewerPermission `json:"viewers"`
	PageMappings     []PageMapping      `json:"page_mappings"`
}

// PropertyMapping declares per-property policy for a config. A property with
// no mapping row is visible and non-writable by default; see sync.ProjectVisible.
type PropertyMapping struct {
	ID           int64     `json:"id" db:"id"`
	ConfigID     int64     `json:"config_id" db:"config_id"`
	PropertyName string    `json:"property_name" db:"property_name"`
	PropertyType string    `json:"property_type" db:"property_type"`
	Visible      bool      `json:"is_visible" db:"is_visible"`
	Writable     bool      `json:"is_writable" db:"is_writable"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// RowFilter is one row-selection predicate. Only FilterKindPropertyMatch is
// executable; other kinds are stored but skipped by the compiler.
type RowFilter struct {
	ID           int64     `json:"id" db:"id"`
	ConfigID     int64     `json:"config_id" db:"config_id"`
	FilterKind   string    `json:"filter_kind" db:"filter_kind"`
	PropertyName string    `json:"property_name" db:"property_name"`
	PropertyType string    `json:"property_type" db:"property_type"`
	Operator     string    `json:"operator" db:"operator"`
	Value        string    `json:"value" db:"value"`
	Formula      string    `json:"formula" db:"formula"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// ViewerPermission is one person's view into a config. PageID and
// TargetDatabaseID start empty and are populated independently by the engine
// on first successful provisioning; they are write-once-then-stable.
type ViewerPermission struct {
	ID               int64     `json:"id" db:"id"`
	ConfigID         int64     `json:"config_id" db:"config_id"`
	Email            string    `json:"email" db:"viewer_email"`
	AccessLevel      string    `json:"access_level" db:"access_level"`
	PageID           string    `json:"page_id" db:"page_id"`
	TargetDatabaseID string    `json:"target_database_id" db:"target_database_id"`
	Notified         bool      `json:"notified" db:"notified"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`

	// RowFilterIDs is the viewer's personal subset of the config's filters.
	RowFilterIDs []int64 `json:"row_filter_ids"`
}

// Provisioned reports whether both the viewer's subpage and mirror database
// exist. The two ids are checked independently elsewhere so a half-finished
// provisioning can be completed on the next run.
func (v *ViewerPermission) Provisioned() bool {
	return v.PageID != "" && v.TargetDatabaseID != ""
}

// CanWrite reports whether the viewer is allowed reverse propagation.
func (v *ViewerPermission) CanWrite() bool {
	return v.AccessLevel == AccessLevelWrite
}

// EffectiveFilters returns the viewer's personal filter selection in config
// order. A viewer with no selection gets no filter (all rows match).
func (c *Config) EffectiveFilters(viewer *ViewerPermission) []RowFilter {
	if len(viewer.RowFilterIDs) == 0 {
		return nil
	}
	selected := make(map[int64]bool, len(viewer.RowFilterIDs))
	for _, id := range viewer.RowFilterIDs {
		selected[id] = true
	}
	var filters []RowFilter
	for _, rf := range c.RowFilters {
		if selected[rf.ID] {
			filters = append(filters, rf)
		}
	}
	return filters
}

// MappingsForTarget returns the config's page mappings scoped to one mirror
// database, keyed by source page id.
func (c *Config) MappingsForTarget(targetDatabaseID string) map[string]PageMapping {
	scoped := make(map[string]PageMapping)
	if targetDatabaseID == "" {
		return scoped
	}
	for _, pm := range c.PageMappings {
		if pm.TargetDatabaseID == targetDatabaseID {
			scoped[pm.SourcePageID] = pm
		}
	}
	return scoped
}
