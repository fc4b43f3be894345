package domain

import "time"

// PageMapping records the correspondence between a source row and the row
// mirroring it in one viewer's target database. At most one mapping exists
// per (config, target database, source page). Created on first forward sync
// of a row, deleted when the row leaves the viewer's filtered set; only the
// timestamp is ever updated in between.
type PageMapping struct {
	ID               int64     `json:"id" db:"id"`
	ConfigID         int64     `json:"config_id" db:"config_id"`
	SourcePageID     string    `json:"source_page_id" db:"source_page_id"`
	TargetPageID     string    `json:"target_page_id" db:"target_page_id"`
	TargetDatabaseID string    `json:"target_database_id" db:"target_database_id"`
	LastSyncedAt     time.Time `json:"last_synced_at" db:"last_synced_at"`
}
