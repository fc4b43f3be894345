package domain

import "time"

// SyncRun is the durable record of one engine invocation. It is created in
// running state and flushed before any remote call, so a crash mid-run
// leaves evidence; it transitions to a terminal status exactly once.
type SyncRun struct {
	ID           int64      `json:"id" db:"id"`
	ConfigID     int64      `json:"config_id" db:"config_id"`
	Kind         string     `json:"sync_type" db:"sync_type"`
	Status       string     `json:"status" db:"status"`
	RowsCreated  int        `json:"rows_created" db:"rows_created"`
	RowsUpdated  int        `json:"rows_updated" db:"rows_updated"`
	RowsDeleted  int        `json:"rows_deleted" db:"rows_deleted"`
	ErrorMessage string     `json:"error_message,omitempty" db:"error_message"`
	StartedAt    time.Time  `json:"started_at" db:"started_at"`
	CompletedAt  *time.Time `json:"completed_at" db:"completed_at"`
}

// Terminal reports whether the run has reached a final status.
func (r *SyncRun) Terminal() bool {
	return r.Status == RunStatusSuccess || r.Status == RunStatusError
}
