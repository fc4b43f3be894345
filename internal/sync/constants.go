package sync

// Error Messages - Sync Engine
const (
	ErrMsgFailedToLoadConfig     = "failed to load config"
	ErrMsgFailedToRecordRun      = "failed to record sync run"
	ErrMsgFailedToCompleteRun    = "Failed to complete sync run"
	ErrMsgFailedToQuerySource    = "failed to query source database"
	ErrMsgFailedToQueryMirror    = "failed to query mirror database"
	ErrMsgFailedToCreateSubpage  = "failed to create viewer subpage"
	ErrMsgFailedToCreateMirror   = "failed to create mirror database"
	ErrMsgFailedToPersistViewer  = "failed to persist viewer provisioning"
	ErrMsgFailedToUpdateLastSync = "Failed to update config last sync time"
)

// Log Messages
const (
	LogMsgRunStarted       = "Sync run started"
	LogMsgRunCompleted     = "Sync run completed"
	LogMsgRunFailed        = "Sync run failed"
	LogMsgViewerSkipped    = "Viewer skipped after provisioning failure"
	LogMsgRowUpdateFailed  = "Failed to update mirror row"
	LogMsgRowCreateFailed  = "Failed to create mirror row"
	LogMsgRowArchiveFailed = "Failed to archive mirror row"
	LogMsgSharingFailed    = "Failed to share viewer page"
	LogMsgReverseRowFailed = "Failed to push mirror row back to source"
)

// DefaultRunsLimit caps how many run records a history listing returns when
// the caller does not pick a limit.
const DefaultRunsLimit = 20
