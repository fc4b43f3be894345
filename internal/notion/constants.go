package notion

// HTTP header names and values for the remote API
const (
	HeaderAuthorization = "Authorization"
	HeaderNotionVersion = "Notion-Version"
	HeaderContentType   = "Content-Type"
	ContentTypeJSON     = "application/json"
	BearerPrefix        = "Bearer "
)

// QueryPageSize is the page size used for paginated database queries
const QueryPageSize = 100

// SchemaCacheSize bounds the number of database schemas cached per client.
// A client lives for one sync run, so the cache never spans runs.
const SchemaCacheSize = 32

// UntitledFallback is used when a database or page carries no title
const UntitledFallback = "Untitled"

// Operation names used as the metrics label for remote API calls
const (
	OpQueryDatabase      = "query_database"
	OpGetDatabaseSchema  = "get_database_schema"
	OpSearchDatabases    = "search_databases"
	OpCreateDatabase     = "create_database"
	OpCreatePageInParent = "create_page_in_parent"
	OpCreatePage         = "create_page"
	OpUpdatePage         = "update_page"
	OpArchivePage        = "archive_page"
	OpGetPage            = "get_page"
	OpSharePage          = "share_page"
)

// Error message constants
const (
	ErrMsgRequestFailed   = "remote API request failed"
	ErrMsgUnexpectedState = "unexpected remote API response"
)
