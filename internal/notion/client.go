package notion

import (
	"context"
	"encoding/json"
)

// Row is one record in a remote database. Property values are kept as raw
// JSON so pass-through writes and change detection preserve the remote
// serialization exactly.
type Row struct {
	ID         string                     `json:"id"`
	Properties map[string]json.RawMessage `json:"properties"`
	Archived   bool                       `json:"archived"`
	URL        string                     `json:"url,omitempty"`
}

// PropertySchema describes one property of a database schema. Config holds
// the raw property configuration so it can be reused when creating a mirror
// database.
type PropertySchema struct {
	Name   string          `json:"name"`
	Type   string          `json:"type"`
	Config json.RawMessage `json:"config"`
}

// Schema is a database's title and property set.
type Schema struct {
	ID         string           `json:"id"`
	Title      string           `json:"title"`
	URL        string           `json:"url"`
	Properties []PropertySchema `json:"properties"`
}

// DatabaseSummary identifies a database the integration can reach.
type DatabaseSummary struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Filter is a remote query filter expression, shaped as the API expects it.
type Filter map[string]interface{}

// Client is the narrow interface the sync engine consumes. Implementations
// must pace every call against the remote API's fixed request budget; the
// engine never batches around it.
type Client interface {
	// QueryDatabase fetches all rows matching filter, paginating internally.
	// A nil filter fetches every row.
	QueryDatabase(ctx context.Context, databaseID string, filter Filter) ([]Row, error)

	// GetDatabaseSchema returns the database's title and property schemas.
	GetDatabaseSchema(ctx context.Context, databaseID string) (*Schema, error)

	// SearchDatabases lists databases the credential has access to.
	SearchDatabases(ctx context.Context) ([]DatabaseSummary, error)

	// CreateDatabase creates a database under a parent page and returns its id.
	CreateDatabase(ctx context.Context, parentPageID, title string, properties map[string]json.RawMessage) (string, error)

	// CreatePageInParent creates a titled subpage under a parent page.
	CreatePageInParent(ctx context.Context, parentPageID, title string) (string, error)

	// CreatePage creates a row in a database and returns its id.
	CreatePage(ctx context.Context, databaseID string, properties map[string]json.RawMessage) (string, error)

	// UpdatePage overwrites the given properties on a row.
	UpdatePage(ctx context.Context, pageID string, properties map[string]json.RawMessage) error

	// ArchivePage soft-deletes a row.
	ArchivePage(ctx context.Context, pageID string) error

	// GetPage fetches a single row.
	GetPage(ctx context.Context, pageID string) (*Row, error)

	// SharePage grants the given email access to a page.
	SharePage(ctx context.Context, pageID, email string) error
}

// Factory builds a Client bound to one owner's credential. The engine
// constructs a fresh client per run, so nothing (including the schema
// cache) survives across runs.
type Factory func(accessToken string) Client
