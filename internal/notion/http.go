package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"

	"github.com/calderw/mirrorsync/internal/metrics"
)

// httpClient implements Client against the remote HTTP API. Every request
// waits on the limiter first; the remote enforces a fixed request budget
// (~3 req/s) and pacing here keeps the engine free of sleep calls.
type httpClient struct {
	baseURL string
	token   string
	version string
	hc      *http.Client
	limiter *rate.Limiter
	schemas *lru.Cache[string, *Schema]
}

// NewClient creates a client bound to one credential. requestRate is in
// requests per second.
func NewClient(baseURL, version, accessToken string, requestRate float64) Client {
	schemas, _ := lru.New[string, *Schema](SchemaCacheSize)
	return &httpClient{
		baseURL: baseURL,
		token:   accessToken,
		version: version,
		hc:      &http.Client{Timeout: 30 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(requestRate), 1),
		schemas: schemas,
	}
}

// NewFactory returns a Factory producing per-run clients with shared settings.
func NewFactory(baseURL, version string, requestRate float64) Factory {
	return func(accessToken string) Client {
		return NewClient(baseURL, version, accessToken, requestRate)
	}
}

// do performs one paced request and decodes the response body into out (if
// non-nil). Every call is counted under op, schema cache hits excepted
// since they never reach the remote.
func (c *httpClient) do(ctx context.Context, op, method, path string, body interface{}, out interface{}) (err error) {
	defer func() { metrics.RecordRemoteCall(op, err) }()

	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set(HeaderAuthorization, BearerPrefix+c.token)
	req.Header.Set(HeaderNotionVersion, c.version)
	if body != nil {
		req.Header.Set(HeaderContentType, ContentTypeJSON)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Message string `json:"message"`
		}
		data, _ := io.ReadAll(resp.Body)
		_ = json.Unmarshal(data, &apiErr)
		if apiErr.Message == "" {
			apiErr.Message = string(data)
		}
		return fmt.Errorf("%s: %s %s: status %d: %s", ErrMsgRequestFailed, method, path, resp.StatusCode, apiErr.Message)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgUnexpectedState, err)
	}
	return nil
}

type queryResponse struct {
	Results    []Row  `json:"results"`
	HasMore    bool   `json:"has_more"`
	NextCursor string `json:"next_cursor"`
}

// QueryDatabase fetches all rows matching filter, following cursors until
// the remote reports no more pages. Each page fetch is paced by the limiter.
func (c *httpClient) QueryDatabase(ctx context.Context, databaseID string, filter Filter) ([]Row, error) {
	var all []Row
	cursor := ""

	for {
		body := map[string]interface{}{"page_size": QueryPageSize}
		if filter != nil {
			body["filter"] = filter
		}
		if cursor != "" {
			body["start_cursor"] = cursor
		}

		var page queryResponse
		if err := c.do(ctx, OpQueryDatabase, http.MethodPost, "/databases/"+databaseID+"/query", body, &page); err != nil {
			return nil, fmt.Errorf("failed to query database %s: %w", databaseID, err)
		}

		all = append(all, page.Results...)
		if !page.HasMore {
			return all, nil
		}
		cursor = page.NextCursor
	}
}

type databaseResponse struct {
	ID         string                     `json:"id"`
	URL        string                     `json:"url"`
	Title      []richText                 `json:"title"`
	Properties map[string]json.RawMessage `json:"properties"`
}

// GetDatabaseSchema returns the database's schema, served from the per-run
// cache when the same database is read more than once in a run.
func (c *httpClient) GetDatabaseSchema(ctx context.Context, databaseID string) (*Schema, error) {
	if cached, ok := c.schemas.Get(databaseID); ok {
		return cached, nil
	}

	var db databaseResponse
	if err := c.do(ctx, OpGetDatabaseSchema, http.MethodGet, "/databases/"+databaseID, nil, &db); err != nil {
		return nil, fmt.Errorf("failed to fetch database schema %s: %w", databaseID, err)
	}

	schema := &Schema{
		ID:    db.ID,
		Title: plainText(db.Title),
		URL:   db.URL,
	}
	for name, raw := range db.Properties {
		var typed struct {
			Type string `json:"type"`
		}
		_ = json.Unmarshal(raw, &typed)
		schema.Properties = append(schema.Properties, PropertySchema{
			Name:   name,
			Type:   typed.Type,
			Config: raw,
		})
	}
	// Map iteration order is random; keep schema output stable.
	sort.Slice(schema.Properties, func(i, j int) bool {
		return schema.Properties[i].Name < schema.Properties[j].Name
	})

	c.schemas.Add(databaseID, schema)
	return schema, nil
}

type searchResponse struct {
	Results []databaseResponse `json:"results"`
}

// SearchDatabases lists all databases the credential can reach.
func (c *httpClient) SearchDatabases(ctx context.Context) ([]DatabaseSummary, error) {
	body := map[string]interface{}{
		"filter": map[string]string{"property": "object", "value": "database"},
	}

	var resp searchResponse
	if err := c.do(ctx, OpSearchDatabases, http.MethodPost, "/search", body, &resp); err != nil {
		return nil, fmt.Errorf("failed to search databases: %w", err)
	}

	summaries := make([]DatabaseSummary, 0, len(resp.Results))
	for _, db := range resp.Results {
		summaries = append(summaries, DatabaseSummary{
			ID:    db.ID,
			Title: plainText(db.Title),
			URL:   db.URL,
		})
	}
	return summaries, nil
}

type createdObject struct {
	ID string `json:"id"`
}

// CreateDatabase creates a database under a parent page.
func (c *httpClient) CreateDatabase(ctx context.Context, parentPageID, title string, properties map[string]json.RawMessage) (string, error) {
	body := map[string]interface{}{
		"parent":     map[string]string{"type": "page_id", "page_id": parentPageID},
		"title":      titlePayload(title),
		"properties": properties,
	}

	var created createdObject
	if err := c.do(ctx, OpCreateDatabase, http.MethodPost, "/databases", body, &created); err != nil {
		return "", fmt.Errorf("failed to create database: %w", err)
	}
	return created.ID, nil
}

// CreatePageInParent creates a titled subpage under a parent page.
func (c *httpClient) CreatePageInParent(ctx context.Context, parentPageID, title string) (string, error) {
	body := map[string]interface{}{
		"parent": map[string]string{"type": "page_id", "page_id": parentPageID},
		"properties": map[string]interface{}{
			"title": map[string]interface{}{"title": titlePayload(title)},
		},
	}

	var created createdObject
	if err := c.do(ctx, OpCreatePageInParent, http.MethodPost, "/pages", body, &created); err != nil {
		return "", fmt.Errorf("failed to create page under %s: %w", parentPageID, err)
	}
	return created.ID, nil
}

// CreatePage creates a row in a database.
func (c *httpClient) CreatePage(ctx context.Context, databaseID string, properties map[string]json.RawMessage) (string, error) {
	body := map[string]interface{}{
		"parent":     map[string]string{"database_id": databaseID},
		"properties": properties,
	}

	var created createdObject
	if err := c.do(ctx, OpCreatePage, http.MethodPost, "/pages", body, &created); err != nil {
		return "", fmt.Errorf("failed to create page in %s: %w", databaseID, err)
	}
	return created.ID, nil
}

// UpdatePage overwrites the given properties on a row.
func (c *httpClient) UpdatePage(ctx context.Context, pageID string, properties map[string]json.RawMessage) error {
	body := map[string]interface{}{"properties": properties}
	if err := c.do(ctx, OpUpdatePage, http.MethodPatch, "/pages/"+pageID, body, nil); err != nil {
		return fmt.Errorf("failed to update page %s: %w", pageID, err)
	}
	return nil
}

// ArchivePage soft-deletes a row.
func (c *httpClient) ArchivePage(ctx context.Context, pageID string) error {
	body := map[string]interface{}{"archived": true}
	if err := c.do(ctx, OpArchivePage, http.MethodPatch, "/pages/"+pageID, body, nil); err != nil {
		return fmt.Errorf("failed to archive page %s: %w", pageID, err)
	}
	return nil
}

// GetPage fetches a single row.
func (c *httpClient) GetPage(ctx context.Context, pageID string) (*Row, error) {
	var row Row
	if err := c.do(ctx, OpGetPage, http.MethodGet, "/pages/"+pageID, nil, &row); err != nil {
		return nil, fmt.Errorf("failed to get page %s: %w", pageID, err)
	}
	return &row, nil
}

// SharePage grants the given email access to a page.
func (c *httpClient) SharePage(ctx context.Context, pageID, email string) error {
	body := map[string]interface{}{"email": email}
	if err := c.do(ctx, OpSharePage, http.MethodPost, "/pages/"+pageID+"/share", body, nil); err != nil {
		return fmt.Errorf("failed to share page %s with %s: %w", pageID, email, err)
	}
	return nil
}

type richText struct {
	PlainText string `json:"plain_text"`
	Text      struct {
		Content string `json:"content"`
	} `json:"text"`
}

// plainText extracts the first plain-text fragment of a title array.
func plainText(fragments []richText) string {
	if len(fragments) == 0 {
		return UntitledFallback
	}
	if fragments[0].PlainText != "" {
		return fragments[0].PlainText
	}
	if fragments[0].Text.Content != "" {
		return fragments[0].Text.Content
	}
	return UntitledFallback
}

// titlePayload builds the rich-text array the API expects for titles.
func titlePayload(title string) []map[string]interface{} {
	return []map[string]interface{}{
		{"type": "text", "text": map[string]string{"content": title}},
	}
}
