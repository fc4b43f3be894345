package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/calderw/mirrorsync/internal/domain"
	"github.com/calderw/mirrorsync/internal/notion"
)

// fakeRepo is an in-memory repository.Sync. It behaves like the real thing
// for the calls the engine makes: GetConfig returns a fresh snapshot each
// time with the current page mappings and viewer state folded in.
type fakeRepo struct {
	cfg          *domain.Config
	getConfigErr error

	mappings  map[string]domain.PageMapping // target db + source page
	runs      []*domain.SyncRun
	completed []domain.SyncRun
	lastSync  []time.Time
	enabled   map[int64]bool
	touched   []string
	removed   []string
	notified  []int64

	createRunErr error
}

func newFakeRepo(cfg *domain.Config) *fakeRepo {
	return &fakeRepo{
		cfg:      cfg,
		mappings: make(map[string]domain.PageMapping),
		enabled:  make(map[int64]bool),
	}
}

func mappingKey(targetDatabaseID, sourcePageID string) string {
	return targetDatabaseID + "/" + sourcePageID
}

func (r *fakeRepo) seedMapping(m domain.PageMapping) {
	r.mappings[mappingKey(m.TargetDatabaseID, m.SourcePageID)] = m
}

func (r *fakeRepo) GetConfig(ctx context.Context, configID int64) (*domain.Config, error) {
	if r.getConfigErr != nil {
		return nil, r.getConfigErr
	}
	if r.cfg == nil || r.cfg.ID != configID {
		return nil, domain.ErrConfigNotFound
	}

	snapshot := *r.cfg
	snapshot.Viewers = append([]domain.ViewerPermission(nil), r.cfg.Viewers...)

	keys := make([]string, 0, len(r.mappings))
	for k := range r.mappings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	snapshot.PageMappings = nil
	for _, k := range keys {
		snapshot.PageMappings = append(snapshot.PageMappings, r.mappings[k])
	}
	return &snapshot, nil
}

func (r *fakeRepo) ListDueConfigIDs(ctx context.Context, now time.Time) ([]int64, error) {
	if r.cfg != nil && r.cfg.SyncEnabled {
		return []int64{r.cfg.ID}, nil
	}
	return nil, nil
}

func (r *fakeRepo) SetSyncEnabled(ctx context.Context, configID int64, enabled bool) error {
	if r.cfg == nil || r.cfg.ID != configID {
		return domain.ErrConfigNotFound
	}
	r.enabled[configID] = enabled
	return nil
}

func (r *fakeRepo) UpdateLastSyncAt(ctx context.Context, configID int64, at time.Time) error {
	r.lastSync = append(r.lastSync, at)
	ts := at
	r.cfg.LastSyncAt = &ts
	return nil
}

func (r *fakeRepo) UpsertPageMapping(ctx context.Context, mapping domain.PageMapping) error {
	r.mappings[mappingKey(mapping.TargetDatabaseID, mapping.SourcePageID)] = mapping
	return nil
}

func (r *fakeRepo) TouchPageMapping(ctx context.Context, configID int64, targetDatabaseID, sourcePageID string, at time.Time) error {
	key := mappingKey(targetDatabaseID, sourcePageID)
	if m, ok := r.mappings[key]; ok {
		m.LastSyncedAt = at
		r.mappings[key] = m
	}
	r.touched = append(r.touched, key)
	return nil
}

func (r *fakeRepo) DeletePageMapping(ctx context.Context, configID int64, targetDatabaseID, sourcePageID string) error {
	key := mappingKey(targetDatabaseID, sourcePageID)
	delete(r.mappings, key)
	r.removed = append(r.removed, key)
	return nil
}

func (r *fakeRepo) SetViewerPage(ctx context.Context, viewerID int64, pageID string) error {
	for i := range r.cfg.Viewers {
		if r.cfg.Viewers[i].ID == viewerID {
			r.cfg.Viewers[i].PageID = pageID
		}
	}
	return nil
}

func (r *fakeRepo) SetViewerTargetDatabase(ctx context.Context, viewerID int64, databaseID string) error {
	for i := range r.cfg.Viewers {
		if r.cfg.Viewers[i].ID == viewerID {
			r.cfg.Viewers[i].TargetDatabaseID = databaseID
		}
	}
	return nil
}

func (r *fakeRepo) MarkViewerNotified(ctx context.Context, viewerID int64) error {
	for i := range r.cfg.Viewers {
		if r.cfg.Viewers[i].ID == viewerID {
			r.cfg.Viewers[i].Notified = true
		}
	}
	r.notified = append(r.notified, viewerID)
	return nil
}

func (r *fakeRepo) CreateSyncRun(ctx context.Context, run *domain.SyncRun) error {
	if r.createRunErr != nil {
		return r.createRunErr
	}
	run.ID = int64(len(r.runs) + 1)
	run.Status = domain.RunStatusRunning
	run.StartedAt = time.Now()
	r.runs = append(r.runs, run)
	return nil
}

func (r *fakeRepo) CompleteSyncRun(ctx context.Context, run domain.SyncRun) error {
	r.completed = append(r.completed, run)
	return nil
}

func (r *fakeRepo) ListSyncRuns(ctx context.Context, configID int64, limit int) ([]domain.SyncRun, error) {
	var out []domain.SyncRun
	for i := len(r.completed) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.completed[i])
	}
	return out, nil
}

func (r *fakeRepo) LatestSyncRun(ctx context.Context, configID int64) (*domain.SyncRun, error) {
	if len(r.completed) == 0 {
		return nil, nil
	}
	latest := r.completed[len(r.completed)-1]
	return &latest, nil
}

// fakeClient is an in-memory notion.Client. Source databases are seeded
// with rows; everything the engine creates, updates, archives or shares is
// recorded for assertions.
type fakeClient struct {
	schema   *notion.Schema
	rowsByDB map[string][]notion.Row
	pages    map[string]*notion.Row

	lastFilter   map[string]notion.Filter
	queriedDBs   []string
	subpages     map[string]string                       // page id -> title
	mirrorDBs    map[string]map[string]json.RawMessage   // db id -> schema properties
	createdProps map[string][]map[string]json.RawMessage // db id -> created row props
	updatedProps map[string][]map[string]json.RawMessage // page id -> updates
	archived     []string
	shared       map[string]string // page id -> email
	nextID       int

	errCreateSubpage error
	errQueryDB       map[string]error
	errCreatePage    error
	errUpdatePage    map[string]error
	errSharePage     error
}

func newFakeClient(schema *notion.Schema) *fakeClient {
	return &fakeClient{
		schema:       schema,
		rowsByDB:     make(map[string][]notion.Row),
		pages:        make(map[string]*notion.Row),
		lastFilter:   make(map[string]notion.Filter),
		subpages:     make(map[string]string),
		mirrorDBs:    make(map[string]map[string]json.RawMessage),
		createdProps: make(map[string][]map[string]json.RawMessage),
		updatedProps: make(map[string][]map[string]json.RawMessage),
		shared:       make(map[string]string),
		errQueryDB:   make(map[string]error),
		errUpdatePage: make(map[string]error),
	}
}

func (c *fakeClient) factory() notion.Factory {
	return func(accessToken string) notion.Client { return c }
}

func (c *fakeClient) id(prefix string) string {
	c.nextID++
	return fmt.Sprintf("%s-%d", prefix, c.nextID)
}

func (c *fakeClient) QueryDatabase(ctx context.Context, databaseID string, filter notion.Filter) ([]notion.Row, error) {
	if err := c.errQueryDB[databaseID]; err != nil {
		return nil, err
	}
	c.queriedDBs = append(c.queriedDBs, databaseID)
	c.lastFilter[databaseID] = filter
	return c.rowsByDB[databaseID], nil
}

func (c *fakeClient) GetDatabaseSchema(ctx context.Context, databaseID string) (*notion.Schema, error) {
	if c.schema == nil {
		return nil, fmt.Errorf("no schema for %s", databaseID)
	}
	return c.schema, nil
}

func (c *fakeClient) SearchDatabases(ctx context.Context) ([]notion.DatabaseSummary, error) {
	return nil, nil
}

func (c *fakeClient) CreateDatabase(ctx context.Context, parentPageID, title string, properties map[string]json.RawMessage) (string, error) {
	id := c.id("mirror")
	c.mirrorDBs[id] = properties
	return id, nil
}

func (c *fakeClient) CreatePageInParent(ctx context.Context, parentPageID, title string) (string, error) {
	if c.errCreateSubpage != nil {
		return "", c.errCreateSubpage
	}
	id := c.id("subpage")
	c.subpages[id] = title
	return id, nil
}

func (c *fakeClient) CreatePage(ctx context.Context, databaseID string, properties map[string]json.RawMessage) (string, error) {
	if c.errCreatePage != nil {
		return "", c.errCreatePage
	}
	c.createdProps[databaseID] = append(c.createdProps[databaseID], properties)
	return c.id("tgt"), nil
}

func (c *fakeClient) UpdatePage(ctx context.Context, pageID string, properties map[string]json.RawMessage) error {
	if err := c.errUpdatePage[pageID]; err != nil {
		return err
	}
	c.updatedProps[pageID] = append(c.updatedProps[pageID], properties)
	return nil
}

func (c *fakeClient) ArchivePage(ctx context.Context, pageID string) error {
	c.archived = append(c.archived, pageID)
	return nil
}

func (c *fakeClient) GetPage(ctx context.Context, pageID string) (*notion.Row, error) {
	row, ok := c.pages[pageID]
	if !ok {
		return nil, fmt.Errorf("page %s not found", pageID)
	}
	return row, nil
}

func (c *fakeClient) SharePage(ctx context.Context, pageID, email string) error {
	if c.errSharePage != nil {
		return c.errSharePage
	}
	c.shared[pageID] = email
	return nil
}

func rawProps(pairs map[string]string) map[string]json.RawMessage {
	props := make(map[string]json.RawMessage, len(pairs))
	for name, value := range pairs {
		props[name] = json.RawMessage(value)
	}
	return props
}
