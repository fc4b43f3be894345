package schema

// SchemaSQL contains the full database schema initialization script
const SchemaSQL = `
-- Workspace Owners

CREATE TABLE IF NOT EXISTS users (
    id BIGSERIAL PRIMARY KEY,
    email VARCHAR(255) UNIQUE NOT NULL,
    notion_access_token TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

-- Sync Configurations
-- target_page_id / target_database_id are the legacy single-target
-- columns; per-viewer targets live on viewer_permissions.
CREATE TABLE IF NOT EXISTS database_configs (
    id BIGSERIAL PRIMARY KEY,
    owner_user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    source_database_id VARCHAR(64) NOT NULL,
    parent_page_id VARCHAR(64) NOT NULL DEFAULT '',
    target_page_id VARCHAR(64) NOT NULL DEFAULT '',
    target_database_id VARCHAR(64) NOT NULL DEFAULT '',
    config_name VARCHAR(255) NOT NULL,
    sync_enabled BOOLEAN NOT NULL DEFAULT TRUE,
    sync_interval_minutes INTEGER NOT NULL DEFAULT 60,
    last_sync_at TIMESTAMPTZ,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_configs_owner ON database_configs (owner_user_id);

-- Per-Property Policy
CREATE TABLE IF NOT EXISTS property_mappings (
    id BIGSERIAL PRIMARY KEY,
    config_id BIGINT NOT NULL REFERENCES database_configs(id) ON DELETE CASCADE,
    property_name VARCHAR(255) NOT NULL,
    property_type VARCHAR(64) NOT NULL DEFAULT 'rich_text',
    is_visible BOOLEAN NOT NULL DEFAULT TRUE,
    is_writable BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    UNIQUE (config_id, property_name)
);

-- Row Selection Predicates
CREATE TABLE IF NOT EXISTS row_filters (
    id BIGSERIAL PRIMARY KEY,
    config_id BIGINT NOT NULL REFERENCES database_configs(id) ON DELETE CASCADE,
    filter_kind VARCHAR(32) NOT NULL DEFAULT 'property_match',
    property_name VARCHAR(255) NOT NULL DEFAULT '',
    property_type VARCHAR(64) NOT NULL DEFAULT 'rich_text',
    operator VARCHAR(64) NOT NULL DEFAULT 'equals',
    value TEXT NOT NULL DEFAULT '',
    formula TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_row_filters_config ON row_filters (config_id);

-- Viewers
CREATE TABLE IF NOT EXISTS viewer_permissions (
    id BIGSERIAL PRIMARY KEY,
    config_id BIGINT NOT NULL REFERENCES database_configs(id) ON DELETE CASCADE,
    viewer_email VARCHAR(255) NOT NULL,
    access_level VARCHAR(16) NOT NULL DEFAULT 'read',
    page_id VARCHAR(64) NOT NULL DEFAULT '',
    target_database_id VARCHAR(64) NOT NULL DEFAULT '',
    notified BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    UNIQUE (config_id, viewer_email)
);

-- A viewer's personal selection of the config's filters
CREATE TABLE IF NOT EXISTS viewer_permission_row_filters (
    viewer_permission_id BIGINT NOT NULL REFERENCES viewer_permissions(id) ON DELETE CASCADE,
    row_filter_id BIGINT NOT NULL REFERENCES row_filters(id) ON DELETE CASCADE,
    PRIMARY KEY (viewer_permission_id, row_filter_id)
);

-- Durable source-to-mirror row identity
CREATE TABLE IF NOT EXISTS page_mappings (
    id BIGSERIAL PRIMARY KEY,
    config_id BIGINT NOT NULL REFERENCES database_configs(id) ON DELETE CASCADE,
    source_page_id VARCHAR(64) NOT NULL,
    target_page_id VARCHAR(64) NOT NULL,
    target_database_id VARCHAR(64) NOT NULL,
    last_synced_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    UNIQUE (config_id, target_database_id, source_page_id)
);

CREATE INDEX IF NOT EXISTS idx_page_mappings_target ON page_mappings (config_id, target_database_id);

-- Run Records
CREATE TABLE IF NOT EXISTS sync_runs (
    id BIGSERIAL PRIMARY KEY,
    config_id BIGINT NOT NULL REFERENCES database_configs(id) ON DELETE CASCADE,
    sync_type VARCHAR(16) NOT NULL DEFAULT 'manual',
    status VARCHAR(16) NOT NULL DEFAULT 'running',
    rows_created INTEGER NOT NULL DEFAULT 0,
    rows_updated INTEGER NOT NULL DEFAULT 0,
    rows_deleted INTEGER NOT NULL DEFAULT 0,
    error_message TEXT,
    started_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    completed_at TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_sync_runs_config_started ON sync_runs (config_id, started_at DESC);
`
