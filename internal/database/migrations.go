package database

import "database/sql"

// Migration represents a single schema migration step.
type Migration struct {
	Version     int
	Description string
	Up          func(tx *sql.Tx) error
}

// migrations is the ordered list of all schema migrations.
// Append new migrations to the end with incrementing Version numbers.
var migrations = []Migration{
	{
		Version:     1,
		Description: "initial schema",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS search_projects (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    created_at TEXT DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS search_columns (
    id TEXT PRIMARY KEY,
    project_id TEXT NOT NULL REFERENCES search_projects(id),
    field TEXT NOT NULL,
    header TEXT NOT NULL,
    type TEXT NOT NULL CHECK(type IN ('text', 'formula', 'ai')),
    prompt TEXT,
    formula TEXT,
    input_column_ids TEXT,
    use_only_relevant INTEGER DEFAULT 0,
    output_style TEXT CHECK(output_style IN ('single', 'rating_and_reason') OR output_style IS NULL),
    pair_column_id TEXT,
    width INTEGER,
    pinned TEXT CHECK(pinned IN ('left', 'right') OR pinned IS NULL),
    hidden INTEGER DEFAULT 0,
    created_at TEXT DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS search_rows (
    id TEXT PRIMARY KEY,
    project_id TEXT NOT NULL REFERENCES search_projects(id),
    row_index INTEGER NOT NULL,
    status TEXT NOT NULL DEFAULT 'inbox',
    data TEXT NOT NULL DEFAULT '{}'
);

CREATE TABLE IF NOT EXISTS search_views (
    id TEXT PRIMARY KEY,
    project_id TEXT NOT NULL REFERENCES search_projects(id),
    name TEXT NOT NULL,
    sort_order INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS settings (
    id INTEGER PRIMARY KEY CHECK(id = 1),
    thesis TEXT NOT NULL DEFAULT '',
    kpis TEXT NOT NULL DEFAULT '[]',
    report_sections TEXT NOT NULL DEFAULT '[]'
);

CREATE TABLE IF NOT EXISTS discovery_projects (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    sector TEXT,
    context TEXT,
    report TEXT,
    created_at TEXT DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_search_columns_project ON search_columns(project_id);
CREATE INDEX IF NOT EXISTS idx_search_rows_project ON search_rows(project_id);
CREATE INDEX IF NOT EXISTS idx_search_rows_status ON search_rows(project_id, status);
CREATE INDEX IF NOT EXISTS idx_search_views_project ON search_views(project_id);
`)
			return err
		},
	},
}

// latestVersion returns the highest migration version number.
func latestVersion() int {
	if len(migrations) == 0 {
		return 0
	}
	return migrations[len(migrations)-1].Version
}
