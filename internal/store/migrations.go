package store

import (
	"fmt"
)

type migration struct {
	Version     int
	Description string
	SQL         string
}

var migrations = []migration{
	{
		Version:     1,
		Description: "nodes: contacts and organizations",
		SQL: `
CREATE TABLE nodes (
    id               TEXT PRIMARY KEY,
    type             TEXT NOT NULL CHECK (type IN ('person', 'company')),
    name             TEXT NOT NULL DEFAULT '',
    email            TEXT NOT NULL DEFAULT '',
    phone            TEXT NOT NULL DEFAULT '',
    location         TEXT NOT NULL DEFAULT '',
    social           TEXT NOT NULL DEFAULT '{}',

    -- Occupation split into columns so industry/company lookups are indexed
    role             TEXT NOT NULL DEFAULT '',
    company          TEXT NOT NULL DEFAULT '',
    industry         TEXT NOT NULL DEFAULT '',

    skills           TEXT NOT NULL DEFAULT '[]',
    scores           TEXT NOT NULL DEFAULT '{}',
    leverage_score   INTEGER NOT NULL DEFAULT 0,
    notes            TEXT NOT NULL DEFAULT '[]',
    last_interaction INTEGER,
    metadata         TEXT NOT NULL DEFAULT '{}',

    created_at       INTEGER NOT NULL,
    updated_at       INTEGER NOT NULL
);

CREATE INDEX idx_nodes_type     ON nodes(type);
CREATE INDEX idx_nodes_industry ON nodes(industry);
CREATE INDEX idx_nodes_company  ON nodes(company);
CREATE INDEX idx_nodes_leverage ON nodes(leverage_score DESC);
`,
	},
	{
		Version:     2,
		Description: "edges: relationships between nodes, cascade on node delete",
		SQL: `
CREATE TABLE edges (
    id               TEXT PRIMARY KEY,
    source           TEXT NOT NULL REFERENCES nodes(id) ON DELETE CASCADE,
    target           TEXT NOT NULL REFERENCES nodes(id) ON DELETE CASCADE,
    type             TEXT NOT NULL CHECK (type IN ('friend', 'business', 'family', 'intro', 'online-only')),
    strength         REAL NOT NULL DEFAULT 5,
    direction        TEXT NOT NULL DEFAULT 'bidirectional'
                     CHECK (direction IN ('bidirectional', 'source-to-target', 'target-to-source')),
    context_tags     TEXT NOT NULL DEFAULT '[]',
    created_at       INTEGER NOT NULL,
    last_interaction INTEGER
);

CREATE INDEX idx_edges_source ON edges(source);
CREATE INDEX idx_edges_target ON edges(target);
CREATE INDEX idx_edges_type   ON edges(type);
`,
	},
}

func (db *DB) migrate() error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_versions (
			version     INTEGER PRIMARY KEY,
			description TEXT NOT NULL,
			applied_at  INTEGER NOT NULL DEFAULT (strftime('%s', 'now') * 1000)
		)
	`)
	if err != nil {
		return fmt.Errorf("create schema_versions: %w", err)
	}

	for _, m := range migrations {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM schema_versions WHERE version = ?", m.Version).Scan(&count)
		if err != nil {
			return fmt.Errorf("check migration %d: %w", m.Version, err)
		}
		if count > 0 {
			continue
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", m.Version, err)
		}

		if _, err := tx.Exec(m.SQL); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Description, err)
		}

		if _, err := tx.Exec(
			"INSERT INTO schema_versions (version, description) VALUES (?, ?)",
			m.Version, m.Description,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %d: %w", m.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.Version, err)
		}
	}

	return nil
}

// SchemaVersion returns the current schema version.
func (db *DB) SchemaVersion() (int, error) {
	var version int
	err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_versions").Scan(&version)
	return version, err
}
