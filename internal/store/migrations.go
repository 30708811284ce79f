package store

// migration represents a single schema migration.
type migration struct {
	Version int
	Name    string
	SQL     string
}

// migrations is the ordered list of all schema migrations.
var migrations = []migration{
	{
		Version: 1,
		Name:    "create snapshots",
		SQL: `
			CREATE TABLE snapshots (
				id          TEXT PRIMARY KEY,
				created_at  TEXT NOT NULL DEFAULT (datetime('now')),
				overall     INTEGER NOT NULL,
				velocity    INTEGER NOT NULL,
				quality     INTEGER NOT NULL,
				blockers    INTEGER NOT NULL,
				activity    INTEGER NOT NULL,
				summary     TEXT NOT NULL DEFAULT '',
				files       INTEGER NOT NULL DEFAULT 0,
				lines       INTEGER NOT NULL DEFAULT 0,
				todos       INTEGER NOT NULL DEFAULT 0,
				fixmes      INTEGER NOT NULL DEFAULT 0,
				commits_7d  INTEGER NOT NULL DEFAULT 0
			);

			CREATE INDEX idx_snapshots_created ON snapshots (created_at DESC);
		`,
	},
}
