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
		Name:    "create agent runs",
		SQL: `
			CREATE TABLE runs (
				id           TEXT PRIMARY KEY,
				agent        TEXT NOT NULL,
				operation    TEXT NOT NULL,
				status       TEXT NOT NULL,
				error        TEXT NOT NULL DEFAULT '',
				mock         INTEGER NOT NULL DEFAULT 0,
				started_at   TEXT NOT NULL,
				duration_ms  INTEGER NOT NULL DEFAULT 0,
				request_id   TEXT NOT NULL DEFAULT ''
			);

			CREATE INDEX idx_runs_started ON runs (started_at);
		`,
	},
	{
		Version: 2,
		Name:    "index runs by agent",
		SQL: `
			CREATE INDEX idx_runs_agent ON runs (agent, started_at);
		`,
	},
}
