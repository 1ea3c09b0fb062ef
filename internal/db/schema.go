package db

// GetSchemaSQL returns the authoritative index schema. Tests load the
// same SQL into in-memory databases so test and production schemas
// cannot drift.
func GetSchemaSQL() string {
	return `
CREATE TABLE IF NOT EXISTS sessions (
    session_id     TEXT NOT NULL,
    project        TEXT NOT NULL,
    date           TIMESTAMP NOT NULL,
    summary        TEXT,
    message_count  INTEGER NOT NULL DEFAULT 0,
    command_count  INTEGER NOT NULL DEFAULT 0,
    failure_count  INTEGER NOT NULL DEFAULT 0,
    skill_count    INTEGER NOT NULL DEFAULT 0,
    topics         TEXT,
    needs_analysis INTEGER NOT NULL DEFAULT 0,
    created_at     TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (project, session_id)
);

CREATE INDEX IF NOT EXISTS idx_sessions_project_date
    ON sessions(project, date DESC);

CREATE TABLE IF NOT EXISTS failure_occurrences (
    id             INTEGER PRIMARY KEY AUTOINCREMENT,
    project        TEXT NOT NULL,
    session_id     TEXT NOT NULL,
    category       TEXT NOT NULL,
    command        TEXT NOT NULL,
    command_prefix TEXT NOT NULL,
    error          TEXT,
    count          INTEGER NOT NULL DEFAULT 1,
    date           TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_failures_project_category
    ON failure_occurrences(project, category);
`
}
