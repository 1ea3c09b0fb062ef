// Package sqlite contains the SQLite implementation of the session
// index repository.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/example/recall/internal/models"
	"github.com/example/recall/internal/ports/secondary"
)

// prefixLen is the command-prefix length used for failure
// deduplication within a category.
const prefixLen = 50

// SessionIndexRepository implements secondary.SessionIndexRepository
// with SQLite.
type SessionIndexRepository struct {
	db *sql.DB
}

// NewSessionIndexRepository creates a new SQLite session index
// repository.
func NewSessionIndexRepository(db *sql.DB) *SessionIndexRepository {
	return &SessionIndexRepository{db: db}
}

// UpsertSession inserts or replaces one session summary row.
func (r *SessionIndexRepository) UpsertSession(ctx context.Context, s *models.SessionSummary) error {
	topics, err := json.Marshal(s.Topics)
	if err != nil {
		return fmt.Errorf("failed to marshal topics: %w", err)
	}

	var summary sql.NullString
	if s.Summary != "" {
		summary = sql.NullString{String: s.Summary, Valid: true}
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO sessions (session_id, project, date, summary, message_count, command_count, failure_count, skill_count, topics, needs_analysis)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(project, session_id) DO UPDATE SET
		   date = excluded.date,
		   summary = excluded.summary,
		   message_count = excluded.message_count,
		   command_count = excluded.command_count,
		   failure_count = excluded.failure_count,
		   skill_count = excluded.skill_count,
		   topics = excluded.topics,
		   needs_analysis = excluded.needs_analysis`,
		s.SessionID, s.Project, s.Date, summary,
		s.MessageCount, s.CommandCount, s.FailureCount, s.SkillCount,
		string(topics), boolToInt(s.NeedsAnalysis),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert session: %w", err)
	}
	return nil
}

// ListSessions returns the project's sessions, newest first.
func (r *SessionIndexRepository) ListSessions(ctx context.Context, project string, limit int) ([]*models.SessionSummary, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT session_id, project, date, summary, message_count, command_count, failure_count, skill_count, topics, needs_analysis
		 FROM sessions WHERE project = ? ORDER BY date DESC LIMIT ?`,
		project, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	return scanSessions(rows)
}

// SearchSessions finds sessions whose summary or topics contain term.
func (r *SessionIndexRepository) SearchSessions(ctx context.Context, project, term string) ([]*models.SessionSummary, error) {
	pattern := "%" + term + "%"
	rows, err := r.db.QueryContext(ctx,
		`SELECT session_id, project, date, summary, message_count, command_count, failure_count, skill_count, topics, needs_analysis
		 FROM sessions
		 WHERE project = ? AND (summary LIKE ? COLLATE NOCASE OR topics LIKE ? COLLATE NOCASE)
		 ORDER BY date DESC`,
		project, pattern, pattern,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search sessions: %w", err)
	}
	defer rows.Close()

	return scanSessions(rows)
}

// RecordFailure merges one occurrence into the project's failure
// patterns. A same-prefix occurrence in the same category increments
// the existing row's count instead of adding a row.
func (r *SessionIndexRepository) RecordFailure(ctx context.Context, occ *models.FailureOccurrence) error {
	prefix := occ.Command
	if len(prefix) > prefixLen {
		prefix = prefix[:prefixLen]
	}

	var id int64
	err := r.db.QueryRowContext(ctx,
		`SELECT id FROM failure_occurrences WHERE project = ? AND category = ? AND command_prefix = ?`,
		occ.Project, occ.Category, prefix,
	).Scan(&id)

	switch {
	case err == sql.ErrNoRows:
		var errText sql.NullString
		if occ.Error != "" {
			errText = sql.NullString{String: occ.Error, Valid: true}
		}
		_, err = r.db.ExecContext(ctx,
			`INSERT INTO failure_occurrences (project, session_id, category, command, command_prefix, error, count, date)
			 VALUES (?, ?, ?, ?, ?, ?, 1, ?)`,
			occ.Project, occ.SessionID, occ.Category, occ.Command, prefix, errText, occ.Date,
		)
		if err != nil {
			return fmt.Errorf("failed to record failure: %w", err)
		}
	case err != nil:
		return fmt.Errorf("failed to look up failure: %w", err)
	default:
		_, err = r.db.ExecContext(ctx,
			`UPDATE failure_occurrences SET count = count + 1, date = ?, session_id = ? WHERE id = ?`,
			occ.Date, occ.SessionID, id,
		)
		if err != nil {
			return fmt.Errorf("failed to update failure count: %w", err)
		}
	}

	return nil
}

// ListFailures returns the project's failure occurrences, most
// frequent category first, newest first within a category.
func (r *SessionIndexRepository) ListFailures(ctx context.Context, project string) ([]*models.FailureOccurrence, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT session_id, project, category, command, error, count, date
		 FROM failure_occurrences WHERE project = ?
		 ORDER BY category, date DESC`,
		project,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list failures: %w", err)
	}
	defer rows.Close()

	return scanFailures(rows)
}

// SearchFailures finds occurrences whose command or error contains
// term.
func (r *SessionIndexRepository) SearchFailures(ctx context.Context, project, term string) ([]*models.FailureOccurrence, error) {
	pattern := "%" + term + "%"
	rows, err := r.db.QueryContext(ctx,
		`SELECT session_id, project, category, command, error, count, date
		 FROM failure_occurrences
		 WHERE project = ? AND (command LIKE ? COLLATE NOCASE OR error LIKE ? COLLATE NOCASE)
		 ORDER BY date DESC`,
		project, pattern, pattern,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search failures: %w", err)
	}
	defer rows.Close()

	return scanFailures(rows)
}

// PruneSessions keeps only the newest keep session rows for the
// project.
func (r *SessionIndexRepository) PruneSessions(ctx context.Context, project string, keep int) error {
	if keep <= 0 {
		return nil
	}

	_, err := r.db.ExecContext(ctx,
		`DELETE FROM sessions
		 WHERE project = ? AND session_id NOT IN (
		   SELECT session_id FROM sessions WHERE project = ? ORDER BY date DESC LIMIT ?
		 )`,
		project, project, keep,
	)
	if err != nil {
		return fmt.Errorf("failed to prune sessions: %w", err)
	}
	return nil
}

func scanSessions(rows *sql.Rows) ([]*models.SessionSummary, error) {
	var sessions []*models.SessionSummary
	for rows.Next() {
		var (
			s             models.SessionSummary
			summary       sql.NullString
			topics        sql.NullString
			needsAnalysis int
		)
		if err := rows.Scan(&s.SessionID, &s.Project, &s.Date, &summary,
			&s.MessageCount, &s.CommandCount, &s.FailureCount, &s.SkillCount,
			&topics, &needsAnalysis); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		s.Summary = summary.String
		s.NeedsAnalysis = needsAnalysis != 0
		if topics.Valid && topics.String != "" {
			// Topics were serialized by us; a decode failure just
			// means no topics.
			_ = json.Unmarshal([]byte(topics.String), &s.Topics)
		}
		sessions = append(sessions, &s)
	}
	return sessions, rows.Err()
}

func scanFailures(rows *sql.Rows) ([]*models.FailureOccurrence, error) {
	var failures []*models.FailureOccurrence
	for rows.Next() {
		var (
			f       models.FailureOccurrence
			errText sql.NullString
		)
		if err := rows.Scan(&f.SessionID, &f.Project, &f.Category, &f.Command,
			&errText, &f.Count, &f.Date); err != nil {
			return nil, fmt.Errorf("failed to scan failure: %w", err)
		}
		f.Error = errText.String
		failures = append(failures, &f)
	}
	return failures, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Ensure SessionIndexRepository implements the interface.
var _ secondary.SessionIndexRepository = (*SessionIndexRepository)(nil)
