package primary

import (
	"context"

	"github.com/example/recall/internal/models"
)

// SessionService defines the primary port for session indexing and
// recall operations.
type SessionService interface {
	// IndexSession parses the newest transcript for the working
	// directory, stores details and summary, and queues heuristic
	// learning proposals.
	IndexSession(ctx context.Context, req IndexSessionRequest) (*IndexSessionResponse, error)

	// StartContext builds the session-start report: last session,
	// history stats, knowledge summary, pending count, recurring
	// failures. Empty string when there is no history yet.
	StartContext(ctx context.Context, workDir string) (string, error)

	// ListSessions returns recent session summaries, newest first.
	ListSessions(ctx context.Context, workDir string, limit int) ([]*models.SessionSummary, error)

	// SearchSessions finds sessions and failures matching a term.
	SearchSessions(ctx context.Context, workDir, term string) (*SearchResult, error)

	// LastSession returns the previous session's full details
	// (skipping the current one when possible).
	LastSession(ctx context.Context, workDir string) (*models.SessionDetails, error)

	// GetSession returns full details for one indexed session.
	GetSession(ctx context.Context, workDir, sessionID string) (*models.SessionDetails, error)

	// FailureReport returns failure occurrences grouped by category,
	// most frequent first.
	FailureReport(ctx context.Context, workDir string) ([]*FailureCategory, error)

	// History extracts the command history of the newest transcript.
	History(ctx context.Context, workDir string) ([]*HistoryEntry, error)
}

// IndexSessionRequest identifies the project to index.
type IndexSessionRequest struct {
	WorkDir string
}

// IndexSessionResponse reports what was indexed.
type IndexSessionResponse struct {
	SessionID     string
	MessageCount  int
	CommandCount  int
	FailureCount  int
	SkillCount    int
	ProposalCount int
	NeedsAnalysis bool
}

// SearchResult groups session and failure matches for one term.
type SearchResult struct {
	Term     string
	Sessions []*models.SessionSummary
	Failures []*models.FailureOccurrence
}

// FailureCategory is one failure pattern with its occurrences.
type FailureCategory struct {
	Category    string
	Total       int
	Occurrences []*models.FailureOccurrence
}

// HistoryEntry is one command attempt for the history view.
type HistoryEntry struct {
	Position int
	Command  string
	Failed   bool
	Error    string
}
