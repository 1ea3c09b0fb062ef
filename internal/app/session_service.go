package app

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/example/recall/internal/config"
	"github.com/example/recall/internal/core/learning"
	"github.com/example/recall/internal/core/transcript"
	"github.com/example/recall/internal/models"
	"github.com/example/recall/internal/ports/primary"
	"github.com/example/recall/internal/ports/secondary"
	"github.com/example/recall/internal/transcripts"
)

// Detail capture limits. The index row is already bounded; these cap
// the per-session detail document.
const (
	detailMessagesKept = 30
	detailCommandsKept = 50
	detailFailuresKept = 20
)

// continuationHints mark a final user message that suggests unfinished
// work worth surfacing at the next session start.
var continuationHints = []string{
	"continue", "tomorrow", "next time", "todo", "unfinished", "wip", "later",
}

// SessionServiceImpl implements primary.SessionService.
type SessionServiceImpl struct {
	cfg       *config.Settings
	index     secondary.SessionIndexRepository
	details   secondary.DetailsStore
	pending   secondary.PendingStore
	knowledge secondary.KnowledgeStore
}

// NewSessionService creates a new session service.
func NewSessionService(
	cfg *config.Settings,
	index secondary.SessionIndexRepository,
	details secondary.DetailsStore,
	pending secondary.PendingStore,
	knowledge secondary.KnowledgeStore,
) *SessionServiceImpl {
	return &SessionServiceImpl{
		cfg:       cfg,
		index:     index,
		details:   details,
		pending:   pending,
		knowledge: knowledge,
	}
}

// IndexSession parses the newest transcript for the working directory,
// stores details and the summary row, merges failure occurrences, and
// queues heuristic learning proposals.
func (s *SessionServiceImpl) IndexSession(ctx context.Context, req primary.IndexSessionRequest) (*primary.IndexSessionResponse, error) {
	project := config.ProjectFolder(req.WorkDir)

	path, err := transcripts.Newest(s.cfg.ProjectsDir, project)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return nil, fmt.Errorf("no transcript found for %s", req.WorkDir)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open transcript: %w", err)
	}
	defer file.Close()

	date := time.Now()
	if fi, err := os.Stat(path); err == nil {
		date = fi.ModTime()
	}

	session := transcript.Parse(file, transcripts.SessionID(path))
	failures := session.Failures()

	needsAnalysis := learning.NeedsAnalysis(
		joinMessageText(session.UserMessages),
		len(failures), len(session.UserMessages), len(session.Commands),
		learning.Thresholds{
			Failures: s.cfg.FailureThreshold,
			Messages: s.cfg.MessageThreshold,
			Commands: s.cfg.CommandThreshold,
		},
	)

	details := &models.SessionDetails{
		SessionID:     session.SessionID,
		Date:          date,
		Summary:       session.Summary,
		Topics:        session.Topics,
		UserMessages:  capMessages(session.UserMessages, detailMessagesKept),
		Commands:      capCommands(session.Commands, detailCommandsKept),
		Failures:      capFailures(failures, detailFailuresKept),
		Resolutions:   session.Resolutions(),
		SkillsUsed:    session.SkillsUsed,
		NeedsAnalysis: needsAnalysis,
	}
	if err := s.details.Save(project, details); err != nil {
		return nil, err
	}

	summary := &models.SessionSummary{
		SessionID:     session.SessionID,
		Project:       project,
		Date:          date,
		Summary:       session.Summary,
		MessageCount:  len(session.UserMessages),
		CommandCount:  len(session.Commands),
		FailureCount:  len(failures),
		SkillCount:    len(session.SkillsUsed),
		Topics:        session.Topics,
		NeedsAnalysis: needsAnalysis,
	}
	if err := s.index.UpsertSession(ctx, summary); err != nil {
		return nil, err
	}

	for _, f := range failures {
		occ := &models.FailureOccurrence{
			SessionID: session.SessionID,
			Project:   project,
			Category:  f.Category,
			Command:   f.Command,
			Error:     f.Error,
			Date:      date,
		}
		if err := s.index.RecordFailure(ctx, occ); err != nil {
			return nil, err
		}
	}

	if err := s.index.PruneSessions(ctx, project, s.cfg.SessionsKept); err != nil {
		return nil, err
	}

	proposals := learning.Extract(session.UserMessages, session.Commands, failures)
	before := s.pending.Count()
	for _, p := range proposals {
		learned := models.PendingLearning{
			Timestamp:      time.Now().UTC().Format(time.RFC3339),
			SessionID:      session.SessionID,
			SessionSummary: models.Truncate(session.Summary, 120),
			Project:        project,
			Category:       p.Category,
			Title:          p.Title,
			Content:        p.Content,
			SuggestedScope: models.ScopeGlobal,
			Source:         models.SourceHeuristic,
		}
		if _, err := s.pending.Add(learned); err != nil {
			return nil, err
		}
	}

	return &primary.IndexSessionResponse{
		SessionID:     session.SessionID,
		MessageCount:  len(session.UserMessages),
		CommandCount:  len(session.Commands),
		FailureCount:  len(failures),
		SkillCount:    len(session.SkillsUsed),
		ProposalCount: s.pending.Count() - before,
		NeedsAnalysis: needsAnalysis,
	}, nil
}

// StartContext builds the session-start report. A project with no
// indexed history produces an empty string, not an error: the report
// is injected context and silence is the correct first-run behavior.
func (s *SessionServiceImpl) StartContext(ctx context.Context, workDir string) (string, error) {
	project := config.ProjectFolder(workDir)

	sessions, err := s.index.ListSessions(ctx, project, s.cfg.SessionsKept)
	if err != nil {
		return "", err
	}
	if len(sessions) == 0 {
		return "", nil
	}

	var b strings.Builder
	b.WriteString("## Session Memory\n\n")

	last := sessions[0]
	summaryText := last.Summary
	if summaryText == "" {
		summaryText = "(no summary)"
	}
	fmt.Fprintf(&b, "Last session (%s): %s\n", timeAgo(last.Date), summaryText)

	totalCommands, totalFailures := 0, 0
	for _, row := range sessions {
		totalCommands += row.CommandCount
		totalFailures += row.FailureCount
	}
	fmt.Fprintf(&b, "History: %d sessions, %d commands, %d failures\n",
		len(sessions), totalCommands, totalFailures)

	if recurring := s.recurringFailures(ctx, project); len(recurring) > 0 {
		b.WriteString("\nRecurring failures:\n")
		for _, line := range recurring {
			b.WriteString(line + "\n")
		}
	}

	if lines := knowledgeSummary(s.knowledge.All(workDir)); len(lines) > 0 {
		b.WriteString("\nStored knowledge:\n")
		for _, line := range lines {
			b.WriteString(line + "\n")
		}
	}

	if n := s.pending.Count(); n > 0 {
		fmt.Fprintf(&b, "\n%d pending learnings awaiting review (recall learn)\n", n)
	}

	if hint := s.continuationHint(project, last.SessionID); hint != "" {
		fmt.Fprintf(&b, "\nPossible unfinished work: %s\n", hint)
	}

	return b.String(), nil
}

// recurringFailures returns up to three display lines for failure
// patterns seen more than once.
func (s *SessionServiceImpl) recurringFailures(ctx context.Context, project string) []string {
	failures, err := s.index.ListFailures(ctx, project)
	if err != nil {
		return nil
	}

	var repeated []*models.FailureOccurrence
	for _, f := range failures {
		if f.Count >= 2 {
			repeated = append(repeated, f)
		}
	}
	sort.SliceStable(repeated, func(i, j int) bool {
		return repeated[i].Count > repeated[j].Count
	})

	if len(repeated) > 3 {
		repeated = repeated[:3]
	}

	var lines []string
	for _, f := range repeated {
		lines = append(lines, fmt.Sprintf("- %s: %s (%dx)",
			f.Category, models.Truncate(f.Command, 60), f.Count))
	}
	return lines
}

// continuationHint surfaces the last user message of the previous
// session when it reads like unfinished work.
func (s *SessionServiceImpl) continuationHint(project, sessionID string) string {
	details, err := s.details.Load(project, sessionID)
	if err != nil || details == nil || len(details.UserMessages) == 0 {
		return ""
	}

	lastMsg := details.UserMessages[len(details.UserMessages)-1].Content
	lower := strings.ToLower(lastMsg)
	for _, hint := range continuationHints {
		if strings.Contains(lower, hint) {
			return models.Truncate(lastMsg, 150)
		}
	}
	return ""
}

// ListSessions returns recent session summaries, newest first.
func (s *SessionServiceImpl) ListSessions(ctx context.Context, workDir string, limit int) ([]*models.SessionSummary, error) {
	return s.index.ListSessions(ctx, config.ProjectFolder(workDir), limit)
}

// SearchSessions finds sessions and failures matching a term.
func (s *SessionServiceImpl) SearchSessions(ctx context.Context, workDir, term string) (*primary.SearchResult, error) {
	project := config.ProjectFolder(workDir)

	sessions, err := s.index.SearchSessions(ctx, project, term)
	if err != nil {
		return nil, err
	}
	failures, err := s.index.SearchFailures(ctx, project, term)
	if err != nil {
		return nil, err
	}

	return &primary.SearchResult{Term: term, Sessions: sessions, Failures: failures}, nil
}

// LastSession returns the previous session's details, skipping the
// newest row (which is normally the session being ended right now).
func (s *SessionServiceImpl) LastSession(ctx context.Context, workDir string) (*models.SessionDetails, error) {
	project := config.ProjectFolder(workDir)

	sessions, err := s.index.ListSessions(ctx, project, 2)
	if err != nil {
		return nil, err
	}
	if len(sessions) < 2 {
		return nil, fmt.Errorf("no previous session indexed for %s", workDir)
	}

	return s.details.Load(project, sessions[1].SessionID)
}

// GetSession returns full details for one indexed session.
func (s *SessionServiceImpl) GetSession(ctx context.Context, workDir, sessionID string) (*models.SessionDetails, error) {
	return s.details.Load(config.ProjectFolder(workDir), sessionID)
}

// FailureReport groups the project's failure occurrences by category,
// most frequent category first.
func (s *SessionServiceImpl) FailureReport(ctx context.Context, workDir string) ([]*primary.FailureCategory, error) {
	failures, err := s.index.ListFailures(ctx, config.ProjectFolder(workDir))
	if err != nil {
		return nil, err
	}

	byCategory := make(map[string]*primary.FailureCategory)
	var order []string
	for _, f := range failures {
		group, ok := byCategory[f.Category]
		if !ok {
			group = &primary.FailureCategory{Category: f.Category}
			byCategory[f.Category] = group
			order = append(order, f.Category)
		}
		group.Total += f.Count
		group.Occurrences = append(group.Occurrences, f)
	}

	report := make([]*primary.FailureCategory, 0, len(order))
	for _, cat := range order {
		report = append(report, byCategory[cat])
	}
	sort.SliceStable(report, func(i, j int) bool {
		return report[i].Total > report[j].Total
	})

	return report, nil
}

// History extracts the command history of the newest transcript.
func (s *SessionServiceImpl) History(ctx context.Context, workDir string) ([]*primary.HistoryEntry, error) {
	project := config.ProjectFolder(workDir)

	path, err := transcripts.Newest(s.cfg.ProjectsDir, project)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return nil, fmt.Errorf("no transcript found for %s", workDir)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open transcript: %w", err)
	}
	defer file.Close()

	session := transcript.Parse(file, transcripts.SessionID(path))

	entries := make([]*primary.HistoryEntry, 0, len(session.Attempts))
	for _, a := range session.Attempts {
		entries = append(entries, &primary.HistoryEntry{
			Position: a.Position,
			Command:  a.Command,
			Failed:   a.IsError,
			Error:    a.ErrorMessage,
		})
	}
	return entries, nil
}

func knowledgeSummary(knowledge map[string][]string) []string {
	var lines []string
	for _, cat := range models.Categories {
		if n := len(knowledge[cat]); n > 0 {
			lines = append(lines, fmt.Sprintf("- %s: %d items", cat, n))
		}
	}
	return lines
}

func timeAgo(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

func joinMessageText(messages []models.UserMessage) string {
	var parts []string
	for _, m := range messages {
		parts = append(parts, m.Content)
	}
	return strings.Join(parts, "\n")
}

func capMessages(in []models.UserMessage, n int) []models.UserMessage {
	if len(in) > n {
		return in[len(in)-n:]
	}
	return in
}

func capCommands(in []models.LoggedCommand, n int) []models.LoggedCommand {
	if len(in) > n {
		return in[len(in)-n:]
	}
	return in
}

func capFailures(in []models.LoggedFailure, n int) []models.LoggedFailure {
	if len(in) > n {
		return in[len(in)-n:]
	}
	return in
}

// Ensure SessionServiceImpl implements the interface.
var _ primary.SessionService = (*SessionServiceImpl)(nil)
