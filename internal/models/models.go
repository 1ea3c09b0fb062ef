// Package models contains the value types shared across the recall
// services and adapters.
package models

import (
	"time"
	"unicode/utf8"
)

// Knowledge categories. The set is closed: documents only ever carry
// these four headings and anything else is rejected at the store
// boundary.
const (
	CategoryCredentials = "Credentials"
	CategoryTools       = "Tools"
	CategoryGotchas     = "Gotchas"
	CategoryWorkflows   = "Workflows"
)

// Categories lists the knowledge categories in document heading order.
var Categories = []string{
	CategoryCredentials,
	CategoryTools,
	CategoryGotchas,
	CategoryWorkflows,
}

// ValidCategory reports whether c is one of the closed category set.
func ValidCategory(c string) bool {
	for _, cat := range Categories {
		if c == cat {
			return true
		}
	}
	return false
}

// Scope constants for knowledge and SOP documents.
const (
	ScopeGlobal  = "global"
	ScopeProject = "project"
)

// OppositeScope flips global<->project. Used by the learn review flow
// when the user accepts a proposal into the non-suggested scope.
func OppositeScope(scope string) string {
	if scope == ScopeGlobal {
		return ScopeProject
	}
	return ScopeGlobal
}

// Pending learning sources.
const (
	SourceHeuristic = "heuristic"
	SourceSemantic  = "semantic-analysis"
)

// ErrorTypeUnknown is the sentinel error type recorded when a failure
// matches no SOP.
const ErrorTypeUnknown = "UNKNOWN"

// KnowledgeItem is one fact line filed under a category.
type KnowledgeItem struct {
	Category string
	Content  string
	Scope    string
}

// PendingLearning is a proposed knowledge item awaiting user review.
type PendingLearning struct {
	ID             string `json:"id"`
	Timestamp      string `json:"timestamp"`
	SessionID      string `json:"session_id"`
	SessionSummary string `json:"session_summary"`
	Project        string `json:"project"`
	Category       string `json:"category"`
	Title          string `json:"title"`
	Content        string `json:"content"`
	SuggestedScope string `json:"suggested_scope"`
	Source         string `json:"source"`
}

// FailureState is the single-slot record of the most recent unresolved
// command failure. It is only meaningful within the resolution window.
type FailureState struct {
	Timestamp     time.Time `json:"timestamp"`
	ErrorType     string    `json:"error_type"`
	FailedCommand string    `json:"failed_command"`
	ErrorMessage  string    `json:"error_message"`
}

// SessionSummary is the lightweight per-session row kept in the index.
type SessionSummary struct {
	SessionID     string
	Project       string
	Date          time.Time
	Summary       string
	MessageCount  int
	CommandCount  int
	FailureCount  int
	SkillCount    int
	Topics        []string
	NeedsAnalysis bool
}

// FailureOccurrence is one categorized failure recorded in the index.
// Repeated occurrences of the same command prefix within a category
// increment Count instead of adding rows.
type FailureOccurrence struct {
	SessionID string
	Project   string
	Category  string
	Command   string
	Error     string
	Count     int
	Date      time.Time
}

// SessionDetails is the full per-session record stored alongside the
// index (tiered storage: summaries in the index, details on disk).
type SessionDetails struct {
	SessionID     string            `json:"session_id"`
	Date          time.Time         `json:"date"`
	Summary       string            `json:"summary"`
	Topics        []string          `json:"topics"`
	UserMessages  []UserMessage       `json:"user_messages"`
	Commands      []LoggedCommand     `json:"commands"`
	Failures      []LoggedFailure     `json:"failures"`
	Resolutions   []FailureResolution `json:"resolutions,omitempty"`
	SkillsUsed    []SkillInvocation   `json:"skills_used"`
	NeedsAnalysis bool                `json:"needs_analysis"`
}

// UserMessage is one captured user prompt from a transcript.
type UserMessage struct {
	Position  int    `json:"index"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp,omitempty"`
}

// LoggedCommand is one Bash invocation captured from a transcript.
type LoggedCommand struct {
	Position int    `json:"index"`
	ToolID   string `json:"tool_id"`
	Command  string `json:"command"`
}

// LoggedFailure is a command joined with its error result.
type LoggedFailure struct {
	Position int    `json:"index"`
	Command  string `json:"command"`
	Error    string `json:"error"`
	Category string `json:"category"`
}

// FailureResolution records a run of consecutive command failures and
// the command that finally broke it. Command and Error describe the
// last failure before the resolution.
type FailureResolution struct {
	Position     int    `json:"index"`
	Command      string `json:"command"`
	Error        string `json:"error"`
	Category     string `json:"category"`
	FailureCount int    `json:"failure_count"`
	ResolvedBy   string `json:"resolved_by"`
}

// SkillInvocation records one Skill tool call within a session.
type SkillInvocation struct {
	Skill     string `json:"skill"`
	Timestamp string `json:"timestamp,omitempty"`
}

// Truncate shortens s to at most n bytes, appending an ellipsis when
// anything was cut. The cut never splits a multi-byte rune.
func Truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
