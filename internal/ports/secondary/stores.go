// Package secondary defines the repository interfaces the services
// depend on. File-backed adapters live in adapters/jsonfile, the
// session index in adapters/sqlite.
package secondary

import (
	"context"

	"github.com/example/recall/internal/core/sop"
	"github.com/example/recall/internal/models"
)

// SOPStore persists layered SOP documents.
type SOPStore interface {
	// LoadMerged returns global+project merged by name with project
	// winning. Malformed or missing documents degrade to empty.
	LoadMerged(workDir string) *sop.Set

	// Save merges one entry into the scope's document without
	// touching unrelated entries, writing atomically.
	Save(name string, s sop.SOP, scope, workDir string) error

	// ProvisionDefaults writes doc to the global path only when no
	// document exists there. Reports whether it wrote.
	ProvisionDefaults(doc *sop.Document) (bool, error)
}

// KnowledgeStore persists category→items knowledge documents.
type KnowledgeStore interface {
	// Load reads one scope's document as category→items, order
	// preserved per category. Missing/unreadable degrades to empty.
	Load(scope, workDir string) map[string][]string

	// Add appends one item, suppressing exact duplicates within the
	// same category and scope.
	Add(item models.KnowledgeItem, workDir string) error

	// All merges global then project items per category.
	All(workDir string) map[string][]string
}

// PendingStore persists the pending-learnings queue.
type PendingStore interface {
	// Load returns the queue in stored order.
	Load() ([]models.PendingLearning, error)

	// Add queues a proposal, deduplicating by exact content: adding
	// identical content returns the existing id.
	Add(l models.PendingLearning) (string, error)

	// Get returns one pending learning by id.
	Get(id string) (*models.PendingLearning, error)

	// Remove deletes one entry by id.
	Remove(id string) error

	// Count returns the number of queued proposals.
	Count() int
}

// StateStore is the single-slot failure state tracker.
type StateStore interface {
	// RecordFailure overwrites the slot with a fresh timestamp.
	RecordFailure(errorType, command, message string) error

	// ReadValid returns the state only while it is inside the
	// resolution window, purging expired state on read.
	ReadValid() (*models.FailureState, bool)

	// Clear deletes the slot unconditionally.
	Clear() error
}

// SessionIndexRepository is the queryable session index.
type SessionIndexRepository interface {
	UpsertSession(ctx context.Context, s *models.SessionSummary) error
	ListSessions(ctx context.Context, project string, limit int) ([]*models.SessionSummary, error)
	SearchSessions(ctx context.Context, project, term string) ([]*models.SessionSummary, error)

	// RecordFailure merges one occurrence into the project's failure
	// patterns, deduplicating by category + command prefix (the
	// count increments instead of adding a row).
	RecordFailure(ctx context.Context, occ *models.FailureOccurrence) error
	ListFailures(ctx context.Context, project string) ([]*models.FailureOccurrence, error)
	SearchFailures(ctx context.Context, project, term string) ([]*models.FailureOccurrence, error)

	// PruneSessions keeps only the newest keep session rows for the
	// project. Detail files are not touched.
	PruneSessions(ctx context.Context, project string, keep int) error
}

// DetailsStore holds full per-session detail documents (tiered
// storage next to the lightweight index).
type DetailsStore interface {
	Save(project string, d *models.SessionDetails) error
	Load(project, sessionID string) (*models.SessionDetails, error)
}
