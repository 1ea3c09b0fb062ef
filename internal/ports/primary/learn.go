package primary

import (
	"context"

	"github.com/example/recall/internal/models"
)

// LearnService defines the primary port for reviewing pending
// learnings.
type LearnService interface {
	// ListPending returns the proposals awaiting review.
	ListPending(ctx context.Context) ([]models.PendingLearning, error)

	// Accept promotes one proposal to a stored knowledge item and
	// removes it from the queue. When useOppositeScope is set the
	// item lands in the non-suggested scope.
	Accept(ctx context.Context, req AcceptRequest) (*AcceptResponse, error)

	// Reject deletes one proposal permanently.
	Reject(ctx context.Context, id string) error

	// AcceptAll promotes every pending proposal with its suggested
	// scope. Returns per-item results.
	AcceptAll(ctx context.Context, workDir string) ([]*AcceptResponse, error)

	// Knowledge returns the accepted knowledge items, global and
	// project merged per category.
	Knowledge(ctx context.Context, workDir string) (map[string][]string, error)
}

// AcceptRequest identifies a proposal and its destination.
type AcceptRequest struct {
	ID               string
	WorkDir          string
	UseOppositeScope bool
}

// AcceptResponse reports where a proposal landed.
type AcceptResponse struct {
	ID       string
	Title    string
	Category string
	Scope    string
}
