package app

import (
	"context"
	"fmt"

	"github.com/example/recall/internal/models"
	"github.com/example/recall/internal/ports/primary"
	"github.com/example/recall/internal/ports/secondary"
)

// LearnServiceImpl implements primary.LearnService: review of pending
// learning proposals and their promotion into the knowledge store.
type LearnServiceImpl struct {
	pending   secondary.PendingStore
	knowledge secondary.KnowledgeStore
}

// NewLearnService creates a new learn service.
func NewLearnService(pending secondary.PendingStore, knowledge secondary.KnowledgeStore) *LearnServiceImpl {
	return &LearnServiceImpl{pending: pending, knowledge: knowledge}
}

// ListPending returns the proposals awaiting review.
func (l *LearnServiceImpl) ListPending(ctx context.Context) ([]models.PendingLearning, error) {
	return l.pending.Load()
}

// Accept promotes one proposal to a stored knowledge item and removes
// it from the queue.
func (l *LearnServiceImpl) Accept(ctx context.Context, req primary.AcceptRequest) (*primary.AcceptResponse, error) {
	learned, err := l.pending.Get(req.ID)
	if err != nil {
		return nil, err
	}
	if learned == nil {
		return nil, fmt.Errorf("no pending learning with id %s", req.ID)
	}

	scope := learned.SuggestedScope
	if req.UseOppositeScope {
		scope = models.OppositeScope(scope)
	}

	item := models.KnowledgeItem{
		Category: learned.Category,
		Content:  learned.Content,
		Scope:    scope,
	}
	if err := l.knowledge.Add(item, req.WorkDir); err != nil {
		return nil, err
	}

	if err := l.pending.Remove(req.ID); err != nil {
		return nil, err
	}

	return &primary.AcceptResponse{
		ID:       learned.ID,
		Title:    learned.Title,
		Category: learned.Category,
		Scope:    scope,
	}, nil
}

// Reject deletes one proposal permanently.
func (l *LearnServiceImpl) Reject(ctx context.Context, id string) error {
	learned, err := l.pending.Get(id)
	if err != nil {
		return err
	}
	if learned == nil {
		return fmt.Errorf("no pending learning with id %s", id)
	}
	return l.pending.Remove(id)
}

// AcceptAll promotes every pending proposal with its suggested scope.
func (l *LearnServiceImpl) AcceptAll(ctx context.Context, workDir string) ([]*primary.AcceptResponse, error) {
	queue, err := l.pending.Load()
	if err != nil {
		return nil, err
	}

	var results []*primary.AcceptResponse
	for _, learned := range queue {
		resp, err := l.Accept(ctx, primary.AcceptRequest{ID: learned.ID, WorkDir: workDir})
		if err != nil {
			return results, err
		}
		results = append(results, resp)
	}
	return results, nil
}

// Knowledge returns the accepted knowledge items, global and project
// merged per category.
func (l *LearnServiceImpl) Knowledge(ctx context.Context, workDir string) (map[string][]string, error) {
	return l.knowledge.All(workDir), nil
}

// Ensure LearnServiceImpl implements the interface.
var _ primary.LearnService = (*LearnServiceImpl)(nil)
