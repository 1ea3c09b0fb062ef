package jsonfile

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/example/recall/internal/config"
	"github.com/example/recall/internal/models"
	"github.com/example/recall/internal/ports/secondary"
)

// pendingDocument is the on-disk queue shape.
type pendingDocument struct {
	Version int                      `json:"version"`
	Pending []models.PendingLearning `json:"pending"`
}

// PendingStore implements secondary.PendingStore over one JSON queue
// file.
type PendingStore struct {
	cfg *config.Settings
}

// NewPendingStore creates a pending-learnings store using the
// settings' paths.
func NewPendingStore(cfg *config.Settings) *PendingStore {
	return &PendingStore{cfg: cfg}
}

// Load returns the queue in stored order. Missing or malformed files
// degrade to an empty queue.
func (p *PendingStore) Load() ([]models.PendingLearning, error) {
	return p.read().Pending, nil
}

// Add queues one proposal. Proposals are deduplicated by exact
// content: re-adding identical content returns the existing id and
// leaves the queue unchanged.
func (p *PendingStore) Add(l models.PendingLearning) (string, error) {
	doc := p.read()

	for _, existing := range doc.Pending {
		if existing.Content == l.Content {
			return existing.ID, nil
		}
	}

	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	doc.Pending = append(doc.Pending, l)

	if err := p.write(doc); err != nil {
		return "", err
	}
	return l.ID, nil
}

// Get returns one pending learning by id.
func (p *PendingStore) Get(id string) (*models.PendingLearning, error) {
	for _, l := range p.read().Pending {
		if l.ID == id {
			return &l, nil
		}
	}
	return nil, fmt.Errorf("pending learning %s not found", id)
}

// Remove deletes one entry by id. Removing an unknown id is a no-op.
func (p *PendingStore) Remove(id string) error {
	doc := p.read()

	kept := doc.Pending[:0]
	removed := false
	for _, l := range doc.Pending {
		if l.ID == id {
			removed = true
			continue
		}
		kept = append(kept, l)
	}
	if !removed {
		return nil
	}

	doc.Pending = kept
	return p.write(doc)
}

// Count returns the number of queued proposals.
func (p *PendingStore) Count() int {
	return len(p.read().Pending)
}

func (p *PendingStore) read() *pendingDocument {
	doc := &pendingDocument{Version: 1}

	data, err := os.ReadFile(p.cfg.PendingPath())
	if err != nil {
		return doc
	}
	if err := json.Unmarshal(data, doc); err != nil {
		return &pendingDocument{Version: 1}
	}
	if doc.Version == 0 {
		doc.Version = 1
	}
	return doc
}

func (p *PendingStore) write(doc *pendingDocument) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal pending learnings: %w", err)
	}
	return writeAtomic(p.cfg.PendingPath(), data)
}

// Ensure PendingStore implements the interface.
var _ secondary.PendingStore = (*PendingStore)(nil)
