package jsonfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/example/recall/internal/config"
	"github.com/example/recall/internal/models"
	"github.com/example/recall/internal/ports/secondary"
)

// DetailsStore implements secondary.DetailsStore: one JSON document
// per indexed session, stored outside the index so the index itself
// stays lightweight.
type DetailsStore struct {
	cfg *config.Settings
}

// NewDetailsStore creates a session-details store using the settings'
// paths.
func NewDetailsStore(cfg *config.Settings) *DetailsStore {
	return &DetailsStore{cfg: cfg}
}

// Save writes one session's full details.
func (d *DetailsStore) Save(project string, details *models.SessionDetails) error {
	data, err := json.MarshalIndent(details, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session details: %w", err)
	}

	path := filepath.Join(d.cfg.SessionDetailsDir(project), details.SessionID+".json")
	return writeAtomic(path, data)
}

// Load reads one session's full details.
func (d *DetailsStore) Load(project, sessionID string) (*models.SessionDetails, error) {
	path := filepath.Join(d.cfg.SessionDetailsDir(project), sessionID+".json")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read session details: %w", err)
	}

	var details models.SessionDetails
	if err := json.Unmarshal(data, &details); err != nil {
		return nil, fmt.Errorf("failed to parse session details: %w", err)
	}
	return &details, nil
}

// Ensure DetailsStore implements the interface.
var _ secondary.DetailsStore = (*DetailsStore)(nil)
