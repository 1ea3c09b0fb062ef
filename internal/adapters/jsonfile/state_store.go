package jsonfile

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/example/recall/internal/config"
	"github.com/example/recall/internal/models"
	"github.com/example/recall/internal/ports/secondary"
)

// StateStore implements secondary.StateStore: a single-slot failure
// record with a time-boxed validity window. Only the most recent
// failure is ever tracked, which keeps resolution detection O(1) and
// immune to unrelated successes long after the fact.
type StateStore struct {
	cfg *config.Settings
	now func() time.Time
}

// NewStateStore creates a failure-state store using the settings'
// paths and resolution window.
func NewStateStore(cfg *config.Settings) *StateStore {
	return &StateStore{cfg: cfg, now: time.Now}
}

func (s *StateStore) window() time.Duration {
	return time.Duration(s.cfg.ResolutionWindowMinutes) * time.Minute
}

// RecordFailure overwrites the slot with a fresh timestamp. Command
// and message are truncated to the configured length before storage.
func (s *StateStore) RecordFailure(errorType, command, message string) error {
	state := models.FailureState{
		Timestamp:     s.now(),
		ErrorType:     errorType,
		FailedCommand: models.Truncate(command, s.cfg.StateTruncateLen),
		ErrorMessage:  models.Truncate(message, s.cfg.StateTruncateLen),
	}

	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal failure state: %w", err)
	}
	return writeAtomic(s.cfg.StatePath(), data)
}

// ReadValid returns the stored state only while it is inside the
// resolution window. Expired state is purged on read and reported as
// absent, as is a missing or unreadable file.
func (s *StateStore) ReadValid() (*models.FailureState, bool) {
	data, err := os.ReadFile(s.cfg.StatePath())
	if err != nil {
		return nil, false
	}

	var state models.FailureState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, false
	}

	if s.now().Sub(state.Timestamp) > s.window() {
		os.Remove(s.cfg.StatePath())
		return nil, false
	}

	return &state, true
}

// Clear deletes the slot unconditionally.
func (s *StateStore) Clear() error {
	err := os.Remove(s.cfg.StatePath())
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear failure state: %w", err)
	}
	return nil
}

// Ensure StateStore implements the interface.
var _ secondary.StateStore = (*StateStore)(nil)
