package jsonfile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/example/recall/internal/config"
)

// testSettings returns settings rooted in a temp directory so tests
// never touch real user state.
func testSettings(t *testing.T) *config.Settings {
	t.Helper()
	return &config.Settings{
		Home:                    t.TempDir(),
		ResolutionWindowMinutes: config.DefaultResolutionWindowMinutes,
		FailureThreshold:        config.DefaultFailureThreshold,
		MessageThreshold:        config.DefaultMessageThreshold,
		CommandThreshold:        config.DefaultCommandThreshold,
		SessionsKept:            config.DefaultSessionsKept,
		StateTruncateLen:        config.DefaultStateTruncateLen,
	}
}

// testProjectDir returns a temp directory carrying the project marker.
func testProjectDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, config.ProjectMarkerDir), 0755); err != nil {
		t.Fatalf("failed to create project marker: %v", err)
	}
	return dir
}
