package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func readHooks(t *testing.T, path string) map[string]any {
	t.Helper()

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read settings: %v", err)
	}
	var root map[string]any
	if err := json.Unmarshal(raw, &root); err != nil {
		t.Fatalf("failed to parse settings: %v", err)
	}
	hooks, ok := root["hooks"].(map[string]any)
	if !ok {
		t.Fatalf("settings have no hooks object: %s", raw)
	}
	return hooks
}

func TestMergeHostHooks_CreatesMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".claude", "settings.json")

	changed, err := mergeHostHooks(path)
	if err != nil {
		t.Fatalf("mergeHostHooks() error: %v", err)
	}
	if !changed {
		t.Error("changed = false, want true")
	}

	hooks := readHooks(t, path)
	for _, event := range []string{"PostToolUse", "SessionStart", "SessionEnd"} {
		if _, ok := hooks[event]; !ok {
			t.Errorf("hooks missing %s entry", event)
		}
	}

	post, _ := hooks["PostToolUse"].([]any)
	if len(post) != 1 {
		t.Fatalf("len(PostToolUse) = %d, want 1", len(post))
	}
	entry := post[0].(map[string]any)
	if entry["matcher"] != "Bash" {
		t.Errorf("PostToolUse matcher = %v, want Bash", entry["matcher"])
	}
}

func TestMergeHostHooks_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")

	if _, err := mergeHostHooks(path); err != nil {
		t.Fatalf("first merge error: %v", err)
	}
	changed, err := mergeHostHooks(path)
	if err != nil {
		t.Fatalf("second merge error: %v", err)
	}
	if changed {
		t.Error("second merge changed = true, want false")
	}

	hooks := readHooks(t, path)
	post, _ := hooks["PostToolUse"].([]any)
	if len(post) != 1 {
		t.Errorf("len(PostToolUse) = %d after re-run, want 1", len(post))
	}
}

func TestMergeHostHooks_KeepsForeignEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	existing := `{
  // user settings
  "model": "default",
  "hooks": {
    "PostToolUse": [
      {"matcher": "Write", "hooks": [{"type": "command", "command": "fmt-on-save"}]}
    ]
  }
}`
	if err := os.WriteFile(path, []byte(existing), 0644); err != nil {
		t.Fatalf("failed to seed settings: %v", err)
	}

	changed, err := mergeHostHooks(path)
	if err != nil {
		t.Fatalf("mergeHostHooks() error: %v", err)
	}
	if !changed {
		t.Error("changed = false, want true")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read settings: %v", err)
	}
	var root map[string]any
	if err := json.Unmarshal(raw, &root); err != nil {
		t.Fatalf("failed to parse settings: %v", err)
	}
	if root["model"] != "default" {
		t.Errorf("model = %v, want default (unrelated keys kept)", root["model"])
	}

	hooks := root["hooks"].(map[string]any)
	post, _ := hooks["PostToolUse"].([]any)
	if len(post) != 2 {
		t.Fatalf("len(PostToolUse) = %d, want 2 (existing entry kept)", len(post))
	}
	first := post[0].(map[string]any)
	if first["matcher"] != "Write" {
		t.Errorf("first PostToolUse matcher = %v, want Write", first["matcher"])
	}
}

func TestHasRecallHook(t *testing.T) {
	entries := []any{
		map[string]any{
			"matcher": "Bash",
			"hooks":   []any{map[string]any{"type": "command", "command": "recall hook post-bash"}},
		},
	}
	if !hasRecallHook(entries) {
		t.Error("hasRecallHook() = false, want true")
	}
	if hasRecallHook(nil) {
		t.Error("hasRecallHook(nil) = true, want false")
	}
}
