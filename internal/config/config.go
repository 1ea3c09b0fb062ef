// Package config loads the recall settings file and resolves the
// on-disk layout. Every path is derived from a caller-supplied base
// directory so tests can redirect storage away from real user state.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	jsonc "github.com/muhammadmuzzammil1998/jsonc"
)

// Defaults for the tunables the original workflow hardcoded. They are
// settings, not invariants: the resolution window and the
// complex-session thresholds carry no documented rationale beyond the
// author's own workflow.
const (
	DefaultResolutionWindowMinutes = 5
	DefaultFailureThreshold        = 3
	DefaultMessageThreshold        = 10
	DefaultCommandThreshold        = 15
	DefaultSessionsKept            = 50
	DefaultStateTruncateLen        = 500
)

// EnvHome overrides the recall home directory when set.
const EnvHome = "RECALL_HOME"

// Settings is the flat recall configuration.
type Settings struct {
	// Home is the recall base directory. Not serialized; it decides
	// where settings.json itself lives.
	Home string `json:"-"`

	// ProjectsDir holds the host runtime's per-project transcript
	// folders (one subfolder per mangled working directory).
	ProjectsDir string `json:"projects_dir,omitempty"`

	ResolutionWindowMinutes int `json:"resolution_window_minutes,omitempty"`
	FailureThreshold        int `json:"failure_threshold,omitempty"`
	MessageThreshold        int `json:"message_threshold,omitempty"`
	CommandThreshold        int `json:"command_threshold,omitempty"`
	SessionsKept            int `json:"sessions_kept,omitempty"`
	StateTruncateLen        int `json:"state_truncate_len,omitempty"`
}

// DefaultHome returns ~/.recall, honoring the RECALL_HOME override.
func DefaultHome() (string, error) {
	if env := os.Getenv(EnvHome); env != "" {
		return env, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".recall"), nil
}

// Load reads settings.json (JSONC tolerated) from the given base
// directory. A missing or malformed file degrades to defaults; this
// subsystem never fails a hook invocation over its own config.
func Load(home string) *Settings {
	s := defaults(home)

	data, err := os.ReadFile(filepath.Join(home, "settings.json"))
	if err != nil {
		return s
	}

	var loaded Settings
	if err := json.Unmarshal(jsonc.ToJSON(data), &loaded); err != nil {
		return s
	}

	if loaded.ProjectsDir != "" {
		s.ProjectsDir = loaded.ProjectsDir
	}
	if loaded.ResolutionWindowMinutes > 0 {
		s.ResolutionWindowMinutes = loaded.ResolutionWindowMinutes
	}
	if loaded.FailureThreshold > 0 {
		s.FailureThreshold = loaded.FailureThreshold
	}
	if loaded.MessageThreshold > 0 {
		s.MessageThreshold = loaded.MessageThreshold
	}
	if loaded.CommandThreshold > 0 {
		s.CommandThreshold = loaded.CommandThreshold
	}
	if loaded.SessionsKept > 0 {
		s.SessionsKept = loaded.SessionsKept
	}
	if loaded.StateTruncateLen > 0 {
		s.StateTruncateLen = loaded.StateTruncateLen
	}

	return s
}

// Save writes settings.json under the base directory.
func Save(home string, s *Settings) error {
	if err := os.MkdirAll(home, 0755); err != nil {
		return fmt.Errorf("failed to create recall dir: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	path := filepath.Join(home, "settings.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}

	return nil
}

func defaults(home string) *Settings {
	projectsDir := ""
	if userHome, err := os.UserHomeDir(); err == nil {
		projectsDir = filepath.Join(userHome, ".claude", "projects")
	}
	return &Settings{
		Home:                    home,
		ProjectsDir:             projectsDir,
		ResolutionWindowMinutes: DefaultResolutionWindowMinutes,
		FailureThreshold:        DefaultFailureThreshold,
		MessageThreshold:        DefaultMessageThreshold,
		CommandThreshold:        DefaultCommandThreshold,
		SessionsKept:            DefaultSessionsKept,
		StateTruncateLen:        DefaultStateTruncateLen,
	}
}

// Layout helpers. Everything the subsystem writes lives under Home
// except project-scoped documents, which sit in the project tree.

// GlobalSOPsPath returns the path of the global SOP document.
func (s *Settings) GlobalSOPsPath() string {
	return filepath.Join(s.Home, "sops.json")
}

// GlobalKnowledgePath returns the path of the global knowledge file.
func (s *Settings) GlobalKnowledgePath() string {
	return filepath.Join(s.Home, "knowledge.md")
}

// PendingPath returns the path of the pending-learnings queue.
func (s *Settings) PendingPath() string {
	return filepath.Join(s.Home, "pending-learnings.json")
}

// StatePath returns the path of the single-slot failure state file.
func (s *Settings) StatePath() string {
	return filepath.Join(s.Home, ".last-failure")
}

// IndexDBPath returns the path of the session index database.
func (s *Settings) IndexDBPath() string {
	return filepath.Join(s.Home, "index.db")
}

// SessionDetailsDir returns the directory holding full session detail
// files for one project.
func (s *Settings) SessionDetailsDir(projectFolder string) string {
	return filepath.Join(s.Home, "sessions", projectFolder)
}

// ProjectFolder converts a working directory to the host runtime's
// project folder naming convention.
func ProjectFolder(cwd string) string {
	return strings.ReplaceAll(cwd, string(filepath.Separator), "-")
}

// ProjectMarkerDir is the directory that marks a project root and
// holds project-scoped documents.
const ProjectMarkerDir = ".claude"

// ProjectSOPsRelPath is the project SOP document path relative to the
// project root.
var ProjectSOPsRelPath = filepath.Join(ProjectMarkerDir, "sops.json")

// ProjectKnowledgeRelPath is the project knowledge file path relative
// to the project root.
var ProjectKnowledgeRelPath = filepath.Join(ProjectMarkerDir, "knowledge.md")

// FindProjectFile walks upward from dir looking for rel. Returns the
// first match or "" when no ancestor carries it.
func FindProjectFile(dir, rel string) string {
	for {
		candidate := filepath.Join(dir, rel)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// ProjectRoot walks upward from dir looking for the project marker
// directory. Falls back to dir itself when no marker is found.
func ProjectRoot(dir string) string {
	cur := dir
	for {
		if fi, err := os.Stat(filepath.Join(cur, ProjectMarkerDir)); err == nil && fi.IsDir() {
			return cur
		}
		if fi, err := os.Stat(filepath.Join(cur, ".git")); err == nil && fi.IsDir() {
			return cur
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return dir
		}
		cur = parent
	}
}
