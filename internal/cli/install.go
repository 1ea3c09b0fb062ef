package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/muhammadmuzzammil1998/jsonc"
	"github.com/spf13/cobra"

	"github.com/example/recall/internal/config"
	"github.com/example/recall/internal/wire"
)

// hookWiring lists the hook entries merged into the host runtime's
// settings. An event already carrying a recall command is left alone.
var hookWiring = []struct {
	event   string
	matcher string
	command string
}{
	{"PostToolUse", "Bash", "recall hook post-bash"},
	{"SessionStart", "", "recall hook session-start"},
	{"SessionEnd", "", "recall hook session-end"},
}

// hooksSnippet is the manual fallback when the host settings file
// cannot be merged automatically.
const hooksSnippet = `{
  "hooks": {
    "PostToolUse": [
      {
        "matcher": "Bash",
        "hooks": [{"type": "command", "command": "recall hook post-bash"}]
      }
    ],
    "SessionStart": [
      {
        "hooks": [{"type": "command", "command": "recall hook session-start"}]
      }
    ],
    "SessionEnd": [
      {
        "hooks": [{"type": "command", "command": "recall hook session-end"}]
      }
    ]
  }
}`

// InstallCmd returns the install command
func InstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "install",
		Short: "Initialize the recall home and wire the host hooks",
		Long: `Initialize the recall home directory (settings, default SOPs) and
merge the hook entries into the host runtime's settings file.

Safe to run repeatedly; existing files are never overwritten and
hook entries are only added when missing.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := wire.Settings()

			if err := os.MkdirAll(cfg.Home, 0755); err != nil {
				return fmt.Errorf("failed to create recall home: %w", err)
			}

			settingsPath := filepath.Join(cfg.Home, "settings.json")
			if _, err := os.Stat(settingsPath); os.IsNotExist(err) {
				if err := config.Save(cfg.Home, cfg); err != nil {
					return err
				}
				fmt.Printf("Wrote %s\n", settingsPath)
			} else {
				fmt.Printf("Settings already exist at %s\n", settingsPath)
			}

			wrote, err := wire.SOPService().ProvisionDefaults(cmdContext())
			if err != nil {
				return err
			}
			if wrote {
				fmt.Printf("Wrote default SOPs to %s\n", cfg.GlobalSOPsPath())
			} else {
				fmt.Printf("SOP document already exists at %s\n", cfg.GlobalSOPsPath())
			}

			hostPath, err := hostSettingsPath()
			if err == nil {
				var changed bool
				changed, err = mergeHostHooks(hostPath)
				if err == nil {
					if changed {
						fmt.Printf("Wired hooks into %s\n", hostPath)
					} else {
						fmt.Printf("Hooks already wired in %s\n", hostPath)
					}
					return nil
				}
			}

			// Couldn't touch the host settings; leave the wiring to
			// the user rather than fail the whole install.
			bold := color.New(color.Bold)
			fmt.Fprintf(os.Stderr, "Could not update host settings: %v\n", err)
			bold.Println("\nAdd the hook wiring to your host settings manually:")
			fmt.Println(hooksSnippet)
			return nil
		},
	}
}

func hostSettingsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".claude", "settings.json"), nil
}

// mergeHostHooks adds the hook entries from hookWiring to the settings
// file at path, creating it when absent. Events that already invoke a
// recall command are left untouched. Returns whether the file changed.
func mergeHostHooks(path string) (bool, error) {
	root := map[string]any{}
	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(jsonc.ToJSON(raw), &root); err != nil {
			return false, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return false, fmt.Errorf("failed to read %s: %w", path, err)
	}

	hooks, ok := root["hooks"].(map[string]any)
	if !ok {
		hooks = map[string]any{}
		root["hooks"] = hooks
	}

	changed := false
	for _, w := range hookWiring {
		entries, _ := hooks[w.event].([]any)
		if hasRecallHook(entries) {
			continue
		}
		entry := map[string]any{
			"hooks": []any{map[string]any{"type": "command", "command": w.command}},
		}
		if w.matcher != "" {
			entry["matcher"] = w.matcher
		}
		hooks[w.event] = append(entries, entry)
		changed = true
	}
	if !changed {
		return false, nil
	}

	data, err := json.MarshalIndent(root, "", "  ")
	if err != nil {
		return false, fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return false, fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return true, nil
}

// hasRecallHook reports whether any entry under one hook event already
// runs a recall hook command.
func hasRecallHook(entries []any) bool {
	for _, e := range entries {
		entry, ok := e.(map[string]any)
		if !ok {
			continue
		}
		cmds, _ := entry["hooks"].([]any)
		for _, c := range cmds {
			hook, ok := c.(map[string]any)
			if !ok {
				continue
			}
			if cmd, ok := hook["command"].(string); ok && strings.Contains(cmd, "recall hook") {
				return true
			}
		}
	}
	return false
}
