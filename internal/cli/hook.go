package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/recall/internal/ports/primary"
	"github.com/example/recall/internal/wire"
)

// HookCmd returns the hook command - parent for Claude Code hook handlers
func HookCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hook <event>",
		Short: "Handle Claude Code hook events",
		Long: `Process Claude Code hook events.

This command is called by Claude Code hooks and reads event data from stdin.
Each event has a specific handler subcommand.

Available events:
  post-bash      - PostToolUse for Bash: classify failures, track resolutions
  session-start  - SessionStart: inject session memory context
  session-end    - SessionEnd/Stop: index the finished session

Example:
  echo '{"tool_name":"Bash",...}' | recall hook post-bash`,
	}

	cmd.AddCommand(hookPostBashCmd())
	cmd.AddCommand(hookSessionStartCmd())
	cmd.AddCommand(hookSessionEndCmd())

	return cmd
}

// sessionHookEvent is the shared payload shape of session lifecycle
// hooks.
type sessionHookEvent struct {
	SessionID string `json:"session_id"`
	Cwd       string `json:"cwd"`
}

// sessionStartResponse injects context at session start.
type sessionStartResponse struct {
	HookSpecificOutput struct {
		HookEventName     string `json:"hookEventName"`
		AdditionalContext string `json:"additionalContext"`
	} `json:"hookSpecificOutput"`
}

func hookPostBashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "post-bash",
		Short: "Handle PostToolUse for Bash commands",
		Long:  "Classifies Bash failures against the SOP set and tracks failure resolutions. Never blocks.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHookPostBash()
		},
	}
}

func runHookPostBash() error {
	// Every failure path prints a bare allow: the hook must never
	// break the session over its own problems.
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return printHookResponse(primary.Allow())
	}

	var payload primary.HookPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return printHookResponse(primary.Allow())
	}

	if payload.Cwd == "" {
		if cwd, err := os.Getwd(); err == nil {
			payload.Cwd = cwd
		}
	}

	resp, err := wire.HookService().HandlePostToolUse(context.Background(), payload)
	if err != nil || resp == nil {
		return printHookResponse(primary.Allow())
	}
	return printHookResponse(resp)
}

func hookSessionStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "session-start",
		Short: "Handle SessionStart: inject session memory",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHookSessionStart()
		},
	}
}

func runHookSessionStart() error {
	event := readSessionEvent()
	if event.Cwd == "" {
		return nil
	}

	text, err := wire.SessionService().StartContext(context.Background(), event.Cwd)
	if err != nil || text == "" {
		// No history (or a broken index) means no context, not a
		// failed session start.
		return nil //nolint:nilerr // intentional fail-open design
	}

	var resp sessionStartResponse
	resp.HookSpecificOutput.HookEventName = "SessionStart"
	resp.HookSpecificOutput.AdditionalContext = text

	out, err := json.Marshal(resp)
	if err != nil {
		return nil //nolint:nilerr // intentional fail-open design
	}
	fmt.Println(string(out))
	return nil
}

func hookSessionEndCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "session-end",
		Short: "Handle SessionEnd: index the finished session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHookSessionEnd()
		},
	}
}

func runHookSessionEnd() error {
	event := readSessionEvent()
	if event.Cwd == "" {
		return nil
	}

	resp, err := wire.SessionService().IndexSession(context.Background(),
		primary.IndexSessionRequest{WorkDir: event.Cwd})
	if err != nil {
		// Indexing is best effort at session end.
		fmt.Fprintf(os.Stderr, "recall: session indexing skipped: %v\n", err)
		return nil //nolint:nilerr // intentional fail-open design
	}

	fmt.Fprintf(os.Stderr, "recall: indexed session %s (%d commands, %d failures, %d proposals)\n",
		resp.SessionID, resp.CommandCount, resp.FailureCount, resp.ProposalCount)
	return nil
}

// readSessionEvent reads the lifecycle payload, falling back to the
// process working directory when stdin carries nothing useful.
func readSessionEvent() sessionHookEvent {
	var event sessionHookEvent

	data, err := io.ReadAll(os.Stdin)
	if err == nil && len(data) > 0 {
		_ = json.Unmarshal(data, &event)
	}

	if event.Cwd == "" {
		if cwd, err := os.Getwd(); err == nil {
			event.Cwd = cwd
		}
	}
	return event
}

func printHookResponse(resp *primary.HookResponse) error {
	out, err := json.Marshal(resp)
	if err != nil {
		out = []byte(`{"decision":"allow"}`)
	}
	fmt.Println(string(out))
	return nil
}
