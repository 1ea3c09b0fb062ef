package app

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/example/recall/internal/core/sop"
	"github.com/example/recall/internal/models"
	"github.com/example/recall/internal/ports/primary"
	"github.com/example/recall/internal/ports/secondary"
)

// HookServiceImpl implements primary.HookService. It never blocks a
// tool invocation: every path returns an allow decision, optionally
// with guidance attached.
type HookServiceImpl struct {
	sops  secondary.SOPStore
	state secondary.StateStore
}

// NewHookService creates a new hook service.
func NewHookService(sops secondary.SOPStore, state secondary.StateStore) *HookServiceImpl {
	return &HookServiceImpl{sops: sops, state: state}
}

// HandlePostToolUse classifies a finished Bash command. Failures are
// matched against the SOP set and recorded in the failure slot;
// successes inside the resolution window clear the slot and suggest
// capturing the fix.
func (h *HookServiceImpl) HandlePostToolUse(ctx context.Context, payload primary.HookPayload) (*primary.HookResponse, error) {
	if payload.ToolName != primary.ToolNameBash {
		return primary.Allow(), nil
	}

	command := payload.ToolInput.Command
	stderr := payload.ToolResponse.Stderr

	// An exit code alone is not a failure: interactive tools exit
	// non-zero routinely. Only a non-zero exit with stderr output
	// counts.
	isError := payload.ToolResponse.ExitCode != 0 && strings.TrimSpace(stderr) != ""

	if isError {
		return h.handleFailure(payload.Cwd, command, stderr), nil
	}
	return h.handleSuccess(command), nil
}

func (h *HookServiceImpl) handleFailure(workDir, command, errorMsg string) *primary.HookResponse {
	name, matched, ok := sop.Match(errorMsg, h.sops.LoadMerged(workDir))

	errorType := models.ErrorTypeUnknown
	if ok {
		errorType = name
	}

	// State write failures are logged to stderr and otherwise ignored:
	// stdout carries the hook response, and the hook never fails over
	// its own storage problems.
	if err := h.state.RecordFailure(errorType, command, errorMsg); err != nil {
		fmt.Fprintf(os.Stderr, "recall: failed to record failure state: %v\n", err)
	}

	if ok {
		text := fmt.Sprintf("Command failed with a known error pattern.\n\n%s\n\nFollow the fixes above before retrying.",
			sop.Format(name, matched))
		return primary.AllowWithContext(text)
	}

	text := fmt.Sprintf(
		"Command failed with an unrecognized error.\nCommand: %s\nError: %s\n\nIf you find the fix, consider saving it as an SOP (recall sops save).",
		models.Truncate(command, 150), models.Truncate(errorMsg, 200))
	return primary.AllowWithContext(text)
}

func (h *HookServiceImpl) handleSuccess(command string) *primary.HookResponse {
	last, ok := h.state.ReadValid()
	if !ok {
		return primary.Allow()
	}

	if err := h.state.Clear(); err != nil {
		fmt.Fprintf(os.Stderr, "recall: failed to clear failure state: %v\n", err)
	}

	text := fmt.Sprintf(
		"This command succeeded after a recent %s failure.\nFailed command: %s\nCurrent command: %s\n\nIf the fix is reusable, save it as an SOP (recall sops save) or a knowledge entry (recall learn).",
		last.ErrorType,
		models.Truncate(last.FailedCommand, 150),
		models.Truncate(command, 150))
	return primary.AllowWithContext(text)
}

// Ensure HookServiceImpl implements the interface.
var _ primary.HookService = (*HookServiceImpl)(nil)
