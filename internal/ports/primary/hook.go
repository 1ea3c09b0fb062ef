package primary

import "context"

// HookService defines the primary port for host hook invocations.
type HookService interface {
	// HandlePostToolUse processes one PostToolUse payload and returns
	// the hook response. Non-Bash tools pass through with a bare
	// allow. Never returns a blocking decision.
	HandlePostToolUse(ctx context.Context, payload HookPayload) (*HookResponse, error)
}

// HookPayload is the JSON object the host runtime delivers on stdin.
type HookPayload struct {
	ToolName     string       `json:"tool_name"`
	ToolInput    ToolInput    `json:"tool_input"`
	ToolResponse ToolResponse `json:"tool_response"`
	Cwd          string       `json:"cwd,omitempty"`
	SessionID    string       `json:"session_id,omitempty"`
}

// ToolInput carries the command for Bash-shaped payloads.
type ToolInput struct {
	Command string `json:"command"`
}

// ToolResponse carries the command outcome.
type ToolResponse struct {
	ExitCode int    `json:"exitCode"`
	Stdout   string `json:"stdout"`
	Stderr   string `json:"stderr"`
}

// HookResponse is printed as JSON for the host runtime.
type HookResponse struct {
	Decision           string      `json:"decision"`
	HookSpecificOutput *HookOutput `json:"hookSpecificOutput,omitempty"`
}

// HookOutput injects additional context into the assistant.
type HookOutput struct {
	HookEventName     string `json:"hookEventName"`
	AdditionalContext string `json:"additionalContext"`
}

// Hook constants.
const (
	HookDecisionAllow    = "allow"
	HookEventPostToolUse = "PostToolUse"
	ToolNameBash         = "Bash"
)

// Allow returns the trivial pass-through response.
func Allow() *HookResponse {
	return &HookResponse{Decision: HookDecisionAllow}
}

// AllowWithContext returns an allow response carrying injected
// context text.
func AllowWithContext(text string) *HookResponse {
	return &HookResponse{
		Decision: HookDecisionAllow,
		HookSpecificOutput: &HookOutput{
			HookEventName:     HookEventPostToolUse,
			AdditionalContext: text,
		},
	}
}
