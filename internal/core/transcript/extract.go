// Package transcript parses host-runtime session logs: one JSON
// record per line, tagged assistant (tool invocations) or user (tool
// results), joined by tool id. All functions are pure over explicit
// input; the transcript files themselves are owned by the host and
// never mutated here.
package transcript

import (
	"bufio"
	"encoding/json"
	"io"
	"sort"
	"strings"

	"github.com/example/recall/internal/models"
)

// Capture limits keep the index bounded regardless of transcript size.
const (
	MaxMessageLen = 200
	MaxCommandLen = 150
	MaxErrorLen   = 200

	// Transcript lines carry full tool output and can run long.
	maxLineBytes = 4 * 1024 * 1024
)

// Error-indicator substrings: a tool result without the is_error flag
// still counts as a failure when its content looks like one.
var errorIndicators = []string{
	"error:", "failed", "exception", "traceback",
	"permission denied", "not found", "command not found",
}

// CommandAttempt is one command joined with its outcome, in original
// transcript order.
type CommandAttempt struct {
	Position     int
	ToolID       string
	Command      string
	IsError      bool
	ErrorMessage string
}

// Session is everything extracted from one transcript.
type Session struct {
	SessionID    string
	UserMessages []models.UserMessage
	Commands     []models.LoggedCommand
	Attempts     []CommandAttempt
	SkillsUsed   []models.SkillInvocation
	Topics       []string
	Summary      string
}

// Failures returns the failing attempts as index failure records,
// categorized.
func (s *Session) Failures() []models.LoggedFailure {
	var out []models.LoggedFailure
	for _, a := range s.Attempts {
		if !a.IsError {
			continue
		}
		out = append(out, models.LoggedFailure{
			Position: a.Position,
			Command:  a.Command,
			Error:    a.ErrorMessage,
			Category: Categorize(a.ErrorMessage),
		})
	}
	return out
}

// record is the subset of a transcript line this subsystem reads.
type record struct {
	Type      string          `json:"type"`
	Timestamp string          `json:"timestamp"`
	Message   json.RawMessage `json:"message"`
}

type message struct {
	Content json.RawMessage `json:"content"`
}

type contentBlock struct {
	Type      string          `json:"type"`
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Input     json.RawMessage `json:"input"`
	ToolUseID string          `json:"tool_use_id"`
	IsError   bool            `json:"is_error"`
	Content   json.RawMessage `json:"content"`
	Text      string          `json:"text"`
}

type bashInput struct {
	Command string `json:"command"`
}

type skillInput struct {
	Skill string `json:"skill"`
}

// toolResult is one tool_result block keyed by its tool_use id.
type toolResult struct {
	isError bool
	content string
}

// Parse scans a transcript and extracts messages, commands, joined
// command attempts, and skill invocations. Malformed or oversized
// lines are skipped; one corrupt line never aborts the rest of the
// session.
func Parse(r io.Reader, sessionID string) *Session {
	session := &Session{SessionID: sessionID}
	results := make(map[string]toolResult)

	reader := bufio.NewReaderSize(r, 64*1024)

	pos := 0
	for {
		line, err := readLine(reader)
		if line == nil && err != nil {
			break
		}
		pos++

		if line == nil {
			// Oversized line discarded; resynchronized at the next
			// record.
			continue
		}

		var rec record
		if err := json.Unmarshal(line, &rec); err == nil {
			var msg message
			if len(rec.Message) > 0 && json.Unmarshal(rec.Message, &msg) == nil {
				switch rec.Type {
				case "user":
					parseUserRecord(session, &msg, rec.Timestamp, pos, results)
				case "assistant":
					parseAssistantRecord(session, &msg, rec.Timestamp, pos)
				}
			}
		}

		if err != nil {
			break
		}
	}

	session.Attempts = joinResults(session.Commands, results)
	session.Topics = topicsFromMessages(session.UserMessages)
	session.Summary = Summarize(session)

	return session
}

// readLine returns the next newline-terminated line. Lines over
// maxLineBytes come back nil with their remainder consumed, so the
// caller picks up again at the following record.
func readLine(reader *bufio.Reader) ([]byte, error) {
	var buf []byte
	for {
		chunk, err := reader.ReadSlice('\n')
		buf = append(buf, chunk...)

		if err == bufio.ErrBufferFull {
			if len(buf) <= maxLineBytes {
				continue
			}
			// Drain the rest of the oversized line.
			for err == bufio.ErrBufferFull {
				_, err = reader.ReadSlice('\n')
			}
			return nil, err
		}

		if len(buf) == 0 || len(buf) > maxLineBytes {
			return nil, err
		}
		return buf, err
	}
}

// parseUserRecord handles both plain text prompts and tool_result
// block lists.
func parseUserRecord(session *Session, msg *message, timestamp string, pos int, results map[string]toolResult) {
	// Plain string content is a user prompt.
	var text string
	if err := json.Unmarshal(msg.Content, &text); err == nil {
		if text != "" && !strings.HasPrefix(text, "<") {
			session.UserMessages = append(session.UserMessages, models.UserMessage{
				Position:  pos,
				Content:   models.Truncate(text, MaxMessageLen),
				Timestamp: timestamp,
			})
		}
		return
	}

	var blocks []contentBlock
	if err := json.Unmarshal(msg.Content, &blocks); err != nil {
		return
	}
	for _, block := range blocks {
		if block.Type != "tool_result" || block.ToolUseID == "" {
			continue
		}
		content := flattenContent(block.Content)
		results[block.ToolUseID] = toolResult{
			isError: block.IsError || looksLikeError(content),
			content: content,
		}
	}
}

// parseAssistantRecord captures Bash and Skill tool invocations.
func parseAssistantRecord(session *Session, msg *message, timestamp string, pos int) {
	var blocks []contentBlock
	if err := json.Unmarshal(msg.Content, &blocks); err != nil {
		return
	}

	for _, block := range blocks {
		if block.Type != "tool_use" {
			continue
		}

		switch block.Name {
		case "Bash":
			var input bashInput
			if json.Unmarshal(block.Input, &input) != nil || input.Command == "" {
				continue
			}
			session.Commands = append(session.Commands, models.LoggedCommand{
				Position: pos,
				ToolID:   block.ID,
				Command:  models.Truncate(input.Command, MaxCommandLen),
			})

		case "Skill":
			var input skillInput
			if json.Unmarshal(block.Input, &input) != nil || input.Skill == "" {
				continue
			}
			session.SkillsUsed = append(session.SkillsUsed, models.SkillInvocation{
				Skill:     input.Skill,
				Timestamp: timestamp,
			})
		}
	}
}

// joinResults pairs each invocation with its result by tool id,
// dropping invocations that never completed, and restores
// chronological order.
func joinResults(commands []models.LoggedCommand, results map[string]toolResult) []CommandAttempt {
	var attempts []CommandAttempt
	for _, cmd := range commands {
		result, ok := results[cmd.ToolID]
		if !ok {
			continue
		}
		attempt := CommandAttempt{
			Position: cmd.Position,
			ToolID:   cmd.ToolID,
			Command:  cmd.Command,
			IsError:  result.isError,
		}
		if result.isError {
			attempt.ErrorMessage = models.Truncate(result.content, MaxErrorLen)
		}
		attempts = append(attempts, attempt)
	}

	sort.SliceStable(attempts, func(i, j int) bool {
		return attempts[i].Position < attempts[j].Position
	})
	return attempts
}

// flattenContent reduces a tool_result content value (string or text
// block list) to plain text.
func flattenContent(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text
	}

	var blocks []contentBlock
	if err := json.Unmarshal(raw, &blocks); err != nil {
		return ""
	}
	var parts []string
	for _, block := range blocks {
		if block.Text != "" {
			parts = append(parts, block.Text)
		}
	}
	return strings.Join(parts, "\n")
}

func looksLikeError(content string) bool {
	lower := strings.ToLower(content)
	for _, indicator := range errorIndicators {
		if strings.Contains(lower, indicator) {
			return true
		}
	}
	return false
}
