package learning

import "strings"

// Debugging-language keywords: their presence suggests the session
// contains a worked-out insight that shallow pattern rules will miss.
var debugKeywords = []string{
	"root cause",
	"figured out",
	"turns out",
	"the issue was",
	"the problem was",
	"debugged",
}

// Thresholds control when a session is flagged as needing deeper
// analysis. Zero-valued fields disable that trigger.
type Thresholds struct {
	Failures int
	Messages int
	Commands int
}

// NeedsAnalysis reports whether a session should be routed to an
// external semantic-analysis reviewer: enough failures, debugging
// language in the prompts, or sheer length.
func NeedsAnalysis(sessionText string, failureCount, messageCount, commandCount int, t Thresholds) bool {
	if t.Failures > 0 && failureCount >= t.Failures {
		return true
	}

	lower := strings.ToLower(sessionText)
	for _, kw := range debugKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}

	if t.Messages > 0 && messageCount >= t.Messages {
		return true
	}
	if t.Commands > 0 && commandCount >= t.Commands {
		return true
	}

	return false
}
