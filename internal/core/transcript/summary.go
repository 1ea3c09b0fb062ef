package transcript

import (
	"regexp"
	"strings"

	"github.com/example/recall/internal/models"
)

const (
	maxTopics        = 20
	maxSummaryLen    = 150
	minMeaningfulLen = 10
)

// Common capitalized English words that are not topics.
var topicStopWords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"The", "This", "That", "These", "Those", "There", "Then", "They",
		"What", "When", "Where", "Which", "While", "Who", "Why", "How",
		"And", "But", "For", "Not", "With", "From", "Into", "Over",
		"Can", "Could", "Would", "Should", "Will", "May", "Might",
		"Use", "Used", "Using", "Make", "Made", "Get", "Got", "Set",
		"Run", "Let", "See", "Try", "Add", "Check", "Show", "Find",
		"Create", "Update", "Delete", "Remove", "Change", "Move",
		"Yes", "No", "Ok", "Sure", "Thanks", "Please", "Also",
		"Here", "Now", "Just", "All", "Any", "Some", "Each", "Every",
		"New", "Old", "First", "Last", "Next", "Other", "More", "Most",
		"Need", "Want", "Like", "Look", "Take", "Give", "Keep", "Put",
		"Does", "Did", "Has", "Have", "Had", "Was", "Were", "Are",
		"Fix", "Help", "Start", "Stop", "Open", "Close", "Read", "Write",
	} {
		topicStopWords[w] = struct{}{}
	}
}

// Trivial replies that never make a useful summary.
var trivialMessages = map[string]struct{}{
	"yes": {}, "no": {}, "ok": {}, "okay": {}, "sure": {}, "thanks": {},
	"y": {}, "n": {}, "continue": {}, "go ahead": {}, "do it": {},
}

var (
	// CamelCase identifiers and snake_case words.
	identifierPattern = regexp.MustCompile(`\b[A-Z][a-z]+(?:[A-Z][a-z]+)*\b|\b[a-z]+(?:_[a-z]+)+\b`)
	// File paths with recognizable extensions.
	filePattern = regexp.MustCompile(`[\w./~-]+\.(?:go|py|js|ts|json|sh|md|env|yml|yaml)\b`)
)

// topicsFromMessages surfaces identifiers and file basenames from user
// prompts as searchable topics.
func topicsFromMessages(messages []models.UserMessage) []string {
	seen := make(map[string]struct{})
	var topics []string

	add := func(topic string) {
		if _, dup := seen[topic]; dup || len(topics) >= maxTopics {
			return
		}
		seen[topic] = struct{}{}
		topics = append(topics, topic)
	}

	for _, msg := range messages {
		words := identifierPattern.FindAllString(msg.Content, 10)
		for _, w := range words {
			if _, stop := topicStopWords[w]; stop {
				continue
			}
			add(w)
		}

		paths := filePattern.FindAllString(msg.Content, 5)
		for _, p := range paths {
			parts := strings.Split(p, "/")
			add(parts[len(parts)-1])
		}
	}

	return topics
}

// Summarize builds a one-line session summary: the first substantial
// user message, tagged with the first skill used, with a second
// message appended when there is room.
func Summarize(session *Session) string {
	var meaningful []string
	for _, msg := range session.UserMessages {
		content := strings.TrimSpace(msg.Content)
		if _, trivial := trivialMessages[strings.ToLower(content)]; trivial {
			continue
		}
		if strings.HasPrefix(content, "/") || len(content) <= minMeaningfulLen {
			continue
		}
		meaningful = append(meaningful, content)
	}

	if len(meaningful) == 0 {
		// Fall back to whatever the session opened with.
		var firsts []string
		for i, msg := range session.UserMessages {
			if i >= 3 {
				break
			}
			firsts = append(firsts, models.Truncate(msg.Content, 100))
		}
		return strings.Join(firsts, " | ")
	}

	summary := models.Truncate(meaningful[0], maxSummaryLen)
	if len(session.SkillsUsed) > 0 {
		skill := session.SkillsUsed[0].Skill
		if idx := strings.LastIndex(skill, ":"); idx >= 0 {
			skill = skill[idx+1:]
		}
		summary = "[" + skill + "] " + summary
	}

	if len(meaningful) > 1 && len(summary) < 120 {
		summary += " | " + models.Truncate(meaningful[1], 60)
	}

	return summary
}
