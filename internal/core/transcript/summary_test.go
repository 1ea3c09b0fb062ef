package transcript

import (
	"strings"
	"testing"

	"github.com/example/recall/internal/models"
)

func msg(content string) models.UserMessage {
	return models.UserMessage{Content: content}
}

func TestSummarize_SkipsTrivialAndSlashMessages(t *testing.T) {
	session := &Session{
		UserMessages: []models.UserMessage{
			msg("yes"),
			msg("/compact"),
			msg("ok"),
			msg("Refactor the session indexer to batch writes"),
		},
	}

	got := Summarize(session)
	if !strings.Contains(got, "Refactor the session indexer") {
		t.Errorf("Summarize() = %q, want first substantial message", got)
	}
	if strings.Contains(got, "/compact") {
		t.Errorf("Summarize() = %q, slash command leaked in", got)
	}
}

func TestSummarize_TagsFirstSkill(t *testing.T) {
	session := &Session{
		UserMessages: []models.UserMessage{
			msg("Debug the flaky integration test in ci"),
		},
		SkillsUsed: []models.SkillInvocation{
			{Skill: "personal:debugging"},
			{Skill: "personal:other"},
		},
	}

	got := Summarize(session)
	if !strings.HasPrefix(got, "[debugging] ") {
		t.Errorf("Summarize() = %q, want [debugging] prefix", got)
	}
}

func TestSummarize_AppendsSecondMessageWhenShort(t *testing.T) {
	session := &Session{
		UserMessages: []models.UserMessage{
			msg("Fix the login redirect loop"),
			msg("Also update the session cookie TTL"),
		},
	}

	got := Summarize(session)
	if !strings.Contains(got, " | ") {
		t.Errorf("Summarize() = %q, want second message appended", got)
	}
}

func TestSummarize_FallsBackToFirstMessages(t *testing.T) {
	session := &Session{
		UserMessages: []models.UserMessage{
			msg("yes"),
			msg("ok"),
		},
	}

	got := Summarize(session)
	if got != "yes | ok" {
		t.Errorf("Summarize() = %q, want \"yes | ok\"", got)
	}
}

func TestSummarize_Empty(t *testing.T) {
	if got := Summarize(&Session{}); got != "" {
		t.Errorf("Summarize() = %q, want empty", got)
	}
}

func TestTopicsFromMessages(t *testing.T) {
	messages := []models.UserMessage{
		msg("The SessionIndexer drops rows when pruning old_sessions"),
		msg("Look at internal/db/schema.go first"),
	}

	topics := topicsFromMessages(messages)

	wantPresent := []string{"SessionIndexer", "old_sessions", "schema.go"}
	for _, want := range wantPresent {
		found := false
		for _, topic := range topics {
			if topic == want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("topics %v missing %q", topics, want)
		}
	}

	// Stop words never become topics.
	for _, topic := range topics {
		if topic == "The" || topic == "Look" {
			t.Errorf("topics %v contains stop word %q", topics, topic)
		}
	}
}

func TestTopicsFromMessages_Dedup(t *testing.T) {
	messages := []models.UserMessage{
		msg("ParseError in ParseError handling"),
		msg("ParseError again"),
	}

	topics := topicsFromMessages(messages)
	count := 0
	for _, topic := range topics {
		if topic == "ParseError" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("ParseError appears %d times, want 1", count)
	}
}
