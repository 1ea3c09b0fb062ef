package learning

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/example/recall/internal/models"
)

// Proposal is one candidate knowledge item. Scope is always suggested
// as global; promoting to project scope is a human judgment made at
// review time, never inferred here.
type Proposal struct {
	Category string
	Title    string
	Content  string
}

var (
	// Paths that look like credential/token/key material.
	credentialPattern = regexp.MustCompile(`[\w~./-]*/[\w.-]*(?:credential|token|secret|password)[\w./-]*|[\w~./-]+\.(?:pem|key)\b`)
	// Environment files, including suffixed variants like .env.local.
	envFilePattern = regexp.MustCompile(`[\w~./-]*\.env(?:\.\w+)?\b`)
	// Script paths runnable as tools.
	toolPathPattern = regexp.MustCompile(`^[\w~./-]+\.(?:sh|py|js|rb)$`)
)

// Extract runs every heuristic family over the session and returns
// deduplicated proposals in discovery order.
func Extract(messages []models.UserMessage, commands []models.LoggedCommand, failures []models.LoggedFailure) []Proposal {
	var proposals []Proposal
	seen := make(map[string]struct{})

	add := func(p Proposal) {
		if p.Content == "" {
			return
		}
		if _, dup := seen[p.Content]; dup {
			return
		}
		seen[p.Content] = struct{}{}
		proposals = append(proposals, p)
	}

	text := joinMessages(messages)

	for _, p := range credentialProposals(text) {
		add(p)
	}
	for _, p := range envFileProposals(text) {
		add(p)
	}
	for _, p := range toolPathProposals(commands, failures) {
		add(p)
	}
	for _, p := range resolutionProposals(commands, failures) {
		add(p)
	}
	for _, p := range repeatedFailureProposals(failures) {
		add(p)
	}

	return proposals
}

// credentialProposals surfaces paths resembling credential locations.
func credentialProposals(text string) []Proposal {
	var out []Proposal
	for _, match := range credentialPattern.FindAllString(text, 5) {
		out = append(out, Proposal{
			Category: models.CategoryCredentials,
			Title:    "Credential location mentioned in session",
			Content:  fmt.Sprintf("Credentials at %s", match),
		})
	}
	return out
}

// envFileProposals surfaces environment-file paths.
func envFileProposals(text string) []Proposal {
	var out []Proposal
	for _, match := range envFilePattern.FindAllString(text, 5) {
		out = append(out, Proposal{
			Category: models.CategoryCredentials,
			Title:    "Environment file mentioned in session",
			Content:  fmt.Sprintf("Environment config at %s", match),
		})
	}
	return out
}

// toolPathProposals surfaces script paths from commands that did not
// appear in the failure set. A script that failed is not a tool worth
// remembering yet.
func toolPathProposals(commands []models.LoggedCommand, failures []models.LoggedFailure) []Proposal {
	failed := make(map[string]struct{}, len(failures))
	for _, f := range failures {
		failed[f.Command] = struct{}{}
	}

	var out []Proposal
	for _, cmd := range commands {
		if _, wasFailure := failed[cmd.Command]; wasFailure {
			continue
		}
		fields := strings.Fields(cmd.Command)
		for _, field := range fields {
			if !toolPathPattern.MatchString(field) || !strings.Contains(field, "/") {
				continue
			}
			out = append(out, Proposal{
				Category: models.CategoryTools,
				Title:    "Working tool script",
				Content:  fmt.Sprintf("Tool script at %s", field),
			})
			break
		}
	}
	return out
}

// resolutionProposals finds a failure followed by a later same-prefix
// command that is not itself a failure, and proposes the working
// variant.
func resolutionProposals(commands []models.LoggedCommand, failures []models.LoggedFailure) []Proposal {
	if len(failures) == 0 || len(commands) == 0 {
		return nil
	}

	failedCommands := make(map[string]struct{}, len(failures))
	for _, f := range failures {
		failedCommands[f.Command] = struct{}{}
	}

	var out []Proposal
	for _, failure := range failures {
		failedPrefix := commandPrefix(failure.Command)
		if failedPrefix == "" {
			continue
		}

		for _, cmd := range commands {
			if commandPrefix(cmd.Command) != failedPrefix || cmd.Position <= failure.Position {
				continue
			}
			if _, alsoFailed := failedCommands[cmd.Command]; alsoFailed {
				continue
			}
			out = append(out, Proposal{
				Category: CategoryFor(failure.Error),
				Title:    fmt.Sprintf("Fix for %s failure", failedPrefix),
				Content: fmt.Sprintf("`%s` failed with: %s — use instead: `%s`",
					models.Truncate(failure.Command, 80),
					models.Truncate(failure.Error, 100),
					models.Truncate(cmd.Command, 100)),
			})
			break
		}
	}
	return out
}

// repeatedFailureProposals flags error categories that recurred three
// or more times in a single session.
func repeatedFailureProposals(failures []models.LoggedFailure) []Proposal {
	if len(failures) < 2 {
		return nil
	}

	counts := make(map[string]int)
	examples := make(map[string]models.LoggedFailure)
	var order []string

	for _, f := range failures {
		if counts[f.Category] == 0 {
			order = append(order, f.Category)
			examples[f.Category] = f
		}
		counts[f.Category]++
	}

	var out []Proposal
	for _, category := range order {
		count := counts[category]
		if count < 3 {
			continue
		}
		example := examples[category]
		out = append(out, Proposal{
			Category: models.CategoryGotchas,
			Title:    fmt.Sprintf("Recurring %s errors (%dx in session)", category, count),
			Content: fmt.Sprintf("Hit %d %s errors. Example: `%s` -> %s",
				count, category,
				models.Truncate(example.Command, 80),
				models.Truncate(example.Error, 100)),
		})
	}
	return out
}

func commandPrefix(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func joinMessages(messages []models.UserMessage) string {
	var parts []string
	for _, m := range messages {
		parts = append(parts, m.Content)
	}
	return strings.Join(parts, "\n")
}
