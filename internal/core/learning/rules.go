// Package learning proposes knowledge candidates from session data by
// fixed pattern rules. It performs no semantic reasoning; sessions
// that look like they need it are only flagged for an external
// reviewer.
package learning

import (
	"strings"

	"github.com/example/recall/internal/models"
)

// CategoryRule maps keyword substrings to a knowledge category. The
// table is the single place scope/category inference lives, so it can
// be tested and extended on its own.
type CategoryRule struct {
	Category string
	Keywords []string
}

// CategoryRules is evaluated in order; the first rule with a matching
// keyword wins.
var CategoryRules = []CategoryRule{
	{models.CategoryCredentials, []string{"credential", "token", "secret", "password", ".pem", ".key", ".env", "api_key"}},
	{models.CategoryTools, []string{"script", "tool", "binary", "/bin/", "cli"}},
	{models.CategoryWorkflows, []string{"workflow", "always", "remember to", "process", "step"}},
}

// CategoryFor maps free text to a knowledge category, defaulting to
// Gotchas when no rule matches.
func CategoryFor(text string) string {
	lower := strings.ToLower(text)
	for _, rule := range CategoryRules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				return rule.Category
			}
		}
	}
	return models.CategoryGotchas
}
