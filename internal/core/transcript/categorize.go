package transcript

import "strings"

// CategoryOther is the fallback failure category.
const CategoryOther = "other_error"

// categoryRule maps an index category to the substrings that select
// it. Order matters: the first rule whose keyword hits wins.
type categoryRule struct {
	name     string
	keywords []string
}

var categoryRules = []categoryRule{
	{"permission_denied", []string{"permission denied", "access denied", "eacces"}},
	{"not_found", []string{"not found", "no such file", "enoent", "command not found"}},
	{"syntax_error", []string{"syntax error", "parse error", "unexpected token"}},
	{"connection_error", []string{"connection refused", "timeout", "econnrefused", "network"}},
	{"import_error", []string{"import error", "module not found", "no module named"}},
	{"type_error", []string{"typeerror", "type error"}},
	{"git_error", []string{"fatal:", "git"}},
	{"npm_error", []string{"npm err", "npm warn"}},
	{"python_error", []string{"traceback", "exception"}},
}

// Categorize buckets an error message into a failure-pattern category
// for the session index.
func Categorize(errorMsg string) string {
	lower := strings.ToLower(errorMsg)

	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.name
			}
		}
	}

	return CategoryOther
}
