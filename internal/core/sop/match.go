package sop

import "strings"

// Match finds the first SOP whose pattern is a case-insensitive
// substring of errorText. Iteration follows set order and, within a
// SOP, declared pattern order. First match wins; there is no scoring.
// Returns ("", zero, false) when nothing matches, which callers treat
// as an unknown error type, never as a failure.
func Match(errorText string, set *Set) (string, SOP, bool) {
	if set == nil {
		return "", SOP{}, false
	}

	errorLower := strings.ToLower(errorText)

	for _, name := range set.names {
		s := set.sops[name]
		for _, pattern := range s.Patterns {
			if pattern == "" {
				continue
			}
			if strings.Contains(errorLower, strings.ToLower(pattern)) {
				return name, s, true
			}
		}
	}

	return "", SOP{}, false
}
