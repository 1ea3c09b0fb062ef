package sop

import (
	"fmt"
	"strings"
)

// Format renders a SOP for display in hook feedback and CLI output.
func Format(name string, s SOP) string {
	lines := []string{
		fmt.Sprintf("SOP: %s", name),
		fmt.Sprintf("  %s", s.Description),
	}

	if len(s.Causes) > 0 {
		lines = append(lines, "", "  Causes:")
		for _, cause := range s.Causes {
			lines = append(lines, fmt.Sprintf("    - %s", cause))
		}
	}

	lines = append(lines, "", "  Fixes:")
	for _, fix := range s.Fixes {
		lines = append(lines, fmt.Sprintf("    - %s", fix))
	}

	if s.Examples != nil && (s.Examples.Bad != "" || s.Examples.Good != "") {
		lines = append(lines, "")
		if s.Examples.Bad != "" {
			lines = append(lines, fmt.Sprintf("  BAD:  %s", s.Examples.Bad))
		}
		if s.Examples.Good != "" {
			lines = append(lines, fmt.Sprintf("  GOOD: %s", s.Examples.Good))
		}
	}

	return strings.Join(lines, "\n")
}
