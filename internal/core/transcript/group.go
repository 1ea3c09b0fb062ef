package transcript

import "github.com/example/recall/internal/models"

// Group is a run of consecutive failures closed by the first
// following success. Resolution is nil when the run was still open at
// the end of the session.
type Group struct {
	Failures   []CommandAttempt
	Resolution *CommandAttempt
}

// GroupFailures clusters an ordered attempt sequence into
// failure→resolution groups. A resolution is the first success after
// one or more failures; successes with no preceding failure produce
// no group at all.
func GroupFailures(attempts []CommandAttempt) []Group {
	var groups []Group
	var pending []CommandAttempt

	for _, attempt := range attempts {
		if attempt.IsError {
			pending = append(pending, attempt)
			continue
		}

		if len(pending) > 0 {
			resolution := attempt
			groups = append(groups, Group{
				Failures:   pending,
				Resolution: &resolution,
			})
			pending = nil
		}
	}

	if len(pending) > 0 {
		groups = append(groups, Group{Failures: pending})
	}

	return groups
}

// Resolutions reduces the closed failure groups to resolution records
// for the session details. Open groups (no resolving success) are
// left out; those failures already appear in Failures.
func (s *Session) Resolutions() []models.FailureResolution {
	var out []models.FailureResolution
	for _, group := range GroupFailures(s.Attempts) {
		if group.Resolution == nil {
			continue
		}
		last := group.Failures[len(group.Failures)-1]
		out = append(out, models.FailureResolution{
			Position:     last.Position,
			Command:      last.Command,
			Error:        last.ErrorMessage,
			Category:     Categorize(last.ErrorMessage),
			FailureCount: len(group.Failures),
			ResolvedBy:   group.Resolution.Command,
		})
	}
	return out
}
