package model

import (
	"time"

	"github.com/google/uuid"
)

// ExecutedCheck records that a check ran to completion, independent of
// whether it produced an issue. SkippedCheck records a check the
// executor never ran because its severity fell below the configured
// threshold. Checks of profiles that were never selected are not
// recorded.
type ExecutedCheck struct {
	CheckID       string
	RequirementID string
	ProfileURI    string
}

// SkippedCheck is an ExecutedCheck that never ran, with the reason.
type SkippedCheck struct {
	ExecutedCheck
	Reason string
}

// SelectionWarning records a non-fatal Profile Selector event: a
// conformsTo value that matched nothing, or a non-interactive fallback
// that was taken. Surfaced on ValidationResult.Warnings and, for a
// fallback, also published as a ProfileFallback event.
type SelectionWarning struct {
	ConformsTo string
	Reason     string
	Fallback   bool
}

// ValidationResult is the value returned from a validation run.
type ValidationResult struct {
	// RunID correlates this result with its event stream.
	RunID uuid.UUID
	// Profiles lists the selected profile(s), in execution order.
	Profiles []string
	// Threshold is the configured requirement-severity threshold.
	Threshold Severity
	// Issues is the ordered, de-duplicated list of findings.
	Issues []Issue
	// ExecutedChecks lists every check that ran to completion.
	ExecutedChecks []ExecutedCheck
	// SkippedChecks lists checks the executor never ran.
	SkippedChecks []SkippedCheck
	// Cancelled is true if a Subscriber requested cancellation and the
	// run stopped before all selected checks executed.
	Cancelled bool
	// Warnings carries non-fatal Profile Selector events: unmatched
	// conformsTo values and non-interactive fallbacks.
	Warnings   []SelectionWarning
	StartedAt  time.Time
	FinishedAt time.Time
}

// HasIssuesAtOrAbove reports whether any issue has severity >= sev.
func (r *ValidationResult) HasIssuesAtOrAbove(sev Severity) bool {
	for _, issue := range r.Issues {
		if issue.Severity >= sev {
			return true
		}
	}
	return false
}

// Valid reports whether the result is valid at its own configured
// threshold: no issue at or above that threshold.
func (r *ValidationResult) Valid() bool {
	return !r.HasIssuesAtOrAbove(r.Threshold)
}

// IssuesAtOrAbove returns the subset of issues with severity >= sev,
// preserving order.
func (r *ValidationResult) IssuesAtOrAbove(sev Severity) []Issue {
	var out []Issue
	for _, issue := range r.Issues {
		if issue.Severity >= sev {
			out = append(out, issue)
		}
	}
	return out
}
