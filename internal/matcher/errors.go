package matcher

import (
	"fmt"
	"strings"
)

// InvalidInputError indicates a candidate or job that cannot be scored as given
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s %s", e.Field, e.Reason)
}

// JobFailure records why a single job could not be scored
type JobFailure struct {
	JobID string
	Err   error
}

// ScoringFailure indicates that one or more jobs in a ranking could not be scored.
// Ranking fails closed, so no partial results accompany it.
type ScoringFailure struct {
	Failures []JobFailure
}

func (e *ScoringFailure) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, fmt.Sprintf("%s (%v)", f.JobID, f.Err))
	}
	return fmt.Sprintf("failed to score %d job(s): %s", len(e.Failures), strings.Join(parts, "; "))
}

// JobIDs returns the identifiers of the jobs that failed, in input order
func (e *ScoringFailure) JobIDs() []string {
	ids := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		ids = append(ids, f.JobID)
	}
	return ids
}
