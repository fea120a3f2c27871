package pipeline

import (
	"fmt"
	"strings"
	"time"
)

// Result tracks counts and errors from one pipeline run.
type Result struct {
	Source       string
	RunID        string
	Season       int
	UnitsFetched int
	UnitsSkipped int
	Rows         int
	Destinations []string
	Duration     time.Duration
	Errors       []string
}

// AddError records an error message.
func (r *Result) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
}

// AddErrorf records a formatted error message.
func (r *Result) AddErrorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Summary returns a human-readable summary of the run.
func (r *Result) Summary() string {
	dest := "none"
	if len(r.Destinations) > 0 {
		dest = strings.Join(r.Destinations, ",")
	}
	return fmt.Sprintf(
		"source=%s season=%d fetched=%d skipped=%d rows=%d written_to=%s errors=%d duration=%s",
		r.Source, r.Season, r.UnitsFetched, r.UnitsSkipped, r.Rows, dest,
		len(r.Errors), r.Duration.Round(time.Millisecond),
	)
}
