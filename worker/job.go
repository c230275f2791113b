package worker

import (
	"time"

	dx "github.com/godental/diagnostics"
)

// Job is one observation to resolve. Exactly one of the observation
// fields should be set, selected by Family. Tooth is an opaque caller
// label (e.g. an FDI tooth number) carried through to the result.
type Job struct {
	// ID correlates the job with its result. Left empty, the pool
	// assigns a UUID on submission.
	ID string

	// Tooth is the caller's tooth identifier.
	Tooth string

	// Family selects which observation is resolved.
	Family dx.Family

	Caries      *dx.CariesObservation
	Endodontic  dx.EndodonticObservation
	Periodontal *dx.PeriodontalObservation
}

// JobResult is the outcome of one resolved job.
type JobResult struct {
	ID     string
	Tooth  string
	Family dx.Family

	// Diagnosis is nil on the expected no-match outcome.
	Diagnosis *dx.Diagnosis

	// Err is set for invalid input or misconfiguration, never for a
	// plain no-match.
	Err error

	Duration time.Duration
}

// BatchResult aggregates a pool run.
type BatchResult struct {
	Results       []*JobResult
	TotalJobs     int
	CompletedJobs int
	Matched       int
	Errors        int
}
