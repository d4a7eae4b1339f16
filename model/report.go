package model

import "time"

// Status is the outcome recorded for a single test.
//
// Assembled reports only ever carry StatusPassed, StatusFailed or
// StatusSkipped; the runner-level statuses timedOut and interrupted are
// normalized to failed before a report is built.
type Status string

const (
	StatusPassed      Status = "passed"
	StatusFailed      Status = "failed"
	StatusSkipped     Status = "skipped"
	StatusTimedOut    Status = "timedOut"
	StatusInterrupted Status = "interrupted"
)

// Valid reports whether s is one of the known status values.
func (s Status) Valid() bool {
	switch s {
	case StatusPassed, StatusFailed, StatusSkipped, StatusTimedOut, StatusInterrupted:
		return true
	}
	return false
}

// Normalize maps runner-level statuses onto the three report-level ones.
func (s Status) Normalize() Status {
	switch s {
	case StatusPassed, StatusSkipped:
		return s
	default:
		return StatusFailed
	}
}

// Outcome is the reconciled view of a status against the declared intent.
type Outcome string

const (
	OutcomePass Outcome = "pass"
	OutcomeFail Outcome = "fail"
	OutcomeSkip Outcome = "skip"
)

// TestError is a structured error record extracted from a trace bundle.
type TestError struct {
	Message string `json:"message"`
	Stack   string `json:"stack,omitempty"`
}

// TestStep is a single action/step record extracted from a trace bundle.
type TestStep struct {
	Title    string        `json:"title"`
	Category string        `json:"category,omitempty"`
	Duration time.Duration `json:"duration,omitempty"`
	Error    string        `json:"error,omitempty"`
}

// TestResult is one classified, reconciled test in a report.
type TestResult struct {
	Title   string `json:"title"`
	File    string `json:"file,omitempty"`
	Browser string `json:"browser,omitempty"`
	Device  string `json:"device,omitempty"`
	// Status as classified (or declared by the runner); normalized to
	// passed/failed/skipped once the result is part of a report.
	Status   Status        `json:"status"`
	Duration time.Duration `json:"duration,omitempty"`
	Retries  int           `json:"retries,omitempty"`
	Errors   []TestError   `json:"errors,omitempty"`
	Steps    []TestStep    `json:"steps,omitempty"`
	// Asset file names, relative to the test's artifact directory.
	Screenshots []string `json:"screenshots,omitempty"`
	Videos      []string `json:"videos,omitempty"`
	TraceFile   string   `json:"trace_file,omitempty"`
	// Reconciliation verdict against the execution intent.
	ActualOutcome   Outcome `json:"actual_outcome,omitempty"`
	ExpectedOutcome Outcome `json:"expected_outcome,omitempty"`
	OutcomeMatch    bool    `json:"outcome_match"`
}

// Report is the canonical, immutable unit of persistence for one run.
type Report struct {
	// Globally unique across machines and concurrent runs.
	ExecutionID string `json:"execution_id"`
	// Monotonic per storage context, best-effort (see report.NextSequence).
	SequenceNumber int64     `json:"sequence_number"`
	Developer      string    `json:"developer,omitempty"`
	StartedAt      time.Time `json:"started_at"`
	EndedAt        time.Time `json:"ended_at"`
	// Git metadata, consumed as opaque strings.
	Branch      string            `json:"branch,omitempty"`
	Commit      string            `json:"commit,omitempty"`
	Environment string            `json:"environment,omitempty"`
	Intent      ExecutionIntent   `json:"intent"`
	Insights    ExecutionInsights `json:"insights"`
	Results     []TestResult      `json:"results"`
	Summary     ReportSummary     `json:"summary"`
}

// ReportSummary aggregates the reconciled results of one report.
//
// Invariants: Passed+Failed+Skipped == Total,
// ExpectedFails+UnexpectedFails == Failed and
// ExpectedPasses+UnexpectedPasses == Passed.
type ReportSummary struct {
	Total            int `json:"total"`
	Passed           int `json:"passed"`
	Failed           int `json:"failed"`
	Skipped          int `json:"skipped"`
	ExpectedFails    int `json:"expected_fails"`
	UnexpectedFails  int `json:"unexpected_fails"`
	ExpectedPasses   int `json:"expected_passes"`
	UnexpectedPasses int `json:"unexpected_passes"`
}
