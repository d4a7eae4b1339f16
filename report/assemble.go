package report

// This file contains the report assembler that merges intent, insights,
// metadata and classified results into one canonical report.

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/runstash/runstash/model"
	"github.com/runstash/runstash/outcome"
)

// AssembleInput carries everything the assembler merges into a report.
type AssembleInput struct {
	Results     []model.TestResult
	Intent      model.ExecutionIntent
	Insights    model.ExecutionInsights
	Developer   string
	Environment string
	Branch      string
	Commit      string
	StartedAt   time.Time
	EndedAt     time.Time
}

// Assemble builds the canonical report for one run.
//
// The execution ID is globally unique. The sequence number comes from the
// context's counter file. Runner-level statuses (timedOut, interrupted) are
// normalized to failed before the verdicts and the summary are computed, so
// a report only ever exposes passed/failed/skipped.
func Assemble(logger zerolog.Logger, ctx Context, in AssembleInput) *model.Report {
	results := make([]model.TestResult, len(in.Results))
	copy(results, in.Results)

	intent := defaultIntent(in.Intent)

	for i := range results {
		results[i].Status = results[i].Status.Normalize()
		v := outcome.Reconcile(results[i], intent)
		results[i].ActualOutcome = v.Actual
		results[i].ExpectedOutcome = v.Expected
		results[i].OutcomeMatch = v.Match
	}

	endedAt := in.EndedAt
	if endedAt.IsZero() {
		endedAt = time.Now()
	}
	startedAt := in.StartedAt
	if startedAt.IsZero() {
		startedAt = endedAt
	}

	return &model.Report{
		ExecutionID:    uuid.NewString(),
		SequenceNumber: NextSequence(logger, ctx),
		Developer:      in.Developer,
		StartedAt:      startedAt,
		EndedAt:        endedAt,
		Branch:         in.Branch,
		Commit:         in.Commit,
		Environment:    in.Environment,
		Intent:         intent,
		Insights:       clampInsights(in.Insights),
		Results:        results,
		Summary:        Summarize(results),
	}
}

// Summarize computes the report summary from reconciled results. Results
// must already be normalized and carry their verdicts.
func Summarize(results []model.TestResult) model.ReportSummary {
	var s model.ReportSummary
	s.Total = len(results)

	for _, r := range results {
		switch r.Status {
		case model.StatusPassed:
			s.Passed++
			if r.ExpectedOutcome == model.OutcomePass {
				s.ExpectedPasses++
			} else {
				s.UnexpectedPasses++
			}
		case model.StatusSkipped:
			s.Skipped++
		default:
			s.Failed++
			if r.ExpectedOutcome == model.OutcomeFail {
				s.ExpectedFails++
			} else {
				s.UnexpectedFails++
			}
		}
	}

	return s
}

func defaultIntent(intent model.ExecutionIntent) model.ExecutionIntent {
	if intent.Purpose == "" {
		intent.Purpose = model.PurposeExploratory
	}
	return intent
}

func clampInsights(in model.ExecutionInsights) model.ExecutionInsights {
	if in.Confidence < 1 {
		in.Confidence = 1
	}
	if in.Confidence > 10 {
		in.Confidence = 10
	}
	return in
}
