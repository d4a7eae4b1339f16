package report

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/runstash/runstash/model"
)

func testContext(t *testing.T) Context {
	t.Helper()
	ctx := NewContext(filepath.Join(t.TempDir(), ".runstash"))
	require.NoError(t, ctx.Ensure())
	return ctx
}

func TestAssembleSummaryInvariants(t *testing.T) {
	ctx := testContext(t)

	in := AssembleInput{
		Results: []model.TestResult{
			{Title: "checkout applies discount", Status: model.StatusFailed},
			{Title: "checkout rejects bad card", Status: model.StatusFailed},
			{Title: "login works", Status: model.StatusPassed},
			{Title: "profile shows avatar", Status: model.StatusPassed},
			{Title: "wip feature", Status: model.StatusSkipped},
			{Title: "slow dashboard", Status: model.StatusTimedOut},
			{Title: "aborted spec", Status: model.StatusInterrupted},
		},
		Intent: model.ExecutionIntent{
			ExpectFailures: true,
			TargetTests:    []string{"checkout"},
		},
	}

	r := Assemble(zerolog.Nop(), ctx, in)
	s := r.Summary

	require.Equal(t, len(in.Results), s.Total)
	require.Equal(t, s.Total, s.Passed+s.Failed+s.Skipped)
	require.Equal(t, s.Failed, s.ExpectedFails+s.UnexpectedFails)
	require.Equal(t, s.Passed, s.ExpectedPasses+s.UnexpectedPasses)

	// timedOut and interrupted are normalized to failed.
	require.Equal(t, 4, s.Failed)
	require.Equal(t, 2, s.ExpectedFails)
	require.Equal(t, 2, s.UnexpectedFails)
	require.Equal(t, 2, s.Passed)
	require.Equal(t, 2, s.ExpectedPasses)
	require.Equal(t, 1, s.Skipped)

	for _, result := range r.Results {
		switch result.Status {
		case model.StatusPassed, model.StatusFailed, model.StatusSkipped:
		default:
			t.Errorf("report exposes non-normalized status %q", result.Status)
		}
		require.Equal(t, result.OutcomeMatch, result.ActualOutcome == result.ExpectedOutcome)
	}
}

func TestAssembleUniqueIDs(t *testing.T) {
	ctx := testContext(t)

	a := Assemble(zerolog.Nop(), ctx, AssembleInput{})
	b := Assemble(zerolog.Nop(), ctx, AssembleInput{})

	require.NotEmpty(t, a.ExecutionID)
	require.NotEqual(t, a.ExecutionID, b.ExecutionID)
	require.Greater(t, b.SequenceNumber, a.SequenceNumber)
}

func TestAssembleDefaults(t *testing.T) {
	ctx := testContext(t)

	r := Assemble(zerolog.Nop(), ctx, AssembleInput{
		Insights: model.ExecutionInsights{Confidence: 42},
	})

	require.Equal(t, model.PurposeExploratory, r.Intent.Purpose)
	require.Equal(t, 10, r.Insights.Confidence)
	require.False(t, r.EndedAt.IsZero())
	require.False(t, r.StartedAt.After(r.EndedAt))
}

func TestAssembleDoesNotMutateInput(t *testing.T) {
	ctx := testContext(t)

	results := []model.TestResult{{Title: "t", Status: model.StatusTimedOut}}
	Assemble(zerolog.Nop(), ctx, AssembleInput{Results: results})

	require.Equal(t, model.StatusTimedOut, results[0].Status)
}

func TestNextSequence(t *testing.T) {
	ctx := testContext(t)

	require.Equal(t, int64(1), NextSequence(zerolog.Nop(), ctx))
	require.Equal(t, int64(2), NextSequence(zerolog.Nop(), ctx))
	require.Equal(t, int64(3), NextSequence(zerolog.Nop(), ctx))
}

func TestNextSequenceCorruptCounter(t *testing.T) {
	ctx := testContext(t)
	require.NoError(t, os.WriteFile(ctx.SequenceFile(), []byte("not a number"), 0644))

	// A corrupt counter must not fail the run; the fallback is
	// clock-derived and still coarse-monotonic.
	got := NextSequence(zerolog.Nop(), ctx)
	require.GreaterOrEqual(t, got, time.Now().Add(-time.Minute).Unix())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := testContext(t)

	in := AssembleInput{
		Results: []model.TestResult{
			{
				Title:       "checkout flow",
				Browser:     "chromium",
				Status:      model.StatusFailed,
				Duration:    1500 * time.Millisecond,
				Errors:      []model.TestError{{Message: "boom", Stack: "at x.ts:1"}},
				Steps:       []model.TestStep{{Title: "page.goto", Category: "Frame"}},
				Screenshots: []string{"test-failed-1.png"},
				TraceFile:   "trace.zip",
			},
		},
		Intent:      model.ExecutionIntent{Purpose: model.PurposeBugInvestigation, ExpectFailures: true, TargetTests: []string{"checkout"}},
		Insights:    model.ExecutionInsights{Reasoning: "repro of #123", Confidence: 7},
		Developer:   "sam",
		Environment: "staging",
		Branch:      "fix/checkout",
		Commit:      "abcdef1234567890",
		StartedAt:   time.Now().UTC().Truncate(time.Second),
		EndedAt:     time.Now().UTC().Truncate(time.Second).Add(2 * time.Second),
	}

	r := Assemble(zerolog.Nop(), ctx, in)

	_, err := SaveLocal(ctx, r)
	require.NoError(t, err)

	loaded, err := LoadLocal(ctx, r.ExecutionID)
	require.NoError(t, err)

	if diff := cmp.Diff(r, loaded); diff != "" {
		t.Errorf("report round-trip mismatch (-saved +loaded):\n%s", diff)
	}
}
