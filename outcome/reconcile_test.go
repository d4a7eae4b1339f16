package outcome

import (
	"testing"

	"github.com/runstash/runstash/model"
)

func TestReconcile(t *testing.T) {
	tests := []struct {
		name         string
		status       model.Status
		title        string
		intent       model.ExecutionIntent
		wantActual   model.Outcome
		wantExpected model.Outcome
	}{
		{
			name:         "failed with no declared intent",
			status:       model.StatusFailed,
			title:        "checkout flow",
			wantActual:   model.OutcomeFail,
			wantExpected: model.OutcomePass,
		},
		{
			name:   "expected failure matched by substring",
			status: model.StatusFailed,
			title:  "checkout › should apply discount",
			intent: model.ExecutionIntent{
				ExpectFailures: true,
				TargetTests:    []string{"checkout"},
			},
			wantActual:   model.OutcomeFail,
			wantExpected: model.OutcomeFail,
		},
		{
			name:   "expect failures but title not targeted",
			status: model.StatusFailed,
			title:  "login flow",
			intent: model.ExecutionIntent{
				ExpectFailures: true,
				TargetTests:    []string{"checkout"},
			},
			wantActual:   model.OutcomeFail,
			wantExpected: model.OutcomePass,
		},
		{
			name:   "targeted test passes unexpectedly",
			status: model.StatusPassed,
			title:  "checkout flow",
			intent: model.ExecutionIntent{
				ExpectFailures: true,
				TargetTests:    []string{"checkout"},
			},
			wantActual:   model.OutcomePass,
			wantExpected: model.OutcomeFail,
		},
		{
			name:         "skipped maps to skip",
			status:       model.StatusSkipped,
			title:        "wip test",
			wantActual:   model.OutcomeSkip,
			wantExpected: model.OutcomePass,
		},
		{
			name:         "timedOut counts as fail",
			status:       model.StatusTimedOut,
			title:        "slow test",
			wantActual:   model.OutcomeFail,
			wantExpected: model.OutcomePass,
		},
		{
			name:   "targets without expectFailures are inert",
			status: model.StatusFailed,
			title:  "checkout flow",
			intent: model.ExecutionIntent{
				TargetTests: []string{"checkout"},
			},
			wantActual:   model.OutcomeFail,
			wantExpected: model.OutcomePass,
		},
		{
			name:   "empty target strings never match",
			status: model.StatusPassed,
			title:  "anything",
			intent: model.ExecutionIntent{
				ExpectFailures: true,
				TargetTests:    []string{""},
			},
			wantActual:   model.OutcomePass,
			wantExpected: model.OutcomePass,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := model.TestResult{Title: tt.title, Status: tt.status}
			got := Reconcile(result, tt.intent)

			if got.Actual != tt.wantActual {
				t.Errorf("Reconcile() actual = %v, want %v", got.Actual, tt.wantActual)
			}
			if got.Expected != tt.wantExpected {
				t.Errorf("Reconcile() expected = %v, want %v", got.Expected, tt.wantExpected)
			}
			if got.Match != (got.Actual == got.Expected) {
				t.Errorf("Reconcile() match = %v, violates match == (actual == expected)", got.Match)
			}

			// Identical inputs must yield identical verdicts.
			if again := Reconcile(result, tt.intent); again != got {
				t.Errorf("Reconcile() not deterministic: %+v then %+v", got, again)
			}
		})
	}
}
