package outcome

// This file contains the expectation reconciler that compares an actual
// test outcome against the operator's declared intent.

import (
	"strings"

	"github.com/runstash/runstash/model"
)

// Verdict is the result of reconciling one test against the intent.
type Verdict struct {
	Actual   model.Outcome
	Expected model.Outcome
	Match    bool
}

// Reconcile compares the result's status against the declared intent.
//
// The expected outcome is fail iff the intent expects failures and the
// result title contains at least one target test as a substring; otherwise
// pass. Pure and deterministic: identical inputs always yield identical
// verdicts, which keeps re-processing idempotent.
func Reconcile(result model.TestResult, intent model.ExecutionIntent) Verdict {
	var actual model.Outcome
	switch result.Status {
	case model.StatusPassed:
		actual = model.OutcomePass
	case model.StatusSkipped:
		actual = model.OutcomeSkip
	default:
		actual = model.OutcomeFail
	}

	expected := model.OutcomePass
	if intent.ExpectFailures && titleTargeted(result.Title, intent.TargetTests) {
		expected = model.OutcomeFail
	}

	return Verdict{
		Actual:   actual,
		Expected: expected,
		Match:    actual == expected,
	}
}

func titleTargeted(title string, targets []string) bool {
	for _, target := range targets {
		if target == "" {
			continue
		}
		if strings.Contains(title, target) {
			return true
		}
	}
	return false
}
