package model

// Purpose classifies why a test run was executed.
type Purpose string

const (
	PurposeBugInvestigation    Purpose = "bug-investigation"
	PurposeFeatureVerification Purpose = "feature-verification"
	PurposeRegressionSweep     Purpose = "regression-sweep"
	PurposeExploratory         Purpose = "exploratory"
	PurposeRefactorValidation  Purpose = "refactor-validation"
)

// ExecutionIntent is the operator's declared purpose and expectations for a
// run, captured before upload and immutable afterwards.
type ExecutionIntent struct {
	Purpose     Purpose `json:"purpose" yaml:"purpose"`
	Description string  `json:"description,omitempty" yaml:"description"`
	// When true, tests whose title matches one of TargetTests are
	// expected to fail.
	ExpectFailures bool     `json:"expect_failures" yaml:"expect_failures"`
	TargetTests    []string `json:"target_tests,omitempty" yaml:"target_tests"`
	Goals          []string `json:"goals,omitempty" yaml:"goals"`
	Context        string   `json:"context,omitempty" yaml:"context"`
}

// ExecutionInsights captures the operator's analysis of the run.
type ExecutionInsights struct {
	Reasoning        string   `json:"reasoning,omitempty" yaml:"reasoning"`
	ExpectedBehavior string   `json:"expected_behavior,omitempty" yaml:"expected_behavior"`
	ActualBehavior   string   `json:"actual_behavior,omitempty" yaml:"actual_behavior"`
	Surprises        []string `json:"surprises,omitempty" yaml:"surprises"`
	Learnings        []string `json:"learnings,omitempty" yaml:"learnings"`
	NextSteps        []string `json:"next_steps,omitempty" yaml:"next_steps"`
	// Confidence in the analysis, 1 (lowest) to 10.
	Confidence int `json:"confidence,omitempty" yaml:"confidence"`
}
