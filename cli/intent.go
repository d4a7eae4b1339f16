package cli

// This file contains loading of the operator-supplied intent and insights
// payloads.

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/runstash/runstash/model"
)

// loadIntent reads an intent payload from a YAML file. An empty path yields
// the default intent (exploratory, no expected failures).
func loadIntent(path string) (model.ExecutionIntent, error) {
	if path == "" {
		return model.ExecutionIntent{Purpose: model.PurposeExploratory}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return model.ExecutionIntent{}, fmt.Errorf("failed to read intent file: %w", err)
	}

	var intent model.ExecutionIntent
	if err := yaml.Unmarshal(data, &intent); err != nil {
		return model.ExecutionIntent{}, fmt.Errorf("failed to parse intent file: %w", err)
	}
	return intent, nil
}

// loadInsights reads an insights payload from a YAML file. An empty path
// yields zero insights.
func loadInsights(path string) (model.ExecutionInsights, error) {
	if path == "" {
		return model.ExecutionInsights{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return model.ExecutionInsights{}, fmt.Errorf("failed to read insights file: %w", err)
	}

	var insights model.ExecutionInsights
	if err := yaml.Unmarshal(data, &insights); err != nil {
		return model.ExecutionInsights{}, fmt.Errorf("failed to parse insights file: %w", err)
	}
	return insights, nil
}
