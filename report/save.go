package report

// This file contains local report persistence. The assembled report is
// always written locally before any upload is attempted, so a run whose
// uploads all fail still leaves a diagnosable artifact behind.

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/runstash/runstash/model"
)

// SaveLocal writes the report body under the context's report archive and
// returns the path of the written report.json.
func SaveLocal(ctx Context, r *model.Report) (string, error) {
	dir := ctx.ReportDir(r.ExecutionID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}

	path := filepath.Join(dir, "report.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	return path, nil
}

// LoadLocal reads a locally archived report back.
func LoadLocal(ctx Context, executionID string) (*model.Report, error) {
	data, err := os.ReadFile(filepath.Join(ctx.ReportDir(executionID), "report.json"))
	if err != nil {
		return nil, err
	}

	var r model.Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}
	return &r, nil
}
