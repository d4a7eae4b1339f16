package cli

// This file contains the view command for displaying one uploaded report.

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/runstash/runstash/model"
	"github.com/runstash/runstash/storage"
)

// resolveReportID turns a view argument (0, -1, -2, or an id prefix) into
// an execution id using the backend index.
func resolveReportID(entries []model.IndexEntry, arg string) (string, error) {
	if len(entries) == 0 {
		return "", fmt.Errorf("no reports found")
	}

	if parsed, err := strconv.ParseInt(arg, 10, 64); err == nil {
		if parsed > 0 {
			return "", fmt.Errorf("invalid index: %s (use 0 for latest, -1 for previous, etc.)", arg)
		}
		index := int(-parsed)
		if index >= len(entries) {
			return "", fmt.Errorf("index %s out of range (only %d reports)", arg, len(entries))
		}
		return entries[index].ID, nil
	}

	prefix := strings.ToLower(arg)
	for _, entry := range entries {
		if strings.HasPrefix(strings.ToLower(entry.ID), prefix) {
			return entry.ID, nil
		}
	}
	return "", fmt.Errorf("no report found matching id: %s", arg)
}

func (a *App) view(ctx *cli.Context) error {
	arg := ctx.Args().First()
	if arg == "" {
		arg = "0"
	}

	adapter, err := a.openAdapter(ctx)
	if err != nil {
		return err
	}

	listCtx, cancel := callCtx(ctx.Context, ctx.Duration("timeout"))
	entries, err := adapter.ListReports(listCtx)
	cancel()
	if err != nil {
		return fmt.Errorf("failed to list reports: %w", err)
	}

	id, err := resolveReportID(entries, arg)
	if err != nil {
		return err
	}

	dlCtx, cancel := callCtx(ctx.Context, ctx.Duration("timeout"))
	defer cancel()
	r, err := adapter.DownloadReport(dlCtx, id)
	if err != nil {
		return err
	}

	a.displayReport(r, adapter)
	return nil
}

func (a *App) displayReport(r *model.Report, adapter storage.Adapter) {
	fmt.Printf("=== Report %s (seq %d) ===\n", shortID(r.ExecutionID), r.SequenceNumber)
	fmt.Printf("Time: %s\n", r.EndedAt.Format("2006-01-02 15:04:05"))
	if !r.StartedAt.IsZero() && r.EndedAt.After(r.StartedAt) {
		fmt.Printf("Duration: %s\n", r.EndedAt.Sub(r.StartedAt).Round(time.Millisecond))
	}
	if r.Developer != "" {
		fmt.Printf("Developer: %s\n", r.Developer)
	}
	if r.Commit != "" {
		fmt.Printf("Commit: %s", shortID(r.Commit))
		if r.Branch != "" {
			fmt.Printf(" (%s)", r.Branch)
		}
		fmt.Println()
	}
	if r.Environment != "" {
		fmt.Printf("Environment: %s\n", r.Environment)
	}

	fmt.Printf("Purpose: %s", r.Intent.Purpose)
	if r.Intent.ExpectFailures {
		fmt.Printf(" (expecting failures: %s)", strings.Join(r.Intent.TargetTests, ", "))
	}
	fmt.Println()
	if r.Intent.Description != "" {
		fmt.Printf("Description: %s\n", r.Intent.Description)
	}
	fmt.Println()

	s := r.Summary
	fmt.Printf("Total: %d  Passed: %d  Failed: %d  Skipped: %d\n", s.Total, s.Passed, s.Failed, s.Skipped)
	if s.Failed > 0 {
		fmt.Printf("Failures: %d expected, %d unexpected\n", s.ExpectedFails, s.UnexpectedFails)
	}
	fmt.Println()

	for _, result := range r.Results {
		printResult(result)
	}

	if r.Insights.Reasoning != "" {
		fmt.Printf("\nInsights (confidence %d/10): %s\n", r.Insights.Confidence, r.Insights.Reasoning)
		for _, surprise := range r.Insights.Surprises {
			fmt.Printf("  Surprise: %s\n", surprise)
		}
		for _, step := range r.Insights.NextSteps {
			fmt.Printf("  Next: %s\n", step)
		}
	}

	var assetCount int
	for _, result := range r.Results {
		assetCount += len(result.Screenshots) + len(result.Videos)
		if result.TraceFile != "" {
			assetCount++
		}
	}
	if assetCount > 0 {
		fmt.Printf("\n%d assets, e.g. %s\n", assetCount, firstAssetURL(r, adapter))
	}
}

func printResult(result model.TestResult) {
	switch result.Status {
	case model.StatusFailed:
		failGlyph.Print("✗")
	case model.StatusSkipped:
		skipGlyph.Print("-")
	default:
		passGlyph.Print("✓")
	}

	fmt.Printf("  %s", result.Title)
	if result.Browser != "" {
		fmt.Printf(" [%s]", result.Browser)
	}
	if result.Retries > 0 {
		fmt.Printf(" (retry %d)", result.Retries)
	}
	if !result.OutcomeMatch {
		fmt.Printf("  (expected %s, got %s)", result.ExpectedOutcome, result.ActualOutcome)
	}
	fmt.Println()

	for _, e := range result.Errors {
		fmt.Printf("     %s\n", firstLine(e.Message))
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func firstAssetURL(r *model.Report, adapter storage.Adapter) string {
	for _, result := range r.Results {
		if len(result.Screenshots) > 0 {
			return adapter.AssetURL(r.ExecutionID, result.Screenshots[0])
		}
		if result.TraceFile != "" {
			return adapter.AssetURL(r.ExecutionID, result.TraceFile)
		}
	}
	return ""
}
