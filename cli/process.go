package cli

// This file contains the processing pipeline: scan the results directory,
// extract trace bundles, classify outcomes, reconcile against the intent
// and assemble the canonical report.

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/runstash/runstash/model"
	"github.com/runstash/runstash/outcome"
	"github.com/runstash/runstash/report"
	"github.com/runstash/runstash/scanner"
	"github.com/runstash/runstash/tracezip"
)

// processed is the pipeline output: the assembled report, where it was
// archived locally, and the asset files an upload should carry.
type processed struct {
	report     *model.Report
	reportPath string
	assets     []string
}

func (a *App) process(ctx *cli.Context) error {
	out, err := a.runPipeline(ctx)
	if err != nil {
		return err
	}

	a.printSummary(out.report)
	fmt.Printf("Report: %s\n", out.reportPath)
	return nil
}

func (a *App) runPipeline(ctx *cli.Context) (processed, error) {
	startTime := time.Now()

	intent, err := loadIntent(ctx.String("intent"))
	if err != nil {
		return processed{}, err
	}
	insights, err := loadInsights(ctx.String("insights"))
	if err != nil {
		return processed{}, err
	}

	root := ctx.String("results")
	dirs, err := scanner.Scan(a.logger, root)
	if err != nil {
		return processed{}, fmt.Errorf("failed to scan results directory: %w", err)
	}
	a.logger.Info().Int("tests", len(dirs)).Str("root", root).Msg("Scanned results directory")

	results, assets := a.collectResults(dirs, ctx.Int("parallel"))

	developer := ctx.String("developer")
	if developer == "" {
		developer = os.Getenv("USER")
	}

	in := report.AssembleInput{
		Results:     results,
		Intent:      intent,
		Insights:    insights,
		Developer:   developer,
		Environment: ctx.String("environment"),
		StartedAt:   startTime,
		EndedAt:     time.Now(),
	}

	// Git metadata is best-effort; a run outside a repository still
	// produces a report.
	if commit, branch, err := a.getGitInfo(); err == nil {
		in.Commit = commit
		in.Branch = branch
	} else {
		a.logger.Debug().Err(err).Msg("No git metadata available")
	}

	stateCtx := report.NewContext(ctx.String("state-dir"))
	if err := stateCtx.Ensure(); err != nil {
		return processed{}, fmt.Errorf("failed to prepare state directory: %w", err)
	}

	r := report.Assemble(a.logger, stateCtx, in)

	// Persist locally before anything touches a backend, so a run whose
	// uploads all fail still leaves a diagnosable report.
	reportPath, err := report.SaveLocal(stateCtx, r)
	if err != nil {
		return processed{}, err
	}

	a.logger.Info().
		Str("id", r.ExecutionID).
		Int64("seq", r.SequenceNumber).
		Int("results", len(r.Results)).
		Msg("Assembled report")

	return processed{report: r, reportPath: reportPath, assets: assets}, nil
}

// collectResults turns artifact directories into classified test results.
// Trace extraction fans out across directories (no cross-directory side
// effects); the slice keeps scan order so output stays deterministic.
func (a *App) collectResults(dirs []scanner.ArtifactDir, parallel int) ([]model.TestResult, []string) {
	if parallel < 1 {
		parallel = 1
	}

	results := make([]model.TestResult, len(dirs))
	g := new(errgroup.Group)
	g.SetLimit(parallel)

	for i, dir := range dirs {
		i, dir := i, dir
		g.Go(func() error {
			results[i] = a.buildResult(dir)
			return nil
		})
	}
	_ = g.Wait()

	deduped := dedupeResults(results)

	var assets []string
	for _, dir := range dirs {
		for _, f := range dir.Files {
			assets = append(assets, filepath.Join(dir.Path, f))
		}
	}

	return deduped, assets
}

// dedupeResults collapses retry attempts of the same test into one result.
// The final attempt (highest retry count) wins; earlier attempts keep their
// position in the ordering.
func dedupeResults(results []model.TestResult) []model.TestResult {
	type key struct{ title, browser string }

	index := make(map[key]int, len(results))
	out := make([]model.TestResult, 0, len(results))
	for _, r := range results {
		k := key{r.Title, r.Browser}
		at, seen := index[k]
		if !seen {
			index[k] = len(out)
			out = append(out, r)
			continue
		}
		if r.Retries >= out[at].Retries {
			out[at] = r
		}
	}
	return out
}

// buildResult classifies one artifact directory and attaches its extracted
// trace records.
func (a *App) buildResult(dir scanner.ArtifactDir) model.TestResult {
	result := model.TestResult{
		Title:       dir.TestName,
		Browser:     dir.Browser,
		Retries:     dir.Retry,
		Screenshots: dir.Screenshots(),
		Videos:      dir.Videos(),
		TraceFile:   dir.TraceFile(),
	}

	// The runner's own status file is authoritative when present; the
	// artifact heuristic is the fallback.
	if decl, ok := outcome.Declared(a.logger, dir); ok {
		result.Status = decl.Status
		if decl.Title != "" {
			result.Title = decl.Title
		}
		result.File = decl.File
		result.Device = decl.Device
	} else {
		result.Status = outcome.Classify(dir)
	}

	if result.TraceFile != "" {
		ex := tracezip.Extract(a.logger, filepath.Join(dir.Path, result.TraceFile))
		result.Errors = ex.Errors
		result.Steps = ex.Steps
	}

	return result
}

func (a *App) printSummary(r *model.Report) {
	s := r.Summary
	fmt.Printf("\n=== Report %s (seq %d) ===\n", shortID(r.ExecutionID), r.SequenceNumber)
	fmt.Printf("Total: %d  Passed: %d  Failed: %d  Skipped: %d\n", s.Total, s.Passed, s.Failed, s.Skipped)
	if s.Failed > 0 {
		fmt.Printf("Failures: %d expected, %d unexpected\n", s.ExpectedFails, s.UnexpectedFails)
	}
	if s.UnexpectedPasses > 0 {
		fmt.Printf("Unexpected passes: %d\n", s.UnexpectedPasses)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
