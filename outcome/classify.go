package outcome

// This file contains the outcome classifier that derives a per-test status
// from the artifacts a finished run left behind.

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/runstash/runstash/model"
	"github.com/runstash/runstash/scanner"
)

// Screenshot name fragments that indicate a failure capture.
var failureHints = []string{"error", "fail", "diff", "actual"}

// Classify derives a status from the artifacts present in dir.
//
// This is a heuristic, not ground truth: the runner's authoritative status
// file is not always present, so trace presence is used as a failure proxy
// (traces are only retained on failure by convention) and screenshot names
// as a secondary signal. Trace presence always wins over screenshot names.
// Identical file sets always classify identically.
func Classify(dir scanner.ArtifactDir) model.Status {
	if dir.TraceFile() != "" {
		return model.StatusFailed
	}

	for _, shot := range dir.Screenshots() {
		name := strings.ToLower(shot)
		for _, hint := range failureHints {
			if strings.Contains(name, hint) {
				return model.StatusFailed
			}
		}
	}

	return model.StatusPassed
}

// DeclaredResult is the subset of a runner-written results.json the
// classifier trusts.
type DeclaredResult struct {
	Status model.Status `json:"status"`
	Title  string       `json:"title"`
	File   string       `json:"file"`
	Device string       `json:"device"`
}

// Declared returns the authoritative record written by the runner, if the
// directory carries a parseable results file. When present and valid its
// status is preferred over Classify; the heuristic is the fallback only.
func Declared(logger zerolog.Logger, dir scanner.ArtifactDir) (DeclaredResult, bool) {
	name := dir.ResultsFile()
	if name == "" {
		return DeclaredResult{}, false
	}

	data, err := os.ReadFile(filepath.Join(dir.Path, name))
	if err != nil {
		logger.Warn().Err(err).Str("path", dir.Path).Msg("Failed to read results file")
		return DeclaredResult{}, false
	}

	var decl DeclaredResult
	if err := json.Unmarshal(data, &decl); err != nil {
		logger.Warn().Err(err).Str("path", dir.Path).Msg("Failed to parse results file")
		return DeclaredResult{}, false
	}
	if !decl.Status.Valid() {
		logger.Warn().Str("status", string(decl.Status)).Str("path", dir.Path).Msg("Ignoring unknown declared status")
		return DeclaredResult{}, false
	}

	return decl, true
}
