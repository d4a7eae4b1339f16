package tracezip

// This file contains the trace bundle reader that extracts structured
// error and step records from a compressed trace archive.

import (
	"archive/zip"
	"bufio"
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/runstash/runstash/model"
)

// Extraction holds the structured records recovered from one trace bundle.
type Extraction struct {
	Errors []model.TestError
	Steps  []model.TestStep
}

// event is one NDJSON record inside a trace entry. Only the fields the
// reader cares about are decoded; everything else is ignored.
type event struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Stack   string `json:"stack"`
	APIName string `json:"apiName"`
	Title   string `json:"title"`
	Class   string `json:"class"`
	// Milliseconds, as written by the runner.
	Duration float64 `json:"duration"`
	Error    struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Extract opens the trace bundle at bundlePath and collects its error and
// step records.
//
// A bundle that cannot be opened yields an empty Extraction and a warning;
// extraction failures never propagate out of the pipeline. Within a bundle,
// each malformed entry or record is skipped individually so one corrupt
// entry cannot poison the rest.
func Extract(logger zerolog.Logger, bundlePath string) Extraction {
	var ex Extraction

	r, err := zip.OpenReader(bundlePath)
	if err != nil {
		logger.Warn().Err(err).Str("bundle", bundlePath).Msg("Failed to open trace bundle")
		return ex
	}
	defer r.Close()

	for _, entry := range r.File {
		if !isTraceEntry(entry.Name) {
			continue
		}

		rc, err := entry.Open()
		if err != nil {
			logger.Warn().Err(err).Str("entry", entry.Name).Msg("Skipping unreadable trace entry")
			continue
		}
		parseEntry(logger, rc, entry.Name, &ex)
		rc.Close()
	}

	return ex
}

// isTraceEntry reports whether a zip entry holds a structured record stream.
func isTraceEntry(name string) bool {
	return strings.HasSuffix(name, ".trace")
}

// parseEntry scans one entry as newline-delimited JSON records.
func parseEntry(logger zerolog.Logger, r io.Reader, name string, ex *Extraction) {
	scanner := bufio.NewScanner(r)
	// Trace lines can carry large snapshots.
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var ev event
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			logger.Debug().Str("entry", name).Msg("Skipping malformed trace record")
			continue
		}

		switch ev.Type {
		case "error":
			if ev.Message == "" && ev.Error.Message == "" {
				continue
			}
			msg := ev.Message
			if msg == "" {
				msg = ev.Error.Message
			}
			ex.Errors = append(ex.Errors, model.TestError{
				Message: msg,
				Stack:   ev.Stack,
			})
		case "action", "before":
			title := ev.APIName
			if title == "" {
				title = ev.Title
			}
			if title == "" {
				continue
			}
			step := model.TestStep{
				Title:    title,
				Category: ev.Class,
				Duration: time.Duration(ev.Duration * float64(time.Millisecond)),
				Error:    ev.Error.Message,
			}
			ex.Steps = append(ex.Steps, step)
		}
	}

	if err := scanner.Err(); err != nil {
		logger.Warn().Err(err).Str("entry", name).Msg("Trace entry truncated")
	}
}
