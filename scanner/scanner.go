package scanner

// This file contains the artifact scanner that enumerates per-test
// directories produced by a browser-automation run.

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// Browser tags the test runner appends to artifact directory names.
var browserTags = []string{
	"mobile-chrome",
	"mobile-safari",
	"chromium",
	"firefox",
	"webkit",
	"chrome",
	"msedge",
}

var retrySuffix = regexp.MustCompile(`-retry(\d+)$`)

// ArtifactDir describes one per-test artifact directory. It is created by
// Scan and read-only afterwards.
type ArtifactDir struct {
	// Absolute or root-relative path of the directory.
	Path string
	// Test name inferred from the directory name.
	TestName string
	// Browser tag inferred from the directory name, if any.
	Browser string
	// Retry count inferred from a -retryN suffix.
	Retry int
	// Raw file listing (names relative to Path).
	Files []string
}

// TraceFile returns the name of the trace bundle in the directory, or "".
func (d ArtifactDir) TraceFile() string {
	for _, f := range d.Files {
		if strings.HasSuffix(f, ".zip") && strings.Contains(strings.ToLower(f), "trace") {
			return f
		}
	}
	return ""
}

// Screenshots returns the image files in the directory.
func (d ArtifactDir) Screenshots() []string {
	var out []string
	for _, f := range d.Files {
		switch strings.ToLower(filepath.Ext(f)) {
		case ".png", ".jpg", ".jpeg":
			out = append(out, f)
		}
	}
	return out
}

// Videos returns the video files in the directory.
func (d ArtifactDir) Videos() []string {
	var out []string
	for _, f := range d.Files {
		switch strings.ToLower(filepath.Ext(f)) {
		case ".webm", ".mp4":
			out = append(out, f)
		}
	}
	return out
}

// ResultsFile returns the runner-written status file name, or "".
func (d ArtifactDir) ResultsFile() string {
	for _, f := range d.Files {
		if f == "results.json" || f == "test-results.json" {
			return f
		}
	}
	return ""
}

// Scan enumerates the per-test subdirectories of root, sorted by path.
//
// A missing root yields an empty slice and no error; whether that means "no
// results" or "broken host" is for the caller to decide. Loose files and
// unreadable entries are skipped with a warning, never fatally.
func Scan(logger zerolog.Logger, root string) ([]ArtifactDir, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug().Str("root", root).Msg("Results directory does not exist")
			return nil, nil
		}
		return nil, err
	}

	var dirs []ArtifactDir
	for _, entry := range entries {
		if !entry.IsDir() {
			logger.Debug().Str("name", entry.Name()).Msg("Skipping non-directory entry")
			continue
		}

		dirPath := filepath.Join(root, entry.Name())
		files, err := os.ReadDir(dirPath)
		if err != nil {
			logger.Warn().Err(err).Str("path", dirPath).Msg("Skipping unreadable artifact directory")
			continue
		}

		dir := ArtifactDir{Path: dirPath}
		dir.TestName, dir.Browser, dir.Retry = parseDirName(entry.Name())
		for _, f := range files {
			if f.IsDir() {
				continue
			}
			dir.Files = append(dir.Files, f.Name())
		}
		sort.Strings(dir.Files)
		dirs = append(dirs, dir)
	}

	sort.Slice(dirs, func(i, j int) bool { return dirs[i].Path < dirs[j].Path })
	return dirs, nil
}

// parseDirName splits a runner directory name like
// "checkout-applies-discount-chromium-retry1" into test name, browser tag
// and retry count.
func parseDirName(name string) (testName, browser string, retry int) {
	if m := retrySuffix.FindStringSubmatch(name); m != nil {
		retry, _ = strconv.Atoi(m[1])
		name = strings.TrimSuffix(name, m[0])
	}

	for _, tag := range browserTags {
		if name == tag {
			return "", tag, retry
		}
		if strings.HasSuffix(name, "-"+tag) {
			browser = tag
			name = strings.TrimSuffix(name, "-"+tag)
			break
		}
	}

	testName = strings.ReplaceAll(name, "-", " ")
	return testName, browser, retry
}
