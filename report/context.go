package report

// This file contains the run context that locates the sequence counter and
// the local report archive. It is passed explicitly to everything that
// needs it; there is no process-wide state.

import (
	"os"
	"path/filepath"
)

// Context locates the mutable local state of runstash: the sequence counter
// file and the local report archive directory.
type Context struct {
	// Dir is the runstash state directory, typically <repo>/.runstash.
	Dir string
}

// NewContext returns a context rooted at dir.
func NewContext(dir string) Context {
	return Context{Dir: dir}
}

// SequenceFile returns the path of the sequence counter file.
func (c Context) SequenceFile() string {
	return filepath.Join(c.Dir, "sequence")
}

// ReportsDir returns the local report archive directory.
func (c Context) ReportsDir() string {
	return filepath.Join(c.Dir, "reports")
}

// ReportDir returns the local directory for one report.
func (c Context) ReportDir(executionID string) string {
	return filepath.Join(c.ReportsDir(), executionID)
}

// Ensure creates the context directories if absent. Safe to call on every
// run.
func (c Context) Ensure() error {
	return os.MkdirAll(c.ReportsDir(), 0755)
}
