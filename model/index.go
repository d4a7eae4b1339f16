package model

import "time"

// IndexVersion is the on-disk schema version of reports/index.json.
const IndexVersion = "1.0.0"

// IndexEntry is the browsable projection of one uploaded report.
type IndexEntry struct {
	ID        string        `json:"id"`
	Timestamp time.Time     `json:"timestamp"`
	Developer string        `json:"developer,omitempty"`
	Branch    string        `json:"branch,omitempty"`
	Summary   ReportSummary `json:"summary"`
	// Backend-specific locator for the report body (path or URL).
	Locator string `json:"locator,omitempty"`
}

// ReportIndex is the bounded, newest-first list of uploaded reports shared
// by all storage backends.
type ReportIndex struct {
	Version     string       `json:"version"`
	LastUpdated time.Time    `json:"lastUpdated"`
	Reports     []IndexEntry `json:"reports"`
}

// IndexEntryOf projects a report into its index entry.
func IndexEntryOf(r *Report, locator string) IndexEntry {
	return IndexEntry{
		ID:        r.ExecutionID,
		Timestamp: r.EndedAt,
		Developer: r.Developer,
		Branch:    r.Branch,
		Summary:   r.Summary,
		Locator:   locator,
	}
}
