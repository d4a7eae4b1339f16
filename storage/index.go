package storage

// This file is the single home of index mutation logic. Every backend
// serializes the index differently but merges entries through UpdateIndex.

import (
	"time"

	"github.com/runstash/runstash/model"
)

// MaxIndexEntries bounds the shared report index. Entries beyond the bound
// are evicted, not archived.
const MaxIndexEntries = 100

// UpdateIndex merges entry into index and returns the new index.
//
// Re-uploading a report replaces its existing entry instead of duplicating
// it; the entry always moves to the front. The result is truncated to
// MaxIndexEntries, discarding the oldest. A zero-value index is initialized
// first. Pure: the input index is not modified.
func UpdateIndex(index model.ReportIndex, entry model.IndexEntry) model.ReportIndex {
	out := model.ReportIndex{
		Version:     model.IndexVersion,
		LastUpdated: time.Now().UTC(),
	}

	out.Reports = make([]model.IndexEntry, 0, len(index.Reports)+1)
	out.Reports = append(out.Reports, entry)
	for _, existing := range index.Reports {
		if existing.ID == entry.ID {
			continue
		}
		out.Reports = append(out.Reports, existing)
	}

	if len(out.Reports) > MaxIndexEntries {
		out.Reports = out.Reports[:MaxIndexEntries]
	}

	return out
}
