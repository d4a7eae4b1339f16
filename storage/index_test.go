package storage

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/runstash/runstash/model"
)

func entry(id string) model.IndexEntry {
	return model.IndexEntry{ID: id, Timestamp: time.Now()}
}

func TestUpdateIndexPrepends(t *testing.T) {
	index := UpdateIndex(model.ReportIndex{}, entry("R1"))
	index = UpdateIndex(index, entry("R2"))
	index = UpdateIndex(index, entry("R3"))

	require.Equal(t, model.IndexVersion, index.Version)
	require.Len(t, index.Reports, 3)
	require.Equal(t, "R3", index.Reports[0].ID)
	require.Equal(t, "R2", index.Reports[1].ID)
	require.Equal(t, "R1", index.Reports[2].ID)
}

func TestUpdateIndexReplacesExistingID(t *testing.T) {
	first := entry("R1")
	first.Summary.Total = 5

	index := UpdateIndex(model.ReportIndex{}, first)
	index = UpdateIndex(index, entry("R2"))

	// Re-upload of the same report replaces, not duplicates, and moves
	// the entry to the front.
	second := entry("R1")
	second.Summary.Total = 9
	index = UpdateIndex(index, second)

	require.Len(t, index.Reports, 2)
	require.Equal(t, "R1", index.Reports[0].ID)
	require.Equal(t, 9, index.Reports[0].Summary.Total)
	require.Equal(t, "R2", index.Reports[1].ID)
}

func TestUpdateIndexNeverExceedsBound(t *testing.T) {
	var index model.ReportIndex
	for i := 0; i < MaxIndexEntries+1; i++ {
		index = UpdateIndex(index, entry(fmt.Sprintf("R%03d", i)))
		require.LessOrEqual(t, len(index.Reports), MaxIndexEntries)
	}

	// 101 distinct uploads leave exactly the 100 most recent.
	require.Len(t, index.Reports, MaxIndexEntries)
	require.Equal(t, fmt.Sprintf("R%03d", MaxIndexEntries), index.Reports[0].ID)
	require.Equal(t, "R001", index.Reports[MaxIndexEntries-1].ID)
}

func TestUpdateIndexDoesNotMutateInput(t *testing.T) {
	original := UpdateIndex(model.ReportIndex{}, entry("R1"))
	snapshot := make([]model.IndexEntry, len(original.Reports))
	copy(snapshot, original.Reports)

	UpdateIndex(original, entry("R2"))

	require.Equal(t, snapshot, original.Reports)
}
