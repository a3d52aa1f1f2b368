package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartition_GroupsByNumericPrefix(t *testing.T) {
	files := []FileUpload{
		{OriginalFilename: "123_entry.pdf"},
		{OriginalFilename: "123_invoice.pdf"},
		{OriginalFilename: "456^awb.pdf"},
		{OriginalFilename: "no_prefix_here.pdf"},
	}

	jobs := Partition(files)

	require.Len(t, jobs, 3)
	assert.Len(t, jobs["123"], 2)
	assert.Len(t, jobs["456"], 1)
	assert.Len(t, jobs[unassignedJobID], 1)
}

func TestPartition_PreservesOrderWithinGroup(t *testing.T) {
	files := []FileUpload{
		{OriginalFilename: "1_a.pdf"},
		{OriginalFilename: "1_b.pdf"},
		{OriginalFilename: "1_c.pdf"},
	}

	jobs := Partition(files)

	require.Len(t, jobs["1"], 3)
	assert.Equal(t, "1_a.pdf", jobs["1"][0].OriginalFilename)
	assert.Equal(t, "1_b.pdf", jobs["1"][1].OriginalFilename)
	assert.Equal(t, "1_c.pdf", jobs["1"][2].OriginalFilename)
}

func TestOrderedJobIDs_MatchesFirstEncounterOrder(t *testing.T) {
	files := []FileUpload{
		{OriginalFilename: "2_a.pdf"},
		{OriginalFilename: "1_a.pdf"},
		{OriginalFilename: "2_b.pdf"},
		{OriginalFilename: "unmatched.pdf"},
	}

	order := OrderedJobIDs(files)

	assert.Equal(t, []string{"2", "1", unassignedJobID}, order)
}
