package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Phat0101/clearai-audit/internal/logging"
)

func TestOrchestrator_SingleCompleteJobAU(t *testing.T) {
	outputDir := t.TempDir()
	checklistDir := t.TempDir()
	writeChecklistFile(t, checklistDir, "au", sampleAUChecklist)

	checklistStore, err := NewChecklistStore(checklistDir, nil)
	require.NoError(t, err)

	// With JMax=FMax=1 the two files in this job are processed strictly
	// serially (classify then extract per file), so the script below
	// matches that interleaving rather than grouping all classify calls
	// before all extract calls. Whichever file takes the single permit
	// first receives the entry_print pair; the other gets the invoice pair.
	model := &fakeModel{responses: []fakeResponse{
		{content: `{"document_type":"entry_print"}`},      // classify first file processed
		{content: `{"entry_number":"E1","line_items":[]}`}, // extract first file processed
		{content: `{"document_type":"commercial_invoice"}`},    // classify second file processed
		{content: `{"invoice_number":"INV1","line_items":[]}`}, // extract second file processed
		{content: validHeaderEnvelope()},
		{content: validValuationEnvelope()},
	}}

	orch := NewOrchestrator(outputDir, Budgets{JMax: 1, FMax: 1, LLMGlobalMax: 10}, RetryPolicy{MaxAttempts: 1, BaseDelay: time.Millisecond}, model, checklistStore, logging.NewDefault())
	orch.now = func() time.Time { return time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC) }

	files := []FileUpload{
		{OriginalFilename: "1_entry.pdf", Payload: []byte("%PDF entry")},
		{OriginalFilename: "1_invoice.pdf", Payload: []byte("%PDF invoice")},
	}

	manifest, err := orch.ProcessBatch(context.Background(), files, RegionAU)
	require.NoError(t, err)

	assert.Equal(t, "2026-03-05_run_001", manifest.RunID)
	assert.Equal(t, 2, manifest.TotalFiles)
	require.Len(t, manifest.Jobs, 1)

	job := manifest.Jobs[0]
	assert.Equal(t, "1", job.JobID)
	require.NotNil(t, job.ValidationResults)
	assert.Equal(t, "job_1_validation_AU.json", job.ValidationFile)

	validationPath := filepath.Join(manifest.RunPath, job.ValidationFile)
	_, statErr := os.Stat(validationPath)
	assert.NoError(t, statErr, "validation file must be written at the run root")
}

func TestOrchestrator_RejectsInvalidRegion(t *testing.T) {
	orch := NewOrchestrator(t.TempDir(), DefaultBudgets(), DefaultRetryPolicy(), &fakeModel{}, nil, logging.NewDefault())

	_, err := orch.ProcessBatch(context.Background(), []FileUpload{{OriginalFilename: "a.pdf"}}, Region("XX"))

	require.Error(t, err)
	var engErr *Error
	require.ErrorAs(t, err, &engErr)
	assert.Equal(t, KindInvalidInput, engErr.Kind)
}

func TestOrchestrator_RejectsEmptyBatch(t *testing.T) {
	orch := NewOrchestrator(t.TempDir(), DefaultBudgets(), DefaultRetryPolicy(), &fakeModel{}, nil, logging.NewDefault())

	_, err := orch.ProcessBatch(context.Background(), nil, RegionAU)

	require.Error(t, err)
	var engErr *Error
	require.ErrorAs(t, err, &engErr)
	assert.Equal(t, KindInvalidInput, engErr.Kind)
}

func TestOrchestrator_MissingRequiredDocumentSkipsValidationNotJob(t *testing.T) {
	outputDir := t.TempDir()
	checklistDir := t.TempDir()
	writeChecklistFile(t, checklistDir, "au", sampleAUChecklist)
	checklistStore, err := NewChecklistStore(checklistDir, nil)
	require.NoError(t, err)

	// Only one file, classified as entry_print: commercial_invoice is
	// missing, so validation must be skipped but the job still appears.
	model := &fakeModel{responses: []fakeResponse{
		{content: `{"document_type":"entry_print"}`},
		{content: `{"entry_number":"E1","line_items":[]}`},
	}}

	orch := NewOrchestrator(outputDir, Budgets{JMax: 1, FMax: 1, LLMGlobalMax: 10}, RetryPolicy{MaxAttempts: 1, BaseDelay: time.Millisecond}, model, checklistStore, logging.NewDefault())

	files := []FileUpload{{OriginalFilename: "2_entry.pdf", Payload: []byte("%PDF entry")}}

	manifest, err := orch.ProcessBatch(context.Background(), files, RegionAU)
	require.NoError(t, err)

	require.Len(t, manifest.Jobs, 1)
	assert.Nil(t, manifest.Jobs[0].ValidationResults)
	assert.Empty(t, manifest.Jobs[0].ValidationFile)
}

func TestOrchestrator_TwoJobsAreIsolated(t *testing.T) {
	outputDir := t.TempDir()
	checklistDir := t.TempDir()
	writeChecklistFile(t, checklistDir, "au", sampleAUChecklist)
	checklistStore, err := NewChecklistStore(checklistDir, nil)
	require.NoError(t, err)

	// Neither job completes both designated documents; each is classified
	// as "other" via a schema-fault response, exercising the classifier's
	// fallback without calling the extractor or validator.
	model := &fakeModel{responses: []fakeResponse{
		{content: `not json`},
		{content: `not json`},
	}}

	orch := NewOrchestrator(outputDir, Budgets{JMax: 2, FMax: 1, LLMGlobalMax: 10}, RetryPolicy{MaxAttempts: 1, BaseDelay: time.Millisecond}, model, checklistStore, logging.NewDefault())

	files := []FileUpload{
		{OriginalFilename: "1_a.pdf", Payload: []byte("%PDF a")},
		{OriginalFilename: "2_a.pdf", Payload: []byte("%PDF b")},
	}

	manifest, err := orch.ProcessBatch(context.Background(), files, RegionAU)
	require.NoError(t, err)
	require.Len(t, manifest.Jobs, 2)
	for _, job := range manifest.Jobs {
		assert.Nil(t, job.ValidationResults)
	}
}
