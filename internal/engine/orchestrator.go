package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/Phat0101/clearai-audit/internal/llmtypes"
	"github.com/Phat0101/clearai-audit/internal/logging"
)

// Budgets configures the orchestrator's concurrency ceilings.
type Budgets struct {
	JMax         int // parallel jobs, typical 4
	FMax         int // per-job parallel files, typical 8
	LLMGlobalMax int // global in-flight LLM calls, typical 100
}

// DefaultBudgets returns the typical concurrency ceilings.
func DefaultBudgets() Budgets {
	return Budgets{JMax: 4, FMax: 8, LLMGlobalMax: 100}
}

// Orchestrator performs C8: process_batch, composing C1-C7 with bounded
// concurrency, retry, and per-job failure isolation.
type Orchestrator struct {
	OutputDir  string
	Budgets    Budgets
	Classifier *Classifier
	Extractor  *Extractor
	Validator  *Validator
	Logger     logging.Logger

	now func() time.Time // injected for deterministic tests
}

// NewOrchestrator wires C1-C7 behind the given budgets. The
// global LLM semaphore is shared by the classifier, extractor, and
// validator, enforcing LLMGlobalMax across all three.
func NewOrchestrator(outputDir string, budgets Budgets, retry RetryPolicy, model llmtypes.Model, checklistStore *ChecklistStore, logger logging.Logger) *Orchestrator {
	global := NewSemaphore(budgets.LLMGlobalMax)
	if retry.MaxAttempts <= 0 {
		retry = DefaultRetryPolicy()
	}

	return &Orchestrator{
		OutputDir:  outputDir,
		Budgets:    budgets,
		Classifier: &Classifier{Model: model, Retry: retry, Global: global, Logger: logger},
		Extractor:  &Extractor{Model: model, Retry: retry, Global: global, Logger: logger},
		Validator:  &Validator{Model: model, Checklist: checklistStore, Retry: retry, Global: global, Logger: logger},
		Logger:     logger,
		now:        time.Now,
	}
}

// ProcessBatch is C8's single operation.
func (o *Orchestrator) ProcessBatch(ctx context.Context, files []FileUpload, region Region) (*RunManifest, error) {
	if !region.Valid() {
		return nil, NewError(KindInvalidInput, fmt.Sprintf("unsupported region %q", region), nil)
	}
	if len(files) == 0 {
		return nil, NewError(KindInvalidInput, "files must not be empty", nil)
	}

	now := time.Now
	if o.now != nil {
		now = o.now
	}

	run, err := AllocateRun(o.OutputDir, region, now())
	if err != nil {
		return nil, err
	}

	jobFiles := Partition(files)
	jobOrder := OrderedJobIDs(files)

	manifest := &RunManifest{
		RunID:      run.RunID,
		RunPath:    run.RunPath,
		Region:     region,
		TotalFiles: len(files),
		TotalJobs:  len(jobOrder),
	}

	entries := make([]JobManifestEntry, len(jobOrder))
	jobSem := NewSemaphore(o.Budgets.JMax)
	var wg sync.WaitGroup

	for i, jobID := range jobOrder {
		i, jobID := i, jobID
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := jobSem.Acquire(ctx); err != nil {
				entries[i] = JobManifestEntry{JobID: jobID}
				return
			}
			defer jobSem.Release()

			entries[i] = o.processJob(ctx, run, jobID, jobFiles[jobID])
		}()
	}
	wg.Wait()

	manifest.Jobs = entries
	o.logBatchSummary(run.RunID, entries)
	return manifest, nil
}

// logBatchSummary emits the run's one-line audit trail: how many jobs ran,
// how many produced validation results, and how many ended without them.
// The last count includes jobs that lacked a designated entry print or
// commercial invoice as well as jobs whose validation step failed; the two
// are not told apart.
func (o *Orchestrator) logBatchSummary(runID string, entries []JobManifestEntry) {
	var validated, recovered int
	for _, e := range entries {
		switch {
		case e.ValidationResults != nil:
			validated++
		default:
			recovered++
		}
	}
	o.Logger.WithField("run_id", runID).
		Infof("batch complete: %d jobs, %d validated, %d recovered failures", len(entries), validated, recovered)
}

// processJob runs one job's classify/save/extract/save/validate pipeline.
// A failure at any step is confined to the job: the returned entry simply
// omits the failed portion.
func (o *Orchestrator) processJob(ctx context.Context, run *Run, jobID string, uploads []FileUpload) JobManifestEntry {
	entry := JobManifestEntry{JobID: jobID, JobFolder: jobID}

	saved := make([]SavedFileRecord, len(uploads))
	fileSem := NewSemaphore(o.Budgets.FMax)
	var wg sync.WaitGroup

	for i, upload := range uploads {
		i, upload := i, upload
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fileSem.Acquire(ctx); err != nil {
				return
			}
			defer fileSem.Release()

			saved[i] = o.processFile(ctx, run, jobID, upload)
		}()
	}
	wg.Wait()

	entry.ClassifiedFiles = saved

	designated := designate(saved)

	_, hasEntryPrint := designated[DocEntryPrint]
	_, hasInvoice := designated[DocCommercialInvoice]

	if hasEntryPrint && hasInvoice {
		pdfDocs, err := rereadDesignated(designated)
		if err != nil {
			o.Logger.Warnf("job %s: failed to re-read designated PDFs for validation: %v", jobID, err)
			return entry
		}

		result, err := o.Validator.Validate(ctx, run.Region, pdfDocs,
			designated[DocEntryPrint].ExtractedData, designated[DocCommercialInvoice].ExtractedData)
		if err != nil {
			o.Logger.Warnf("job %s: validation failed, manifest entry has no validation_results: %v", jobID, err)
			return entry
		}

		validationFilename := fmt.Sprintf("job_%s_validation_%s.json", jobID, run.Region)
		validationPath := filepath.Join(run.RunPath, validationFilename)
		if err := writeValidationFile(validationPath, jobID, run.Region, result); err != nil {
			o.Logger.Warnf("job %s: failed to write validation file: %v", jobID, err)
			return entry
		}

		entry.ValidationResults = result
		entry.ValidationFile = validationFilename
	}

	return entry
}

// processFile runs C3 -> C5 -> conditionally C4 -> C5 for one upload.
func (o *Orchestrator) processFile(ctx context.Context, run *Run, jobID string, upload FileUpload) SavedFileRecord {
	docType := o.Classifier.Classify(ctx, upload.Payload, upload.OriginalFilename)

	saved, err := SavePDF(run.RunPath, jobID, upload, docType)
	if err != nil {
		o.Logger.Warnf("job %s: failed to save %s: %v", jobID, upload.OriginalFilename, err)
		return SavedFileRecord{OriginalFilename: upload.OriginalFilename, DocumentType: docType}
	}

	record := o.Extractor.Extract(ctx, upload.Payload, docType, upload.OriginalFilename)
	if record != nil {
		if _, err := SaveExtraction(saved.SavedPath, record); err != nil {
			o.Logger.Warnf("job %s: failed to save extraction for %s: %v", jobID, saved.SavedFilename, err)
		} else {
			saved.ExtractedData = record
		}
	}

	return saved
}

// designate applies the tie-break: among files sharing an active
// document type, the one whose saved filename sorts lexicographically
// first is designated.
func designate(saved []SavedFileRecord) map[DocumentType]SavedFileRecord {
	byType := make(map[DocumentType][]SavedFileRecord)
	for _, s := range saved {
		if s.DocumentType == DocOther || s.SavedFilename == "" {
			continue
		}
		byType[s.DocumentType] = append(byType[s.DocumentType], s)
	}

	designated := make(map[DocumentType]SavedFileRecord)
	for docType, records := range byType {
		sort.Slice(records, func(i, j int) bool { return records[i].SavedFilename < records[j].SavedFilename })
		designated[docType] = records[0]
	}
	return designated
}

// rereadDesignated re-reads the designated PDFs from disk into memory for
// C7, including air_waybill when present.
func rereadDesignated(designated map[DocumentType]SavedFileRecord) (map[DocumentType][]byte, error) {
	out := make(map[DocumentType][]byte)
	for _, docType := range []DocumentType{DocEntryPrint, DocCommercialInvoice, DocAirWaybill} {
		rec, ok := designated[docType]
		if !ok {
			continue
		}
		data, err := os.ReadFile(rec.SavedPath)
		if err != nil {
			return nil, NewError(KindTransient, fmt.Sprintf("read %s", rec.SavedPath), err)
		}
		out[docType] = data
	}
	return out, nil
}

func writeValidationFile(path, jobID string, region Region, result *BatchValidationResult) error {
	payload := struct {
		JobID  string `json:"job_id"`
		Region Region  `json:"region"`
		*BatchValidationResult
	}{JobID: jobID, Region: region, BatchValidationResult: result}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return NewError(KindInvalidInput, "marshal validation result", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return NewError(KindTransient, fmt.Sprintf("write %s", path), err)
	}
	return nil
}
