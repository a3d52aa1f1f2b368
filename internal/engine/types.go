// Package engine implements the customs document batch processing engine:
// ingest a heterogeneous set of PDFs, partition them into jobs, drive
// classification/extraction/validation with bounded concurrency and
// retry, and persist an auditable, run-scoped directory tree plus a run
// manifest.
package engine

import "time"

// DocumentType is the closed enum of document kinds the classifier may
// assign.
type DocumentType string

const (
	DocEntryPrint        DocumentType = "entry_print"
	DocAirWaybill        DocumentType = "air_waybill"
	DocCommercialInvoice DocumentType = "commercial_invoice"
	DocPackingList       DocumentType = "packing_list"
	DocOther             DocumentType = "other"
)

// Region is the closed enum of checklist regions.
type Region string

const (
	RegionAU Region = "AU"
	RegionNZ Region = "NZ"
)

// Valid reports whether r is a supported region.
func (r Region) Valid() bool {
	return r == RegionAU || r == RegionNZ
}

// FileUpload is an in-memory (original_filename, payload) pair. The
// orchestrator's caller is responsible for ensuring payload is a PDF.
type FileUpload struct {
	OriginalFilename string
	Payload          []byte
}

// SavedFileRecord describes one file persisted by the Persistence Layer.
type SavedFileRecord struct {
	OriginalFilename string          `json:"original_filename"`
	SavedFilename    string          `json:"saved_filename"`
	SavedPath        string          `json:"saved_path"`
	DocumentType     DocumentType    `json:"document_type"`
	ExtractedData    interface{}     `json:"extracted_data,omitempty"`
}

// Job is the set of file uploads sharing a job ID, plus their classified,
// persisted records.
type Job struct {
	ID          string
	Uploads     []FileUpload
	SavedFiles  []SavedFileRecord
	Designated  map[DocumentType]SavedFileRecord // one per active type, tie-break applied
	ValidatedAt *time.Time
}

// Run is a single invocation of the pipeline.
type Run struct {
	RunID     string
	RunPath   string
	CreatedAt time.Time
	Region    Region
}

// Check is one checklist item.
type Check struct {
	ID               string          `json:"id"`
	AuditingCriteria string          `json:"auditing_criteria"`
	Description      string          `json:"description"`
	CheckingLogic    string          `json:"checking_logic"`
	PassConditions   string          `json:"pass_conditions"`
	CompareFields    CompareFields   `json:"compare_fields"`
}

// CompareFields names the source/target documents and fields a Check
// compares. SourceField/TargetField may be a single field name or an
// ordered list, modeled as FieldRef.
type CompareFields struct {
	SourceDoc   DocumentType `json:"source_doc"`
	SourceField FieldRef     `json:"source_field"`
	TargetDoc   DocumentType `json:"target_doc"`
	TargetField FieldRef     `json:"target_field"`
}

// ChecklistCategories groups a checklist's checks by category.
type ChecklistCategories struct {
	Header    []Check `json:"header"`
	Valuation []Check `json:"valuation"`
}

// Checklist is the region-specific set of audit checks.
type Checklist struct {
	Version             string              `json:"version"`
	Region              Region              `json:"region"`
	Categories          ChecklistCategories `json:"categories"`
	NumericTolerancePct float64             `json:"numeric_tolerance_pct,omitempty"`
}

// VerdictStatus is the closed enum of per-check outcomes.
type VerdictStatus string

const (
	StatusPass        VerdictStatus = "PASS"
	StatusFail        VerdictStatus = "FAIL"
	StatusQuestionable VerdictStatus = "QUESTIONABLE"
	StatusNotApplicable VerdictStatus = "N/A"
)

// Verdict is a single check's outcome.
type Verdict struct {
	CheckID          string        `json:"check_id"`
	AuditingCriteria string        `json:"auditing_criteria"`
	Status           VerdictStatus `json:"status"`
	Assessment       string        `json:"assessment"`
	SourceDocument   DocumentType  `json:"source_document"`
	TargetDocument   DocumentType  `json:"target_document"`
	SourceValue      string        `json:"source_value"`
	TargetValue      string        `json:"target_value"`
}

// ValidationSummary tallies verdicts.
type ValidationSummary struct {
	Total         int `json:"total"`
	Passed        int `json:"passed"`
	Failed        int `json:"failed"`
	Questionable  int `json:"questionable"`
	NotApplicable int `json:"not_applicable"`
}

// LineVerdict is the optional tariff line-item check's per-line outcome.
type LineVerdict struct {
	LineNumber           int    `json:"line_number"`
	Description          string `json:"description"`
	ExtractedTariffCode  string `json:"extracted_tariff_code"`
	ExtractedStatCode    string `json:"extracted_stat_code"`
	SuggestedTariffCode  string `json:"suggested_tariff_code"`
	SuggestedStatCode    string `json:"suggested_stat_code"`
	Status               VerdictStatus `json:"status"`
	Assessment           string `json:"assessment"`
	OtherSuggestedCodes  []string `json:"other_suggested_codes,omitempty"`
	ConcessionStatus     VerdictStatus `json:"concession_status"`
	QuantityStatus       VerdictStatus `json:"quantity_status"`
	GSTExemptionStatus   VerdictStatus `json:"gst_exemption_status"`
	OverallStatus        VerdictStatus `json:"overall_status"`
}

// BatchValidationResult is C7's output for one job.
type BatchValidationResult struct {
	Header           []Verdict          `json:"header"`
	Valuation        []Verdict          `json:"valuation"`
	TariffLineChecks []LineVerdict      `json:"tariff_line_checks,omitempty"`
	Summary          ValidationSummary  `json:"summary"`
}

// JobManifestEntry is one job's entry in the run manifest.
type JobManifestEntry struct {
	JobID             string             `json:"job_id"`
	JobFolder         string             `json:"job_folder"`
	ClassifiedFiles   []SavedFileRecord  `json:"classified_files"`
	ValidationResults *BatchValidationResult `json:"validation_results,omitempty"`
	ValidationFile    string             `json:"validation_file,omitempty"`
}

// RunManifest is the top-level result of process_batch.
type RunManifest struct {
	RunID      string             `json:"run_id"`
	RunPath    string             `json:"run_path"`
	Region     Region             `json:"region"`
	TotalFiles int                `json:"total_files"`
	TotalJobs  int                `json:"total_jobs"`
	Jobs       []JobManifestEntry `json:"jobs"`
}
