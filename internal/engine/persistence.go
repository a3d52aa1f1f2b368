package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SavePDF writes a classified PDF into the job's folder under the run
// path, naming it "<stem>_<document_type>.pdf" so the saved filename
// encodes the classifier's verdict. Overwrites on
// collision rather than erroring, matching a rerun of the same job.
func SavePDF(runPath, jobID string, upload FileUpload, docType DocumentType) (SavedFileRecord, error) {
	jobDir := filepath.Join(runPath, jobID)
	if err := os.MkdirAll(jobDir, 0o755); err != nil {
		return SavedFileRecord{}, NewError(KindTransient, fmt.Sprintf("create job directory %s", jobDir), err)
	}

	stem, _ := splitExt(upload.OriginalFilename)
	savedFilename := fmt.Sprintf("%s_%s.pdf", stem, docType)
	savedPath := filepath.Join(jobDir, savedFilename)

	if err := os.WriteFile(savedPath, upload.Payload, 0o644); err != nil {
		return SavedFileRecord{}, NewError(KindTransient, fmt.Sprintf("write %s", savedPath), err)
	}

	return SavedFileRecord{
		OriginalFilename: upload.OriginalFilename,
		SavedFilename:    savedFilename,
		SavedPath:        savedPath,
		DocumentType:     docType,
	}, nil
}

// SaveExtraction writes record as pretty-printed JSON alongside the PDF it
// was extracted from, sharing the PDF's stem.
func SaveExtraction(savedPDFPath string, record interface{}) (string, error) {
	stem, _ := splitExt(savedPDFPath)
	jsonPath := stem + ".json"

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return "", NewError(KindInvalidInput, "marshal extracted record", err)
	}

	if err := os.WriteFile(jsonPath, data, 0o644); err != nil {
		return "", NewError(KindTransient, fmt.Sprintf("write %s", jsonPath), err)
	}

	return jsonPath, nil
}

// splitExt splits a filename at its final '.' into stem and extension
// (extension includes the leading dot). A filename with no '.' returns
// itself as the stem and an empty extension.
func splitExt(filename string) (stem, ext string) {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 {
		return filename, ""
	}
	return filename[:idx], filename[idx:]
}
