package engine

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSavePDF_DeterministicNaming(t *testing.T) {
	runPath := t.TempDir()
	upload := FileUpload{OriginalFilename: "123_scan.pdf", Payload: []byte("%PDF-1.4 fake")}

	rec, err := SavePDF(runPath, "123", upload, DocEntryPrint)
	require.NoError(t, err)

	assert.Equal(t, "123_scan_entry_print.pdf", rec.SavedFilename)
	assert.Equal(t, filepath.Join(runPath, "123", "123_scan_entry_print.pdf"), rec.SavedPath)

	data, err := os.ReadFile(rec.SavedPath)
	require.NoError(t, err)
	assert.Equal(t, upload.Payload, data)
}

func TestSavePDF_OverwritesOnCollision(t *testing.T) {
	runPath := t.TempDir()
	upload := FileUpload{OriginalFilename: "123_scan.pdf", Payload: []byte("first")}

	rec1, err := SavePDF(runPath, "123", upload, DocEntryPrint)
	require.NoError(t, err)

	upload.Payload = []byte("second")
	rec2, err := SavePDF(runPath, "123", upload, DocEntryPrint)
	require.NoError(t, err)

	assert.Equal(t, rec1.SavedPath, rec2.SavedPath)
	data, err := os.ReadFile(rec2.SavedPath)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestSaveExtraction_SharesStemWithPDF(t *testing.T) {
	runPath := t.TempDir()
	upload := FileUpload{OriginalFilename: "9_invoice.pdf", Payload: []byte("%PDF-1.4")}
	rec, err := SavePDF(runPath, "9", upload, DocCommercialInvoice)
	require.NoError(t, err)

	record := map[string]string{"invoice_number": "INV-1"}
	jsonPath, err := SaveExtraction(rec.SavedPath, record)
	require.NoError(t, err)

	assert.Equal(t, "9_invoice_commercial_invoice.json", filepath.Base(jsonPath))

	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	var roundTripped map[string]string
	require.NoError(t, json.Unmarshal(data, &roundTripped))
	assert.Equal(t, record, roundTripped)
}

func TestSplitExt_NoExtension(t *testing.T) {
	stem, ext := splitExt("no_dot_here")
	assert.Equal(t, "no_dot_here", stem)
	assert.Equal(t, "", ext)
}
