package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleAUChecklist = `{
  "version": "1.0",
  "region": "AU",
  "categories": {
    "header": [
      {
        "id": "H1",
        "auditing_criteria": "Importer name consistency",
        "description": "Importer name on entry print matches commercial invoice buyer",
        "checking_logic": "fuzzy string match",
        "pass_conditions": "names match allowing abbreviation/case differences",
        "compare_fields": {
          "source_doc": "entry_print",
          "source_field": "importer_name",
          "target_doc": "commercial_invoice",
          "target_field": "buyer_name"
        }
      }
    ],
    "valuation": [
      {
        "id": "V1",
        "auditing_criteria": "Customs value matches invoice total",
        "description": "Declared customs value matches invoice total",
        "checking_logic": "numeric comparison with rounding tolerance",
        "pass_conditions": "values match within tolerance",
        "compare_fields": {
          "source_doc": "entry_print",
          "source_field": "customs_value_total",
          "target_doc": "commercial_invoice",
          "target_field": "total_amount"
        }
      }
    ]
  }
}`

func writeChecklistFile(t *testing.T, dir, region, content string) {
	t.Helper()
	path := filepath.Join(dir, region+"_checklist.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestChecklistStore_LoadCachesAfterFirstRead(t *testing.T) {
	dir := t.TempDir()
	writeChecklistFile(t, dir, "au", sampleAUChecklist)

	store, err := NewChecklistStore(dir, nil)
	require.NoError(t, err)

	checklist, err := store.Load(RegionAU)
	require.NoError(t, err)
	assert.Len(t, checklist.Categories.Header, 1)
	assert.Len(t, checklist.Categories.Valuation, 1)
	assert.Equal(t, 2.0, checklist.NumericTolerancePct)

	// Mutate the file on disk; Load should still return the cached value.
	writeChecklistFile(t, dir, "au", `{"version":"1.0","region":"AU","categories":{"header":[],"valuation":[]}}`)
	cached, err := store.Load(RegionAU)
	require.NoError(t, err)
	assert.Len(t, cached.Categories.Header, 1, "expected cached checklist, not the freshly written one")
}

func TestChecklistStore_ExplicitFileOverridesDirectoryResolution(t *testing.T) {
	dir := t.TempDir()
	customPath := filepath.Join(dir, "custom_au_checklist.json")
	require.NoError(t, os.WriteFile(customPath, []byte(sampleAUChecklist), 0o644))

	store, err := NewChecklistStore(customPath, nil)
	require.NoError(t, err)

	checklist, err := store.Load(RegionAU)
	require.NoError(t, err)
	assert.Len(t, checklist.Categories.Header, 1)
}

func TestChecklistStore_RejectsRegionMismatch(t *testing.T) {
	dir := t.TempDir()
	writeChecklistFile(t, dir, "nz", sampleAUChecklist) // region field says AU, filename says NZ

	store, err := NewChecklistStore(dir, nil)
	require.NoError(t, err)

	_, err = store.Load(RegionNZ)
	require.Error(t, err)
	var engErr *Error
	require.ErrorAs(t, err, &engErr)
	assert.Equal(t, KindSchemaFault, engErr.Kind)
}

func TestChecklistStore_RejectsDuplicateCheckIDs(t *testing.T) {
	dir := t.TempDir()
	duplicate := `{
      "version": "1.0", "region": "AU",
      "categories": {
        "header": [
          {"id": "H1", "compare_fields": {"source_doc":"entry_print","source_field":"a","target_doc":"commercial_invoice","target_field":"b"}},
          {"id": "H1", "compare_fields": {"source_doc":"entry_print","source_field":"a","target_doc":"commercial_invoice","target_field":"b"}}
        ],
        "valuation": []
      }
    }`
	writeChecklistFile(t, dir, "au", duplicate)

	store, err := NewChecklistStore(dir, nil)
	require.NoError(t, err)

	_, err = store.Load(RegionAU)
	require.Error(t, err)
	var engErr *Error
	require.ErrorAs(t, err, &engErr)
	assert.Equal(t, KindSchemaFault, engErr.Kind)
}

func TestChecklistStore_ReplaceRewritesAndEvictsCache(t *testing.T) {
	dir := t.TempDir()
	writeChecklistFile(t, dir, "au", sampleAUChecklist)

	store, err := NewChecklistStore(dir, nil)
	require.NoError(t, err)

	_, err = store.Load(RegionAU)
	require.NoError(t, err)

	replacement := `{"version":"2.0","region":"AU","categories":{"header":[],"valuation":[]}}`
	require.NoError(t, store.Replace(RegionAU, []byte(replacement)))

	reloaded, err := store.Load(RegionAU)
	require.NoError(t, err)
	assert.Equal(t, "2.0", reloaded.Version)
	assert.Empty(t, reloaded.Categories.Header)

	onDisk, err := os.ReadFile(filepath.Join(dir, "au_checklist.json"))
	require.NoError(t, err)
	assert.Contains(t, string(onDisk), `"version": "2.0"`)

	_, statErr := os.Stat(filepath.Join(dir, "au_checklist.json.tmp"))
	assert.True(t, os.IsNotExist(statErr), "temp file should not remain after rename")
}
