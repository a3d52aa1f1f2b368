package engine

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldRef_RoundTripsSingleName(t *testing.T) {
	var f FieldRef
	require.NoError(t, json.Unmarshal([]byte(`"importer_name"`), &f))

	name, ok := f.Single()
	require.True(t, ok)
	assert.Equal(t, "importer_name", name)

	data, err := json.Marshal(f)
	require.NoError(t, err)
	assert.Equal(t, `"importer_name"`, string(data))
}

func TestFieldRef_RoundTripsNameList(t *testing.T) {
	var f FieldRef
	require.NoError(t, json.Unmarshal([]byte(`["line_items", "description"]`), &f))

	_, ok := f.Single()
	assert.False(t, ok)
	assert.Equal(t, []string{"line_items", "description"}, f.Names)

	data, err := json.Marshal(f)
	require.NoError(t, err)
	assert.JSONEq(t, `["line_items","description"]`, string(data))
}

func TestFieldRef_RejectsOtherJSONShapes(t *testing.T) {
	var f FieldRef
	err := json.Unmarshal([]byte(`42`), &f)
	assert.Error(t, err)
}

func TestFieldRef_EmbeddedInStruct(t *testing.T) {
	type wrapper struct {
		SourceField FieldRef `json:"source_field"`
	}

	var w wrapper
	require.NoError(t, json.Unmarshal([]byte(`{"source_field":"customs_value_total"}`), &w))

	name, ok := w.SourceField.Single()
	require.True(t, ok)
	assert.Equal(t, "customs_value_total", name)
}
