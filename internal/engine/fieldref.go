package engine

import (
	"encoding/json"
	"fmt"
)

// FieldRef is either a single field name or an ordered list of field
// names, modeled as a sum type rather than overloading a plain string.
type FieldRef struct {
	Names []string
}

// Single reports whether this FieldRef names exactly one field.
func (f FieldRef) Single() (string, bool) {
	if len(f.Names) == 1 {
		return f.Names[0], true
	}
	return "", false
}

// MarshalJSON renders a single-name FieldRef as a bare string and a
// multi-name FieldRef as a JSON array, matching the checklist file format.
func (f FieldRef) MarshalJSON() ([]byte, error) {
	if len(f.Names) == 1 {
		return json.Marshal(f.Names[0])
	}
	return json.Marshal(f.Names)
}

// UnmarshalJSON accepts either a JSON string or a JSON array of strings.
func (f *FieldRef) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		f.Names = []string{single}
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		f.Names = list
		return nil
	}

	return fmt.Errorf("field_ref must be a string or an array of strings")
}
