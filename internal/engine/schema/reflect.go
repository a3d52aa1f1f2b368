package schema

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// reflector builds a fresh Reflector for each call; RequiredFromJSONSchemaTags
// matches the `jsonschema:"required"` tags used on the record structs.
func reflector() *jsonschema.Reflector {
	r := new(jsonschema.Reflector)
	r.ExpandedStruct = true
	r.DoNotReference = false
	r.RequiredFromJSONSchemaTags = true
	return r
}

// ReflectJSON reflects v into a JSON Schema document and renders it as
// compact JSON text, suitable for embedding in a WithJSONSchema call
// option.
func ReflectJSON(v any) (string, error) {
	s := reflector().Reflect(v)
	data, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// EntryPrintSchema is the reflected schema for EntryPrintRecord.
func EntryPrintSchema() (string, error) { return ReflectJSON(EntryPrintRecord{}) }

// CommercialInvoiceSchema is the reflected schema for CommercialInvoiceRecord.
func CommercialInvoiceSchema() (string, error) { return ReflectJSON(CommercialInvoiceRecord{}) }

// ClassificationSchema is the reflected schema for ClassificationResult.
func ClassificationSchema() (string, error) { return ReflectJSON(ClassificationResult{}) }

// ValidationEnvelopeSchema is the reflected schema for ValidationEnvelope.
func ValidationEnvelopeSchema() (string, error) { return ReflectJSON(ValidationEnvelope{}) }
