package engine

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Phat0101/clearai-audit/internal/engine/schema"
	"github.com/Phat0101/clearai-audit/internal/llmtypes"
	"github.com/Phat0101/clearai-audit/internal/logging"
)

// Extractor performs C4: structured field extraction, active only for
// entry_print and commercial_invoice. Every other document
// type is a no-op that never calls the model.
type Extractor struct {
	Model  llmtypes.Model
	Retry  RetryPolicy
	Global *Semaphore
	Logger logging.Logger
}

const extractorPromptTemplate = `Extract every field of the attached %s into the JSON schema provided. Use empty strings for fields that are absent or illegible. Do not guess values that are not present in the document. Preserve line items in the order they appear.`

// Extract returns a schema-validated record for docType, or nil if docType
// is not an active extraction type. On exhausted retries it logs a
// warning and returns nil rather than propagating.
func (e *Extractor) Extract(ctx context.Context, pdfBytes []byte, docType DocumentType, filename string) interface{} {
	switch docType {
	case DocEntryPrint:
		return e.extractTyped(ctx, pdfBytes, filename, "ENTRY PRINT DOCUMENT", schema.EntryPrintSchema, func() interface{} { return &schema.EntryPrintRecord{} })
	case DocCommercialInvoice:
		return e.extractTyped(ctx, pdfBytes, filename, "COMMERCIAL INVOICE DOCUMENT", schema.CommercialInvoiceSchema, func() interface{} { return &schema.CommercialInvoiceRecord{} })
	default:
		return nil
	}
}

func (e *Extractor) extractTyped(ctx context.Context, pdfBytes []byte, filename, label string, schemaFn func() (string, error), newRecord func() interface{}) interface{} {
	var result interface{}

	err := Retry(ctx, e.Retry, func(ctx context.Context, attempt int) error {
		if err := e.Global.Acquire(ctx); err != nil {
			return NewError(KindTimeout, "acquire global LLM semaphore", err)
		}
		defer e.Global.Release()

		schemaDoc, err := schemaFn()
		if err != nil {
			return NewError(KindInvalidInput, "reflect extraction schema", err)
		}

		prompt := fmt.Sprintf(extractorPromptTemplate, label)
		messages := []llmtypes.MessageContent{
			llmtypes.TextPart(llmtypes.ChatMessageTypeSystem, prompt),
			{
				Role: llmtypes.ChatMessageTypeHuman,
				Parts: []llmtypes.ContentPart{
					llmtypes.DocumentContent{Label: label, MIMEType: "application/pdf", Data: pdfBytes},
				},
			},
		}

		resp, err := e.Model.GenerateContent(ctx, messages,
			llmtypes.WithTemperature(0),
			llmtypes.WithMaxTokens(8192),
			llmtypes.WithJSONSchema(label, schemaDoc),
		)
		if err != nil {
			return NewError(KindProviderFault, fmt.Sprintf("extract %s from %s", label, filename), err)
		}
		if len(resp.Choices) == 0 {
			return NewError(KindProviderFault, "extractor returned no choices", nil)
		}

		record := newRecord()
		if err := json.Unmarshal([]byte(resp.Choices[0].Content), record); err != nil {
			return NewError(KindSchemaFault, "extractor response is not valid JSON", err)
		}
		result = record
		return nil
	})

	if err != nil {
		e.Logger.Warnf("extraction of %s from %s fell back to null after retries: %v", label, filename, err)
		return nil
	}
	return result
}
