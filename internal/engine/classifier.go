package engine

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Phat0101/clearai-audit/internal/engine/schema"
	"github.com/Phat0101/clearai-audit/internal/llmtypes"
	"github.com/Phat0101/clearai-audit/internal/logging"
)

// Classifier performs C3: a single multimodal LLM call labeling a PDF with
// one of the five document types. Failure after retry exhaustion resolves
// to DocOther rather than propagating.
type Classifier struct {
	Model  llmtypes.Model
	Retry  RetryPolicy
	Global *Semaphore
	Logger logging.Logger
}

const classifierPrompt = `You are classifying a single customs-clearance PDF document into exactly one of these types:

- entry_print: a customs broker's entry declaration printout
- air_waybill: an air freight waybill
- commercial_invoice: a supplier's commercial invoice
- packing_list: a packing list enumerating cartons/items
- other: anything that does not clearly match the above

Respond with a JSON object containing exactly one field, "document_type", set to one of the five values above. Base your answer only on the attached document.`

// Classify labels pdfBytes with a DocumentType. On exhausted retries it
// logs a warning and returns DocOther, never an error, matching the
// "classification failure is recoverable" contract.
func (c *Classifier) Classify(ctx context.Context, pdfBytes []byte, filename string) DocumentType {
	var result DocumentType = DocOther

	err := Retry(ctx, c.Retry, func(ctx context.Context, attempt int) error {
		if err := c.Global.Acquire(ctx); err != nil {
			return NewError(KindTimeout, "acquire global LLM semaphore", err)
		}
		defer c.Global.Release()

		schemaDoc, err := schema.ClassificationSchema()
		if err != nil {
			return NewError(KindInvalidInput, "reflect classification schema", err)
		}

		messages := []llmtypes.MessageContent{
			llmtypes.TextPart(llmtypes.ChatMessageTypeSystem, classifierPrompt),
			{
				Role: llmtypes.ChatMessageTypeHuman,
				Parts: []llmtypes.ContentPart{
					llmtypes.DocumentContent{Label: "DOCUMENT TO CLASSIFY", MIMEType: "application/pdf", Data: pdfBytes},
				},
			},
		}

		resp, err := c.Model.GenerateContent(ctx, messages,
			llmtypes.WithTemperature(0),
			llmtypes.WithMaxTokens(256),
			llmtypes.WithJSONSchema("classification_result", schemaDoc),
		)
		if err != nil {
			return NewError(KindProviderFault, fmt.Sprintf("classify %s", filename), err)
		}
		if len(resp.Choices) == 0 {
			return NewError(KindProviderFault, "classifier returned no choices", nil)
		}

		var parsed schema.ClassificationResult
		if err := json.Unmarshal([]byte(resp.Choices[0].Content), &parsed); err != nil {
			return NewError(KindSchemaFault, "classifier response is not valid JSON", err)
		}

		switch DocumentType(parsed.DocumentType) {
		case DocEntryPrint, DocAirWaybill, DocCommercialInvoice, DocPackingList, DocOther:
			result = DocumentType(parsed.DocumentType)
		default:
			return NewError(KindSchemaFault, fmt.Sprintf("classifier returned unknown document_type %q", parsed.DocumentType), nil)
		}
		return nil
	})

	if err != nil {
		c.Logger.Warnf("classification of %s fell back to %s after retries: %v", filename, DocOther, err)
		return DocOther
	}
	return result
}
