package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/Phat0101/clearai-audit/internal/engine/schema"
	"github.com/Phat0101/clearai-audit/internal/engine/tariff"
	"github.com/Phat0101/clearai-audit/internal/llmtypes"
	"github.com/Phat0101/clearai-audit/internal/logging"
)

// requiredDocTypes are the document types the validator's pdf_documents
// input must contain.
var requiredDocTypes = []DocumentType{DocEntryPrint, DocCommercialInvoice}

// Validator performs C7: two concurrently-dispatched LLM invocations
// (header, valuation) producing per-check verdicts, plus an optional
// tariff line-item check.
type Validator struct {
	Model            llmtypes.Model
	Checklist        *ChecklistStore
	Retry            RetryPolicy
	Global           *Semaphore
	Logger           logging.Logger
	TariffClassifier tariff.Classifier // nil disables the tariff line-item check
}

// Validate runs the header and valuation invocations concurrently and
// combines their results. pdfDocuments must contain entry_print and
// commercial_invoice; air_waybill is included when present.
// entryPrintRecord and commercialInvoiceRecord are C4's already-produced
// extraction records for this job; when v.TariffClassifier is set, their
// line items feed the optional tariff line-item check.
func (v *Validator) Validate(ctx context.Context, region Region, pdfDocuments map[DocumentType][]byte, entryPrintRecord, commercialInvoiceRecord interface{}) (*BatchValidationResult, error) {
	for _, required := range requiredDocTypes {
		if _, ok := pdfDocuments[required]; !ok {
			return nil, NewError(KindInvalidInput, fmt.Sprintf("validator requires %s but it is missing", required), nil)
		}
	}

	checklist, err := v.Checklist.Load(region)
	if err != nil {
		return nil, err
	}

	var (
		wg                          sync.WaitGroup
		headerVerdicts, valVerdicts []Verdict
		headerErr, valErr           error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		headerVerdicts, headerErr = v.runInvocation(ctx, "header", checklist.Categories.Header, pdfDocuments)
	}()
	go func() {
		defer wg.Done()
		valVerdicts, valErr = v.runInvocation(ctx, "valuation", checklist.Categories.Valuation, pdfDocuments)
	}()
	wg.Wait()

	if headerErr != nil {
		return nil, headerErr
	}
	if valErr != nil {
		return nil, valErr
	}

	var tariffChecks []LineVerdict
	if v.TariffClassifier != nil {
		tariffChecks = v.runTariffCheck(entryPrintRecord, commercialInvoiceRecord)
	}

	result := &BatchValidationResult{
		Header:           headerVerdicts,
		Valuation:        valVerdicts,
		TariffLineChecks: tariffChecks,
		Summary:          summarize(headerVerdicts, valVerdicts),
	}
	return result, nil
}

func summarize(groups ...[]Verdict) ValidationSummary {
	var s ValidationSummary
	for _, group := range groups {
		for _, v := range group {
			s.Total++
			switch v.Status {
			case StatusPass:
				s.Passed++
			case StatusFail:
				s.Failed++
			case StatusQuestionable:
				s.Questionable++
			case StatusNotApplicable:
				s.NotApplicable++
			}
		}
	}
	return s
}

// runInvocation implements the per-invocation protocol (prompt assembly,
// schema validation, retry) for one check category.
func (v *Validator) runInvocation(ctx context.Context, category string, checks []Check, pdfDocuments map[DocumentType][]byte) ([]Verdict, error) {
	if len(checks) == 0 {
		return []Verdict{}, nil
	}

	traceID := uuid.NewString()
	prompt := buildValidationPrompt(checks)
	tokens := estimateTokens(prompt)
	v.Logger.WithField("trace_id", traceID).
		WithField("category", category).
		Infof("dispatching %s validation invocation (~%d prompt tokens, %d checks)", category, tokens, len(checks))

	var verdicts []Verdict
	err := Retry(ctx, v.Retry, func(ctx context.Context, attempt int) error {
		if err := v.Global.Acquire(ctx); err != nil {
			return NewError(KindTimeout, "acquire global LLM semaphore", err)
		}
		defer v.Global.Release()

		schemaDoc, err := schema.ValidationEnvelopeSchema()
		if err != nil {
			return NewError(KindInvalidInput, "reflect validation schema", err)
		}

		parts := []llmtypes.ContentPart{llmtypes.TextContent{Text: prompt}}
		for _, docType := range orderedDocTypes(pdfDocuments) {
			parts = append(parts,
				llmtypes.DocumentContent{Label: documentLabel(docType), MIMEType: "application/pdf", Data: pdfDocuments[docType]},
			)
		}

		messages := []llmtypes.MessageContent{
			llmtypes.TextPart(llmtypes.ChatMessageTypeSystem, validationSystemPrompt),
			{Role: llmtypes.ChatMessageTypeHuman, Parts: parts},
		}

		resp, err := v.Model.GenerateContent(ctx, messages,
			llmtypes.WithTemperature(0),
			llmtypes.WithMaxTokens(8192),
			llmtypes.WithJSONSchema("validation_envelope_"+category, schemaDoc),
		)
		if err != nil {
			return NewError(KindProviderFault, fmt.Sprintf("%s validation invocation", category), err)
		}
		if len(resp.Choices) == 0 {
			return NewError(KindProviderFault, "validator returned no choices", nil)
		}

		var envelope schema.ValidationEnvelope
		if err := json.Unmarshal([]byte(resp.Choices[0].Content), &envelope); err != nil {
			return NewError(KindSchemaFault, "validator response is not valid JSON", err)
		}
		if len(envelope.Validations) != len(checks) {
			return NewError(KindSchemaFault, fmt.Sprintf("%s invocation returned %d verdicts for %d checks", category, len(envelope.Validations), len(checks)), nil)
		}

		out := make([]Verdict, len(envelope.Validations))
		for i, r := range envelope.Validations {
			out[i] = Verdict{
				CheckID:          r.CheckID,
				AuditingCriteria: r.AuditingCriteria,
				Status:           VerdictStatus(r.Status),
				Assessment:       r.Assessment,
				SourceDocument:   DocumentType(r.SourceDocument),
				TargetDocument:   DocumentType(r.TargetDocument),
				SourceValue:      r.SourceValue,
				TargetValue:      r.TargetValue,
			}
		}
		verdicts = out
		return nil
	})

	if err != nil {
		return nil, NewError(KindProviderFault, fmt.Sprintf("%s validation invocation exhausted retries", category), err)
	}
	return verdicts, nil
}

const validationSystemPrompt = `You are auditing customs-clearance documents against a checklist. For each check, compare the named fields on the named source and target documents and decide a status.

Rules:
- A null-versus-null comparison (the field is absent from both documents) is PASS.
- Company name comparisons tolerate fuzzy variation: abbreviations, case, and punctuation differences are not failures.
- Numeric comparisons tolerate standard rounding.
- QUESTIONABLE is reserved for genuine ambiguity, not minor formatting differences.
- N/A is permitted only when the relevant field is absent from both documents.
- source_value and target_value must cite the concrete text you read from the documents; they must not be empty unless the status is N/A.

Return a single JSON object with exactly one field, "validations", an array with exactly one verdict per check below, in the same order.`

func buildValidationPrompt(checks []Check) string {
	var b strings.Builder
	b.WriteString("Checks to evaluate, in order:\n\n")
	for i, c := range checks {
		fmt.Fprintf(&b, "%d. id=%s\n   auditing_criteria: %s\n   description: %s\n   checking_logic: %s\n   pass_conditions: %s\n   compare: %s.%s vs %s.%s\n\n",
			i+1, c.ID, c.AuditingCriteria, c.Description, c.CheckingLogic, c.PassConditions,
			c.CompareFields.SourceDoc, fieldRefString(c.CompareFields.SourceField),
			c.CompareFields.TargetDoc, fieldRefString(c.CompareFields.TargetField),
		)
	}
	return b.String()
}

func fieldRefString(f FieldRef) string {
	return strings.Join(f.Names, "+")
}

func documentLabel(docType DocumentType) string {
	switch docType {
	case DocEntryPrint:
		return "ENTRY PRINT DOCUMENT"
	case DocCommercialInvoice:
		return "COMMERCIAL INVOICE DOCUMENT"
	case DocAirWaybill:
		return "AIR WAYBILL DOCUMENT"
	case DocPackingList:
		return "PACKING LIST DOCUMENT"
	default:
		return strings.ToUpper(string(docType)) + " DOCUMENT"
	}
}

// orderedDocTypes returns a stable iteration order over pdfDocuments so
// the prompt's document order (and hence any model behavior sensitive to
// position) is deterministic across calls.
func orderedDocTypes(pdfDocuments map[DocumentType][]byte) []DocumentType {
	preferred := []DocumentType{DocEntryPrint, DocCommercialInvoice, DocAirWaybill, DocPackingList, DocOther}
	var out []DocumentType
	for _, dt := range preferred {
		if _, ok := pdfDocuments[dt]; ok {
			out = append(out, dt)
		}
	}
	return out
}

// runTariffCheck matches entry-print and commercial-invoice line items by
// line number and asks v.TariffClassifier for a suggested classification
// of each, deriving a LineVerdict per matched pair. Unmatched or
// unparseable records yield no checks rather than an error, since the
// tariff check is an optional extension of C7, not a required step.
func (v *Validator) runTariffCheck(entryPrintRecord, commercialInvoiceRecord interface{}) []LineVerdict {
	entryRecord, ok := entryPrintRecord.(*schema.EntryPrintRecord)
	if !ok || entryRecord == nil {
		return nil
	}
	invoiceRecord, ok := commercialInvoiceRecord.(*schema.CommercialInvoiceRecord)
	if !ok || invoiceRecord == nil {
		return nil
	}

	entryLines := make([]tariff.LineItem, len(entryRecord.LineItems))
	for i, l := range entryRecord.LineItems {
		entryLines[i] = tariff.LineItem{
			LineNumber:      l.LineNumber,
			Description:     l.Description,
			TariffCode:      tariff.NormalizeCode(l.TariffCode),
			StatisticalCode: tariff.NormalizeCode(l.StatisticalCode),
		}
	}
	invoiceLines := make([]tariff.LineItem, len(invoiceRecord.LineItems))
	for i, l := range invoiceRecord.LineItems {
		invoiceLines[i] = tariff.LineItem{
			LineNumber:  l.LineNumber,
			Description: l.Description,
		}
	}

	var verdicts []LineVerdict
	for lineNumber, pair := range tariff.MatchLines(entryLines, invoiceLines) {
		entryLine := pair[0]
		if entryLine == nil || pair[1] == nil {
			continue
		}

		suggestion, err := v.TariffClassifier.Suggest(entryLine.Description)
		if err != nil {
			v.Logger.Warnf("tariff check: suggestion for line %d failed: %v", lineNumber, err)
			continue
		}

		lv := tariff.Evaluate(*entryLine, suggestion, tariff.StatusNotApplicable, tariff.StatusNotApplicable, tariff.StatusNotApplicable)
		verdicts = append(verdicts, LineVerdict{
			LineNumber:          lv.LineNumber,
			Description:         lv.Description,
			ExtractedTariffCode: lv.ExtractedTariffCode,
			ExtractedStatCode:   lv.ExtractedStatCode,
			SuggestedTariffCode: lv.SuggestedTariffCode,
			SuggestedStatCode:   lv.SuggestedStatCode,
			Status:              VerdictStatus(lv.Status),
			Assessment:          lv.Assessment,
			OtherSuggestedCodes: lv.OtherSuggestedCodes,
			ConcessionStatus:    VerdictStatus(lv.ConcessionStatus),
			QuantityStatus:      VerdictStatus(lv.QuantityStatus),
			GSTExemptionStatus:  VerdictStatus(lv.GSTExemptionStatus),
			OverallStatus:       VerdictStatus(lv.OverallStatus),
		})
	}

	sort.Slice(verdicts, func(i, j int) bool { return verdicts[i].LineNumber < verdicts[j].LineNumber })
	return verdicts
}
