// Package tariff implements the Batch Validator's optional line-item
// check. The tariff-classification agent itself is an external
// collaborator described only by its interface: this package does not
// implement a classification model, only the matching and
// status-derivation logic around one.
package tariff

import "strings"

// LineItem is the minimal shape both EntryPrint and CommercialInvoice line
// items share for tariff matching.
type LineItem struct {
	LineNumber      int
	Description     string
	TariffCode      string
	StatisticalCode string
}

// Suggestion is what an external tariff-classification agent returns for
// one line item.
type Suggestion struct {
	TariffCode         string
	StatisticalCode    string
	OtherSuggestedCodes []string
}

// Classifier is the external tariff-classification agent's interface.
// Implementations call out to whatever system holds the tariff schedule;
// this package only consumes the interface.
type Classifier interface {
	Suggest(description string) (Suggestion, error)
}

// Status mirrors engine.VerdictStatus without importing the engine
// package, avoiding an import cycle (engine imports tariff, not the
// reverse).
type Status string

const (
	StatusPass        Status = "PASS"
	StatusFail        Status = "FAIL"
	StatusQuestionable Status = "QUESTIONABLE"
	StatusNotApplicable Status = "N/A"
)

// LineVerdict is one matched line's outcome.
type LineVerdict struct {
	LineNumber          int
	Description         string
	ExtractedTariffCode string
	ExtractedStatCode   string
	SuggestedTariffCode string
	SuggestedStatCode   string
	Status              Status
	Assessment          string
	OtherSuggestedCodes []string
	ConcessionStatus    Status
	QuantityStatus      Status
	GSTExemptionStatus  Status
	OverallStatus       Status
}

// MatchLines pairs entry-print and commercial-invoice line items by line
// number.
func MatchLines(entryLines, invoiceLines []LineItem) map[int][2]*LineItem {
	pairs := make(map[int][2]*LineItem)
	for i := range entryLines {
		line := entryLines[i]
		pair := pairs[line.LineNumber]
		pair[0] = &entryLines[i]
		pairs[line.LineNumber] = pair
	}
	for i := range invoiceLines {
		line := invoiceLines[i]
		pair := pairs[line.LineNumber]
		pair[1] = &invoiceLines[i]
		pairs[line.LineNumber] = pair
	}
	return pairs
}

// Evaluate derives a LineVerdict for one matched entry-print line against
// a tariff-classification suggestion, plus independent concession/
// quantity/GST sub-check statuses. Codes are compared after
// NormalizeCode. An exact HS+stat match is PASS; a first-six-digit HS
// match is QUESTIONABLE; otherwise FAIL. overall_status is the worst of
// the four.
func Evaluate(line LineItem, suggestion Suggestion, concession, quantity, gstExemption Status) LineVerdict {
	status, assessment := matchStatus(line.TariffCode, line.StatisticalCode, suggestion.TariffCode, suggestion.StatisticalCode)

	v := LineVerdict{
		LineNumber:           line.LineNumber,
		Description:          line.Description,
		ExtractedTariffCode:  line.TariffCode,
		ExtractedStatCode:    line.StatisticalCode,
		SuggestedTariffCode:  suggestion.TariffCode,
		SuggestedStatCode:    suggestion.StatisticalCode,
		Status:               status,
		Assessment:           assessment,
		OtherSuggestedCodes:  suggestion.OtherSuggestedCodes,
		ConcessionStatus:     concession,
		QuantityStatus:       quantity,
		GSTExemptionStatus:   gstExemption,
	}
	v.OverallStatus = worstOf(status, concession, quantity, gstExemption)
	return v
}

func matchStatus(extractedTariff, extractedStat, suggestedTariff, suggestedStat string) (Status, string) {
	extractedTariff, extractedStat = NormalizeCode(extractedTariff), NormalizeCode(extractedStat)
	suggestedTariff, suggestedStat = NormalizeCode(suggestedTariff), NormalizeCode(suggestedStat)
	if extractedTariff == suggestedTariff && extractedStat == suggestedStat {
		return StatusPass, "extracted tariff and statistical codes match the suggested classification exactly"
	}
	if len(extractedTariff) >= 6 && len(suggestedTariff) >= 6 && extractedTariff[:6] == suggestedTariff[:6] {
		return StatusQuestionable, "tariff codes agree on the first six digits but diverge on sub-heading or statistical code"
	}
	return StatusFail, "extracted tariff classification does not match the suggested classification"
}

// worstOf returns the worst status among the given statuses, ranked
// FAIL > QUESTIONABLE > PASS. N/A ranks with PASS, so a sub-check with
// nothing to evaluate does not lower the overall status.
func worstOf(statuses ...Status) Status {
	rank := func(s Status) int {
		switch s {
		case StatusFail:
			return 2
		case StatusQuestionable:
			return 1
		default:
			return 0
		}
	}
	worst := StatusPass
	for _, s := range statuses {
		if rank(s) > rank(worst) {
			worst = s
		}
	}
	return worst
}

// NormalizeCode strips whitespace/punctuation commonly present in
// hand-keyed tariff codes so comparisons aren't defeated by formatting.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.Join(strings.Fields(strings.ReplaceAll(code, ".", "")), ""))
}
