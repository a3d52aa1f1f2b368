package tariff

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluate_ExactMatchIsPass(t *testing.T) {
	line := LineItem{LineNumber: 1, Description: "widget", TariffCode: "8708.29.10", StatisticalCode: "01"}
	suggestion := Suggestion{TariffCode: "8708.29.10", StatisticalCode: "01"}

	v := Evaluate(line, suggestion, StatusPass, StatusPass, StatusPass)

	assert.Equal(t, StatusPass, v.Status)
	assert.Equal(t, StatusPass, v.OverallStatus)
}

func TestEvaluate_SixDigitMatchIsQuestionable(t *testing.T) {
	line := LineItem{LineNumber: 1, TariffCode: "870829.10", StatisticalCode: "01"}
	suggestion := Suggestion{TariffCode: "870829.99", StatisticalCode: "02"}

	v := Evaluate(line, suggestion, StatusPass, StatusPass, StatusPass)

	assert.Equal(t, StatusQuestionable, v.Status)
}

func TestEvaluate_NoMatchIsFail(t *testing.T) {
	line := LineItem{LineNumber: 1, TariffCode: "010101", StatisticalCode: "01"}
	suggestion := Suggestion{TariffCode: "999999", StatisticalCode: "99"}

	v := Evaluate(line, suggestion, StatusPass, StatusPass, StatusPass)

	assert.Equal(t, StatusFail, v.Status)
}

func TestEvaluate_OverallStatusIsWorstOfFour(t *testing.T) {
	line := LineItem{LineNumber: 1, TariffCode: "8708.29.10", StatisticalCode: "01"}
	suggestion := Suggestion{TariffCode: "8708.29.10", StatisticalCode: "01"}

	v := Evaluate(line, suggestion, StatusFail, StatusPass, StatusPass)
	assert.Equal(t, StatusPass, v.Status)
	assert.Equal(t, StatusFail, v.OverallStatus)
}

func TestMatchLines_PairsByLineNumber(t *testing.T) {
	entry := []LineItem{{LineNumber: 1}, {LineNumber: 2}}
	invoice := []LineItem{{LineNumber: 2}, {LineNumber: 3}}

	pairs := MatchLines(entry, invoice)

	assert.NotNil(t, pairs[1][0])
	assert.Nil(t, pairs[1][1])
	assert.NotNil(t, pairs[2][0])
	assert.NotNil(t, pairs[2][1])
	assert.Nil(t, pairs[3][0])
	assert.NotNil(t, pairs[3][1])
}
