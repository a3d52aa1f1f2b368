package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Phat0101/clearai-audit/internal/engine/schema"
	"github.com/Phat0101/clearai-audit/internal/logging"
)

func TestExtractor_InactiveTypeNeverCallsModel(t *testing.T) {
	model := &fakeModel{}
	e := &Extractor{Model: model, Retry: DefaultRetryPolicy(), Global: NewSemaphore(1), Logger: logging.NewDefault()}

	got := e.Extract(context.Background(), []byte("%PDF"), DocAirWaybill, "x.pdf")

	assert.Nil(t, got)
	assert.Equal(t, 0, model.calls)
}

func TestExtractor_EntryPrintReturnsParsedRecord(t *testing.T) {
	model := &fakeModel{responses: []fakeResponse{
		{content: `{"entry_number":"E123","line_items":[{"line_number":1,"description":"widget"}]}`},
	}}
	e := &Extractor{Model: model, Retry: RetryPolicy{MaxAttempts: 1, BaseDelay: time.Millisecond}, Global: NewSemaphore(1), Logger: logging.NewDefault()}

	got := e.Extract(context.Background(), []byte("%PDF"), DocEntryPrint, "x.pdf")

	require.NotNil(t, got)
	record, ok := got.(*schema.EntryPrintRecord)
	require.True(t, ok)
	assert.Equal(t, "E123", record.EntryNumber)
	require.Len(t, record.LineItems, 1)
	assert.Equal(t, "widget", record.LineItems[0].Description)
}

func TestExtractor_FallsBackToNullAfterExhaustedRetries(t *testing.T) {
	model := &fakeModel{responses: []fakeResponse{
		{err: errors.New("provider down")},
	}}
	e := &Extractor{Model: model, Retry: RetryPolicy{MaxAttempts: 1, BaseDelay: time.Millisecond}, Global: NewSemaphore(1), Logger: logging.NewDefault()}

	got := e.Extract(context.Background(), []byte("%PDF"), DocCommercialInvoice, "x.pdf")

	assert.Nil(t, got)
}
