package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Phat0101/clearai-audit/internal/logging"
)

func TestClassifier_ReturnsModelsClassification(t *testing.T) {
	model := &fakeModel{responses: []fakeResponse{
		{content: `{"document_type":"entry_print"}`},
	}}
	c := &Classifier{Model: model, Retry: RetryPolicy{MaxAttempts: 1, BaseDelay: time.Millisecond}, Global: NewSemaphore(1), Logger: logging.NewDefault()}

	got := c.Classify(context.Background(), []byte("%PDF"), "x.pdf")

	assert.Equal(t, DocEntryPrint, got)
	assert.Equal(t, 1, model.calls)
}

func TestClassifier_FallsBackToOtherAfterExhaustedRetries(t *testing.T) {
	model := &fakeModel{responses: []fakeResponse{
		{err: errors.New("network blip")},
		{err: errors.New("network blip")},
	}}
	c := &Classifier{Model: model, Retry: RetryPolicy{MaxAttempts: 2, BaseDelay: time.Millisecond}, Global: NewSemaphore(1), Logger: logging.NewDefault()}

	got := c.Classify(context.Background(), []byte("%PDF"), "x.pdf")

	assert.Equal(t, DocOther, got)
	assert.Equal(t, 2, model.calls)
}

func TestClassifier_UnknownLabelFallsBackToOther(t *testing.T) {
	model := &fakeModel{responses: []fakeResponse{
		{content: `{"document_type":"not_a_real_type"}`},
	}}
	c := &Classifier{Model: model, Retry: RetryPolicy{MaxAttempts: 1, BaseDelay: time.Millisecond}, Global: NewSemaphore(1), Logger: logging.NewDefault()}

	got := c.Classify(context.Background(), []byte("%PDF"), "x.pdf")

	assert.Equal(t, DocOther, got)
}
