package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/Phat0101/clearai-audit/internal/llmtypes"
)

// fakeModel is a scripted llmtypes.Model for engine tests: it returns a
// queued response (or error) per call, in order. Calls are made
// concurrently by C7's two invocations, so access to the call counter is
// synchronized.
type fakeModel struct {
	mu        sync.Mutex
	responses []fakeResponse
	calls     int
}

type fakeResponse struct {
	content string
	err     error
}

func (m *fakeModel) GenerateContent(ctx context.Context, messages []llmtypes.MessageContent, options ...llmtypes.CallOption) (*llmtypes.ContentResponse, error) {
	m.mu.Lock()
	if m.calls >= len(m.responses) {
		m.mu.Unlock()
		return nil, fmt.Errorf("fakeModel: no scripted response for call %d", m.calls)
	}
	resp := m.responses[m.calls]
	m.calls++
	m.mu.Unlock()

	if resp.err != nil {
		return nil, resp.err
	}
	return &llmtypes.ContentResponse{
		Choices: []*llmtypes.ContentChoice{{Content: resp.content}},
	}, nil
}
