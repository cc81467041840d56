package testutils

import (
	"context"
	"sync"

	"github.com/papercomputeco/aitranslate/pkg/llm"
)

// MockBackend is a test model backend that records requests and answers
// with a canned reply.
type MockBackend struct {
	// Reply is returned as the assistant text of every response.
	Reply string

	// Err, when set, is returned instead of a response.
	Err error

	mu       sync.Mutex
	requests []*llm.ChatRequest
}

func NewMockBackend(reply string) *MockBackend {
	return &MockBackend{Reply: reply}
}

func (m *MockBackend) Name() string {
	return "mock"
}

func (m *MockBackend) Complete(_ context.Context, req *llm.ChatRequest) (*llm.ChatResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, req)
	if m.Err != nil {
		return nil, m.Err
	}

	return &llm.ChatResponse{
		Model:   req.Model,
		Message: llm.NewTextMessage("assistant", m.Reply),
	}, nil
}

// Requests returns every request received so far.
func (m *MockBackend) Requests() []*llm.ChatRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*llm.ChatRequest(nil), m.requests...)
}

// LastPrompt returns the prompt text of the most recent request, or "" when
// none was received.
func (m *MockBackend) LastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return ""
	}
	return m.requests[len(m.requests)-1].Messages[0].GetText()
}
