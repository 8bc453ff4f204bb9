package tutor

import (
	"context"
	"fmt"
	"sync"
)

// MockProvider serves canned responses in FIFO order and records every
// request it receives. It backs tests and local development without an
// API key.
type MockProvider struct {
	mu        sync.Mutex
	responses []mockResponse
	calls     []Request
}

type mockResponse struct {
	resp *Response
	err  error
}

// NewMockProvider creates an empty mock provider.
func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

// AddResponse queues a successful response.
func (m *MockProvider) AddResponse(content string) *MockProvider {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, mockResponse{
		resp: &Response{
			Content:    content,
			Usage:      Usage{InputTokens: 10, OutputTokens: 20, TotalTokens: 30},
			Model:      "mock",
			StopReason: "end",
		},
	})
	return m
}

// AddError queues an error response.
func (m *MockProvider) AddError(err error) *MockProvider {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, mockResponse{err: err})
	return m
}

func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, req)

	if len(m.responses) == 0 {
		// Echo keeps the mock usable without any queued responses.
		last := ""
		if len(req.Messages) > 0 {
			last = req.Messages[len(req.Messages)-1].Content
		}
		return &Response{
			Content:    fmt.Sprintf("Let's work through that together. You asked: %s", last),
			Usage:      Usage{InputTokens: 10, OutputTokens: 20, TotalTokens: 30},
			Model:      "mock",
			StopReason: "end",
		}, nil
	}

	next := m.responses[0]
	m.responses = m.responses[1:]
	if next.err != nil {
		return nil, next.err
	}
	return next.resp, nil
}

func (m *MockProvider) ModelID() string { return "mock" }

// Calls returns a copy of every request seen so far.
func (m *MockProvider) Calls() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallCount returns how many Generate calls have been made.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}
