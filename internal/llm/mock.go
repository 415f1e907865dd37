package llm

import (
	"context"
	"sync"
)

// MockClient is a test double for Client. It records every request.
type MockClient struct {
	ProviderName string
	CompleteFunc func(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	mu       sync.Mutex
	requests []CompletionRequest
}

func (m *MockClient) Name() string { return m.ProviderName }

func (m *MockClient) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, req)
	}
	return &CompletionResponse{Content: "mock response"}, nil
}

// Calls returns the number of Complete calls made so far.
func (m *MockClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// Requests returns a copy of the recorded requests.
func (m *MockClient) Requests() []CompletionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]CompletionRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

// LastPrompt returns the user content of the most recent request.
func (m *MockClient) LastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return ""
	}
	msgs := m.requests[len(m.requests)-1].Messages
	if len(msgs) == 0 {
		return ""
	}
	return msgs[len(msgs)-1].Content
}

// Replies returns a CompleteFunc that answers with each reply in turn and
// repeats the last one once exhausted.
func Replies(replies ...string) func(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	var mu sync.Mutex
	i := 0
	return func(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
		mu.Lock()
		defer mu.Unlock()
		if len(replies) == 0 {
			return &CompletionResponse{}, nil
		}
		r := replies[min(i, len(replies)-1)]
		i++
		return &CompletionResponse{Content: r}, nil
	}
}
