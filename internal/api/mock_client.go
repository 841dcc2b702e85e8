package api

import (
	"context"
	"sync"

	"github.com/diogo/groqchat/internal/models"
)

// MockClient is a mock implementation of CompletionClient for testing
type MockClient struct {
	mu sync.Mutex

	// Mock return values. Replies are consumed in order; once exhausted
	// Completion/Err are returned.
	Replies    []string
	Completion *models.Completion
	Err        error

	// CompleteFunc, when set, replaces the canned behaviour
	CompleteFunc func(ctx context.Context, req CompletionRequest) (*models.Completion, error)

	// Call recorders
	Calls    int
	Requests []CompletionRequest
}

// Ensure MockClient implements CompletionClient
var _ CompletionClient = (*MockClient)(nil)

// NewMockClient returns a mock that answers with replies in order
func NewMockClient(replies ...string) *MockClient {
	return &MockClient{Replies: replies}
}

// Complete records the request and returns the next canned reply
func (m *MockClient) Complete(ctx context.Context, req CompletionRequest) (*models.Completion, error) {
	m.mu.Lock()
	m.Calls++
	turns := make([]models.Turn, len(req.Turns))
	copy(turns, req.Turns)
	req.Turns = turns
	m.Requests = append(m.Requests, req)

	fn := m.CompleteFunc
	var reply *models.Completion
	if len(m.Replies) > 0 {
		reply = &models.Completion{Content: m.Replies[0], Model: req.Config.Model, FinishReason: "stop"}
		m.Replies = m.Replies[1:]
	}
	completion, err := m.Completion, m.Err
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, req)
	}
	if reply != nil {
		return reply, nil
	}
	return completion, err
}

// CallCount returns the number of Complete calls
func (m *MockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls
}

// LastRequest returns the most recent request, if any
func (m *MockClient) LastRequest() (CompletionRequest, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Requests) == 0 {
		return CompletionRequest{}, false
	}
	return m.Requests[len(m.Requests)-1], true
}
