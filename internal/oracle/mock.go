package oracle

import (
	"context"
	"encoding/json"
	"sync"
)

// CannedReply is a pre-recorded reply for the MockProvider.
type CannedReply struct {
	Content json.RawMessage
	Err     error
}

// MockProvider is a deterministic Provider for testing. It returns canned
// replies in FIFO order and records every prompt it receives.
type MockProvider struct {
	mu      sync.Mutex
	replies []CannedReply
	Prompts []Prompt
}

// NewMockProvider creates a MockProvider with the given canned replies.
func NewMockProvider(replies ...CannedReply) *MockProvider {
	return &MockProvider{replies: replies}
}

// Complete returns the next canned reply, or ErrUnavailable when the
// queue is empty.
func (m *MockProvider) Complete(_ context.Context, p Prompt) (*Reply, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Prompts = append(m.Prompts, p)

	if len(m.replies) == 0 {
		return nil, &ErrUnavailable{}
	}

	next := m.replies[0]
	m.replies = m.replies[1:]

	if next.Err != nil {
		return nil, next.Err
	}

	return &Reply{
		Content:    next.Content,
		Model:      "mock",
		StopReason: "end",
	}, nil
}

// ModelID returns "mock".
func (m *MockProvider) ModelID() string {
	return "mock"
}

// Queue appends a canned reply.
func (m *MockProvider) Queue(r CannedReply) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replies = append(m.replies, r)
}

// QueueText appends a canned plain-text reply.
func (m *MockProvider) QueueText(text string) {
	m.Queue(CannedReply{Content: json.RawMessage(text)})
}

// Calls returns the number of Complete calls made.
func (m *MockProvider) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Prompts)
}
