package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// MockReply is one scripted outcome of MockProvider.
type MockReply struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// MockProvider replays scripted replies in order and keeps the requests it
// saw. With an empty script it answers with Fallback, or fails when that
// is nil too. The "mock" provider key selects it for offline runs.
type MockProvider struct {
	mu       sync.Mutex
	script   []MockReply
	requests []Request

	// Fallback is returned once the script runs out.
	Fallback json.RawMessage
}

// NewMockProvider queues replies.
func NewMockProvider(replies ...MockReply) *MockProvider {
	return &MockProvider{script: replies}
}

// Reply queues a successful reply with the given JSON content.
func (m *MockProvider) Reply(content string) *MockProvider {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = append(m.script, MockReply{Content: json.RawMessage(content)})
	return m
}

// Fail queues an error reply.
func (m *MockProvider) Fail(err error) *MockProvider {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = append(m.script, MockReply{Err: err})
	return m
}

func (m *MockProvider) Name() string    { return ProviderMock }
func (m *MockProvider) ModelID() string { return "mock" }

func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	var next MockReply
	switch {
	case len(m.script) > 0:
		next = m.script[0]
		m.script = m.script[1:]
	case m.Fallback != nil:
		next = MockReply{Content: m.Fallback}
	default:
		next = MockReply{Err: &ErrProviderUnavailable{}}
	}
	m.mu.Unlock()

	if next.Err != nil {
		return nil, next.Err
	}
	return finish(req, next.Content, next.Usage, "mock", StopEnd)
}

// Requests returns a copy of the requests received so far.
func (m *MockProvider) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Request(nil), m.requests...)
}
