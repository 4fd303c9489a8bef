package model

import (
	"context"
	"fmt"
	"sync"

	"github.com/coursemate/coursemate/core"
)

// MockBackend is a lightweight in-memory Backend useful for tests & examples.
// Scripted responses are returned in FIFO order; when the script is empty a
// deterministic echo of the last user text is produced.
type MockBackend struct {
	mu        sync.Mutex
	info      Info
	script    []scripted
	responses map[string]string
	requests  []Request
}

type scripted struct {
	resp *Response
	err  error
}

// NewMockBackend constructs a MockBackend with tool support enabled.
func NewMockBackend(name string) *MockBackend {
	return &MockBackend{
		info:      Info{Name: name, Provider: "mock", SupportsTools: true},
		responses: make(map[string]string),
	}
}

// Enqueue appends a scripted response returned by a future Send call.
func (m *MockBackend) Enqueue(resp *Response) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = append(m.script, scripted{resp: resp})
}

// EnqueueError appends a scripted failure returned by a future Send call.
func (m *MockBackend) EnqueueError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = append(m.script, scripted{err: err})
}

// AddResponse registers a deterministic canned completion for an input prompt,
// used when no scripted response is queued.
func (m *MockBackend) AddResponse(prompt, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[prompt] = response
}

// Requests returns a copy of every request received so far.
func (m *MockBackend) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	reqs := make([]Request, len(m.requests))
	copy(reqs, m.requests)
	return reqs
}

// CallCount reports how many Send calls were made.
func (m *MockBackend) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// Send implements Backend.
func (m *MockBackend) Send(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)

	if len(m.script) > 0 {
		next := m.script[0]
		m.script = m.script[1:]
		if next.err != nil {
			return nil, next.err
		}
		return next.resp, nil
	}

	input := lastUserText(req.Messages)
	text, ok := m.responses[input]
	if !ok {
		text = fmt.Sprintf("Mock response to: %s", input)
	}
	return &Response{Text: text, StopReason: StopReasonEndTurn}, nil
}

// Info implements Backend.
func (m *MockBackend) Info() Info { return m.info }

func lastUserText(messages []core.Content) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == core.RoleUser {
			return messages[i].Text()
		}
	}
	return ""
}
